package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/warp/recovery-ledger/emissions"
)

func newRecordCmd(a *app) *cobra.Command {
	var (
		date        string
		refrigerant string
		weight      string
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Log one recovery event (Data Entry)",
		Example: `  recovery record --refrigerant R-410A --weight 4.2
  recovery record --date 2024-05-02 --refrigerant R-22 --weight 6`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day := emissions.Today()
			if date != "" {
				d, err := emissions.ParseDate(date)
				if err != nil {
					return err
				}
				day = d
			}

			kg, err := decimal.NewFromString(weight)
			if err != nil {
				return fmt.Errorf("invalid weight %q: %w", weight, err)
			}

			ledger, closer, err := a.openLedger(nil)
			if err != nil {
				return err
			}
			defer closer.Close()

			entry, err := ledger.Record(cmd.Context(), day, emissions.Refrigerant(refrigerant), kg)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), entry.SavedMessage())
			return err
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date of recovery, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&refrigerant, "refrigerant", "", "refrigerant type, e.g. R-134a")
	cmd.Flags().StringVar(&weight, "weight", "0", "weight recovered in kg")
	_ = cmd.MarkFlagRequired("refrigerant")
	return cmd
}
