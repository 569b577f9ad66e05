package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/warp/recovery-ledger/api"
)

func newScenariosCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List or load demo data sets",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List demo data sets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tENTRIES\tDESCRIPTION")
			for _, s := range api.Scenarios() {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", s.ID, s.Entries, s.Description)
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "load <id>",
		Short: "Append a demo data set to the log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, closer, err := a.openLedger(nil)
			if err != nil {
				return err
			}
			defer closer.Close()

			n, err := api.LoadScenario(cmd.Context(), ledger, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Loaded scenario %s: %d entries appended\n", args[0], n)
			return err
		},
	})

	return cmd
}
