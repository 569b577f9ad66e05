package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/warp/recovery-ledger/api"
	"github.com/warp/recovery-ledger/factory"
	"github.com/warp/recovery-ledger/report"
)

func newDashboardCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show totals, CO2e by refrigerant, weight shares and entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ledger, closer, err := a.openLedger(nil)
			if err != nil {
				return err
			}
			defer closer.Close()

			view, entries, err := ledger.Dashboard(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(api.NewDashboardDTO(view, entries))
			}
			return report.Dashboard(cmd.OutOrStdout(), view, entries)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the dashboard as JSON")
	return cmd
}

func newEntriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "entries",
		Short: "List every logged entry in insertion order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ledger, closer, err := a.openLedger(nil)
			if err != nil {
				return err
			}
			defer closer.Close()

			entries, err := ledger.Entries(cmd.Context())
			if err != nil {
				return err
			}
			return report.Entries(cmd.OutOrStdout(), entries)
		},
	}
}

func newRefrigerantsCmd(a *app) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "refrigerants",
		Short: "Show the GWP reference table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := a.cfg.Reference()
			if err != nil {
				return err
			}
			if asYAML {
				data, err := factory.MarshalReferenceTable(table)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return report.Refrigerants(cmd.OutOrStdout(), table)
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the table in reference file format")
	return cmd
}
