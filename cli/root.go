/*
Package cli implements the recovery command.

COMMANDS:
  serve         Run the HTTP API
  record        Data Entry: log one recovery
  dashboard     Totals, charts and entries (--json for machine output)
  entries       Raw log
  refrigerants  Reference table
  scenarios     List or load demo data sets

CONFIGURATION PRECEDENCE (lowest to highest):
  1. Built-in defaults
  2. recovery.yaml (or --config)
  3. RECOVERY_* environment variables
  4. Persistent flags: --backend, --data, --log-level, --reference

  Validation runs once, after flags are applied, so a flag can repair an
  invalid file or environment value.

SEE ALSO:
  - config/config.go: file layout and env names
  - cmd/recovery/main.go: entry point
*/
package cli

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/warp/recovery-ledger/config"
	"github.com/warp/recovery-ledger/emissions"
	"github.com/warp/recovery-ledger/emissions/store"
	"github.com/warp/recovery-ledger/logging"
	"github.com/warp/recovery-ledger/metrics"
	"github.com/warp/recovery-ledger/store/csvlog"
	"github.com/warp/recovery-ledger/store/sqlite"
)

// app carries state shared by all subcommands for one invocation.
type app struct {
	configPath string
	logLevel   string
	backend    string
	dataPath   string
	reference  string

	cfg config.Config
	log zerolog.Logger
}

// NewRootCmd builds the recovery command tree.
func NewRootCmd(version string) *cobra.Command {
	a := &app{log: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:           "recovery",
		Short:         "Refrigerant recovery emissions ledger",
		Long:          "Log recovered refrigerant, price it in CO2e and carbon credits, and report totals.",
		Version:       version,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath, "config file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&a.backend, "backend", "", "store backend (csv, sqlite, memory)")
	cmd.PersistentFlags().StringVar(&a.dataPath, "data", "", "data file for the csv or sqlite backend")
	cmd.PersistentFlags().StringVar(&a.reference, "reference", "", "GWP reference table file (YAML or JSON)")

	cmd.AddCommand(
		newServeCmd(a),
		newRecordCmd(a),
		newDashboardCmd(a),
		newEntriesCmd(a),
		newRefrigerantsCmd(a),
		newScenariosCmd(a),
	)
	return cmd
}

const rootCmdExample = `  # Log 10 kg of R-134a recovered today
  recovery record --refrigerant R-134a --weight 10

  # Show the dashboard
  recovery dashboard

  # Serve the JSON API on port 3000 backed by SQLite
  recovery serve --port 3000 --backend sqlite --data recovery.db`

// setup loads config, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Store.Backend = a.backend
	}
	if flags.Changed("data") {
		cfg.Store.Path = a.dataPath
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("reference") {
		cfg.ReferenceFile = a.reference
		cfg.ReferenceTable = nil
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logging.New(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	return nil
}

// openStore opens the configured backend. The returned closer is never nil.
func (a *app) openStore() (emissions.Store, io.Closer, error) {
	switch a.cfg.Store.Backend {
	case config.BackendCSV:
		s, err := csvlog.New(a.cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.BackendSQLite:
		s, err := sqlite.New(a.cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.BackendMemory:
		return store.NewMemory(), io.NopCloser(nil), nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", a.cfg.Store.Backend)
	}
}

// openLedger wires store, reference table and observer into a Ledger.
func (a *app) openLedger(rec *metrics.Recorder) (*emissions.Ledger, io.Closer, error) {
	table, err := a.cfg.Reference()
	if err != nil {
		return nil, nil, err
	}

	st, closer, err := a.openStore()
	if err != nil {
		return nil, nil, err
	}

	opts := []emissions.LedgerOption{emissions.WithLogger(logging.Component(a.log, "ledger"))}
	if rec != nil {
		opts = append(opts, emissions.WithObserver(rec))
	}

	a.log.Debug().
		Str("backend", a.cfg.Store.Backend).
		Str("path", a.cfg.Store.Path).
		Int("refrigerants", table.Len()).
		Msg("ledger opened")

	return emissions.NewLedger(st, table, opts...), closer, nil
}
