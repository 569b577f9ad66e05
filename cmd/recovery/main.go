/*
main.go - Application entry point

PURPOSE:
  Runs the recovery command: the refrigerant recovery emissions ledger.
  All commands, configuration and wiring live in package cli.

EXAMPLES:
  # Log a recovery to ./data.csv
  recovery record --refrigerant R-134a --weight 10

  # Terminal dashboard
  recovery dashboard

  # JSON API backed by SQLite
  recovery serve --backend sqlite --data ./recovery.db

  # In-memory API for demos
  recovery serve --backend memory

ENVIRONMENT:
  RECOVERY_PORT, RECOVERY_STORE_BACKEND, RECOVERY_STORE_PATH,
  RECOVERY_LOG_LEVEL, RECOVERY_LOG_FORMAT

SEE ALSO:
  - cli/root.go: Command tree and configuration precedence
  - api/server.go: Router configuration
*/
package main

import (
	"fmt"
	"os"

	"github.com/warp/recovery-ledger/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	root := cli.NewRootCmd(version)
	root.SetArgs(args)
	return root.Execute()
}
