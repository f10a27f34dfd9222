// Command joistsel verifies concrete elements and picks floor joists from
// manufacturer span tables without running the server.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Concreteflow/internal/logging"
)

type app struct {
	log      *zap.Logger
	logLevel string
	asJSON   bool
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}
	root := &cobra.Command{
		Use:   "joistsel",
		Short: "Structural verification and joist selection",
		Long: `Verify a reinforced concrete element against EC2, ACI 318 or BAEL 91
and select a prefabricated joist from a span table (YAML or xlsx).

Subcommands:
  verify   - run flexion, deflection and shear checks
  select   - pick a joist for a span and a load
  norms    - list the design codes
  catalog  - store span tables in Postgres
  useradd  - create a login for the HTTP API`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.New(a.logLevel, true)
			if err != nil {
				return err
			}
			a.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.log.Sync()
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "print JSON instead of text")

	root.AddCommand(
		newVerifyCmd(a),
		newSelectCmd(a),
		newNormsCmd(a),
		newCatalogCmd(a),
		newUserAddCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
