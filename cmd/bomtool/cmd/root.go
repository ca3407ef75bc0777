package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/logging"
)

// App carries what the subcommands share once flags are parsed
type App struct {
	Config *Config
}

// NewRootCmd builds the bomtool command tree
func NewRootCmd() *cobra.Command {
	app := &App{}

	rootCmd := &cobra.Command{
		Use:   "bomtool",
		Short: "Synchronize a BOM between spreadsheets and CAD files and manage variants",
		Long: `bomtool moves bill-of-materials data between spreadsheets (.csv, .xlsx)
and the attributes of CAD designs (Eagle .sch/.brd, KiCad .kicad_sch/.kicad_pcb).

Every designator can have several variants, each gated by a rule such as
"only(cryo)", "exclude(not cryo)" or "dnp(lab and not rev2)". Without -V the
master BOM with every variant is written; with -V the rules are applied for
that build.

Examples:
  bomtool sync -i bom.csv -O board.sch,board.brd        # inject into Eagle
  bomtool sync -I board.sch,board.brd -o bom.xlsx       # extract master BOM
  bomtool sync -i bom.xlsx -o cryo.csv -V cryo          # BOM for one build
  bomtool check -i bom.csv -V cryo                      # validate only
  bomtool values mpn board.kicad_sch board.kicad_pcb    # MPN into values`,
		Version:       "0.3.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(cmd)
			if err != nil {
				return err
			}
			app.Config = cfg
			logging.SetupWriter(cmd.ErrOrStderr(), cfg.Verbosity, cfg.LogFormat)
			return nil
		},
	}

	rootCmd.PersistentFlags().CountP("verbose", "v", "more output, repeat for debug (-vv) and trace (-vvv)")
	rootCmd.PersistentFlags().String("config", "", "config file (default .bomtool.yaml in . or $HOME)")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console or json")

	rootCmd.AddCommand(
		newSyncCmd(app),
		newCheckCmd(),
		newShowCmd(),
		newValuesCmd(),
		newInfoCmd(),
	)
	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
