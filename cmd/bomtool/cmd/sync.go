package cmd

import (
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/diag"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/logging"
)

func newSyncCmd(app *App) *cobra.Command {
	f := &ioFlags{}
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Copy a BOM from one spreadsheet or design to another",
		Long: `Read a BOM from a spreadsheet (-i) or a design (-I SCH,BRD) and write it
to a spreadsheet (-o) or a design (-O SCH,BRD).

Without -V the master BOM is written: every variant with its rule. With -V
the rules are applied for the listed variants; -V "" selects the base build.
Writing a design for a build also sets the fabrication attributes POPULATE,
MPN, MF and BOM_VARIANTS.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep := diag.NewReport()
			defer printReport(cmd.ErrOrStderr(), rep)

			b, err := readBOM(f, rep)
			if err != nil {
				return err
			}

			sel := f.selection(cmd)
			logger := logging.Get("sync")
			if sel == nil {
				logger.Info().Msg("extracting master BOM for all variants")
			} else {
				logger.Info().Strs("variants", sel.Names()).Msg("extracting BOM for variants")
			}

			w, err := f.writer(app.Config)
			if err != nil {
				return err
			}
			return b.Write(w, sel, rep)
		},
	}

	f.addInput(cmd)
	f.addOutput(cmd)
	f.addVariants(cmd)
	cmd.Flags().BoolP("separate", "s", false, "one designator per spreadsheet row")
	cmd.Flags().BoolP("eagle-value", "e", false, "add the CAD value and package columns")
	cmd.Flags().StringSlice("supplier-mpn", nil, "suppliers whose part number is used as MPN (default macrofab)")
	return cmd
}
