package cmd

import (
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/cad"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/diag"
)

func newValuesCmd() *cobra.Command {
	valuesCmd := &cobra.Command{
		Use:   "values",
		Short: "Rewrite element values in a design",
		Long: `Some assembly houses match parts by their value instead of by attribute.
These commands rewrite the value of every element in both files.`,
	}

	mpnCmd := &cobra.Command{
		Use:   "mpn <SCH> <BRD>",
		Short: "Set values to the manufacturer part number",
		Long: `Set every element's value to its MPN attribute, or to DO_NOT_POPULATE
when it isn't populated. Designs without fabrication attributes fall back to
BOM_PART and BOM_NOTES.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := cad.OpenDesign(args[0], args[1])
			if err != nil {
				return err
			}
			rep := diag.NewReport()
			defer printReport(cmd.ErrOrStderr(), rep)
			return cad.SetValuesFromMPN(d, rep)
		},
	}

	stripCmd := &cobra.Command{
		Use:   "strip <SCH> <BRD>",
		Short: "Clear all values",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := cad.OpenDesign(args[0], args[1])
			if err != nil {
				return err
			}
			return cad.StripValues(d)
		},
	}

	valuesCmd.AddCommand(mpnCmd, stripCmd)
	return valuesCmd
}
