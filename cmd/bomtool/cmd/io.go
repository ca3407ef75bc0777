package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/cad"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/diag"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/sheet"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/variant"
)

// ioFlags are the source, destination and variant flags
type ioFlags struct {
	in        string
	inDesign  []string
	out       string
	outDesign []string
	variants  string
}

func (f *ioFlags) addInput(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.in, "in", "i", "", "read a spreadsheet (.csv, .xlsx)")
	cmd.Flags().StringSliceVarP(&f.inDesign, "in-design", "I", nil, "read attributes from a design, as SCH,BRD")
	cmd.MarkFlagsMutuallyExclusive("in", "in-design")
	cmd.MarkFlagsOneRequired("in", "in-design")
}

func (f *ioFlags) addOutput(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "write a spreadsheet (.csv, .xlsx)")
	cmd.Flags().StringSliceVarP(&f.outDesign, "out-design", "O", nil, "write attributes into a design, as SCH,BRD")
	cmd.MarkFlagsMutuallyExclusive("out", "out-design")
	cmd.MarkFlagsOneRequired("out", "out-design")
}

func (f *ioFlags) addVariants(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.variants, "variants", "V", "", `variant flags, comma separated ("" for the base build)`)
}

// selection is nil unless -V was given
func (f *ioFlags) selection(cmd *cobra.Command) *variant.Selection {
	if !cmd.Flags().Changed("variants") {
		return nil
	}
	return variant.ParseSelection(f.variants)
}

func (f *ioFlags) reader() (bom.Reader, error) {
	if f.in != "" {
		r, err := sheet.NewReader(f.in)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	sch, brd, err := designPair("in-design", f.inDesign)
	if err != nil {
		return nil, err
	}
	r, err := cad.NewReader(sch, brd)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (f *ioFlags) writer(cfg *Config) (bom.Writer, error) {
	if f.out != "" {
		w, err := sheet.NewWriter(f.out, !cfg.Separate, cfg.EagleValue)
		if err != nil {
			return nil, err
		}
		return w, nil
	}
	sch, brd, err := designPair("out-design", f.outDesign)
	if err != nil {
		return nil, err
	}
	w, err := cad.NewWriter(sch, brd, cfg.SupplierMPN)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func designPair(flag string, files []string) (string, string, error) {
	if len(files) != 2 {
		return "", "", fmt.Errorf("--%s takes two files, SCH,BRD (got %d)", flag, len(files))
	}
	return files[0], files[1], nil
}

// readBOM reads the input selected by f
func readBOM(f *ioFlags, rep *diag.Report) (*bom.BOM, error) {
	r, err := f.reader()
	if err != nil {
		return nil, err
	}
	b := bom.New()
	if err := b.Read(r, rep); err != nil {
		return nil, err
	}
	return b, nil
}
