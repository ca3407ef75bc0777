package cmd

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/diag"
)

type partView struct {
	Designator string        `yaml:"designator"`
	Variants   []variantView `yaml:"variants"`
}

type variantView struct {
	Rule         string `yaml:"rule,omitempty"`
	DNP          bool   `yaml:"dnp,omitempty"`
	Package      string `yaml:"package,omitempty"`
	Description  string `yaml:"description,omitempty"`
	Manufacturer string `yaml:"manufacturer,omitempty"`
	Part         string `yaml:"part,omitempty"`
	Supplier     string `yaml:"supplier,omitempty"`
	SupplierPart string `yaml:"supplier_part,omitempty"`
	Notes        string `yaml:"notes,omitempty"`
	Alternatives string `yaml:"alternatives,omitempty"`
	Status       string `yaml:"status,omitempty"`
	CADValue     string `yaml:"cad_value,omitempty"`
	CADPackage   string `yaml:"cad_package,omitempty"`
}

func newVariantView(v bom.Variant) variantView {
	i := v.Info
	return variantView{
		Rule:         v.Rule,
		DNP:          i.DNP,
		Package:      i.Package,
		Description:  i.Description,
		Manufacturer: i.Manufacturer,
		Part:         i.Part,
		Supplier:     i.Supplier,
		SupplierPart: i.SupplierPart,
		Notes:        i.Notes,
		Alternatives: i.Alternatives,
		Status:       i.Status,
		CADValue:     i.EagleValue,
		CADPackage:   i.EaglePackage,
	}
}

// viewBOM lists the parts in natural designator order
func viewBOM(b *bom.BOM) []partView {
	views := make([]partView, 0, b.Len())
	for _, desig := range b.Designators() {
		p, _ := b.Part(desig)
		pv := partView{Designator: desig}
		for _, v := range p.Variants {
			pv.Variants = append(pv.Variants, newVariantView(v))
		}
		views = append(views, pv)
	}
	return views
}

func newShowCmd() *cobra.Command {
	f := &ioFlags{}
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the aggregated BOM as YAML or JSON",
		Long: `Read a BOM and print every designator with its variants. With -V the
rules are applied first and only what that build uses is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []yaml.EncodeOption
			switch format {
			case "yaml":
				opts = append(opts, yaml.Indent(2), yaml.IndentSequence(false))
			case "json":
				opts = append(opts, yaml.JSON())
			default:
				return fmt.Errorf("unknown format %q, expected yaml or json", format)
			}

			rep := diag.NewReport()
			defer printReport(cmd.ErrOrStderr(), rep)

			b, err := readBOM(f, rep)
			if err != nil {
				return err
			}
			if sel := f.selection(cmd); sel != nil {
				if b, err = b.Resolve(sel, rep); err != nil {
					return err
				}
			}

			out, err := yaml.MarshalWithOptions(viewBOM(b), opts...)
			if err != nil {
				return fmt.Errorf("show: encode: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	f.addInput(cmd)
	f.addVariants(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	return cmd
}
