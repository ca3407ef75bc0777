package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/diag"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/variant"
)

func newCheckCmd() *cobra.Command {
	f := &ioFlags{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a BOM without writing anything",
		Long: `Read a BOM and report every problem found in it. Rules that don't parse
are reported instead of stopping the run. With -V the rules are applied and
every designator must be left with exactly one variant.

The exit status is non-zero only for errors that would stop sync.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep := diag.NewReport()
			defer printReport(cmd.ErrOrStderr(), rep)

			b, err := readBOM(f, rep)
			if err != nil {
				return err
			}
			// The spreadsheet reader already reports bad rules
			ruleRep := rep
			if f.in != "" {
				ruleRep = nil
			}
			ok := checkRules(b, ruleRep)
			if sel := f.selection(cmd); sel != nil && ok {
				if err := checkBuild(b, sel, rep); err != nil {
					return err
				}
			}

			variants := 0
			for _, p := range b.Parts() {
				variants += len(p.Variants)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d designators, %d variants, %d warnings\n", b.Len(), variants, rep.Len())
			return nil
		},
	}

	f.addInput(cmd)
	f.addVariants(cmd)
	return cmd
}

// checkRules reports every rule that doesn't parse to rep, which may be nil
func checkRules(b *bom.BOM, rep *diag.Report) bool {
	ok := true
	for _, p := range b.Parts() {
		for _, v := range p.Variants {
			if err := variant.Validate(v.Rule); err != nil {
				rep.Warn(diag.KindRuleSyntax, []string{p.Desig}, "%v", err)
				ok = false
			}
		}
	}
	return ok
}

// checkBuild resolves b for sel and reports designators left with no
// variant or more than one
func checkBuild(b *bom.BOM, sel *variant.Selection, rep *diag.Report) error {
	resolved, err := b.Resolve(sel, rep)
	if err != nil {
		return err
	}
	var dropped []string
	for _, desig := range b.Designators() {
		p, ok := resolved.Part(desig)
		switch {
		case !ok:
			dropped = append(dropped, desig)
		case len(p.Variants) > 1:
			rep.Warn(diag.KindVariantCount, []string{desig}, "%d variants left for build %q", len(p.Variants), sel.String())
		}
	}
	if len(dropped) > 0 {
		rep.Warn(diag.KindVariantCount, dropped, "every variant excluded for build %q", sel.String())
	}
	return nil
}
