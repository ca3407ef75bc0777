package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/cad"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <SCH> <BRD>",
		Short: "Show which designators of a design carry BOM data",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := cad.OpenDesign(args[0], args[1])
			if err != nil {
				return err
			}
			s, err := cad.Summarize(d)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), args[1], s)
			return nil
		},
	}
}

func printSummary(w io.Writer, name string, s *cad.Summary) {
	fmt.Fprintf(w, "Design: %s\n", name)
	fmt.Fprintf(w, "Designators: %d\n", len(s.Designators))
	fmt.Fprintf(w, "  With BOM data: %d\n", len(s.Grouped))
	fmt.Fprintf(w, "  Legacy attributes only: %d\n", len(s.Legacy))
	fmt.Fprintf(w, "  Without BOM data: %d\n", len(s.Bare))
	fmt.Fprintf(w, "  With fabrication data: %d\n", len(s.Fab))

	var counts []int
	for n := range s.Variants {
		if n > 0 {
			counts = append(counts, n)
		}
	}
	sort.Ints(counts)
	if len(counts) > 0 {
		fmt.Fprintln(w, "Variants per designator:")
		for _, n := range counts {
			fmt.Fprintf(w, "  %d: %d\n", n, s.Variants[n])
		}
	}

	printByPrefix(w, "Legacy", s.Legacy)
	printByPrefix(w, "Missing", s.Bare)
}

// printByPrefix lists designators grouped by their letter prefix
func printByPrefix(w io.Writer, title string, desigs []string) {
	if len(desigs) == 0 {
		return
	}
	byPrefix := make(map[string][]string)
	for _, d := range desigs {
		p := refPrefix(d)
		byPrefix[p] = append(byPrefix[p], d)
	}
	var prefixes []string
	for p := range byPrefix {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)

	fmt.Fprintf(w, "%s:\n", title)
	for _, p := range prefixes {
		refs := byPrefix[p]
		sort.Sort(natural.StringSlice(refs))
		fmt.Fprintf(w, "  %s: %s\n", p, strings.Join(refs, ", "))
	}
}

// refPrefix returns the letters before the first digit
func refPrefix(ref string) string {
	for i, c := range ref {
		if c >= '0' && c <= '9' {
			return ref[:i]
		}
	}
	return ref
}
