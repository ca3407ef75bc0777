package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/diag"
)

type reportStyles struct {
	title  lipgloss.Style
	kind   lipgloss.Style
	desigs lipgloss.Style
}

func newReportStyles(w io.Writer) reportStyles {
	if !useColor(w) {
		plain := lipgloss.NewStyle()
		return reportStyles{title: plain, kind: plain, desigs: plain}
	}
	r := lipgloss.NewRenderer(w)
	return reportStyles{
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#AF5F00", Dark: "#FFAF5F"}),
		kind:   r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#875F00", Dark: "#FFD75F"}),
		desigs: r.NewStyle().Faint(true),
	}
}

// useColor is true for terminals, unless NO_COLOR is set
func useColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// printReport writes the grouped warnings, nothing when there are none
func printReport(w io.Writer, rep *diag.Report) {
	groups := rep.Groups()
	if len(groups) == 0 {
		return
	}
	s := newReportStyles(w)

	noun := "warnings"
	if rep.Len() == 1 {
		noun = "warning"
	}
	fmt.Fprintln(w, s.title.Render(fmt.Sprintf("%d %s", rep.Len(), noun)))
	for _, g := range groups {
		line := s.kind.Render("["+string(g.Kind)+"]") + " " + g.Message
		if len(g.Designators) > 0 {
			line += ": " + s.desigs.Render(strings.Join(g.Designators, " "))
		}
		fmt.Fprintln(w, "  "+line)
	}
}
