package kicadsexp

import (
	"bufio"
	"io"
	"strings"
)

// Write renders s the way KiCad formats its files: a list made only of atoms
// stays on one line, any other list puts each child list on its own line,
// indented by one tab per level.
func Write(w io.Writer, s Sexp) error {
	bw := bufio.NewWriter(w)
	writeIndented(bw, s, 0)
	bw.WriteByte('\n')
	return bw.Flush()
}

// Format returns s as Write would write it
func Format(s Sexp) string {
	var sb strings.Builder
	Write(&sb, s)
	return sb.String()
}

func writeIndented(w *bufio.Writer, s Sexp, depth int) {
	list, ok := s.(*List)
	if !ok || flat(list) {
		w.WriteString(s.String())
		return
	}

	w.WriteByte('(')
	for i, item := range list.Items {
		if _, isList := item.(*List); isList {
			w.WriteByte('\n')
			w.WriteString(strings.Repeat("\t", depth+1))
			writeIndented(w, item, depth+1)
			continue
		}
		if i > 0 {
			w.WriteByte(' ')
		}
		w.WriteString(item.String())
	}
	w.WriteByte('\n')
	w.WriteString(strings.Repeat("\t", depth))
	w.WriteByte(')')
}

// flat reports whether a list holds atoms only
func flat(l *List) bool {
	for _, item := range l.Items {
		if _, ok := item.(*List); ok {
			return false
		}
	}
	return true
}
