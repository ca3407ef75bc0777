// Package kicadsexp reads, edits and writes the S-expression files used by
// KiCad 6 and later. Quoted strings stay distinct from bare symbols so a
// file can be written back the way KiCad expects it.
package kicadsexp

import (
	"slices"
	"strings"
)

// Sexp is either an atom (Symbol, String) or a *List
type Sexp interface {
	// IsLeaf returns true if this is an atom (not a list)
	IsLeaf() bool

	// String returns the text as it appears in a file
	String() string
}

// Symbol is a bare atom: keyword, number, uuid
type Symbol string

func (s Symbol) IsLeaf() bool   { return true }
func (s Symbol) String() string { return string(s) }

// String is a quoted atom
type String string

func (s String) IsLeaf() bool { return true }

// String returns the quoted, escaped form
func (s String) String() string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range string(s) {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// Text returns the contents of an atom, quoted or not
func Text(s Sexp) (string, bool) {
	switch v := s.(type) {
	case Symbol:
		return string(v), true
	case String:
		return string(v), true
	}
	return "", false
}

// List is a parenthesized list. Items can be edited in place.
type List struct {
	Items []Sexp
}

// NewList builds (name items...)
func NewList(name string, items ...Sexp) *List {
	return &List{Items: append([]Sexp{Symbol(name)}, items...)}
}

func (l *List) IsLeaf() bool { return false }

// Len returns the number of elements in the list
func (l *List) Len() int {
	return len(l.Items)
}

// Get returns the element at the given index, nil when out of range
func (l *List) Get(index int) Sexp {
	if index < 0 || index >= len(l.Items) {
		return nil
	}
	return l.Items[index]
}

// Name returns the leading symbol, empty if there is none
func (l *List) Name() string {
	if sym, ok := l.Get(0).(Symbol); ok {
		return string(sym)
	}
	return ""
}

// Find returns the first child list named key
func (l *List) Find(key string) (*List, bool) {
	for _, item := range l.Items {
		if child, ok := item.(*List); ok && child.Name() == key {
			return child, true
		}
	}
	return nil, false
}

// FindAll returns every child list named key
func (l *List) FindAll(key string) []*List {
	var out []*List
	for _, item := range l.Items {
		if child, ok := item.(*List); ok && child.Name() == key {
			out = append(out, child)
		}
	}
	return out
}

// Append adds items at the end
func (l *List) Append(items ...Sexp) {
	l.Items = append(l.Items, items...)
}

// Insert puts item at index, shifting the rest
func (l *List) Insert(index int, item Sexp) {
	index = min(max(index, 0), len(l.Items))
	l.Items = slices.Insert(l.Items, index, item)
}

// Remove deletes a child by identity and reports whether it was found
func (l *List) Remove(child Sexp) bool {
	for i, item := range l.Items {
		if item == child {
			l.Items = append(l.Items[:i], l.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Set replaces the element at index, growing the list with empty strings
// if needed.
func (l *List) Set(index int, item Sexp) {
	for len(l.Items) <= index {
		l.Items = append(l.Items, String(""))
	}
	l.Items[index] = item
}

// String renders the list on a single line
func (l *List) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, item := range l.Items {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(item.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
