package variant

import (
	"sort"
	"strings"
)

// Selection is the set of variant names active for one output run.
//
// A nil *Selection means "no selection": writers produce the master BOM with
// every variant and rule preserved. A non-nil empty Selection is the base
// build with no extra flags.
type Selection struct {
	names []string
	set   map[string]struct{}
}

// NewSelection builds a selection from names. Empty names are dropped and
// duplicates collapse.
func NewSelection(names ...string) *Selection {
	s := &Selection{set: make(map[string]struct{})}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := s.set[name]; ok {
			continue
		}
		s.set[name] = struct{}{}
		s.names = append(s.names, name)
	}
	sort.Strings(s.names)
	return s
}

// ParseSelection parses a comma-separated list such as "cryo,lab".
// An empty string yields the base selection, never nil.
func ParseSelection(list string) *Selection {
	return NewSelection(strings.Split(list, ",")...)
}

// Has reports whether the named variant is active
func (s *Selection) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.set[name]
	return ok
}

// Names returns the active variant names in sorted order
func (s *Selection) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.names...)
}

// IsBase reports whether no variant is active
func (s *Selection) IsBase() bool {
	return s == nil || len(s.names) == 0
}

// String returns the comma-separated variant list
func (s *Selection) String() string {
	if s == nil {
		return ""
	}
	return strings.Join(s.names, ",")
}
