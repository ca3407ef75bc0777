package sexp

import (
	"fmt"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp/kicadsexp"
)

// GetString extracts the atom at index, quoted or not.
// Index 0 is the key, 1 is first value, etc.
func GetString(l *kicadsexp.List, index int) (string, error) {
	item := l.Get(index)
	if item == nil {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, l.Len())
	}
	text, ok := kicadsexp.Text(item)
	if !ok {
		return "", fmt.Errorf("expected atom at index %d of (%s ...), got list", index, l.Name())
	}
	return text, nil
}

// GetFloat extracts a number at index
func GetFloat(l *kicadsexp.List, index int) (float64, error) {
	s, err := GetString(l, index)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %q as number: %w", s, err)
	}
	return f, nil
}

// GetInt extracts an integer at index
func GetInt(l *kicadsexp.List, index int) (int, error) {
	s, err := GetString(l, index)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}

// GetPosition reads (at X Y [angle])
func GetPosition(at *kicadsexp.List) (PositionAngle, error) {
	if at.Name() != "at" {
		return PositionAngle{}, fmt.Errorf("expected 'at', got %q", at.Name())
	}
	x, err := GetFloat(at, 1)
	if err != nil {
		return PositionAngle{}, fmt.Errorf("failed to parse X coordinate: %w", err)
	}
	y, err := GetFloat(at, 2)
	if err != nil {
		return PositionAngle{}, fmt.Errorf("failed to parse Y coordinate: %w", err)
	}
	pos := PositionAngle{Position: Position{X: x, Y: y}}
	if angle, err := GetFloat(at, 3); err == nil {
		pos.Angle = Angle(angle)
	}
	return pos, nil
}

// NewPosition builds (at X Y angle)
func NewPosition(pos PositionAngle) *kicadsexp.List {
	return kicadsexp.NewList("at",
		kicadsexp.Symbol(formatFloat(pos.X)),
		kicadsexp.Symbol(formatFloat(pos.Y)),
		kicadsexp.Symbol(formatFloat(float64(pos.Angle))),
	)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// HasSymbol checks if a list contains a bare symbol
func HasSymbol(l *kicadsexp.List, symbol string) bool {
	for _, item := range l.Items {
		if sym, ok := item.(kicadsexp.Symbol); ok && string(sym) == symbol {
			return true
		}
	}
	return false
}

// isHidden understands both `hide` (KiCad 6/7) and `(hide yes)` (KiCad 8+)
func isHidden(l *kicadsexp.List) bool {
	if HasSymbol(l, "hide") {
		return true
	}
	if h, ok := l.Find("hide"); ok {
		v, _ := GetString(h, 1)
		return v == "yes"
	}
	return false
}

// GetProperty extracts a property from a (property ...) node
// Format: (property "key" "value" (at X Y angle) (effects ...))
func GetProperty(node *kicadsexp.List) (Property, error) {
	if node.Name() != "property" {
		return Property{}, fmt.Errorf("expected (property ...) list, got (%s ...)", node.Name())
	}
	key, err := GetString(node, 1)
	if err != nil {
		return Property{}, fmt.Errorf("failed to parse property key: %w", err)
	}
	prop := Property{Key: key, Node: node}
	prop.Value, _ = GetString(node, 2)

	if at, ok := node.Find("at"); ok {
		prop.Position, _ = GetPosition(at)
	}
	prop.Hidden = isHidden(node)
	if effects, ok := node.Find("effects"); ok && isHidden(effects) {
		prop.Hidden = true
	}
	return prop, nil
}

// Properties returns every property directly under parent, skipping
// malformed ones
func Properties(parent *kicadsexp.List) []Property {
	var props []Property
	for _, node := range parent.FindAll("property") {
		if prop, err := GetProperty(node); err == nil {
			props = append(props, prop)
		}
	}
	return props
}

// FindProperty returns the first property named key
func FindProperty(parent *kicadsexp.List, key string) (Property, bool) {
	for _, prop := range Properties(parent) {
		if prop.Key == key {
			return prop, true
		}
	}
	return Property{}, false
}

// SetPropertyValue changes the value of a property node in place
func SetPropertyValue(node *kicadsexp.List, value string) {
	node.Set(2, kicadsexp.String(value))
}

// RemoveProperties deletes every property named key from parent
func RemoveProperties(parent *kicadsexp.List, key string) {
	for _, prop := range Properties(parent) {
		if prop.Key == key {
			parent.Remove(prop.Node)
		}
	}
}

// InsertAfterLast inserts node after the last child named key, or at the end
// if there is none
func InsertAfterLast(parent *kicadsexp.List, key string, node kicadsexp.Sexp) {
	idx := -1
	for i, item := range parent.Items {
		if child, ok := item.(*kicadsexp.List); ok && child.Name() == key {
			idx = i
		}
	}
	if idx < 0 {
		parent.Append(node)
		return
	}
	parent.Insert(idx+1, node)
}
