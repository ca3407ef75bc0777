package bom

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks
var (
	// ErrSchema means an input lacks a required column or XML/s-expression tree
	ErrSchema = errors.New("schema error")

	// ErrConsistency means the inputs contradict each other about designators
	ErrConsistency = errors.New("consistency error")
)

// SchemaError reports an input that lacks the structure a reader or writer
// needs. It is always fatal.
type SchemaError struct {
	Source  string // file or table name
	Field   string // missing column or element path
	Message string
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("missing %q", e.Field)
	}
	if e.Source != "" {
		return fmt.Sprintf("%s: %s", e.Source, msg)
	}
	return msg
}

// Is implements errors.Is support
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// ConsistencyError reports a designator that can't be reconciled, such as
// one present in the board but not in the schematic.
type ConsistencyError struct {
	Designator string
	Message    string
}

// Error implements the error interface
func (e *ConsistencyError) Error() string {
	if e.Designator == "" {
		return e.Message
	}
	return fmt.Sprintf("designator %s: %s", e.Designator, e.Message)
}

// Is implements errors.Is support
func (e *ConsistencyError) Is(target error) bool {
	return target == ErrConsistency
}
