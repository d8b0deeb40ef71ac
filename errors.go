package reportes

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure conditions of a render.
var (
	ErrMissingInput = errors.New("reportes: no input data")
	ErrSchema       = errors.New("reportes: required columns missing")
	ErrRender       = errors.New("reportes: render failed")
	ErrUnknownKind  = errors.New("reportes: unknown report kind")
)

// SchemaError reports required columns absent from the input. It matches
// ErrSchema with errors.Is.
type SchemaError struct {
	Kind     Kind
	Required []string
	Missing  []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("reportes: %s report needs columns %s, missing %s",
		e.Kind, strings.Join(e.Required, ", "), strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// RenderError represents a failure while laying out or drawing a document.
// It wraps the underlying error and matches ErrRender with errors.Is.
type RenderError struct {
	Op  string // stage that failed, e.g. "layout", "output"
	Err error  // underlying error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reportes.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("reportes.%s: unknown error", e.Op)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

func (e *RenderError) Is(target error) bool {
	return target == ErrRender
}

// newRenderError creates a new RenderError wrapping err with the stage name.
func newRenderError(op string, err error) *RenderError {
	return &RenderError{Op: op, Err: err}
}
