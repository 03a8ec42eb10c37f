package placeicon

import (
	"fmt"
	"strings"
)

// Failure is a size that could not be written.
type Failure struct {
	Size Size
	Path string
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("failed to emit %s: %v", f.Path, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// EmitError lists every failure of a run.
type EmitError struct {
	Failures []*Failure
}

func newEmitError(failures []*Failure) *EmitError {
	return &EmitError{Failures: failures}
}

func (e *EmitError) Error() string {
	if len(e.Failures) == 1 {
		return e.Failures[0].Error()
	}
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Error())
	}
	return fmt.Sprintf("%d icons failed:\n%s", len(e.Failures), strings.Join(msgs, "\n"))
}

func (e *EmitError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}
