package xmlcodec

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
)

var (
	// ErrMissingElement marks an absent mandatory element or attribute.
	ErrMissingElement = errors.New("missing mandatory element")
	// ErrNoChoice marks a choice container holding none of its candidates.
	ErrNoChoice = errors.New("no choice candidate present")
	// ErrAmbiguousChoice is reported (never returned) when several candidates are present.
	ErrAmbiguousChoice = errors.New("several choice candidates present")
)

// ValidationError reports a value that does not satisfy the wire grammar of its kind.
type ValidationError struct {
	Kind   string
	Input  string
	Reason string
}

// NewValidationError builds a ValidationError for the given kind and input.
func NewValidationError(kind, input, reason string) *ValidationError {
	return &ValidationError{Kind: kind, Input: input, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid %s %q", e.Kind, e.Input)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Kind, e.Input, e.Reason)
}

// CodecError reports a structural problem at a path of the document.
type CodecError struct {
	Path string
	Err  error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("xmlcodec: %s: %v", e.Path, e.Err)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

func codecError(path string, err error) error {
	var ce *CodecError
	if errors.As(err, &ce) {
		return err
	}
	return &CodecError{Path: path, Err: err}
}

// ErrorAt wraps err as a CodecError located at e, unless it already is one.
func ErrorAt(e *etree.Element, err error) error {
	return codecError(e.GetPath(), err)
}
