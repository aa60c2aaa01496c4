package xmlcodec

import (
	"github.com/beevik/etree"
)

// Parser turns an element into an entity, reporting non-fatal problems to onError.
type Parser[T any] func(e *etree.Element, onError ErrorFunc) (T, error)

// Mode selects how Repeated treats item-level failures.
type Mode int

const (
	// FailFast aborts on the first malformed item.
	FailFast Mode = iota
	// Tolerant drops malformed items and reports each through the ErrorFunc.
	Tolerant
)

func (m Mode) String() string {
	if m == Tolerant {
		return "tolerant"
	}
	return "fail-fast"
}

// Mandatory reads the element at path; absence or a parse failure is a CodecError.
func Mandatory[T any](parent *etree.Element, path string, parse Scalar[T]) (T, error) {
	var zero T
	e := Find(parent, path)
	if e == nil {
		return zero, codecError(pathOf(parent, path), ErrMissingElement)
	}
	v, err := parse(text(e))
	if err != nil {
		return zero, codecError(e.GetPath(), err)
	}
	return v, nil
}

// OptionalOr reads the element at path, yielding def when it is absent.
// A present but malformed element is still an error.
func OptionalOr[T any](parent *etree.Element, path string, parse Scalar[T], def T) (T, error) {
	e := Find(parent, path)
	if e == nil {
		return def, nil
	}
	v, err := parse(text(e))
	if err != nil {
		return def, codecError(e.GetPath(), err)
	}
	return v, nil
}

// Optional reads the element at path, yielding nil when it is absent so that
// "not present" stays distinguishable from any default value.
func Optional[T any](parent *etree.Element, path string, parse Scalar[T]) (*T, error) {
	e := Find(parent, path)
	if e == nil {
		return nil, nil
	}
	v, err := parse(text(e))
	if err != nil {
		return nil, codecError(e.GetPath(), err)
	}
	return &v, nil
}

// MandatoryAttr reads an attribute of e by local name.
func MandatoryAttr[T any](e *etree.Element, name string, parse Scalar[T]) (T, error) {
	var zero T
	attr := e.SelectAttr(localName(name))
	if attr == nil {
		return zero, codecError(e.GetPath()+"/@"+name, ErrMissingElement)
	}
	v, err := parse(attr.Value)
	if err != nil {
		return zero, codecError(e.GetPath()+"/@"+name, err)
	}
	return v, nil
}

// OptionalAttr reads an attribute of e, yielding nil when it is absent.
func OptionalAttr[T any](e *etree.Element, name string, parse Scalar[T]) (*T, error) {
	attr := e.SelectAttr(localName(name))
	if attr == nil {
		return nil, nil
	}
	v, err := parse(attr.Value)
	if err != nil {
		return nil, codecError(e.GetPath()+"/@"+name, err)
	}
	return &v, nil
}

// Object delegates a mandatory nested element to its entity parser.
func Object[T any](parent *etree.Element, path string, parse Parser[T], onError ErrorFunc) (T, error) {
	var zero T
	e := Find(parent, path)
	if e == nil {
		return zero, codecError(pathOf(parent, path), ErrMissingElement)
	}
	v, err := parse(e, onError)
	if err != nil {
		return zero, codecError(e.GetPath(), err)
	}
	return v, nil
}

// OptionalObject delegates an optional nested element, yielding nil when absent.
func OptionalObject[T any](parent *etree.Element, path string, parse Parser[T], onError ErrorFunc) (*T, error) {
	e := Find(parent, path)
	if e == nil {
		return nil, nil
	}
	v, err := parse(e, onError)
	if err != nil {
		return nil, codecError(e.GetPath(), err)
	}
	return &v, nil
}

// Repeated maps every element matching path through parse, keeping document order.
// In FailFast mode the first item error is returned; in Tolerant mode failing
// items are reported to onError and left out.
func Repeated[T any](parent *etree.Element, path string, parse Parser[T], mode Mode, onError ErrorFunc) ([]T, error) {
	elems := FindAll(parent, path)
	out := make([]T, 0, len(elems))
	for _, e := range elems {
		v, err := parse(e, onError)
		if err != nil {
			err = codecError(e.GetPath(), err)
			if mode == FailFast {
				return nil, err
			}
			onError.ReportElement(e, err)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// RepeatedScalar is Repeated for leaf elements.
func RepeatedScalar[T any](parent *etree.Element, path string, parse Scalar[T], mode Mode, onError ErrorFunc) ([]T, error) {
	return Repeated(parent, path, func(e *etree.Element, _ ErrorFunc) (T, error) {
		return parse(text(e))
	}, mode, onError)
}

// ScalarOf lifts a Scalar into a Parser reading the element text.
func ScalarOf[T any](parse Scalar[T]) Parser[T] {
	return func(e *etree.Element, _ ErrorFunc) (T, error) {
		return parse(text(e))
	}
}
