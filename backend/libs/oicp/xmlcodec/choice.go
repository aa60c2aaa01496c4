package xmlcodec

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Candidate is one alternative of a choice, recognized by the presence of its child element.
type Candidate[T any] struct {
	Tag   string
	Parse Parser[T]
}

// When builds a Candidate.
func When[T any](tag string, parse Parser[T]) Candidate[T] {
	return Candidate[T]{Tag: tag, Parse: parse}
}

// Choice resolves a tagged union without a discriminator: candidates are probed
// in the given order and the first present one is parsed. When more than one
// is present the first still wins and ErrAmbiguousChoice is reported.
func Choice[T any](container *etree.Element, onError ErrorFunc, candidates ...Candidate[T]) (T, error) {
	var zero T
	var chosen *etree.Element
	var parse Parser[T]
	var present []string
	for _, c := range candidates {
		e := Child(container, c.Tag)
		if e == nil {
			continue
		}
		present = append(present, localName(c.Tag))
		if chosen == nil {
			chosen, parse = e, c.Parse
		}
	}
	if chosen == nil {
		tags := make([]string, 0, len(candidates))
		for _, c := range candidates {
			tags = append(tags, localName(c.Tag))
		}
		return zero, codecError(pathOf(container, ""), fmt.Errorf("%w (expected one of %s)", ErrNoChoice, strings.Join(tags, ", ")))
	}
	if len(present) > 1 {
		onError.ReportElement(container, fmt.Errorf("%w: %s, using %s", ErrAmbiguousChoice, strings.Join(present, ", "), present[0]))
	}
	v, err := parse(chosen, onError)
	if err != nil {
		return zero, codecError(chosen.GetPath(), err)
	}
	return v, nil
}
