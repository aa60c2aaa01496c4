// Package ids holds the validated identifier types of the roaming protocol.
//
// Every identifier kind is its own Go type built from ID[K] with a distinct
// kind parameter, so an EVSE id can never be compared with or passed as a
// session id even when both carry the same text.
package ids

import (
	"strings"

	"roamhub/backend/libs/oicp/xmlcodec"
)

// kind describes the grammar of one identifier kind.
type kind interface {
	name() string
	normalize(s string) string
	validate(s string) string // empty when valid, reason otherwise
}

// ID is an immutable identifier whose text has been normalized and validated.
// The zero value is the "no identifier" marker.
type ID[K kind] struct {
	value string
}

func parse[K kind](text string) (ID[K], error) {
	var k K
	normalized := k.normalize(strings.TrimSpace(text))
	if normalized == "" {
		return ID[K]{}, xmlcodec.NewValidationError(k.name(), text, "must not be empty")
	}
	if reason := k.validate(normalized); reason != "" {
		return ID[K]{}, xmlcodec.NewValidationError(k.name(), text, reason)
	}
	return ID[K]{value: normalized}, nil
}

func tryParse[K kind](text string) (ID[K], bool) {
	id, err := parse[K](text)
	return id, err == nil
}

// String returns the wire form.
func (id ID[K]) String() string {
	return id.value
}

// IsZero reports whether id is the "no identifier" marker.
func (id ID[K]) IsZero() bool {
	return id.value == ""
}

// Compare orders identifiers by their normalized text.
func (id ID[K]) Compare(other ID[K]) int {
	return strings.Compare(id.value, other.value)
}

// Kind names the identifier kind, as used in validation errors.
func (id ID[K]) Kind() string {
	var k K
	return k.name()
}

// MarshalText implements encoding.TextMarshaler.
func (id ID[K]) MarshalText() ([]byte, error) {
	return []byte(id.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler; the text is validated.
// Empty text yields the zero identifier.
func (id *ID[K]) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*id = ID[K]{}
		return nil
	}
	parsed, err := parse[K](string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
