package xmlcodec

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Scalar converts the trimmed text of an element or attribute into a value.
type Scalar[T any] func(text string) (T, error)

// String accepts any text, including the empty string.
func String(text string) (string, error) {
	return text, nil
}

// NonEmpty accepts any text of at least one character.
func NonEmpty(text string) (string, error) {
	if text == "" {
		return "", NewValidationError("text", text, "must not be empty")
	}
	return text, nil
}

// BoundedString returns a scalar accepting 1..max characters.
func BoundedString(kind string, max int) Scalar[string] {
	return func(text string) (string, error) {
		n := utf8.RuneCountInString(text)
		if n == 0 {
			return "", NewValidationError(kind, text, "must not be empty")
		}
		if n > max {
			return "", NewValidationError(kind, text, "longer than "+strconv.Itoa(max)+" characters")
		}
		return text, nil
	}
}

// Bool accepts true/false and 1/0, case-insensitively.
func Bool(text string) (bool, error) {
	switch strings.ToLower(text) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, NewValidationError("boolean", text, "")
	}
}

// Int parses a base-10 integer.
func Int(text string) (int, error) {
	v, err := strconv.Atoi(text)
	if err != nil {
		return 0, NewValidationError("integer", text, "")
	}
	return v, nil
}

// Decimal parses a culture-invariant decimal number; a comma is accepted as
// decimal separator.
func Decimal(text string) (float64, error) {
	normalized := strings.Replace(text, ",", ".", 1)
	if normalized == "" || strings.Trim(normalized, "+-.0123456789") != "" {
		return 0, NewValidationError("decimal", text, "")
	}
	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, NewValidationError("decimal", text, "")
	}
	return v, nil
}

// Time parses an RFC 3339 timestamp and normalizes it to UTC.
func Time(text string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, text)
	if err != nil {
		return time.Time{}, NewValidationError("timestamp", text, "expected RFC 3339")
	}
	return t.UTC(), nil
}

// Enum returns a scalar accepting exactly one of values; a case-insensitive
// match is normalized to the canonical spelling.
func Enum[T ~string](kind string, values ...T) Scalar[T] {
	return func(text string) (T, error) {
		for _, v := range values {
			if string(v) == text {
				return v, nil
			}
		}
		for _, v := range values {
			if strings.EqualFold(string(v), text) {
				return v, nil
			}
		}
		var zero T
		return zero, NewValidationError(kind, text, "unknown value")
	}
}
