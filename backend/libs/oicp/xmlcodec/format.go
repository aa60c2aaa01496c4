package xmlcodec

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	decimalDigits    = 3
	coordinateDigits = 6
)

// RoundDecimal rounds v half away from zero to the precision FormatDecimal emits.
func RoundDecimal(v float64) float64 {
	return roundTo(v, decimalDigits)
}

// RoundCoordinate rounds v half away from zero to the precision FormatCoordinate emits.
func RoundCoordinate(v float64) float64 {
	return roundTo(v, coordinateDigits)
}

func roundTo(v float64, digits int) float64 {
	scale := math.Pow10(digits)
	return math.Round(v*scale) / scale
}

// FormatDecimal writes v with at most three fractional digits and no trailing
// zeros ("0.###"), always with a dot: 123.4567 -> "123.457", 12 -> "12".
func FormatDecimal(v float64) string {
	s := strconv.FormatFloat(RoundDecimal(v), 'f', decimalDigits, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// FormatCoordinate writes v with exactly six fractional digits.
func FormatCoordinate(v float64) string {
	return strconv.FormatFloat(RoundCoordinate(v), 'f', coordinateDigits, 64)
}

// FormatBool writes "true" or "false".
func FormatBool(v bool) string {
	return strconv.FormatBool(v)
}

// FormatInt writes a base-10 integer.
func FormatInt(v int) string {
	return strconv.Itoa(v)
}

// FormatTime writes v as RFC 3339 in UTC, keeping sub-second precision.
func FormatTime(v time.Time) string {
	return v.UTC().Format(time.RFC3339Nano)
}

// Identity formats a string as itself.
func Identity(s string) string {
	return s
}

// Stringer formats any fmt.Stringer-like value.
func Stringer[T interface{ String() string }](v T) string {
	return v.String()
}
