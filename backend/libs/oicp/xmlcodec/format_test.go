package xmlcodec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{123.4567, "123.457"},
		{123.4, "123.4"},
		{12, "12"},
		{0.0004, "0"},
		{-1.5, "-1.5"},
		{-0.0001, "0"},
		{1000000.125, "1000000.125"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDecimal(tt.in), "input %v", tt.in)
	}
}

func TestDecimalAcceptsCommaAndDot(t *testing.T) {
	comma, err := Decimal("123,456")
	require.NoError(t, err)
	dot, err := Decimal("123.456")
	require.NoError(t, err)
	assert.Equal(t, dot, comma)
	assert.Equal(t, "123.456", FormatDecimal(comma))

	for _, bad := range []string{"", "1,2,3", "1e5", "NaN", "abc", "1.2.3"} {
		_, err := Decimal(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestFormatCoordinate(t *testing.T) {
	assert.Equal(t, "50.123457", FormatCoordinate(50.1234567))
	assert.Equal(t, "-8.000000", FormatCoordinate(-8))

	v, err := Decimal(FormatCoordinate(RoundCoordinate(7.6543219)))
	require.NoError(t, err)
	assert.Equal(t, RoundCoordinate(7.6543219), v)
}

func TestTimeRoundTrip(t *testing.T) {
	in := time.Date(2024, 3, 1, 10, 30, 15, 250_000_000, time.FixedZone("CET", 3600))
	out, err := Time(FormatTime(in))
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
	assert.Equal(t, time.UTC, out.Location())

	_, err = Time("01.03.2024")
	assert.Error(t, err)
}

func TestBool(t *testing.T) {
	for in, want := range map[string]bool{"true": true, "TRUE": true, "1": true, "false": false, "0": false} {
		got, err := Bool(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := Bool("yes")
	assert.Error(t, err)
}

func TestBoundedString(t *testing.T) {
	s := BoundedString("pin", 4)
	_, err := s("")
	assert.Error(t, err)
	_, err = s("12345")
	assert.Error(t, err)
	v, err := s("1234")
	require.NoError(t, err)
	assert.Equal(t, "1234", v)
}
