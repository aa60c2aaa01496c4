package ids

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamhub/backend/libs/oicp/xmlcodec"
)

func TestParseEVSEID(t *testing.T) {
	valid := []string{"DE*GEF*E123456789*1", "DEGEFE1234", "+49*822*4201*1", " de*gef*e1 "}
	for _, in := range valid {
		_, err := ParseEVSEID(in)
		assert.NoError(t, err, in)
	}

	invalid := []string{"", "   ", "DE*GEF*123", "D*GEF*E1", "DE*GEF*E" + strings.Repeat("1", 31)}
	for _, in := range invalid {
		_, err := ParseEVSEID(in)
		require.Error(t, err, in)
		var ve *xmlcodec.ValidationError
		require.True(t, errors.As(err, &ve), in)
		assert.Equal(t, "EVSE id", ve.Kind)
		assert.Equal(t, in, ve.Input)
	}
}

func TestNormalizationDefinesEquality(t *testing.T) {
	a, err := ParseEVSEID("de*gef*e1")
	require.NoError(t, err)
	b, err := ParseEVSEID("  DE*GEF*E1")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.True(t, a == b)
	assert.Equal(t, "DE*GEF*E1", a.String())
	assert.Equal(t, 0, a.Compare(b))
}

func TestCompare(t *testing.T) {
	a := MustEVSEID("DE*GEF*E1")
	b := MustEVSEID("DE*GEF*E2")
	assert.Negative(t, a.Compare(b))
	assert.Positive(t, b.Compare(a))
}

func TestTryParse(t *testing.T) {
	_, ok := TryParseOperatorID("not an operator")
	assert.False(t, ok)

	op, ok := TryParseOperatorID("de*gef")
	require.True(t, ok)
	assert.Equal(t, "DE*GEF", op.String())

	_, ok = TryParseProviderID("DE-GDF")
	assert.True(t, ok)
	_, ok = TryParseUID("aabbccdd")
	assert.True(t, ok)
	_, ok = TryParseUID("AABBCC")
	assert.False(t, ok)
	_, ok = TryParseEVCOID("DE-GDF-C12345678-X")
	assert.True(t, ok)
	_, ok = TryParseEVCOID("DE*GDF*123456*7")
	assert.True(t, ok)
	_, ok = TryParseChargingStationID(strings.Repeat("x", 51))
	assert.False(t, ok)
	_, ok = TryParsePartnerProductID("AC1")
	assert.True(t, ok)
}

func TestNewSessionIDs(t *testing.T) {
	a := NewSessionID()
	b := NewSessionID()
	assert.NotEqual(t, a, b)

	parsed, err := ParseSessionID(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, parsed)

	p := NewPartnerSessionID()
	assert.False(t, p.IsZero())
}

func TestTextMarshalling(t *testing.T) {
	type payload struct {
		EVSE     EVSEID     `json:"evse"`
		Operator OperatorID `json:"operator"`
	}
	in := payload{EVSE: MustEVSEID("DE*GEF*E1"), Operator: MustOperatorID("DE*GEF")}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"evse":"DE*GEF*E1","operator":"DE*GEF"}`, string(data))

	var out payload
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)

	assert.Error(t, json.Unmarshal([]byte(`{"evse":"nope"}`), &out))
}

func TestKind(t *testing.T) {
	assert.Equal(t, "session id", SessionID{}.Kind())
	assert.True(t, EVSEID{}.IsZero())
}
