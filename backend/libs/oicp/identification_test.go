package oicp

import (
	"errors"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamhub/backend/libs/oicp/xmlcodec"
)

func TestIdentificationRoundTrip(t *testing.T) {
	hashed, err := HashPIN(PINFunctionSHA1, "1234", "pepper")
	require.NoError(t, err)
	qr, err := QRCodeIdentification(mustEVCOID(t, "DE-GDF-C12345678-X"), "1234")
	require.NoError(t, err)

	cases := map[string]Identification{
		"rfid":        RFIDIdentification(mustUID(t, "AABBCCDD")),
		"qr pin":      qr,
		"qr hashed":   QRCodeHashedIdentification(mustEVCOID(t, "DE*GDF*123456*7"), hashed),
		"plug&charge": PlugAndChargeIdentification(mustEVCOID(t, "DE-GDF-C12345678-X")),
		"remote":      RemoteIdentification(mustEVCOID(t, "DE-GDF-C12345678-X")),
	}
	for name, id := range cases {
		t.Run(name, func(t *testing.T) {
			got := roundTrip(t, func(p *etree.Element) {
				id.WriteTo(p, NSAuthorization.Tag("Identification"))
			}, "Identification", ParseIdentification)
			assert.Equal(t, id, got)
			assert.True(t, id == got)
		})
	}
}

func TestIdentificationWritesExactlyOneVariant(t *testing.T) {
	parent := etree.NewElement("Wrapper")
	container := PlugAndChargeIdentification(mustEVCOID(t, "DE-GDF-C12345678-X")).WriteTo(parent, "Identification")
	require.Len(t, container.ChildElements(), 1)
	assert.Equal(t, "PlugAndChargeIdentification", container.ChildElements()[0].Tag)
}

func TestIdentificationChoicePriority(t *testing.T) {
	xml := `<Identification>
  <CommonTypes:QRCodeIdentification>
    <CommonTypes:EVCOID>DE-GDF-C12345678-X</CommonTypes:EVCOID>
    <CommonTypes:PIN>1234</CommonTypes:PIN>
  </CommonTypes:QRCodeIdentification>
  <CommonTypes:RFIDmifarefamilyIdentification>
    <CommonTypes:UID>aabbccdd</CommonTypes:UID>
  </CommonTypes:RFIDmifarefamilyIdentification>
</Identification>`

	c := xmlcodec.NewCollector(nil)
	id, err := parseString(t, xml, "Identification", ParseIdentification, c.Func())
	require.NoError(t, err)
	assert.Equal(t, IdentificationRFID, id.Kind())
	uid, ok := id.UID()
	require.True(t, ok)
	assert.Equal(t, "AABBCCDD", uid.String())

	require.Equal(t, 1, c.Len())
	assert.True(t, errors.Is(c.Reports()[0].Err, xmlcodec.ErrAmbiguousChoice))
}

func TestIdentificationNoVariant(t *testing.T) {
	_, err := parseString(t, `<Identification><Other/></Identification>`, "Identification", ParseIdentification, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, xmlcodec.ErrNoChoice))
	var ce *xmlcodec.CodecError
	assert.True(t, errors.As(err, &ce))
}

func TestQRCodeHashedPIN(t *testing.T) {
	xml := `<Identification>
  <QRCodeIdentification>
    <EVCOID>DE-GDF-C12345678-X</EVCOID>
    <HashedPIN>
      <Value>81dc9bdb52d04dc20036dbd8313ed055</Value>
      <Function>MD5</Function>
    </HashedPIN>
  </QRCodeIdentification>
</Identification>`

	id, err := parseString(t, xml, "Identification", ParseIdentification, nil)
	require.NoError(t, err)
	_, hasPIN := id.PIN()
	assert.False(t, hasPIN)
	hashed, ok := id.HashedPIN()
	require.True(t, ok)
	assert.Equal(t, PINFunctionMD5, hashed.Function())
	assert.True(t, hashed.Verify("1234"))
	assert.False(t, hashed.Verify("4321"))
}

func TestHashPIN(t *testing.T) {
	for _, fn := range []PINFunction{PINFunctionMD5, PINFunctionSHA1, PINFunctionBcrypt} {
		h, err := HashPIN(fn, "0815", "salt")
		require.NoError(t, err, fn)
		assert.True(t, h.Verify("0815"), fn)
		assert.False(t, h.Verify("0816"), fn)
	}

	_, err := HashPIN("SHA-512", "0815", "")
	assert.Error(t, err)
	_, err = NewHashedPIN("", PINFunctionMD5, "")
	assert.Error(t, err)
}

func TestQRCodePINLength(t *testing.T) {
	_, err := QRCodeIdentification(mustEVCOID(t, "DE-GDF-C12345678-X"), strings.Repeat("9", 21))
	var ve *xmlcodec.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "PIN", ve.Kind)
}

func TestQRCodeFreeTextIsTrimmed(t *testing.T) {
	evco := mustEVCOID(t, "DE-GDF-C12345678-X")
	qr, err := QRCodeIdentification(evco, "  1234 \t")
	require.NoError(t, err)
	pin, ok := qr.PIN()
	require.True(t, ok)
	assert.Equal(t, "1234", pin)

	got := roundTrip(t, func(p *etree.Element) {
		qr.WriteTo(p, NSAuthorization.Tag("Identification"))
	}, "Identification", ParseIdentification)
	assert.Equal(t, qr, got)

	_, err = QRCodeIdentification(evco, "   ")
	assert.Error(t, err)

	hashed, err := NewHashedPIN(" abc123 ", PINFunctionSHA1, " salt ")
	require.NoError(t, err)
	assert.Equal(t, "abc123", hashed.Value())
	assert.Equal(t, "salt", hashed.Salt())
	withHash := QRCodeHashedIdentification(evco, hashed)
	gotHashed := roundTrip(t, func(p *etree.Element) {
		withHash.WriteTo(p, NSAuthorization.Tag("Identification"))
	}, "Identification", ParseIdentification)
	assert.Equal(t, withHash, gotHashed)
}
