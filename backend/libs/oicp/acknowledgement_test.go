package oicp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamhub/backend/libs/oicp/ids"
	"roamhub/backend/libs/oicp/xmlcodec"
)

func TestAckCoupling(t *testing.T) {
	pos := PositiveAck()
	assert.True(t, pos.Result())
	assert.Equal(t, CodeSuccess, pos.StatusCode().Code())

	neg := NegativeAck(CodeDataError, WithDescription("bad record"))
	assert.False(t, neg.Result())
	assert.Equal(t, CodeDataError, neg.StatusCode().Code())
	assert.Equal(t, "bad record", neg.StatusCode().Description())

	normalized := NegativeAck(CodeSuccess)
	assert.False(t, normalized.Result())
	assert.Equal(t, CodeSystemError, normalized.StatusCode().Code())
}

func TestAckRoundTrip(t *testing.T) {
	session := ids.NewSessionID()
	partner, err := ids.ParsePartnerSessionID("0815-partner")
	require.NoError(t, err)

	for _, ack := range []Acknowledgement{
		PositiveAck(WithSessionID(session)),
		NegativeAck(CodeUnauthorizedAccess, WithPartnerSessionID(partner), WithAdditionalInfo("operator mismatch")),
	} {
		data, err := ack.Marshal()
		require.NoError(t, err)
		got, err := ParseAcknowledgementXML(data, nil)
		require.NoError(t, err, string(data))
		assert.Equal(t, ack, got)
	}
}

func TestAckWireForm(t *testing.T) {
	data, err := NegativeAck(CodeDataError).Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "<CommonTypes:Result>false</CommonTypes:Result>")
	assert.Contains(t, string(data), "<CommonTypes:Code>022</CommonTypes:Code>")
	assert.Contains(t, string(data), `xmlns:CommonTypes="http://www.hubject.com/b2b/services/commontypes/v2.0"`)
}

func TestAckInconsistentOnParse(t *testing.T) {
	cases := map[string]string{
		"true with failure code": `<eRoamingAcknowledgement><Result>true</Result><StatusCode><Code>022</Code></StatusCode></eRoamingAcknowledgement>`,
		"false with success":     `<eRoamingAcknowledgement><Result>false</Result><StatusCode><Code>000</Code></StatusCode></eRoamingAcknowledgement>`,
	}
	for name, xml := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAcknowledgementXML([]byte(xml), nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInconsistentAck))
			var ce *xmlcodec.CodecError
			assert.True(t, errors.As(err, &ce))
		})
	}
}

func TestAckUnknownCode(t *testing.T) {
	xml := `<eRoamingAcknowledgement><Result>false</Result><StatusCode><Code>999</Code></StatusCode></eRoamingAcknowledgement>`
	_, err := ParseAcknowledgementXML([]byte(xml), nil)
	var ve *xmlcodec.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "result code", ve.Kind)
}

func TestCorrelate(t *testing.T) {
	req := PushEVSEStatusRequest{Action: ActionUpdate}
	ra := Correlate(req, PositiveAck())
	assert.True(t, ra.Result())
	assert.Equal(t, ActionUpdate, ra.Request().Action)
}

func TestResultCodeFormat(t *testing.T) {
	assert.Equal(t, "000", CodeSuccess.String())
	assert.Equal(t, "017", CodeUnauthorizedAccess.String())
	assert.Equal(t, "700", CodeEVSEOutOfService.String())

	code, err := ParseResultCode("021")
	require.NoError(t, err)
	assert.Equal(t, CodeSystemError, code)
	_, err = ParseResultCode("abc")
	assert.Error(t, err)
}
