package oicp

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamhub/backend/libs/oicp/ids"
	"roamhub/backend/libs/oicp/xmlcodec"
)

func TestPullRequestsRoundTrip(t *testing.T) {
	provider := mustProviderID(t, "DE-GDF")
	lastCall := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	pullData := PullEVSEDataRequest{ProviderID: provider, LastCall: &lastCall}
	data, err := Marshal(pullData.Element())
	require.NoError(t, err)
	gotData, err := xmlcodec.Decode(data, "eRoamingPullEvseData", ParsePullEVSEDataRequest, nil)
	require.NoError(t, err)
	assert.Equal(t, pullData, gotData)

	occupied := EVSEOccupied
	pullStatus := PullEVSEStatusRequest{ProviderID: provider, Status: &occupied}
	data, err = Marshal(pullStatus.Element())
	require.NoError(t, err)
	gotStatus, err := xmlcodec.Decode(data, "eRoamingPullEvseStatus", ParsePullEVSEStatusRequest, nil)
	require.NoError(t, err)
	assert.Equal(t, pullStatus, gotStatus)

	byID := PullEVSEStatusByIDRequest{ProviderID: provider, EVSEIDs: []ids.EVSEID{ids.MustEVSEID("DE*GEF*E1"), ids.MustEVSEID("DE*GEF*E2")}}
	data, err = Marshal(byID.Element())
	require.NoError(t, err)
	gotByID, err := xmlcodec.Decode(data, "eRoamingPullEvseStatusById", ParsePullEVSEStatusByIDRequest, nil)
	require.NoError(t, err)
	assert.Equal(t, byID, gotByID)
}

func TestPullByIDLimits(t *testing.T) {
	r := PullEVSEStatusByIDRequest{ProviderID: mustProviderID(t, "DE-GDF")}
	assert.Error(t, r.Validate())

	for i := 0; i <= MaxEVSEIDsPerRequest; i++ {
		r.EVSEIDs = append(r.EVSEIDs, ids.MustEVSEID(fmt.Sprintf("DE*GEF*E%d", i)))
	}
	assert.Error(t, r.Validate())
	r.EVSEIDs = r.EVSEIDs[:MaxEVSEIDsPerRequest]
	assert.NoError(t, r.Validate())
}

func TestStatusResponsesRoundTrip(t *testing.T) {
	ok := NewStatusCode(CodeSuccess, "", "")
	resp := EVSEStatusResponse{
		Operators: []OperatorEVSEStatus{
			NewOperatorEVSEStatus(ids.MustOperatorID("DE*GEF"), "GEF", NewEVSEStatusRecord(ids.MustEVSEID("DE*GEF*E1"), EVSEAvailable)),
			NewOperatorEVSEStatus(ids.MustOperatorID("DE*ABC"), "", NewEVSEStatusRecord(ids.MustEVSEID("DE*ABC*E7"), EVSEReserved)),
		},
		Status: &ok,
	}
	data, err := resp.Marshal()
	require.NoError(t, err)
	got, err := ParseEVSEStatusResponseXML(data, xmlcodec.Tolerant, nil)
	require.NoError(t, err)
	assert.Equal(t, resp, got)

	byID := EVSEStatusByIDResponse{Records: []EVSEStatusRecord{NewEVSEStatusRecord(ids.MustEVSEID("DE*GEF*E1"), EVSENotFound)}}
	data, err = byID.Marshal()
	require.NoError(t, err)
	gotByID, err := ParseEVSEStatusByIDResponseXML(data, xmlcodec.Tolerant, nil)
	require.NoError(t, err)
	assert.Equal(t, byID, gotByID)
}

func TestEVSEDataResponseRoundTrip(t *testing.T) {
	rec, err := sampleRecordBuilder(t).Build()
	require.NoError(t, err)
	resp := EVSEDataResponse{Operators: []OperatorEVSEData{NewOperatorEVSEData(ids.MustOperatorID("DE*GEF"), "GEF", rec)}}
	data, err := resp.Marshal()
	require.NoError(t, err)
	got, err := ParseEVSEDataResponseXML(data, xmlcodec.Tolerant, nil)
	require.NoError(t, err)
	require.Len(t, got.Operators, 1)
	require.Equal(t, 1, got.Operators[0].Len())
	assert.True(t, rec.Equal(got.Operators[0].Records()[0]))
	assert.Nil(t, got.Status)
}

func TestAuthorizeStartRoundTrip(t *testing.T) {
	req := AuthorizeStartRequest{
		PartnerSessionID: ids.NewPartnerSessionID(),
		OperatorID:       ids.MustOperatorID("DE*GEF"),
		EVSEID:           ids.MustEVSEID("DE*GEF*E1"),
		Identification:   RFIDIdentification(mustUID(t, "0102030405060708090A")),
	}
	data, err := req.Marshal()
	require.NoError(t, err)
	got, err := ParseAuthorizeStartXML(data, nil)
	require.NoError(t, err)
	assert.Equal(t, req, got)

	resp := AuthorizationStartResponse{
		SessionID:  ids.NewSessionID(),
		ProviderID: mustProviderID(t, "DE-GDF"),
		Status:     NotAuthorized,
		StatusCode: NewStatusCode(CodeRFIDAuthenticationFailed, "unknown card", ""),
	}
	data, err = resp.Marshal()
	require.NoError(t, err)
	gotResp, err := ParseAuthorizationStartXML(data, nil)
	require.NoError(t, err)
	assert.Equal(t, resp, gotResp)
}

func sampleCDR(t *testing.T) ChargeDetailRecordBuilder {
	t.Helper()
	start := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	chargingStart := start.Add(time.Minute)
	meterStart, meterEnd := 1000.0, 1012.3456
	return ChargeDetailRecordBuilder{
		SessionID:            ids.NewSessionID(),
		EVSEID:               ids.MustEVSEID("DE*GEF*E1"),
		Identification:       RemoteIdentification(mustEVCOID(t, "DE-GDF-C12345678-X")),
		ChargingStart:        &chargingStart,
		SessionStart:         start,
		SessionEnd:           start.Add(45 * time.Minute),
		MeterValueStart:      &meterStart,
		MeterValueEnd:        &meterEnd,
		MeterValuesInBetween: []float64{1004.25, 1008.5},
		HubOperatorID:        ids.MustOperatorID("DE*GEF"),
	}
}

func TestChargeDetailRecordRoundTrip(t *testing.T) {
	cdr, err := sampleCDR(t).Build()
	require.NoError(t, err)
	data, err := cdr.Marshal()
	require.NoError(t, err)
	got, err := ParseChargeDetailRecordXML(data, nil)
	require.NoError(t, err)
	assert.True(t, cdr.Equal(got))

	energy, ok := got.ConsumedEnergy()
	require.True(t, ok)
	assert.Equal(t, 12.346, energy)
	assert.Equal(t, 45*time.Minute, got.Duration())
	assert.Contains(t, string(data), "<Authorization:MeterValueEnd>1012.346</Authorization:MeterValueEnd>")
}

func TestChargeDetailRecordValidation(t *testing.T) {
	b := sampleCDR(t)
	b.SessionEnd = b.SessionStart.Add(-time.Second)
	_, err := b.Build()
	assert.Error(t, err)

	b = sampleCDR(t)
	b.Identification = Identification{}
	_, err = b.Build()
	assert.Error(t, err)
}

func TestChargeDetailRecordOptionalFields(t *testing.T) {
	cdr, err := sampleCDR(t).Build()
	require.NoError(t, err)
	data, err := cdr.Marshal()
	require.NoError(t, err)
	got, err := ParseChargeDetailRecordXML(data, nil)
	require.NoError(t, err)

	start, ok := got.ChargingStart()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 1, 8, 1, 0, 0, time.UTC), start)
	_, ok = got.ChargingEnd()
	assert.False(t, ok)
	v, ok := got.MeterValueStart()
	require.True(t, ok)
	assert.Equal(t, 1000.0, v)
	v, ok = got.MeterValueEnd()
	require.True(t, ok)
	assert.Equal(t, 1012.346, v)

	b := got.ToBuilder()
	b.ChargingStart = nil
	b.MeterValueStart = nil
	changed, err := b.Build()
	require.NoError(t, err)
	_, ok = changed.ChargingStart()
	assert.False(t, ok)
	_, ok = changed.MeterValueStart()
	assert.False(t, ok)
	_, ok = changed.ConsumedEnergy()
	assert.False(t, ok)
	out, err := changed.Marshal()
	require.NoError(t, err)
	assert.NotContains(t, string(out), "ChargingStart")

	_, ok = got.ChargingStart()
	assert.True(t, ok, "ToBuilder must not share state with the record")

	same, err := got.ToBuilder().Build()
	require.NoError(t, err)
	assert.True(t, got.Equal(same))
}
