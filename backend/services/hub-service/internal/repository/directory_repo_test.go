package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamhub/backend/libs/oicp"
	"roamhub/backend/libs/oicp/ids"
	"roamhub/backend/libs/oicp/xmlcodec"
)

func encodeStatus(t *testing.T, evse string, s oicp.EVSEStatusType) string {
	t.Helper()
	payload, err := StatusCodec.Encode(oicp.NewEVSEStatusRecord(ids.MustEVSEID(evse), s))
	require.NoError(t, err)
	return payload
}

func TestStatusCodecRoundTrip(t *testing.T) {
	rec := oicp.NewEVSEStatusRecord(ids.MustEVSEID("DE*GEF*E1"), oicp.EVSEOccupied)
	payload, err := StatusCodec.Encode(rec)
	require.NoError(t, err)
	assert.Contains(t, payload, "EVSEStatus:EvseStatusRecord")

	got, err := StatusCodec.Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestDataCodecRoundTrip(t *testing.T) {
	geo, err := oicp.NewGeoCoordinates(52.520008, 13.404954)
	require.NoError(t, err)
	rec, err := oicp.EVSEDataRecordBuilder{
		EVSEID: ids.MustEVSEID("DE*GEF*E1"),
		ChargingStationName: xmlcodec.NewI18NText(
			xmlcodec.I18NEntry{Language: oicp.PrimaryLanguage, Text: "Ladepunkt Mitte"},
		),
		Address:         oicp.Address{Country: "DEU", City: "Berlin", Street: "Unter den Linden", PostalCode: "10117"},
		GeoCoordinates:  geo,
		Plugs:           []oicp.PlugType{oicp.PlugCHAdeMO},
		Accessibility:   oicp.AccessPayingPublic,
		HotlinePhoneNum: "+49301234567",
		IsOpen24Hours:   true,
	}.Build()
	require.NoError(t, err)

	payload, err := DataCodec.Encode(rec)
	require.NoError(t, err)
	got, err := DataCodec.Decode(payload)
	require.NoError(t, err)
	assert.True(t, rec.Equal(got))
}

func TestGroupRows(t *testing.T) {
	repo := NewDirectoryRepository(nil, "hub_evse_status", StatusCodec)
	created := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
	rows := []directoryRow{
		{operator: "DE*ABC", name: "ABC", payload: encodeStatus(t, "DE*ABC*E1", oicp.EVSEAvailable), created: created, updated: created},
		{operator: "DE*GEF", name: "GEF", payload: encodeStatus(t, "DE*GEF*E1", oicp.EVSEOccupied), created: created, updated: created},
		{operator: "DE*GEF", name: "GEF", payload: encodeStatus(t, "DE*GEF*E2", oicp.EVSEReserved), created: created, updated: created},
	}

	groups, err := repo.group(rows, nil)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "DE*ABC", groups[0].Operator.ID.String())
	assert.Equal(t, "GEF", groups[1].Operator.Name)
	require.Len(t, groups[1].Records, 2)
	_, annotated := groups[1].Records[0].Delta()
	assert.False(t, annotated)
}

func TestGroupRowsAnnotatesChanges(t *testing.T) {
	repo := NewDirectoryRepository(nil, "hub_evse_status", StatusCodec)
	since := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
	later := since.Add(time.Hour)
	rows := []directoryRow{
		{operator: "DE*GEF", payload: encodeStatus(t, "DE*GEF*E1", oicp.EVSEAvailable), created: since.Add(-time.Hour), updated: later},
		{operator: "DE*GEF", payload: encodeStatus(t, "DE*GEF*E2", oicp.EVSEAvailable), created: later, updated: later},
		{operator: "DE*GEF", payload: encodeStatus(t, "DE*GEF*E3", oicp.EVSEAvailable), created: later, updated: later, deleted: true},
	}

	groups, err := repo.group(rows, &since)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	want := []oicp.DeltaType{oicp.DeltaUpdate, oicp.DeltaInsert, oicp.DeltaDelete}
	for i, rec := range groups[0].Records {
		d, ok := rec.Delta()
		require.True(t, ok)
		assert.Equal(t, want[i], d.Type)
		assert.Equal(t, later, d.LastUpdate)
	}
}

func TestGroupRowsRejectsCorruptPayload(t *testing.T) {
	repo := NewDirectoryRepository(nil, "hub_evse_status", StatusCodec)
	_, err := repo.group([]directoryRow{{operator: "DE*GEF", payload: "<nope"}}, nil)
	assert.Error(t, err)
}
