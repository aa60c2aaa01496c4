package redisstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamhub/backend/libs/oicp"
	"roamhub/backend/libs/oicp/ids"
)

func TestEncodeDecode(t *testing.T) {
	rec := oicp.NewEVSEStatusRecord(ids.MustEVSEID("DE*GEF*E1"), oicp.EVSEReserved)
	data, err := encode(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"evse_id":"DE*GEF*E1","status":"Reserved"}`, string(data))

	got, err := decode(string(data))
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestDecodeRejectsBadEntries(t *testing.T) {
	for _, raw := range []string{
		`not json`,
		`{"evse_id":"nope","status":"Available"}`,
		`{"evse_id":"DE*GEF*E1","status":"Sleeping"}`,
	} {
		_, err := decode(raw)
		assert.Error(t, err, raw)
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "oicp:evse-status:DE*GEF*E1", key(ids.MustEVSEID("DE*GEF*E1")))
}

func TestEmptyCallsSkipRedis(t *testing.T) {
	c := NewStatusCache(nil, 0)
	out, err := c.Lookup(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, c.Remove(context.Background(), nil))
}
