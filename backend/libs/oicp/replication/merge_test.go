package replication

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamhub/backend/libs/oicp"
	"roamhub/backend/libs/oicp/ids"
)

func TestMergeLeavesHeldUntouched(t *testing.T) {
	at := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	held := []oicp.EVSEStatusRecord{
		status("DE*GEF*E3", oicp.EVSEAvailable),
		status("DE*GEF*E1", oicp.EVSEAvailable),
		status("DE*GEF*E2", oicp.EVSEAvailable),
	}
	before := append([]oicp.EVSEStatusRecord(nil), held...)

	out, err := Merge[ids.EVSEID](held, gef.ID, oicp.ActionFullLoad, []oicp.EVSEStatusRecord{
		status("DE*GEF*E2", oicp.EVSEOccupied),
	}, at)
	require.NoError(t, err)
	assert.Equal(t, before, held)

	assert.Equal(t, 2, out.Deleted)
	assert.Equal(t, 1, out.Updated)
	require.Len(t, out.Changes, 3)
	assert.Equal(t, "DE*GEF*E1", out.Changes[0].Record.EVSEID().String())
	assert.Equal(t, "DE*GEF*E3", out.Changes[1].Record.EVSEID().String())
	assert.Equal(t, oicp.DeltaUpdate, out.Changes[2].Type)
	for _, c := range out.Changes {
		assert.Equal(t, at, c.At)
		assert.Equal(t, gef.ID, c.Operator)
	}
}

func TestMergeInsertRejectsDuplicatesInBatch(t *testing.T) {
	_, err := Merge[ids.EVSEID](nil, gef.ID, oicp.ActionInsert, []oicp.EVSEStatusRecord{
		status("DE*GEF*E1", oicp.EVSEAvailable),
		status("DE*GEF*E1", oicp.EVSEOccupied),
	}, time.Now())
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestMergeRepeatedKeyInUpdateBatch(t *testing.T) {
	out, err := Merge[ids.EVSEID](nil, gef.ID, oicp.ActionUpdate, []oicp.EVSEStatusRecord{
		status("DE*GEF*E1", oicp.EVSEAvailable),
		status("DE*GEF*E1", oicp.EVSEOccupied),
		status("DE*GEF*E1", oicp.EVSEOccupied),
	}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, out.Inserted)
	assert.Equal(t, 1, out.Updated)
	assert.Equal(t, 1, out.Unchanged)
}

func TestMergeDeleteIgnoresUnknown(t *testing.T) {
	out, err := Merge[ids.EVSEID](nil, gef.ID, oicp.ActionDelete, []oicp.EVSEStatusRecord{
		status("DE*GEF*E1", oicp.EVSEAvailable),
	}, time.Now())
	require.NoError(t, err)
	assert.False(t, out.Changed())
}
