package replication

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamhub/backend/libs/oicp"
	"roamhub/backend/libs/oicp/ids"
)

func TestDiff(t *testing.T) {
	at := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	prev := []oicp.EVSEStatusRecord{
		status("DE*GEF*E1", oicp.EVSEAvailable),
		status("DE*GEF*E2", oicp.EVSEAvailable),
		status("DE*GEF*E3", oicp.EVSEAvailable),
	}
	next := []oicp.EVSEStatusRecord{
		status("DE*GEF*E4", oicp.EVSEAvailable),
		status("DE*GEF*E3", oicp.EVSEAvailable),
		status("DE*GEF*E1", oicp.EVSEOutOfService),
	}

	got := Diff[ids.EVSEID](prev, next, at)
	require.Len(t, got, 3)

	types := make([]oicp.DeltaType, 0, len(got))
	for _, r := range got {
		d, ok := r.Delta()
		require.True(t, ok)
		assert.True(t, at.Equal(d.LastUpdate))
		types = append(types, d.Type)
	}
	assert.Equal(t, []string{"DE*GEF*E1 OutOfService", "DE*GEF*E2 Available", "DE*GEF*E4 Available"}, keys(got))
	assert.Equal(t, []oicp.DeltaType{oicp.DeltaUpdate, oicp.DeltaDelete, oicp.DeltaInsert}, types)

	assert.Empty(t, Diff[ids.EVSEID](next, next, at))
}

func TestApplyDeltasRebuildsSnapshot(t *testing.T) {
	at := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	prev := []oicp.EVSEStatusRecord{
		status("DE*GEF*E1", oicp.EVSEAvailable),
		status("DE*GEF*E2", oicp.EVSEAvailable),
	}
	next := []oicp.EVSEStatusRecord{
		status("DE*GEF*E1", oicp.EVSEReserved),
		status("DE*GEF*E3", oicp.EVSEAvailable),
	}

	got := ApplyDeltas[ids.EVSEID](prev, Diff[ids.EVSEID](prev, next, at))
	assert.Equal(t, keys(next), keys(got))
}

func TestApplyDeltasSkipsStale(t *testing.T) {
	newer := time.Date(2024, 4, 2, 12, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)
	held := []oicp.EVSEStatusRecord{
		status("DE*GEF*E1", oicp.EVSEOccupied).WithDelta(oicp.Delta{LastUpdate: newer}),
	}

	got := ApplyDeltas[ids.EVSEID](held, []oicp.EVSEStatusRecord{
		status("DE*GEF*E1", oicp.EVSEAvailable).WithDelta(oicp.Delta{Type: oicp.DeltaUpdate, LastUpdate: older}),
	})
	assert.Equal(t, []string{"DE*GEF*E1 Occupied"}, keys(got))

	got = ApplyDeltas[ids.EVSEID](held, []oicp.EVSEStatusRecord{
		status("DE*GEF*E1", oicp.EVSEAvailable),
		status("DE*GEF*E2", oicp.EVSEReserved),
	})
	assert.Equal(t, []string{"DE*GEF*E1 Available", "DE*GEF*E2 Reserved"}, keys(got))
}
