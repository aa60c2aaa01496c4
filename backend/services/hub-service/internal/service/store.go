package service

import (
	"context"
	"time"

	"roamhub/backend/libs/oicp"
	"roamhub/backend/libs/oicp/ids"
	"roamhub/backend/libs/oicp/replication"
)

type (
	DataOutcome   = replication.Outcome[oicp.EVSEDataRecord]
	StatusOutcome = replication.Outcome[oicp.EVSEStatusRecord]
	DataGroup     = replication.Group[oicp.EVSEDataRecord]
	StatusGroup   = replication.Group[oicp.EVSEStatusRecord]
	StatusChange  = replication.Change[oicp.EVSEStatusRecord]
)

// DirectoryStore holds the pushed EVSE directory. Apply methods follow the
// replication semantics of the action type and return replication.ErrConflict
// when an insert names a held key.
type DirectoryStore interface {
	ApplyEVSEData(ctx context.Context, op replication.Operator, action oicp.ActionType, records []oicp.EVSEDataRecord) (DataOutcome, error)
	ApplyEVSEStatus(ctx context.Context, op replication.Operator, action oicp.ActionType, records []oicp.EVSEStatusRecord) (StatusOutcome, error)
	// EVSEData returns live records, or only the changes after since when set.
	EVSEData(ctx context.Context, since *time.Time) ([]DataGroup, error)
	EVSEStatus(ctx context.Context) ([]StatusGroup, error)
	EVSEStatusByID(ctx context.Context, evseIDs []ids.EVSEID) (map[ids.EVSEID]oicp.EVSEStatusRecord, error)
}

// MemoryStore keeps the directory in process.
type MemoryStore struct {
	data   *replication.Directory[ids.EVSEID, oicp.EVSEDataRecord]
	status *replication.Directory[ids.EVSEID, oicp.EVSEStatusRecord]
}

// NewMemoryStore returns an empty store. A nil clock uses the wall clock.
func NewMemoryStore(clock func() time.Time) *MemoryStore {
	return &MemoryStore{
		data:   replication.NewDirectory[ids.EVSEID, oicp.EVSEDataRecord](clock),
		status: replication.NewDirectory[ids.EVSEID, oicp.EVSEStatusRecord](clock),
	}
}

func (m *MemoryStore) ApplyEVSEData(_ context.Context, op replication.Operator, action oicp.ActionType, records []oicp.EVSEDataRecord) (DataOutcome, error) {
	return m.data.Apply(op, action, records)
}

func (m *MemoryStore) ApplyEVSEStatus(_ context.Context, op replication.Operator, action oicp.ActionType, records []oicp.EVSEStatusRecord) (StatusOutcome, error) {
	return m.status.Apply(op, action, records)
}

func (m *MemoryStore) EVSEData(_ context.Context, since *time.Time) ([]DataGroup, error) {
	if since != nil {
		return m.data.ChangesSince(*since), nil
	}
	return m.data.Groups(), nil
}

func (m *MemoryStore) EVSEStatus(context.Context) ([]StatusGroup, error) {
	return m.status.Groups(), nil
}

func (m *MemoryStore) EVSEStatusByID(_ context.Context, evseIDs []ids.EVSEID) (map[ids.EVSEID]oicp.EVSEStatusRecord, error) {
	out := make(map[ids.EVSEID]oicp.EVSEStatusRecord, len(evseIDs))
	for _, id := range evseIDs {
		if r, _, ok := m.status.Get(id); ok {
			out[id] = r
		}
	}
	return out, nil
}
