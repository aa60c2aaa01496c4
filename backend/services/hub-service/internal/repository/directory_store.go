package repository

import (
	"context"
	"database/sql"
	"time"

	"roamhub/backend/libs/oicp"
	"roamhub/backend/libs/oicp/ids"
	"roamhub/backend/libs/oicp/replication"
)

// DirectoryStore keeps the EVSE directory in Postgres.
type DirectoryStore struct {
	data   *DirectoryRepository[oicp.EVSEDataRecord]
	status *DirectoryRepository[oicp.EVSEStatusRecord]
}

func NewDirectoryStore(db *sql.DB) *DirectoryStore {
	return &DirectoryStore{
		data:   NewDirectoryRepository(db, "hub_evse_data", DataCodec),
		status: NewDirectoryRepository(db, "hub_evse_status", StatusCodec),
	}
}

func (s *DirectoryStore) ApplyEVSEData(ctx context.Context, op replication.Operator, action oicp.ActionType, records []oicp.EVSEDataRecord) (replication.Outcome[oicp.EVSEDataRecord], error) {
	return s.data.Apply(ctx, op, action, records)
}

func (s *DirectoryStore) ApplyEVSEStatus(ctx context.Context, op replication.Operator, action oicp.ActionType, records []oicp.EVSEStatusRecord) (replication.Outcome[oicp.EVSEStatusRecord], error) {
	return s.status.Apply(ctx, op, action, records)
}

func (s *DirectoryStore) EVSEData(ctx context.Context, since *time.Time) ([]replication.Group[oicp.EVSEDataRecord], error) {
	if since != nil {
		return s.data.ChangesSince(ctx, *since)
	}
	return s.data.Groups(ctx)
}

func (s *DirectoryStore) EVSEStatus(ctx context.Context) ([]replication.Group[oicp.EVSEStatusRecord], error) {
	return s.status.Groups(ctx)
}

func (s *DirectoryStore) EVSEStatusByID(ctx context.Context, evseIDs []ids.EVSEID) (map[ids.EVSEID]oicp.EVSEStatusRecord, error) {
	return s.status.ByID(ctx, evseIDs)
}
