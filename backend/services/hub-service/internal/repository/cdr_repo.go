package repository

import (
	"context"
	"database/sql"
	"fmt"

	libdb "roamhub/backend/libs/db"
	"roamhub/backend/libs/oicp"
	"roamhub/backend/libs/oicp/ids"
	"roamhub/backend/libs/oicp/replication"
)

// CDRRepository stores received charge detail records.
type CDRRepository struct {
	db *sql.DB
}

func NewCDRRepository(db *sql.DB) *CDRRepository {
	return &CDRRepository{db: db}
}

// SaveCDR stores cdr; a second record for the same session is a conflict.
func (r *CDRRepository) SaveCDR(ctx context.Context, operator ids.OperatorID, cdr oicp.ChargeDetailRecord) error {
	payload, err := cdr.Marshal()
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO hub_charge_detail_records (session_id, operator_id, evse_id, payload)
		VALUES ($1, $2, $3, $4)
	`
	_, err = r.db.ExecContext(ctx, query, cdr.SessionID().String(), operator.String(), cdr.EVSEID().String(), string(payload))
	if libdb.IsUniqueViolation(err) {
		return fmt.Errorf("cdr %s: %w", cdr.SessionID(), replication.ErrConflict)
	}
	return err
}
