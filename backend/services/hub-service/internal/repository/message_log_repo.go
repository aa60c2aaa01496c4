package repository

import (
	"context"
	"database/sql"
)

// MessageLogRepository stores raw OICP messages.
type MessageLogRepository struct {
	db *sql.DB
}

// NewMessageLogRepository ctor.
func NewMessageLogRepository(db *sql.DB) *MessageLogRepository {
	return &MessageLogRepository{db: db}
}

// Save stores log entry.
func (r *MessageLogRepository) Save(ctx context.Context, partner, direction, operation string, payload []byte) error {
	const query = `
		INSERT INTO oicp_messages (partner, direction, operation, payload)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, partner, direction, operation, payload)
	return err
}
