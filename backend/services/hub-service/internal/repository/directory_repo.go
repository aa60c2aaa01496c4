package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	libdb "roamhub/backend/libs/db"
	"roamhub/backend/libs/oicp"
	"roamhub/backend/libs/oicp/ids"
	"roamhub/backend/libs/oicp/replication"
)

// DirectoryRepository persists one kind of directory record in table.
type DirectoryRepository[R replication.Record[ids.EVSEID, R]] struct {
	db    *sql.DB
	table string
	codec Codec[R]
	now   func() time.Time
}

// NewDirectoryRepository returns a repository over table.
func NewDirectoryRepository[R replication.Record[ids.EVSEID, R]](db *sql.DB, table string, codec Codec[R]) *DirectoryRepository[R] {
	return &DirectoryRepository[R]{db: db, table: table, codec: codec, now: time.Now}
}

// Apply merges a pushed batch inside one transaction. The operator's rows are
// locked for the duration so concurrent pushes of one operator serialize.
func (r *DirectoryRepository[R]) Apply(ctx context.Context, op replication.Operator, action oicp.ActionType, records []R) (replication.Outcome[R], error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return replication.Outcome[R]{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := upsertOperator(ctx, tx, op); err != nil {
		return replication.Outcome[R]{}, err
	}
	held, err := r.lockLive(ctx, tx, op.ID)
	if err != nil {
		return replication.Outcome[R]{}, err
	}
	out, err := replication.Merge[ids.EVSEID](held, op.ID, action, records, r.now().UTC())
	if err != nil {
		return replication.Outcome[R]{}, err
	}
	for _, c := range out.Changes {
		if err := r.write(ctx, tx, c); err != nil {
			return replication.Outcome[R]{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return replication.Outcome[R]{}, err
	}
	return out, nil
}

func upsertOperator(ctx context.Context, tx *sql.Tx, op replication.Operator) error {
	const query = `
		INSERT INTO hub_operators (id, name, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), hub_operators.name),
			updated_at = NOW()
	`
	_, err := tx.ExecContext(ctx, query, op.ID.String(), op.Name)
	return err
}

func (r *DirectoryRepository[R]) lockLive(ctx context.Context, tx *sql.Tx, operator ids.OperatorID) ([]R, error) {
	query := `SELECT payload FROM ` + r.table + ` WHERE operator_id = $1 AND deleted_at IS NULL FOR UPDATE`
	rows, err := tx.QueryContext(ctx, query, operator.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []R
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		rec, err := r.codec.Decode(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.table, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *DirectoryRepository[R]) write(ctx context.Context, tx *sql.Tx, c replication.Change[R]) error {
	key := c.Record.Key().String()
	switch c.Type {
	case oicp.DeltaDelete:
		_, err := tx.ExecContext(ctx, `UPDATE `+r.table+` SET deleted_at = $2, updated_at = $2 WHERE evse_id = $1`, key, c.At)
		return err
	case oicp.DeltaUpdate:
		payload, err := r.codec.Encode(c.Record)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE `+r.table+` SET payload = $2, updated_at = $3 WHERE evse_id = $1`, key, payload, c.At)
		return err
	}

	payload, err := r.codec.Encode(c.Record)
	if err != nil {
		return err
	}
	// A tombstone is revived; a live row of another operator is a conflict.
	query := `
		INSERT INTO ` + r.table + ` (evse_id, operator_id, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (evse_id) DO UPDATE SET
			operator_id = EXCLUDED.operator_id,
			payload = EXCLUDED.payload,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at,
			deleted_at = NULL
		WHERE ` + r.table + `.deleted_at IS NOT NULL
	`
	res, err := tx.ExecContext(ctx, query, key, c.Operator.String(), payload, c.At)
	if err != nil {
		if libdb.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", replication.ErrConflict, key)
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s is held by another operator", replication.ErrConflict, key)
	}
	return nil
}

// Groups returns the live records per operator.
func (r *DirectoryRepository[R]) Groups(ctx context.Context) ([]replication.Group[R], error) {
	query := `
		SELECT t.operator_id, COALESCE(o.name, ''), t.payload, t.created_at, t.updated_at, FALSE
		FROM ` + r.table + ` t
		LEFT JOIN hub_operators o ON o.id = t.operator_id
		WHERE t.deleted_at IS NULL
		ORDER BY t.operator_id COLLATE "C", t.evse_id COLLATE "C"
	`
	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.group(rows, nil)
}

// ChangesSince returns rows touched after since, annotated with their delta.
func (r *DirectoryRepository[R]) ChangesSince(ctx context.Context, since time.Time) ([]replication.Group[R], error) {
	query := `
		SELECT t.operator_id, COALESCE(o.name, ''), t.payload, t.created_at, t.updated_at, t.deleted_at IS NOT NULL
		FROM ` + r.table + ` t
		LEFT JOIN hub_operators o ON o.id = t.operator_id
		WHERE t.updated_at > $1
		ORDER BY t.operator_id COLLATE "C", t.evse_id COLLATE "C"
	`
	rows, err := r.query(ctx, query, since.UTC())
	if err != nil {
		return nil, err
	}
	return r.group(rows, &since)
}

// ByID returns the live records among evseIDs.
func (r *DirectoryRepository[R]) ByID(ctx context.Context, evseIDs []ids.EVSEID) (map[ids.EVSEID]R, error) {
	keys := make([]string, 0, len(evseIDs))
	for _, id := range evseIDs {
		keys = append(keys, id.String())
	}
	query := `SELECT payload FROM ` + r.table + ` WHERE evse_id = ANY($1) AND deleted_at IS NULL`
	rows, err := r.db.QueryContext(ctx, query, keys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[ids.EVSEID]R, len(evseIDs))
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		rec, err := r.codec.Decode(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.table, err)
		}
		out[rec.Key()] = rec
	}
	return out, rows.Err()
}

// directoryRow is one scanned row in operator order.
type directoryRow struct {
	operator string
	name     string
	payload  string
	created  time.Time
	updated  time.Time
	deleted  bool
}

func (r *DirectoryRepository[R]) query(ctx context.Context, query string, args ...any) ([]directoryRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []directoryRow
	for rows.Next() {
		var row directoryRow
		if err := rows.Scan(&row.operator, &row.name, &row.payload, &row.created, &row.updated, &row.deleted); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// group decodes rows into per-operator groups. With since set every record is
// annotated: delete for tombstones, insert when created after since, else update.
func (r *DirectoryRepository[R]) group(rows []directoryRow, since *time.Time) ([]replication.Group[R], error) {
	var out []replication.Group[R]
	for _, row := range rows {
		rec, err := r.codec.Decode(row.payload)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.table, err)
		}
		if since != nil {
			t := oicp.DeltaUpdate
			switch {
			case row.deleted:
				t = oicp.DeltaDelete
			case row.created.After(*since):
				t = oicp.DeltaInsert
			}
			rec = rec.WithDelta(oicp.Delta{Type: t, LastUpdate: row.updated})
		}
		if n := len(out); n == 0 || out[n-1].Operator.ID.String() != row.operator {
			id, err := ids.ParseOperatorID(row.operator)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", r.table, err)
			}
			out = append(out, replication.Group[R]{Operator: replication.Operator{ID: id, Name: row.name}})
		}
		out[len(out)-1].Records = append(out[len(out)-1].Records, rec)
	}
	return out, nil
}
