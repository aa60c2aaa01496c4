package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "evse_status_pkey"}
	assert.True(t, IsUniqueViolation(dup))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", dup)))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("23505")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestNewPostgresDBEmptyDSN(t *testing.T) {
	_, err := NewPostgresDB("  ")
	assert.Error(t, err)
}

type recordingExecer struct {
	queries []string
	failAt  int
}

func (r *recordingExecer) ExecContext(_ context.Context, query string, _ ...any) (sql.Result, error) {
	r.queries = append(r.queries, query)
	if len(r.queries) == r.failAt {
		return nil, errors.New("syntax error")
	}
	return nil, nil
}

func TestMigrate(t *testing.T) {
	ex := &recordingExecer{}
	require.NoError(t, Migrate(context.Background(), ex, "CREATE A", "CREATE B"))
	assert.Equal(t, []string{"CREATE A", "CREATE B"}, ex.queries)

	ex = &recordingExecer{failAt: 2}
	err := Migrate(context.Background(), ex, "CREATE A", "CREATE B", "CREATE C")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration 2")
	assert.Len(t, ex.queries, 2)
}
