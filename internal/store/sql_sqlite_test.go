// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/zk-vault/internal/config"
	"github.com/MKhiriev/zk-vault/internal/logger"
	"github.com/MKhiriev/zk-vault/migrations"
)

func TestSQLiteErrorClassifier(t *testing.T) {
	c := NewSQLiteErrorClassifier()

	assert.Equal(t, Retryable, c.Classify(sqlite3.Error{Code: sqlite3.ErrBusy}))
	assert.Equal(t, Retryable, c.Classify(sqlite3.Error{Code: sqlite3.ErrLocked}))
	assert.Equal(t, NonRetryable, c.Classify(sqlite3.Error{Code: sqlite3.ErrConstraint}))
	assert.Equal(t, NonRetryable, c.Classify(errors.New("plain")))

	assert.True(t, c.IsUniqueViolation(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}))
	assert.False(t, c.IsUniqueViolation(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}))
	assert.False(t, c.IsUniqueViolation(nil))
}

func TestPostgresErrorClassifier(t *testing.T) {
	c := NewPostgresErrorClassifier()

	assert.Equal(t, Retryable, c.Classify(pgError(pgerrcode.DeadlockDetected)))
	assert.Equal(t, Retryable, c.Classify(pgError(pgerrcode.ConnectionFailure)))
	assert.Equal(t, NonRetryable, c.Classify(pgError(pgerrcode.UniqueViolation)))
	assert.Equal(t, NonRetryable, c.Classify(nil))

	assert.True(t, c.IsUniqueViolation(pgError(pgerrcode.UniqueViolation)))
	assert.False(t, c.IsUniqueViolation(pgError(pgerrcode.ForeignKeyViolation)))
}

func TestNewDB_EmptyDSN(t *testing.T) {
	_, err := NewDB(context.Background(), config.DB{}, logger.Nop())
	require.ErrorIs(t, err, ErrUnsupportedDSN)
}

func Test_isPostgresDSN(t *testing.T) {
	assert.True(t, isPostgresDSN("postgres://user@localhost/vault"))
	assert.True(t, isPostgresDSN("postgresql://user@localhost/vault"))
	assert.False(t, isPostgresDSN("vault.db"))
	assert.False(t, isPostgresDSN(":memory:"))
}

// TestSQLite_RoundTrip runs against a real SQLite file. It is skipped when the
// driver was built without cgo.
func TestSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "nested", "vault.db")

	db, err := NewDB(ctx, config.DB{DSN: dsn}, logger.Nop())
	if err != nil {
		t.Skipf("sqlite3 unavailable: %v", err)
	}
	defer db.Close()

	require.Equal(t, migrations.DialectSQLite, db.Dialect())
	require.NoError(t, db.Migrate())

	repo := NewPayloadRepository(db, logger.Nop())
	p := samplePayload()

	require.NoError(t, repo.Save(ctx, p))
	require.ErrorIs(t, repo.Save(ctx, p), ErrPayloadAlreadyExists)

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Payload, got.Payload)
	assert.Equal(t, p.Label, got.Label)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))

	list, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.Get(ctx, p.ID)
	require.ErrorIs(t, err, ErrPayloadNotFound)
}
