// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/zk-vault/internal/config"
	"github.com/MKhiriev/zk-vault/internal/logger"
	"github.com/MKhiriev/zk-vault/migrations"
)

// DB is a database handle bound to one SQL dialect.
type DB struct {
	*sql.DB
	dialect            string
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// NewDB opens the database described by cfg.DSN. postgres:// and
// postgresql:// DSNs go through pgx, everything else is treated as a
// SQLite file path (":memory:" included).
func NewDB(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	switch {
	case cfg.DSN == "":
		return nil, ErrUnsupportedDSN
	case isPostgresDSN(cfg.DSN):
		return NewConnectPostgres(ctx, cfg, log)
	default:
		return NewConnectSQLite(ctx, cfg, log)
	}
}

// WrapDB binds an already opened connection pool to dialect. A nil
// classifier treats every driver error as non-retryable.
func WrapDB(conn *sql.DB, dialect string, classifier ErrorClassificator, log *logger.Logger) *DB {
	return &DB{DB: conn, dialect: dialect, errorClassificator: classifier, logger: log}
}

// Dialect reports the goose dialect name of the connection.
func (db *DB) Dialect() string {
	return db.dialect
}

// Migrate applies the embedded migrations for the connection's dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

func (db *DB) placeholder() sq.PlaceholderFormat {
	if db.dialect == migrations.DialectPostgres {
		return sq.Dollar
	}
	return sq.Question
}

func (db *DB) isUniqueViolation(err error) bool {
	if db.errorClassificator == nil {
		return false
	}
	return db.errorClassificator.IsUniqueViolation(err)
}

func (db *DB) classify(err error) ErrorClassification {
	if db.errorClassificator == nil {
		return NonRetryable
	}
	return db.errorClassificator.Classify(err)
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func wrapf(sentinel error, err error) error {
	return fmt.Errorf("%w: %w", sentinel, err)
}
