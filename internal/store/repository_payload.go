// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/MKhiriev/zk-vault/internal/logger"
	"github.com/MKhiriev/zk-vault/models"
)

// maxAttempts bounds how often a retryable driver error is retried.
const maxAttempts = 3

// payloadRepository is the SQL-backed implementation of [PayloadRepository].
// Queries are built with squirrel so the same code serves SQLite and
// PostgreSQL; only the placeholder format differs.
type payloadRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewPayloadRepository constructs a [PayloadRepository] over db.
func NewPayloadRepository(db *DB, log *logger.Logger) PayloadRepository {
	log.Debug().Str("dialect", db.dialect).Msg("creating payload repository")
	return &payloadRepository{
		db:     db,
		logger: log,
	}
}

func (r *payloadRepository) Save(ctx context.Context, payload models.StoredPayload) error {
	log := r.log(ctx)

	if payload.ID == "" || payload.Payload.UserID == "" {
		return ErrInvalidPayload
	}
	if payload.CreatedAt.IsZero() {
		payload.CreatedAt = time.Now().UTC()
	}

	query, args, err := buildInsertPayloadQuery(r.db.placeholder(), payload)
	if err != nil {
		log.Err(err).Str("func", "*payloadRepository.Save").Msg("error building query")
		return wrapf(ErrBuildingSQLQuery, err)
	}

	var res sql.Result
	err = r.retry(ctx, func() error {
		res, err = r.db.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		if r.db.isUniqueViolation(err) {
			return ErrPayloadAlreadyExists
		}
		log.Err(err).Str("func", "*payloadRepository.Save").Msg("error inserting payload")
		return wrapf(ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return wrapf(ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrPayloadNotSaved
	}

	log.Debug().
		Str("func", "*payloadRepository.Save").
		Str("id", payload.ID).
		Str("user_id", payload.Payload.UserID).
		Int("ciphertext_len", len(payload.Payload.Ciphertext)).
		Msg("payload saved")

	return nil
}

func (r *payloadRepository) Get(ctx context.Context, id string) (models.StoredPayload, error) {
	log := r.log(ctx)

	query, args, err := buildSelectPayloadQuery(r.db.placeholder(), id)
	if err != nil {
		log.Err(err).Str("func", "*payloadRepository.Get").Msg("error building query")
		return models.StoredPayload{}, wrapf(ErrBuildingSQLQuery, err)
	}

	payload, err := scanPayload(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.StoredPayload{}, ErrPayloadNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*payloadRepository.Get").Msg("error scanning payload")
		return models.StoredPayload{}, wrapf(ErrScanningRow, err)
	}

	return payload, nil
}

func (r *payloadRepository) List(ctx context.Context, userID string) ([]models.StoredPayload, error) {
	log := r.log(ctx)

	query, args, err := buildListPayloadsQuery(r.db.placeholder(), userID)
	if err != nil {
		log.Err(err).Str("func", "*payloadRepository.List").Msg("error building query")
		return nil, wrapf(ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*payloadRepository.List").Msg("error executing query")
		return nil, wrapf(ErrExecutingQuery, err)
	}
	defer rows.Close()

	payloads := make([]models.StoredPayload, 0)
	for rows.Next() {
		payload, err := scanPayload(rows)
		if err != nil {
			log.Err(err).Str("func", "*payloadRepository.List").Msg("error scanning rows")
			return nil, wrapf(ErrScanningRows, err)
		}
		payloads = append(payloads, payload)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapf(ErrScanningRows, err)
	}

	return payloads, nil
}

func (r *payloadRepository) Delete(ctx context.Context, id string) error {
	log := r.log(ctx)

	query, args, err := buildDeletePayloadQuery(r.db.placeholder(), id)
	if err != nil {
		log.Err(err).Str("func", "*payloadRepository.Delete").Msg("error building query")
		return wrapf(ErrBuildingSQLQuery, err)
	}

	var res sql.Result
	err = r.retry(ctx, func() error {
		res, err = r.db.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		log.Err(err).Str("func", "*payloadRepository.Delete").Msg("error deleting payload")
		return wrapf(ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return wrapf(ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrPayloadNotFound
	}

	return nil
}

// retry runs op again while the driver reports a retryable failure.
func (r *payloadRepository) retry(ctx context.Context, op func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = op(); err == nil || r.db.classify(err) != Retryable {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		r.log(ctx).Warn().Err(err).Int("attempt", attempt).Msg("retryable database error")
	}
	return err
}

func (r *payloadRepository) log(ctx context.Context) *logger.Logger {
	if r.logger != nil {
		return r.logger
	}
	return logger.FromContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayload(row rowScanner) (models.StoredPayload, error) {
	var (
		p          models.StoredPayload
		ciphertext []byte
		iv         []byte
	)
	err := row.Scan(
		&p.ID,
		&p.Payload.UserID,
		&p.Label,
		&ciphertext,
		&iv,
		&p.Payload.Algorithm,
		&p.Payload.SchemaVersion,
		&p.CreatedAt,
	)
	if err != nil {
		return models.StoredPayload{}, err
	}
	p.Payload.Ciphertext = models.ByteArray(ciphertext)
	p.Payload.IV = models.ByteArray(iv)
	return p, nil
}
