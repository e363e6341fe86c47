// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/zk-vault/internal/logger"
	"github.com/MKhiriev/zk-vault/internal/mock"
	"github.com/MKhiriev/zk-vault/internal/store"
	"github.com/MKhiriev/zk-vault/migrations"
	"github.com/MKhiriev/zk-vault/models"
)

func newClassifiedRepo(t *testing.T) (store.PayloadRepository, sqlmock.Sqlmock, *mock.MockErrorClassificator) {
	t.Helper()

	conn, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	classifier := mock.NewMockErrorClassificator(gomock.NewController(t))
	db := store.WrapDB(conn, migrations.DialectSQLite, classifier, logger.Nop())
	return store.NewPayloadRepository(db, logger.Nop()), sqlMock, classifier
}

func storedPayload() models.StoredPayload {
	return models.StoredPayload{
		ID:    "0192f1a0-0000-7000-8000-000000000002",
		Label: "mail",
		Payload: models.EncryptedPayload{
			Ciphertext:    models.ByteArray{1, 2, 3},
			IV:            make(models.ByteArray, 16),
			UserID:        "u1",
			Algorithm:     "AES-256-GCM",
			SchemaVersion: 1,
		},
		CreatedAt: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
	}
}

func TestPayloadRepository_Save_ClassifierDrivesRetry(t *testing.T) {
	repo, sqlMock, classifier := newClassifiedRepo(t)
	transient := errors.New("transient")

	sqlMock.ExpectExec("INSERT INTO payloads").WillReturnError(transient)
	sqlMock.ExpectExec("INSERT INTO payloads").WillReturnResult(sqlmock.NewResult(1, 1))
	classifier.EXPECT().Classify(transient).Return(store.Retryable)

	require.NoError(t, repo.Save(context.Background(), storedPayload()))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestPayloadRepository_Save_ClassifierStopsOnNonRetryable(t *testing.T) {
	repo, sqlMock, classifier := newClassifiedRepo(t)
	fatal := errors.New("fatal")

	sqlMock.ExpectExec("INSERT INTO payloads").WillReturnError(fatal)
	classifier.EXPECT().Classify(fatal).Return(store.NonRetryable)
	classifier.EXPECT().IsUniqueViolation(fatal).Return(false)

	err := repo.Save(context.Background(), storedPayload())
	require.ErrorIs(t, err, store.ErrExecutingStatement)
	require.ErrorIs(t, err, fatal)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestPayloadRepository_Save_ClassifierReportsDuplicate(t *testing.T) {
	repo, sqlMock, classifier := newClassifiedRepo(t)
	dup := errors.New("duplicate")

	sqlMock.ExpectExec("INSERT INTO payloads").WillReturnError(dup)
	classifier.EXPECT().Classify(dup).Return(store.NonRetryable)
	classifier.EXPECT().IsUniqueViolation(dup).Return(true)

	require.ErrorIs(t, repo.Save(context.Background(), storedPayload()), store.ErrPayloadAlreadyExists)
}

func TestPayloadRepository_Delete_GivesUpAfterRetries(t *testing.T) {
	repo, sqlMock, classifier := newClassifiedRepo(t)
	busy := errors.New("busy")

	for range 3 {
		sqlMock.ExpectExec("DELETE FROM payloads").WillReturnError(busy)
	}
	classifier.EXPECT().Classify(busy).Return(store.Retryable).Times(3)

	err := repo.Delete(context.Background(), "id-1")
	require.ErrorIs(t, err, busy)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
