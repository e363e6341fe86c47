// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/zk-vault/models"
)

// PayloadRepository persists sealed payloads. It never sees plaintext and
// never interprets the ciphertext it stores.
type PayloadRepository interface {
	// Save inserts a new payload. A duplicate id yields [ErrPayloadAlreadyExists].
	Save(ctx context.Context, payload models.StoredPayload) error
	// Get returns the payload with the given id or [ErrPayloadNotFound].
	Get(ctx context.Context, id string) (models.StoredPayload, error)
	// List returns every payload owned by userID, oldest first.
	List(ctx context.Context, userID string) ([]models.StoredPayload, error)
	// Delete removes the payload with the given id or returns [ErrPayloadNotFound].
	Delete(ctx context.Context, id string) error
}

// ErrorClassificator inspects driver errors for a single SQL dialect.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
	IsUniqueViolation(err error) bool
}
