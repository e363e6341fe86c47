// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

//go:generate mockgen -source=interfaces.go -destination=../mock/client_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/zk-vault/internal/crypto"
	"github.com/MKhiriev/zk-vault/models"
)

// Vault is the subset of the vault service the commands drive.
type Vault interface {
	Unlock(masterSecret, userID string) error
	UnlockWithToken(masterSecret, token string) error
	Lock()
	Seal(ctx context.Context, label, plaintext string) (string, error)
	Open(ctx context.Context, id string) (string, error)
	List(ctx context.Context) ([]models.StoredPayload, error)
	Delete(ctx context.Context, id string) error
	HealthCheck(ctx context.Context, opts crypto.ProbeOptions) error
}

// SecretSource yields the master secret for the current command.
type SecretSource interface {
	Secret() (string, error)
}
