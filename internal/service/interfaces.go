// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

// TokenVerifier turns an identity token into the opaque userId the vault
// is unlocked for.
type TokenVerifier interface {
	UserID(token string) (string, error)
}

// IDGenerator yields identifiers for newly sealed payloads.
type IDGenerator interface {
	Generate() string
}
