// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "math/bits"

// SaltSize is the length in bytes of a derived salt.
const SaltSize = 32

// appIdentity is mixed into every salt so that the same userId produces
// different salts in different applications.
const appIdentity = "zk-vault/credential-store/v1"

// DeriveSalt deterministically derives a 32-byte salt from userID.
//
// The salt is computed without randomness: every byte of userID is folded
// into the salt index-wise, XORed with a rotated byte of the application
// identity constant and a per-position perturbation. The same userID always
// yields the same salt, so no per-user salt has to be stored.
//
// The salt is publicly derivable from the userId. That weakens resistance to
// precomputation across users compared to random per-secret salts; existing
// ciphertexts depend on this exact derivation, so it must not change without
// a migration.
func DeriveSalt(userID string) ([SaltSize]byte, error) {
	var salt [SaltSize]byte
	if userID == "" {
		return salt, validationError("derive salt", "user id must not be empty")
	}

	u := []byte(userID)
	rounds := max(len(u), SaltSize)
	for i := 0; i < rounds; i++ {
		a := bits.RotateLeft8(appIdentity[i%len(appIdentity)], i%8)
		salt[i%SaltSize] ^= u[i%len(u)] ^ a ^ byte(i*0x9d+0x5b)
	}

	return salt, nil
}
