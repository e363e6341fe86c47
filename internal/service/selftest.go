// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/MKhiriev/zk-vault/internal/crypto"
)

const selfTestPlaintext = "zk-vault self-test: the quick brown fox 🦊"

// SelfTest force-locks the vault, unlocks a throwaway identity, seals and
// opens a fixed string and locks again. It reports whether the round trip
// reproduced the input; failures are logged, never returned.
func (s *VaultService) SelfTest(ctx context.Context) bool {
	log := s.logger

	s.sessions.Lock()
	defer s.sessions.Lock()

	userID := "self-test-" + s.ids.Generate()
	if err := s.sessions.Unlock(rand.Text(), userID); err != nil {
		log.Err(err).Msg("self-test unlock failed")
		return false
	}

	payload, err := s.engine.Encrypt(ctx, selfTestPlaintext, "")
	if err != nil {
		log.Err(err).Msg("self-test encrypt failed")
		return false
	}

	plaintext, err := s.engine.Decrypt(ctx, payload.Ciphertext, payload.IV, userID)
	if err != nil {
		log.Err(err).Msg("self-test decrypt failed")
		return false
	}

	if plaintext != selfTestPlaintext {
		log.Error().Msg("self-test round trip mismatch")
		return false
	}

	log.Debug().Msg("self-test passed")
	return true
}

// HealthCheck runs the capability probe and the self-test. Probe warnings
// are logged; probe issues and a failing self-test are errors.
func (s *VaultService) HealthCheck(ctx context.Context, opts crypto.ProbeOptions) error {
	report := crypto.Probe(opts)
	for _, w := range report.Warnings {
		s.logger.Warn().Str("warning", w).Msg("capability probe warning")
	}
	if !report.Supported {
		return fmt.Errorf("%w: %s", ErrUnsupportedEnvironment, strings.Join(report.Issues, "; "))
	}

	if !s.SelfTest(ctx) {
		return ErrSelfTestFailed
	}
	return nil
}
