// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package identity adapts tokens issued by the external identity provider
// into the stable, opaque user id the vault derives keys for.
//
// The vault performs no authentication of its own: once a token verifies,
// its subject is trusted completely.
package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when the token fails signature, issuer or
	// expiry validation.
	ErrInvalidToken = errors.New("invalid identity token")

	// ErrEmptySubject is returned when a valid token carries no subject.
	ErrEmptySubject = errors.New("identity token has no subject")

	// ErrNotConfigured is returned when the verifier lacks a sign key.
	ErrNotConfigured = errors.New("identity verifier is not configured")
)

// Verifier validates HS256 identity tokens.
type Verifier struct {
	signKey []byte
	issuer  string
}

// NewVerifier returns a Verifier checking signatures with signKey and, when
// issuer is non-empty, the "iss" claim.
func NewVerifier(signKey, issuer string) *Verifier {
	return &Verifier{signKey: []byte(signKey), issuer: issuer}
}

// UserID validates token and returns its "sub" claim.
func (v *Verifier) UserID(token string) (string, error) {
	if len(v.signKey) == 0 {
		return "", ErrNotConfigured
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
		return v.signKey, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if subject == "" {
		return "", ErrEmptySubject
	}
	return subject, nil
}

// IssueToken signs an HS256 token for userID valid for ttl. It stands in for
// the identity provider in tests and local tooling.
func IssueToken(userID, issuer string, ttl time.Duration, signKey string) (string, error) {
	if userID == "" || ttl <= 0 || signKey == "" {
		return "", errors.New("invalid params for issuing identity token")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signKey))
	if err != nil {
		return "", fmt.Errorf("sign identity token: %w", err)
	}
	return signed, nil
}
