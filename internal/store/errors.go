// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrPayloadNotFound is returned when no stored payload matches the
	// requested id.
	ErrPayloadNotFound = errors.New("payload was not found")

	// ErrPayloadAlreadyExists is returned when a payload with the same id is
	// already persisted.
	ErrPayloadAlreadyExists = errors.New("payload already exists")

	// ErrPayloadNotSaved is returned when an INSERT completes without error
	// but affects no rows.
	ErrPayloadNotSaved = errors.New("payload was not saved")

	// ErrInvalidPayload is returned when a payload is missing its id or owner.
	ErrInvalidPayload = errors.New("invalid payload")
)

// Low-level database operation errors.
var (
	// ErrUnsupportedDSN is returned when the DSN matches no known driver.
	ErrUnsupportedDSN = errors.New("unsupported database dsn")

	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when an INSERT or DELETE fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan payload row")

	// ErrScanningRows is returned when scanning fails during multi-row
	// iteration.
	ErrScanningRows = errors.New("failed to scan payload rows")
)
