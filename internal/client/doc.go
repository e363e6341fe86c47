// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the vault command-line application runtime.
//
// It resolves the master secret, unlocks the vault for the duration of one
// command and always locks it again before returning.
package client
