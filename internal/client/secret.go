// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// MasterSecretEnv names the variable read before falling back to a prompt.
const MasterSecretEnv = "VAULT_MASTER_SECRET"

// ErrNoTerminal is returned when the secret must be prompted for but stdin
// is not a terminal.
var ErrNoTerminal = errors.New("master secret not set and stdin is not a terminal")

// EnvOrPrompt reads the master secret from [MasterSecretEnv], or prompts on
// the terminal behind fd without echo.
type EnvOrPrompt struct {
	fd     int
	prompt io.Writer
	getenv func(string) string
}

func NewEnvOrPrompt(fd int, prompt io.Writer) *EnvOrPrompt {
	return &EnvOrPrompt{fd: fd, prompt: prompt, getenv: os.Getenv}
}

func (p *EnvOrPrompt) Secret() (string, error) {
	if secret := p.getenv(MasterSecretEnv); secret != "" {
		return secret, nil
	}

	if !term.IsTerminal(p.fd) {
		return "", ErrNoTerminal
	}

	fmt.Fprint(p.prompt, "Master secret: ")
	secret, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.prompt)
	if err != nil {
		return "", fmt.Errorf("error reading master secret: %w", err)
	}
	return string(secret), nil
}
