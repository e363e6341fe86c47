// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/zk-vault/internal/client"
	"github.com/MKhiriev/zk-vault/internal/config"
	"github.com/MKhiriev/zk-vault/internal/crypto"
	"github.com/MKhiriev/zk-vault/internal/logger"
	"github.com/MKhiriev/zk-vault/internal/service"
	"github.com/MKhiriev/zk-vault/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.GetStructuredConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, client.Usage)
		return 2
	}

	log := logger.NewLevelLogger("vault", cfg.App.LogLevel, os.Stderr)
	log.Debug().
		Str("version", orNA(buildVersion)).
		Str("date", orNA(buildDate)).
		Str("commit", orNA(buildCommit)).
		Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.NewDB(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Err(err).Msg("error opening database")
		return 1
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Err(err).Msg("error migrating database")
		return 1
	}

	vault := service.NewVaultService(*cfg, store.NewPayloadRepository(db, log), log)
	secrets := client.NewEnvOrPrompt(int(os.Stdin.Fd()), os.Stderr)
	app := client.NewApp(vault, secrets, cfg, os.Stdin, os.Stdout, log)

	if err = app.Run(ctx); err != nil {
		return report(log, err)
	}
	return 0
}

// report prints a user-facing message for err. Crypto errors never carry
// secrets, but only their kind is shown to the user.
func report(log *logger.Logger, err error) int {
	switch {
	case errors.Is(err, client.ErrNoCommand), errors.Is(err, client.ErrUnknownCommand), errors.Is(err, client.ErrMissingArgument):
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, client.Usage)
		return 2
	case crypto.KindOf(err) != nil:
		log.Debug().Err(err).Msg("command failed")
		fmt.Fprintln(os.Stderr, service.UserMessage(err))
		return 1
	default:
		log.Err(err).Msg("command failed")
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
