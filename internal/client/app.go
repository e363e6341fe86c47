// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/MKhiriev/zk-vault/internal/config"
	"github.com/MKhiriev/zk-vault/internal/crypto"
	"github.com/MKhiriev/zk-vault/internal/logger"
)

var (
	ErrNoCommand         = errors.New("no command given")
	ErrUnknownCommand    = errors.New("unknown command")
	ErrMissingArgument   = errors.New("missing argument")
	ErrUnsupportedEnv    = errors.New("environment is not supported")
	ErrPlaintextTooLarge = errors.New("plaintext read from stdin is too large")
)

// Usage lists the commands understood by [App.Run].
const Usage = `usage: vault [flags] <command> [command flags]

commands:
  probe                 report environment capabilities
  selftest              run the capability probe and the encryption self-test
  seal -label LABEL     encrypt stdin and store it, printing the new id
  open -id ID           decrypt a stored item to stdout
  list                  list stored items
  delete -id ID         delete a stored item
`

type App struct {
	vault   Vault
	secrets SecretSource
	cfg     *config.StructuredConfig
	stdin   io.Reader
	stdout  io.Writer
	logger  *logger.Logger
	random  io.Reader
}

// AppOption customises an App.
type AppOption func(*App)

// WithRandomSource sets the random source checked before any vault command.
func WithRandomSource(r io.Reader) AppOption {
	return func(a *App) { a.random = r }
}

func NewApp(vault Vault, secrets SecretSource, cfg *config.StructuredConfig, stdin io.Reader, stdout io.Writer, log *logger.Logger, opts ...AppOption) *App {
	a := &App{
		vault:   vault,
		secrets: secrets,
		cfg:     cfg,
		stdin:   stdin,
		stdout:  stdout,
		logger:  log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run executes the command named by the first positional argument of the
// configuration.
func (a *App) Run(ctx context.Context) error {
	if len(a.cfg.Args) == 0 {
		return ErrNoCommand
	}

	command, args := a.cfg.Args[0], a.cfg.Args[1:]
	log := a.logger.With().Str("command", command).Logger()
	ctx = log.WithContext(ctx)

	switch command {
	case "probe":
		return a.probe()
	case "selftest":
		return a.selfTest(ctx)
	case "seal":
		return a.seal(ctx, args)
	case "open":
		return a.open(ctx, args)
	case "list":
		return a.list(ctx)
	case "delete":
		return a.delete(ctx, args)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}
}

func (a *App) probe() error {
	report := crypto.Probe(a.probeOptions())

	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}

	if !report.Supported {
		return ErrUnsupportedEnv
	}
	return nil
}

func (a *App) selfTest(ctx context.Context) error {
	if err := a.vault.HealthCheck(ctx, a.probeOptions()); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "self-test passed")
	return nil
}

func (a *App) seal(ctx context.Context, args []string) error {
	fs := newFlagSet("seal")
	label := fs.String("label", "", "item label")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *label == "" {
		return fmt.Errorf("%w: -label", ErrMissingArgument)
	}

	plaintext, err := readPlaintext(a.stdin)
	if err != nil {
		return err
	}

	return a.withUnlocked(func() error {
		id, err := a.vault.Seal(ctx, *label, plaintext)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, id)
		return nil
	})
}

func (a *App) open(ctx context.Context, args []string) error {
	id, err := parseID("open", args)
	if err != nil {
		return err
	}

	return a.withUnlocked(func() error {
		plaintext, err := a.vault.Open(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, plaintext)
		return nil
	})
}

func (a *App) list(ctx context.Context) error {
	return a.withUnlocked(func() error {
		records, err := a.vault.List(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tLABEL\tCREATED\tALGORITHM")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s/v%d\n",
				r.ID, r.Label, r.CreatedAt.Format(time.RFC3339), r.Payload.Algorithm, r.Payload.SchemaVersion)
		}
		return w.Flush()
	})
}

func (a *App) delete(ctx context.Context, args []string) error {
	id, err := parseID("delete", args)
	if err != nil {
		return err
	}

	return a.withUnlocked(func() error {
		if err := a.vault.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, "deleted", id)
		return nil
	})
}

func (a *App) probeOptions() crypto.ProbeOptions {
	return crypto.ProbeOptions{Origin: a.cfg.App.Origin, Random: a.random}
}

// withUnlocked refuses to run in an unsupported environment, then unlocks the
// vault around fn and locks it afterwards, whatever fn returns.
func (a *App) withUnlocked(fn func() error) error {
	if report := crypto.Probe(a.probeOptions()); !report.Supported {
		a.logger.Error().Strs("issues", report.Issues).Msg("environment is not supported")
		return ErrUnsupportedEnv
	}

	secret, err := a.secrets.Secret()
	if err != nil {
		return err
	}

	if a.cfg.Identity.Token != "" {
		err = a.vault.UnlockWithToken(secret, a.cfg.Identity.Token)
	} else {
		err = a.vault.Unlock(secret, a.cfg.Vault.UserID)
	}
	if err != nil {
		return err
	}
	defer a.vault.Lock()

	return fn()
}

func parseID(command string, args []string) (string, error) {
	fs := newFlagSet(command)
	id := fs.String("id", "", "item id")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if *id == "" {
		return "", fmt.Errorf("%w: -id", ErrMissingArgument)
	}
	return *id, nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// maxPlaintextBytes bounds stdin: four bytes per character plus a CRLF.
const maxPlaintextBytes = crypto.MaxPlaintextLength*utf8.UTFMax + 2

// readPlaintext reads stdin and drops a single trailing line ending. The
// engine still enforces the character limit.
func readPlaintext(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxPlaintextBytes+1))
	if err != nil {
		return "", fmt.Errorf("error reading plaintext: %w", err)
	}
	if len(data) > maxPlaintextBytes {
		return "", ErrPlaintextTooLarge
	}

	text := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(text, "\r"), nil
}
