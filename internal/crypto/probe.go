// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"crypto/rand"
	"io"
	"net"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/zk-vault/internal/clock"
)

// Report is the outcome of [Probe]. Supported is false when any required
// primitive is missing; Issues lists the missing primitives and Warnings the
// non-fatal findings.
type Report struct {
	Supported bool     `json:"supported"`
	Issues    []string `json:"issues"`
	Warnings  []string `json:"warnings"`
}

// ProbeOptions describes the environment to inspect. Zero values select the
// process defaults.
type ProbeOptions struct {
	// Origin is the URL the vault is served from, if any. An http origin on
	// a non-loopback host produces a warning.
	Origin string
	// Random is the secure random source; defaults to crypto/rand.Reader.
	Random io.Reader
	// Clock is used for the timing check; defaults to the real clock.
	Clock clock.Clock
}

// Probe verifies that the authenticated cipher, a secure random source and
// a UTF-8 codec are usable. Vault operations must not proceed when the
// report is not Supported.
func Probe(opts ProbeOptions) Report {
	if opts.Random == nil {
		opts.Random = rand.Reader
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}

	report := Report{Issues: []string{}, Warnings: []string{}}

	if err := probeCipher(); err != nil {
		report.Issues = append(report.Issues, "authenticated cipher unavailable: "+err.Error())
	}
	if err := probeRandom(opts.Random); err != nil {
		report.Issues = append(report.Issues, "secure random source unavailable: "+err.Error())
	}
	if !probeUTF8() {
		report.Issues = append(report.Issues, "UTF-8 codec unavailable")
	}

	if insecureOrigin(opts.Origin) {
		report.Warnings = append(report.Warnings, "insecure transport on non-loopback host")
	}
	// Diagnostics only; nothing security-relevant depends on it.
	now := opts.Clock.Now()
	if now == now.Round(0) {
		report.Warnings = append(report.Warnings, "high-resolution monotonic timing unavailable")
	}

	report.Supported = len(report.Issues) == 0
	return report
}

func probeCipher() error {
	material := make([]byte, KeySize)
	key, err := NewKey(material)
	if err != nil {
		return err
	}
	iv := make([]byte, IVSize)
	msg := []byte("probe")

	sealed := key.seal(iv, msg)
	opened, err := key.open(iv, sealed)
	if err != nil {
		return err
	}
	if !bytes.Equal(opened, msg) {
		return cryptoError("probe", "cipher round trip mismatch", nil)
	}
	return nil
}

func probeRandom(r io.Reader) error {
	buf := make([]byte, IVSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	if bytes.Equal(buf, make([]byte, IVSize)) {
		return cryptoError("probe", "random source returned only zeros", nil)
	}
	return nil
}

func probeUTF8() bool {
	const sample = "pässwörd ✓ 密码"
	encoded := []byte(sample)
	if !utf8.Valid(encoded) || string(encoded) != sample {
		return false
	}
	r, size := utf8.DecodeRune(encoded[1:])
	return r == 'ä' && size == 2
}

func insecureOrigin(origin string) bool {
	if origin == "" {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil || !strings.EqualFold(u.Scheme, "http") {
		return false
	}

	host := u.Hostname()
	if strings.EqualFold(host, "localhost") {
		return false
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return false
	}
	return true
}
