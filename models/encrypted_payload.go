// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ByteArray is an owned byte sequence exchanged with the storage
// collaborator. In JSON it is written as an array of small integers
// ([12,250,7]) and read from either that form or a base64 string.
type ByteArray []byte

// MarshalJSON implements [json.Marshaler].
func (b ByteArray) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(b)*4 + 2)
	buf.WriteByte('[')
	for i, v := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Itoa(int(v)))
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements [json.Unmarshaler].
func (b *ByteArray) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return fmt.Errorf("decode base64 byte array: %w", err)
		}
		*b = raw
		return nil
	}

	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return fmt.Errorf("decode byte array: %w", err)
	}
	out := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return errors.New("byte array element out of range")
		}
		out[i] = byte(v)
	}
	*b = out
	return nil
}

// EncryptedPayload is the unit handed to external storage. Ciphertext and IV
// are opaque; Algorithm, SchemaVersion and UserID are plaintext metadata the
// storage layer may index but never interprets.
type EncryptedPayload struct {
	// Ciphertext is the authenticated-encryption output including its tag.
	Ciphertext ByteArray `json:"ciphertext"`
	// IV is unique per encryption under a given key.
	IV ByteArray `json:"iv"`
	// UserID is the key-derivation identity the payload was sealed under.
	UserID string `json:"userId"`
	// Algorithm names the cipher suite, e.g. "AES-256-GCM".
	Algorithm string `json:"algorithm"`
	// SchemaVersion versions the payload layout.
	SchemaVersion int `json:"schemaVersion"`
}

// StoredPayload is an EncryptedPayload as persisted by the payload store.
type StoredPayload struct {
	ID        string           `json:"id"`
	Label     string           `json:"label"`
	Payload   EncryptedPayload `json:"payload"`
	CreatedAt time.Time        `json:"createdAt"`
}
