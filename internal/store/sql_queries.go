// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/zk-vault/models"
)

const payloadsTable = "payloads"

var payloadColumns = []string{
	"id",
	"user_id",
	"label",
	"ciphertext",
	"iv",
	"algorithm",
	"schema_version",
	"created_at",
}

func buildInsertPayloadQuery(ph sq.PlaceholderFormat, p models.StoredPayload) (string, []any, error) {
	return sq.Insert(payloadsTable).
		Columns(payloadColumns...).
		Values(
			p.ID,
			p.Payload.UserID,
			p.Label,
			[]byte(p.Payload.Ciphertext),
			[]byte(p.Payload.IV),
			p.Payload.Algorithm,
			p.Payload.SchemaVersion,
			p.CreatedAt,
		).
		PlaceholderFormat(ph).
		ToSql()
}

func buildSelectPayloadQuery(ph sq.PlaceholderFormat, id string) (string, []any, error) {
	return sq.Select(payloadColumns...).
		From(payloadsTable).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(ph).
		ToSql()
}

func buildListPayloadsQuery(ph sq.PlaceholderFormat, userID string) (string, []any, error) {
	return sq.Select(payloadColumns...).
		From(payloadsTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at ASC", "id ASC").
		PlaceholderFormat(ph).
		ToSql()
}

func buildDeletePayloadQuery(ph sq.PlaceholderFormat, id string) (string, []any, error) {
	return sq.Delete(payloadsTable).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(ph).
		ToSql()
}
