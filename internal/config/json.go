// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		LogLevel string `json:"log_level"`
		Origin   string `json:"origin"`
	} `json:"app,omitempty"`

	Vault struct {
		SessionTimeout Duration `json:"session_timeout"`
		KeyCacheTTL    Duration `json:"key_cache_ttl"`
		KDFIterations  int      `json:"kdf_iterations"`
		UserID         string   `json:"user_id"`
	} `json:"vault,omitempty"`

	Identity struct {
		Token   string `json:"token"`
		SignKey string `json:"sign_key"`
		Issuer  string `json:"issuer"`
	} `json:"identity,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &StructuredConfig{
		App: App{
			LogLevel: jsonCfg.App.LogLevel,
			Origin:   jsonCfg.App.Origin,
		},
		Vault: Vault{
			SessionTimeout: time.Duration(jsonCfg.Vault.SessionTimeout),
			KeyCacheTTL:    time.Duration(jsonCfg.Vault.KeyCacheTTL),
			KDFIterations:  jsonCfg.Vault.KDFIterations,
			UserID:         jsonCfg.Vault.UserID,
		},
		Identity: Identity{
			Token:   jsonCfg.Identity.Token,
			SignKey: jsonCfg.Identity.SignKey,
			Issuer:  jsonCfg.Identity.Issuer,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
	}, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
