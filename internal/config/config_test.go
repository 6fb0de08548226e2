// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Database.URL = "postgres://localhost/honsemoe"
	return cfg
}

func TestDefaultsValidateWithDatabaseURL(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, 20, cfg.API.DefaultPageSize)
	assert.Equal(t, 100, cfg.API.MaxPageSize)
	assert.Equal(t, time.Hour, cfg.Cache.BlankTTL)
	assert.Equal(t, 5*time.Minute, cfg.Cache.ResultTTL)
	assert.NotEmpty(t, cfg.Security.CORSOrigins)
}

func TestValidateRejectsMissingDatabaseURL(t *testing.T) {
	cfg := defaultConfig()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.url")
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadPoolBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Database.MinConns = cfg.Database.MaxConns + 1
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadCache(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Capacity = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Cache.CountTTL = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRequiresTurnstileSecretWhenEnabled(t *testing.T) {
	cfg := validConfig()
	cfg.Turnstile.Enabled = true
	cfg.Turnstile.Secret = ""
	assert.Error(t, cfg.Validate())

	cfg.Turnstile.Bypass = true
	assert.NoError(t, cfg.Validate())

	cfg.Turnstile.Bypass = false
	cfg.Turnstile.Secret = "key"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadPageSizes(t *testing.T) {
	cfg := validConfig()
	cfg.API.DefaultPageSize = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.API.DefaultPageSize = cfg.API.MaxPageSize + 1
	assert.Error(t, cfg.Validate())
}

func TestEnvTransformMapsKnownVariables(t *testing.T) {
	assert.Equal(t, "database.url", envTransformFunc("DATABASE_URL"))
	assert.Equal(t, "server.port", envTransformFunc("HTTP_PORT"))
	assert.Equal(t, "turnstile.secret", envTransformFunc("turnstile_secret_key"))
	assert.Equal(t, "", envTransformFunc("RANDOM_NOISE"), "unknown variables must be dropped")
}
