// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

// Package config loads and validates application configuration.
//
// Configuration is loaded via Koanf v2 with layered sources, highest
// priority last:
//
//  1. Built-in defaults
//  2. Optional YAML config file (config.yaml, CONFIG_PATH override)
//  3. Environment variables (DATABASE_URL, HTTP_PORT, ...)
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the server process.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Cache     CacheConfig     `koanf:"cache"`
	Turnstile TurnstileConfig `koanf:"turnstile"`
	Security  SecurityConfig  `koanf:"security"`
	API       APIConfig       `koanf:"api"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig controls the PostgreSQL connection pool.
type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxConns        int32         `koanf:"max_conns"`
	MinConns        int32         `koanf:"min_conns"`
	AcquireTimeout  time.Duration `koanf:"acquire_timeout"`
	MaxConnIdleTime time.Duration `koanf:"max_conn_idle_time"`
	AppName         string        `koanf:"app_name"`
}

// CacheConfig controls the in-process response cache.
type CacheConfig struct {
	// Capacity is the maximum number of entries before LRU eviction kicks in.
	Capacity int `koanf:"capacity"`
	// BlankTTL applies to responses for unfiltered (blank) searches.
	BlankTTL time.Duration `koanf:"blank_ttl"`
	// ResultTTL applies to filtered search responses.
	ResultTTL time.Duration `koanf:"result_ttl"`
	// CountTTL applies to cached row counts.
	CountTTL time.Duration `koanf:"count_ttl"`
}

// TurnstileConfig controls the Cloudflare Turnstile bot gate.
type TurnstileConfig struct {
	Enabled       bool          `koanf:"enabled"`
	Secret        string        `koanf:"secret"`
	SiteverifyURL string        `koanf:"siteverify_url"`
	Bypass        bool          `koanf:"bypass"`
	Timeout       time.Duration `koanf:"timeout"`
	TokenTTL      time.Duration `koanf:"token_ttl"`
}

// SecurityConfig controls CORS and rate limiting.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// APIConfig controls pagination limits.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// LoggingConfig controls the zerolog setup.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3001,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			URL:             "",
			MaxConns:        32,
			MinConns:        8,
			AcquireTimeout:  2 * time.Second,
			MaxConnIdleTime: 10 * time.Second,
			AppName:         "honsemoe-backend",
		},
		Cache: CacheConfig{
			Capacity:  1000,
			BlankTTL:  time.Hour,
			ResultTTL: 5 * time.Minute,
			CountTTL:  5 * time.Minute,
		},
		Turnstile: TurnstileConfig{
			Enabled:       false,
			Secret:        "",
			SiteverifyURL: "https://challenges.cloudflare.com/turnstile/v0/siteverify",
			Bypass:        false,
			Timeout:       10 * time.Second,
			TokenTTL:      5 * time.Minute,
		},
		Security: SecurityConfig{
			CORSOrigins: []string{
				"https://honse.moe",
				"https://www.honse.moe",
				"https://uma.moe",
				"https://www.uma.moe",
			},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks cross-field constraints that koanf cannot express.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required (DATABASE_URL)")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("database.max_conns must be positive, got %d", c.Database.MaxConns)
	}
	if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns must be 0-%d, got %d", c.Database.MaxConns, c.Database.MinConns)
	}
	if c.Cache.Capacity < 1 {
		return fmt.Errorf("cache.capacity must be positive, got %d", c.Cache.Capacity)
	}
	if c.Cache.BlankTTL <= 0 || c.Cache.ResultTTL <= 0 || c.Cache.CountTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	if c.Turnstile.Enabled && !c.Turnstile.Bypass && c.Turnstile.Secret == "" {
		return fmt.Errorf("turnstile.secret is required when turnstile is enabled")
	}
	if c.API.DefaultPageSize < 1 || c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("api.default_page_size must be 1-%d, got %d", c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	return nil
}
