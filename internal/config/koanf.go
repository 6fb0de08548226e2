// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/honsemoe/config.yaml",
	"/etc/honsemoe/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load loads configuration with layered sources: defaults, then an optional
// YAML file, then environment variables (highest priority). The result is
// validated before being returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// DATABASE_URL -> database.url, HTTP_PORT -> server.port, etc.
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices when
// supplied through environment variables.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names onto koanf config paths.
// Unknown variables are dropped so unrelated environment noise never lands
// in the config tree.
func envTransformFunc(key string) string {
	mappings := map[string]string{
		"HOST":            "server.host",
		"PORT":            "server.port",
		"HTTP_PORT":       "server.port",
		"DATABASE_URL":    "database.url",
		"DB_MAX_CONNS":    "database.max_conns",
		"DB_MIN_CONNS":    "database.min_conns",
		"DB_APP_NAME":     "database.app_name",
		"CACHE_CAPACITY":  "cache.capacity",
		"CACHE_BLANK_TTL": "cache.blank_ttl",
		"CACHE_TTL":       "cache.result_ttl",
		"CACHE_COUNT_TTL": "cache.count_ttl",

		"TURNSTILE_ENABLED":    "turnstile.enabled",
		"TURNSTILE_SECRET_KEY": "turnstile.secret",
		"TURNSTILE_BYPASS":     "turnstile.bypass",
		"TURNSTILE_URL":        "turnstile.siteverify_url",

		"ALLOWED_ORIGINS":     "security.cors_origins",
		"RATE_LIMIT_REQS":     "security.rate_limit_reqs",
		"RATE_LIMIT_WINDOW":   "security.rate_limit_window",
		"RATE_LIMIT_DISABLED": "security.rate_limit_disabled",

		"DEFAULT_PAGE_SIZE": "api.default_page_size",
		"MAX_PAGE_SIZE":     "api.max_page_size",

		"LOG_LEVEL":  "logging.level",
		"LOG_FORMAT": "logging.format",
		"LOG_CALLER": "logging.caller",
	}
	if path, ok := mappings[strings.ToUpper(key)]; ok {
		return path
	}
	return ""
}
