// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

// Package config loads server configuration from defaults, an optional
// YAML file, and command-line flags, in that order of precedence.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/squadup/squadup/internal/auth"
)

// S3 describes the asset blob store. An empty Bucket disables asset
// endpoints entirely.
type S3 struct {
	Region    string `koanf:"region"`
	Endpoint  string `koanf:"endpoint"`
	Bucket    string `koanf:"bucket"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
}

// Config holds the full server configuration.
type Config struct {
	ListenAddr   string        `koanf:"listen_addr"`
	MetricsAddr  string        `koanf:"metrics_addr"`
	DatabaseURL  string        `koanf:"database_url"`
	LogFormat    string        `koanf:"log_format"`
	SessionTTL   time.Duration `koanf:"session_ttl"`
	AssetBaseURL string        `koanf:"asset_base_url"`
	S3           S3            `koanf:"s3"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ListenAddr:  "127.0.0.1:8080",
		MetricsAddr: "127.0.0.1:9100",
		LogFormat:   "json",
		SessionTTL:  auth.SessionTTL,
		S3:          S3{Region: "auto"},
	}
}

// Load builds the configuration by layering an optional YAML file and
// explicitly set flags over the defaults. Flag names use dashes
// (e.g. --listen-addr) and map to the underscored config keys.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_INVALID").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, any) {
			return strings.ReplaceAll(key, "-", "_"), value
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_INVALID").Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("listen_addr is required")
	}
	if c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database_url is required")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").
			With("log_format", c.LogFormat).
			Errorf("log_format must be 'json' or 'text'")
	}
	if c.SessionTTL <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("session_ttl must be positive")
	}
	if c.S3.Bucket != "" && c.S3.Region == "" {
		return oops.Code("CONFIG_INVALID").Errorf("s3.region is required when s3.bucket is set")
	}
	return nil
}

// AssetsEnabled reports whether a blob store is configured.
func (c *Config) AssetsEnabled() bool {
	return c.S3.Bucket != ""
}
