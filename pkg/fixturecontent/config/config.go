package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tendant/fixture-content/pkg/fixturecontent"
	"github.com/tendant/fixture-content/pkg/fixturecontent/loader"
	"github.com/tendant/fixture-content/pkg/fixturecontent/store/memory"
)

// Option applies configuration to a Config instance.
type Option func(*Config) error

// Load constructs a Config by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*Config, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() Config {
	return Config{
		DatabaseName:    "master",
		DefaultLanguage: fixturecontent.DefaultLanguage,
		S3: loader.S3Config{
			Region: "us-east-1",
		},
	}
}

// Config represents the configuration of a fixture provider
type Config struct {
	// Sources is a "|"-separated list of fixture locations: serialized item
	// directories, package .zip files or s3://bucket/key.zip objects.
	Sources string

	// Host context
	DatabaseName    string
	DefaultLanguage string // used in place of the invariant language

	// S3 access for s3:// sources
	S3 loader.S3Config
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DatabaseName == "" {
		return errors.New("database name is required")
	}
	if c.DefaultLanguage == "" {
		return errors.New("default language is required")
	}
	for _, location := range loader.SplitSources(c.Sources) {
		if strings.HasPrefix(location, "s3://") && c.S3.Region == "" {
			return fmt.Errorf("s3 region is required for source %s", location)
		}
	}
	return nil
}

// BuildProvider creates a provider backed by an in-memory store and loaded
// from the configured sources.
func (c *Config) BuildProvider(ctx context.Context) (*fixturecontent.Provider, error) {
	loaders, err := loader.FromSources(c.Sources, loader.WithS3Config(c.S3))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve fixture sources: %w", err)
	}

	store := memory.New(memory.Config{
		DatabaseName:    c.DatabaseName,
		DefaultLanguage: c.DefaultLanguage,
	})

	return fixturecontent.New(ctx,
		fixturecontent.WithStore(store),
		fixturecontent.WithLoaders(loaders...),
	)
}
