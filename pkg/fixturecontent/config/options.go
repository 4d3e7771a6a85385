package config

import (
	"fmt"

	"github.com/tendant/fixture-content/pkg/fixturecontent/loader"
)

// WithSources sets the "|"-separated fixture locations
func WithSources(sources string) Option {
	return func(c *Config) error {
		c.Sources = sources
		return nil
	}
}

// AddSource appends a single fixture location
func AddSource(location string) Option {
	return func(c *Config) error {
		if location == "" {
			return fmt.Errorf("source location cannot be empty")
		}
		if c.Sources == "" {
			c.Sources = location
		} else {
			c.Sources += loader.SourceSeparator + location
		}
		return nil
	}
}

// WithDatabaseName sets the database name reported in item definitions
func WithDatabaseName(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return fmt.Errorf("database name cannot be empty")
		}
		c.DatabaseName = name
		return nil
	}
}

// WithDefaultLanguage sets the language substituted for the invariant language
func WithDefaultLanguage(language string) Option {
	return func(c *Config) error {
		if language == "" {
			return fmt.Errorf("default language cannot be empty")
		}
		c.DefaultLanguage = language
		return nil
	}
}

// WithS3 sets the S3 access used by s3:// sources
func WithS3(s3 loader.S3Config) Option {
	return func(c *Config) error {
		if s3.Region == "" {
			s3.Region = "us-east-1"
		}
		c.S3 = s3
		return nil
	}
}
