package config

import (
	"fmt"
	"os"
	"strconv"
)

// WithEnv applies environment variable overrides using the provided prefix.
//
// Environment variable mapping:
//
//	FIXTURE_SOURCES - "|"-separated fixture locations
//	DATABASE_NAME - Database name reported by item definitions (default: "master")
//	DEFAULT_LANGUAGE - Language used for the invariant language (default: "en")
//
// S3 sources:
//
//	S3_REGION, S3_ACCESS_KEY_ID, S3_SECRET_ACCESS_KEY, S3_ENDPOINT, S3_USE_PATH_STYLE
func WithEnv(prefix string) Option {
	return func(c *Config) error {
		if v, ok := lookupEnv(prefix, "FIXTURE_SOURCES"); ok && v != "" {
			c.Sources = v
		}
		if v, ok := lookupEnv(prefix, "DATABASE_NAME"); ok && v != "" {
			c.DatabaseName = v
		}
		if v, ok := lookupEnv(prefix, "DEFAULT_LANGUAGE"); ok && v != "" {
			c.DefaultLanguage = v
		}
		return applyS3Env(prefix, c)
	}
}

func applyS3Env(prefix string, c *Config) error {
	if v, ok := lookupEnv(prefix, "S3_REGION"); ok && v != "" {
		c.S3.Region = v
	}
	if v, ok := lookupEnv(prefix, "S3_ACCESS_KEY_ID"); ok && v != "" {
		c.S3.AccessKeyID = v
	}
	if v, ok := lookupEnv(prefix, "S3_SECRET_ACCESS_KEY"); ok && v != "" {
		c.S3.SecretAccessKey = v
	}
	if v, ok := lookupEnv(prefix, "S3_ENDPOINT"); ok && v != "" {
		c.S3.Endpoint = v
	}
	pathStyle, ok, err := parseBoolEnv(prefix, "S3_USE_PATH_STYLE")
	if err != nil {
		return err
	}
	if ok {
		c.S3.UsePathStyle = pathStyle
	}
	return nil
}

func lookupEnv(prefix, key string) (string, bool) {
	return os.LookupEnv(prefix + key)
}

func parseBoolEnv(prefix, key string) (bool, bool, error) {
	raw, ok := lookupEnv(prefix, key)
	if !ok || raw == "" {
		return false, false, nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false, fmt.Errorf("invalid boolean for %s%s: %w", prefix, key, err)
	}
	return parsed, true, nil
}
