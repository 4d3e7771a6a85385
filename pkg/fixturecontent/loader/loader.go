// Package loader turns fixture locations into fixturecontent.Loader values.
//
// A location is a directory of serialized *.item files, a package .zip file,
// or an s3://bucket/key.zip package object.
package loader

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/tendant/fixture-content/pkg/fixturecontent"
)

// SourceSeparator separates locations in a sources string.
const SourceSeparator = "|"

const s3Scheme = "s3://"

type options struct {
	s3Fetcher *S3Fetcher
	s3Config  S3Config
}

// Option configures FromSources.
type Option func(*options)

// WithS3Fetcher sets the fetcher used for s3:// locations.
func WithS3Fetcher(f *S3Fetcher) Option {
	return func(o *options) {
		o.s3Fetcher = f
	}
}

// WithS3Config sets the configuration used to build a fetcher for s3://
// locations when none is given.
func WithS3Config(cfg S3Config) Option {
	return func(o *options) {
		o.s3Config = cfg
	}
}

// SplitSources splits a sources string and drops empty entries.
func SplitSources(sources string) []string {
	var locations []string
	for _, location := range strings.Split(sources, SourceSeparator) {
		location = strings.TrimSpace(location)
		if location != "" {
			locations = append(locations, location)
		}
	}
	return locations
}

// FromSources returns one loader per location, in order.
func FromSources(sources string, opts ...Option) ([]fixturecontent.Loader, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var loaders []fixturecontent.Loader
	for _, location := range SplitSources(sources) {
		l, err := fromLocation(location, o)
		if err != nil {
			return nil, err
		}
		loaders = append(loaders, l)
	}
	return loaders, nil
}

// FromLocation returns the loader for a single location.
func FromLocation(location string, opts ...Option) (fixturecontent.Loader, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return fromLocation(location, o)
}

func fromLocation(location string, o *options) (fixturecontent.Loader, error) {
	if strings.HasPrefix(location, s3Scheme) {
		return s3Loader(location, o)
	}

	info, err := os.Stat(location)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &fixturecontent.LoadError{Source: location, Err: fixturecontent.ErrSourceNotFound}
		}
		return nil, &fixturecontent.LoadError{Source: location, Err: err}
	}
	if info.IsDir() {
		slog.Debug("Using serialized fixture directory", "source", location)
		return NewSerializedLoader(location), nil
	}
	if strings.EqualFold(extension(location), ".zip") {
		slog.Debug("Using fixture package", "source", location)
		return NewPackageLoader(location), nil
	}
	return nil, &fixturecontent.LoadError{Source: location, Err: fixturecontent.ErrUnsupportedSource}
}

func s3Loader(location string, o *options) (fixturecontent.Loader, error) {
	bucket, key, ok := strings.Cut(strings.TrimPrefix(location, s3Scheme), "/")
	if !ok || bucket == "" || key == "" || !strings.EqualFold(extension(key), ".zip") {
		return nil, &fixturecontent.LoadError{Source: location, Err: fixturecontent.ErrUnsupportedSource}
	}
	if o.s3Fetcher == nil {
		fetcher, err := NewS3FetcherFromConfig(context.Background(), o.s3Config)
		if err != nil {
			return nil, &fixturecontent.LoadError{Source: location, Err: err}
		}
		o.s3Fetcher = fetcher
	}
	return NewS3PackageLoader(o.s3Fetcher, bucket, key), nil
}

// Directories returns the locations in sources that are directories.
func Directories(sources string) []string {
	var dirs []string
	for _, location := range SplitSources(sources) {
		if strings.HasPrefix(location, s3Scheme) {
			continue
		}
		if info, err := os.Stat(location); err == nil && info.IsDir() {
			dirs = append(dirs, location)
		}
	}
	return dirs
}

func extension(location string) string {
	i := strings.LastIndex(location, ".")
	if i < 0 || strings.ContainsAny(location[i:], `/\`) {
		return ""
	}
	return location[i:]
}
