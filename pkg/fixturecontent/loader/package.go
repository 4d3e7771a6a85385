package loader

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/tendant/fixture-content/pkg/fixturecontent"
)

// innerPackageName is the archive nested inside a package file.
const innerPackageName = "package.zip"

// fetchFunc returns the raw bytes of a package archive.
type fetchFunc func(ctx context.Context) ([]byte, error)

// PackageLoader reads items from a package archive: a zip file holding
// package.zip, whose entries ending in /xml each describe one item version.
type PackageLoader struct {
	source string
	fetch  fetchFunc
}

var _ fixturecontent.Loader = (*PackageLoader)(nil)

// NewPackageLoader creates a loader for a package file on disk.
func NewPackageLoader(path string) *PackageLoader {
	return &PackageLoader{
		source: path,
		fetch: func(ctx context.Context) ([]byte, error) {
			data, err := os.ReadFile(path)
			if errors.Is(err, os.ErrNotExist) {
				return nil, fixturecontent.ErrSourceNotFound
			}
			return data, err
		},
	}
}

// NewS3PackageLoader creates a loader for a package object in S3.
func NewS3PackageLoader(fetcher *S3Fetcher, bucket, key string) *PackageLoader {
	return &PackageLoader{
		source: fmt.Sprintf("s3://%s/%s", bucket, key),
		fetch: func(ctx context.Context) ([]byte, error) {
			return fetcher.Fetch(ctx, bucket, key)
		},
	}
}

// Source returns the package location.
func (l *PackageLoader) Source() string {
	return l.source
}

// LoadItems reads the package. Entries for several languages or versions of
// one item are merged into a single record.
func (l *PackageLoader) LoadItems(ctx context.Context) ([]*fixturecontent.ItemRecord, error) {
	data, err := l.fetch(ctx)
	if err != nil {
		return nil, &fixturecontent.LoadError{Source: l.source, Err: err}
	}
	inner, err := openInnerPackage(data)
	if err != nil {
		return nil, &fixturecontent.LoadError{Source: l.source, Err: err}
	}

	var items []*fixturecontent.ItemRecord
	byID := make(map[string]*fixturecontent.ItemRecord)
	for _, entry := range inner.File {
		if !strings.HasSuffix(entry.Name, "/xml") {
			continue
		}
		record, err := readPackageEntry(entry)
		if err != nil {
			err = &fixturecontent.LoadError{Source: l.source, Entry: entry.Name, Err: err}
			slog.Warn("Unable to load xml from package entry", "error", err)
			continue
		}
		if record == nil {
			continue
		}
		key := strings.ToUpper(strings.Trim(record.ID, "{} "))
		if existing, ok := byID[key]; ok {
			existing.Versions = append(existing.Versions, record.Versions...)
			continue
		}
		byID[key] = record
		items = append(items, record)
	}

	slog.Info("Read items from package", "count", len(items), "source", l.source)
	return items, nil
}

func openInnerPackage(data []byte) (*zip.Reader, error) {
	outer, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fixturecontent.ErrMalformedRecord, err)
	}
	for _, f := range outer.File {
		if f.Name != innerPackageName {
			continue
		}
		innerData, err := readZipFile(f)
		if err != nil {
			return nil, err
		}
		inner, err := zip.NewReader(bytes.NewReader(innerData), int64(len(innerData)))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", fixturecontent.ErrMalformedRecord, innerPackageName, err)
		}
		return inner, nil
	}
	return nil, fmt.Errorf("%w: no %s in package", fixturecontent.ErrMalformedRecord, innerPackageName)
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

type packageItem struct {
	XMLName    xml.Name       `xml:"item"`
	ID         string         `xml:"id,attr"`
	Name       string         `xml:"name,attr"`
	ParentID   string         `xml:"parentid,attr"`
	TemplateID string         `xml:"tid,attr"`
	MasterID   string         `xml:"mid,attr"`
	BranchID   string         `xml:"bid,attr"`
	Template   string         `xml:"template,attr"`
	Language   string         `xml:"language,attr"`
	Version    string         `xml:"version,attr"`
	Fields     []packageField `xml:"fields>field"`
}

type packageField struct {
	FieldID string  `xml:"tfid,attr"`
	Key     string  `xml:"key,attr"`
	Content *string `xml:"content"`
}

// readPackageEntry returns nil for an empty entry.
func readPackageEntry(f *zip.File) (*fixturecontent.ItemRecord, error) {
	data, err := readZipFile(f)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var pi packageItem
	if err := xml.Unmarshal(data, &pi); err != nil {
		return nil, fmt.Errorf("%w: %v", fixturecontent.ErrMalformedRecord, err)
	}

	version := fixturecontent.VersionRecord{Language: pi.Language, Number: pi.Version}
	for _, pf := range pi.Fields {
		field := fixturecontent.FieldRecord{FieldID: pf.FieldID, Name: pf.Key, Key: pf.Key}
		if pf.Content != nil {
			field.Value = *pf.Content
			field.IsSet = true
		}
		version.Fields = append(version.Fields, field)
	}

	database, path := entryLocation(f.Name)
	return &fixturecontent.ItemRecord{
		ID:           pi.ID,
		Name:         pi.Name,
		ParentID:     pi.ParentID,
		TemplateID:   pi.TemplateID,
		MasterID:     pi.MasterID,
		BranchID:     pi.BranchID,
		TemplateName: pi.Template,
		DatabaseName: database,
		Path:         path,
		Versions:     []fixturecontent.VersionRecord{version},
	}, nil
}

// entryLocation extracts the database and item path from an entry name of
// the form items/<database>/<path...>/<id>/<language>/<version>/xml.
func entryLocation(name string) (database, path string) {
	parts := strings.Split(name, "/")
	if len(parts) < 7 || parts[0] != "items" {
		return "", ""
	}
	return parts[1], "/" + strings.Join(parts[2:len(parts)-4], "/")
}
