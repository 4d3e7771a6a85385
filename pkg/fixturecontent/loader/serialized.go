package loader

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tendant/fixture-content/pkg/fixturecontent"
)

// SerializedLoader reads every *.item file below a directory.
type SerializedLoader struct {
	dir string
}

var _ fixturecontent.Loader = (*SerializedLoader)(nil)

// NewSerializedLoader creates a loader for dir.
func NewSerializedLoader(dir string) *SerializedLoader {
	return &SerializedLoader{dir: dir}
}

// Source returns the directory.
func (l *SerializedLoader) Source() string {
	return l.dir
}

// LoadItems parses each item file. Files that fail to parse are logged and
// skipped.
func (l *SerializedLoader) LoadItems(ctx context.Context) ([]*fixturecontent.ItemRecord, error) {
	info, err := os.Stat(l.dir)
	if err != nil || !info.IsDir() {
		return nil, &fixturecontent.LoadError{Source: l.dir, Err: fixturecontent.ErrSourceNotFound}
	}

	var items []*fixturecontent.ItemRecord
	err = filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("Unable to read fixture path", "path", path, "error", err)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".item") {
			return nil
		}
		record, err := readItemFile(path)
		if err != nil {
			err = &fixturecontent.LoadError{Source: l.dir, Entry: path, Err: err}
			slog.Warn("Unable to read item from file", "error", err)
			return nil
		}
		items = append(items, record)
		return nil
	})
	if err != nil {
		return nil, &fixturecontent.LoadError{Source: l.dir, Err: err}
	}

	slog.Info("Deserialized items", "count", len(items), "source", l.dir)
	return items, nil
}

func readItemFile(path string) (*fixturecontent.ItemRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseItem(f)
}
