// Package report persists loudness records. Every Write replaces the whole report,
// so the file on disk always reflects all episodes processed so far.
package report

import (
	"fmt"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/umputun/podloud/pkg/config"
	"github.com/umputun/podloud/pkg/domain"
)

// BaseName is the report file name without extension
const BaseName = "loudness"

// Writer rewrites the report with the full result set
type Writer interface {
	Write(records []domain.LoudnessRecord) error
	Path() string
	Close() error
}

// New makes a writer for the format, placing the report into dir.
// floatDelimiter applies to csv only.
func New(format, dir, floatDelimiter string) (Writer, error) {
	switch format {
	case config.FormatCSV:
		return &CSVWriter{path: filepath.Join(dir, BaseName+".csv"), delimiter: floatDelimiter}, nil
	case config.FormatJSON:
		return &JSONWriter{path: filepath.Join(dir, BaseName+".json")}, nil
	case config.FormatYAML:
		return &YAMLWriter{path: filepath.Join(dir, BaseName+".yaml")}, nil
	case config.FormatSQLite:
		w, err := NewSQLiteWriter(filepath.Join(dir, BaseName+".db"))
		if err != nil {
			return nil, err
		}
		return w, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownFormat, format)
	}
}

// writeFileAtomic replaces path with data, readers never see a partially written report
func writeFileAtomic(path string, data []byte) error {
	if err := renameio.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // report is meant to be shared
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
