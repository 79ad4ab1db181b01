package report

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/umputun/podloud/pkg/domain"
)

// JSONWriter renders records as a json array of flat objects
type JSONWriter struct {
	path string
}

// Write replaces the json file with all records
func (w *JSONWriter) Write(records []domain.LoudnessRecord) error {
	if records == nil {
		records = []domain.LoudnessRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	return writeFileAtomic(w.path, data)
}

// Path returns the report location
func (w *JSONWriter) Path() string { return w.path }

// Close does nothing
func (w *JSONWriter) Close() error { return nil }

// YAMLWriter renders records as a yaml sequence of flat mappings
type YAMLWriter struct {
	path string
}

// Write replaces the yaml file with all records
func (w *YAMLWriter) Write(records []domain.LoudnessRecord) error {
	if records == nil {
		records = []domain.LoudnessRecord{}
	}
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	return writeFileAtomic(w.path, data)
}

// Path returns the report location
func (w *YAMLWriter) Path() string { return w.path }

// Close does nothing
func (w *YAMLWriter) Close() error { return nil }
