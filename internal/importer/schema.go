package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/gantt/internal/domain"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the document format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported task file %q (expected .json, .yaml or .yml)", path)
}

// Document is a decoded task file: the collection plus an optional
// initial expanded-set.
type Document struct {
	Tasks    []domain.Task
	Expanded []string
}

// LoadFile reads, validates and converts a task file.
func LoadFile(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// Parse decodes data in the given format, checks it against the task
// document schema and converts it to domain tasks.
func Parse(data []byte, format Format) (*Document, error) {
	raw, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	if errs := ValidateDocument(raw); len(errs) > 0 {
		return nil, &ValidationError{Errs: errs}
	}
	doc, errs := Convert(raw)
	if len(errs) > 0 {
		return nil, &ValidationError{Errs: errs}
	}
	return doc, nil
}

func decode(data []byte, format Format) (any, error) {
	var raw any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parsing task file: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing task file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return raw, nil
}

// ValidationError aggregates every problem found in a document.
type ValidationError struct {
	Errs []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return "invalid task document: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() []error { return e.Errs }
