// Package document reads and writes graph documents as JSON or YAML.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/meikuraledutech/nodegraph"
)

var ErrUnknownFormat = errors.New("document: unknown format")

// Format is a document encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// Marshal encodes d.
func Marshal(d *nodegraph.GraphData, f Format) ([]byte, error) {
	switch f {
	case JSON:
		return json.MarshalIndent(d, "", "  ")
	case YAML:
		return yaml.Marshal(d)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Unmarshal validates data against the document schema and decodes it.
func Unmarshal(data []byte, f Format) (*nodegraph.GraphData, error) {
	raw := data
	switch f {
	case JSON:
	case YAML:
		converted, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("document: parse yaml: %w", err)
		}
		raw = converted
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err := Validate(raw); err != nil {
		return nil, err
	}

	var d nodegraph.GraphData
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("document: decode: %w", err)
	}
	return &d, nil
}

// ReadFile reads a document, choosing the format from the extension.
func ReadFile(path string) (*nodegraph.GraphData, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("document: read %s: %w", path, err)
	}
	d, err := Unmarshal(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// WriteFile writes d, choosing the format from the extension.
func WriteFile(path string, d *nodegraph.GraphData) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Marshal(d, f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
