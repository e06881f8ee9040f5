// Package dataset reads and writes planner documents as JSON or YAML and
// indexes their assignments into lazily loaded date fragments.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/belphemur/capacity-planner/internal/constants"
	"github.com/belphemur/capacity-planner/internal/planner"
)

// FormatVersion is written into exported documents
const FormatVersion = "2.9.0"

// Format is a document encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported dataset extension: %q (use .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// Meta describes the document itself
type Meta struct {
	Version string `json:"version" yaml:"version"`
}

// Document is the on-disk planner format
type Document struct {
	People      []planner.Person     `json:"people" yaml:"people"`
	Projects    []planner.Project    `json:"projects" yaml:"projects"`
	Assignments []planner.Assignment `json:"assignments" yaml:"assignments"`
	View        *planner.ViewState   `json:"view,omitempty" yaml:"view,omitempty"`
	Meta        Meta                 `json:"meta" yaml:"meta"`
}

// FromState wraps a state for export
func FromState(s planner.State) Document {
	c := s.Clone()
	view := c.View
	return Document{
		People:      c.People,
		Projects:    c.Projects,
		Assignments: c.Assignments,
		View:        &view,
		Meta:        Meta{Version: FormatVersion},
	}
}

// State converts the document, defaulting a missing view to person mode
func (d Document) State() planner.State {
	s := planner.State{
		People:      d.People,
		Projects:    d.Projects,
		Assignments: d.Assignments,
	}.Clone()
	if d.View != nil {
		s.View = *d.View
	}
	if s.View.Mode == "" {
		s.View.Mode = constants.ViewModePerson
	}
	return s
}

// Decode parses a document
func Decode(r io.Reader, format Format) (Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("failed to decode JSON dataset: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
			return Document{}, fmt.Errorf("failed to decode YAML dataset: %w", err)
		}
	default:
		return Document{}, fmt.Errorf("unsupported dataset format: %s", format)
	}
	return doc, nil
}

// Encode writes a document
func Encode(w io.Writer, format Format, doc Document) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode JSON dataset: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode YAML dataset: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to flush YAML dataset: %w", err)
		}
	default:
		return fmt.Errorf("unsupported dataset format: %s", format)
	}
	return nil
}

// Parse decodes, normalises and validates a document into a state
func Parse(r io.Reader, format Format) (planner.State, error) {
	doc, err := Decode(r, format)
	if err != nil {
		return planner.State{}, err
	}
	state := Normalize(doc.State())
	if err := Validate(state); err != nil {
		return planner.State{}, err
	}
	return state, nil
}

// ReadFile loads and validates a dataset file, picking the format from its extension
func ReadFile(path string) (planner.State, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return planner.State{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return planner.State{}, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	state, err := Parse(bytes.NewReader(data), format)
	if err != nil {
		return planner.State{}, fmt.Errorf("invalid dataset %s: %w", path, err)
	}
	return state, nil
}

// WriteFile exports a state, picking the format from the extension
func WriteFile(path string, s planner.State) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, format, FromState(s)); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write dataset %s: %w", path, err)
	}
	return nil
}
