package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"surface-renderer/core/reconcile"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Row is the wire form of a row.
type Row struct {
	Key   string `json:"key" yaml:"key" toml:"key"`
	State any    `json:"state,omitempty" yaml:"state,omitempty" toml:"state,omitempty"`
}

// Section is the wire form of a section.
type Section struct {
	Key   string `json:"key" yaml:"key" toml:"key"`
	State any    `json:"state,omitempty" yaml:"state,omitempty" toml:"state,omitempty"`
	Style any    `json:"style,omitempty" yaml:"style,omitempty" toml:"style,omitempty"`
	Rows  []Row  `json:"rows" yaml:"rows" toml:"rows"`
}

// Document is a serialized section collection.
type Document struct {
	Sections []Section `json:"sections" yaml:"sections" toml:"sections"`
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported document extension %q", filepath.Ext(path))
	}
}

// Decode parses data in the given format.
func Decode(data []byte, format Format) (*Document, error) {
	var doc Document
	var err error

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s document: %w", format, err)
	}
	return &doc, nil
}

// Load reads and decodes a file, choosing the format from its extension.
func Load(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return Decode(data, format)
}

// ToSections converts the document into reconcilable sections. Payloads become
// reconcile.JSON values.
func (d *Document) ToSections() ([]reconcile.Section, error) {
	out := make([]reconcile.Section, 0, len(d.Sections))
	for _, s := range d.Sections {
		state, err := reconcile.NewJSON(s.State)
		if err != nil {
			return nil, fmt.Errorf("section %q state: %w", s.Key, err)
		}
		style, err := reconcile.NewJSON(s.Style)
		if err != nil {
			return nil, fmt.Errorf("section %q style: %w", s.Key, err)
		}

		sec := reconcile.Section{Key: s.Key, State: state, Style: style}
		if len(s.Rows) > 0 {
			sec.Rows = make([]reconcile.Row, 0, len(s.Rows))
		}
		for _, r := range s.Rows {
			rs, err := reconcile.NewJSON(r.State)
			if err != nil {
				return nil, fmt.Errorf("row %q in section %q: %w", r.Key, s.Key, err)
			}
			sec.Rows = append(sec.Rows, reconcile.Row{Key: r.Key, State: rs})
		}
		out = append(out, sec)
	}
	return out, nil
}

// FromSections converts sections back into a document. Payloads implementing
// json.Marshaler are kept as raw JSON; any other payload is embedded as is.
func FromSections(sections []reconcile.Section) (*Document, error) {
	doc := &Document{Sections: make([]Section, 0, len(sections))}
	for _, s := range sections {
		state, err := wireValue(s.State)
		if err != nil {
			return nil, fmt.Errorf("section %q state: %w", s.Key, err)
		}
		style, err := wireValue(s.Style)
		if err != nil {
			return nil, fmt.Errorf("section %q style: %w", s.Key, err)
		}

		sec := Section{Key: s.Key, State: state, Style: style, Rows: make([]Row, 0, len(s.Rows))}
		for _, r := range s.Rows {
			rs, err := wireValue(r.State)
			if err != nil {
				return nil, fmt.Errorf("row %q in section %q: %w", r.Key, s.Key, err)
			}
			sec.Rows = append(sec.Rows, Row{Key: r.Key, State: rs})
		}
		doc.Sections = append(doc.Sections, sec)
	}
	return doc, nil
}

func wireValue(s reconcile.State) (any, error) {
	if s == nil {
		return nil, nil
	}
	if m, ok := s.(json.Marshaler); ok {
		data, err := m.MarshalJSON()
		if err != nil {
			return nil, err
		}
		return json.RawMessage(data), nil
	}
	return s, nil
}
