package model

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Decode reads a model document. YAML and JSON are both accepted.
func Decode(r io.Reader) (*Model, error) {
	var m Model
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parsing model: %w", err)
	}
	if err := m.Link(); err != nil {
		return nil, fmt.Errorf("linking model: %w", err)
	}
	return &m, nil
}

// Load reads a model from a YAML or JSON file.
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes the model as YAML, including any values set by the rules.
func Encode(w io.Writer, m *Model) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("writing model: %w", err)
	}
	return enc.Close()
}
