package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalYAML encodes v (a catalog or any slice of its records) as YAML.
func MarshalYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding catalog: %w", err)
	}
	return buf.Bytes(), nil
}

// MarshalJSON encodes v as indented JSON.
func MarshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding catalog: %w", err)
	}
	return append(data, '\n'), nil
}

// Marshal encodes v in the named format ("yaml" or "json").
func Marshal(v any, format string) ([]byte, error) {
	switch format {
	case "yaml", "yml":
		return MarshalYAML(v)
	case "json":
		return MarshalJSON(v)
	default:
		return nil, fmt.Errorf("unsupported format %q (want yaml or json)", format)
	}
}
