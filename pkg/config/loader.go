package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML or JSON card configuration into its raw form.
// Decoding failures are malformed input, not validation errors.
func Parse(data []byte) (*RawCardConfig, error) {
	data, err := normalizeJSON(data)
	if err != nil {
		return nil, err
	}

	var raw RawCardConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode card config: %w", err)
	}
	return &raw, nil
}

// ParseMap decodes a YAML or JSON document into a generic attribute map.
func ParseMap(data []byte) (map[string]any, error) {
	data, err := normalizeJSON(data)
	if err != nil {
		return nil, err
	}

	out := map[string]any{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode card config: %w", err)
	}
	return out, nil
}

// FromMap converts a host-supplied attribute map into the raw form.
func FromMap(m map[string]any) (*RawCardConfig, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode card config: %w", err)
	}
	return Parse(data)
}

// LoadFile reads and decodes a card configuration file.
func LoadFile(path string) (*RawCardConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read card config %s: %w", path, err)
	}
	raw, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}

// normalizeJSON re-encodes a JSON document as YAML. JSON is mostly a YAML
// subset, but tab indentation is not, so JSON input is decoded separately.
func normalizeJSON(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return data, nil
	}

	var doc any
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode card config: %w", err)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode card config: %w", err)
	}
	return out, nil
}
