package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Stdin is the path that makes LoadRequest read standard input.
const Stdin = "-"

// LoadRequest loads a YAML or JSON document from path into v. The path "-"
// reads standard input.
func LoadRequest(path string, v any) error {
	if path == Stdin {
		return ReadRequest(os.Stdin, v)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	return ParseRequest(data, path, v)
}

// ReadRequest reads a whole document from r and decodes it into v.
func ReadRequest(r io.Reader, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return ParseRequest(data, "", v)
}

// ParseRequest decodes data into v. The filename extension selects the
// decoder; without a known extension, JSON is tried for documents that
// start with '{' and YAML otherwise.
func ParseRequest(data []byte, filename string, v any) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return decodeYAML(data, v)
	case ".json":
		return decodeJSON(data, v)
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return decodeJSON(data, v)
	}
	return decodeYAML(data, v)
}

func decodeYAML(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return fmt.Errorf("failed to parse YAML: empty document")
		}
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}
