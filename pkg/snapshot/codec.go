package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrUnknownFormat is returned for an unrecognized encoding name.
var ErrUnknownFormat = errors.New("snapshot: unknown format")

// Format is a snapshot encoding.
type Format string

const (
	FormatMsgpack Format = "msgpack"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
)

// ParseFormat validates s as a Format. An empty string selects msgpack.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatMsgpack, nil
	case FormatMsgpack, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath picks a Format from a file extension: .msgpack/.mp,
// .json, .yaml/.yml.
func FormatFromPath(p string) (Format, error) {
	switch ext := strings.ToLower(path.Ext(p)); ext {
	case ".msgpack", ".mp":
		return FormatMsgpack, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: extension %q", ErrUnknownFormat, ext)
	}
}

// Marshal encodes snap in format f.
func Marshal[T any](f Format, snap *Snapshot[T]) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch f {
	case FormatMsgpack:
		data, err = msgpack.Marshal(snap)
	case FormatJSON:
		data, err = json.MarshalIndent(snap, "", "  ")
	case FormatYAML:
		data, err = yaml.Marshal(snap)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode %s: %w", f, err)
	}
	return data, nil
}

// Unmarshal decodes a snapshot encoded in format f and validates its kind.
func Unmarshal[T any](f Format, data []byte) (*Snapshot[T], error) {
	var (
		snap Snapshot[T]
		err  error
	)
	switch f {
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, &snap)
	case FormatJSON:
		err = json.Unmarshal(data, &snap)
	case FormatYAML:
		err = yaml.Unmarshal(data, &snap)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: decode %s: %w", f, err)
	}
	if _, err := ParseKind(string(snap.Kind)); err != nil {
		return nil, err
	}
	if snap.Items == nil {
		snap.Items = []T{}
	}
	return &snap, nil
}
