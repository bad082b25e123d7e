// Package kv provides the key-value store used to persist container
// snapshots. Keys are hierarchical paths such as
// Key{"snapshot", "work", "data"} and are encoded with a separator byte
// (default ':').
//
// Three backends share the Store interface: Memory for tests and
// throwaway sessions, Badger and Pebble for on-disk persistence.
package kv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"
)

// Sentinel errors.
var (
	// ErrNotFound is returned when a key does not exist in the store.
	ErrNotFound = errors.New("kv: not found")

	// ErrInvalidKey is returned when a key segment contains the separator.
	ErrInvalidKey = errors.New("kv: invalid key")

	// ErrUnknownBackend is returned by Open for an unrecognized backend name.
	ErrUnknownBackend = errors.New("kv: unknown backend")
)

// Key is a hierarchical path represented as a slice of string segments.
type Key []string

// String returns the key joined with ':'. It is for display only.
func (k Key) String() string {
	return strings.Join(k, ":")
}

// Entry is a key-value pair returned by List and used by BatchSet.
type Entry struct {
	Key   Key
	Value []byte
}

// Store is the interface for a key-value store with path-based keys.
type Store interface {
	// Get retrieves the value for a key. Returns ErrNotFound if not present.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set stores a key-value pair. Overwrites any existing value.
	Set(ctx context.Context, key Key, value []byte) error

	// Delete removes a key. No error if the key does not exist.
	Delete(ctx context.Context, key Key) error

	// List iterates over all entries whose key starts with the given prefix,
	// in lexicographic order of the encoded key.
	List(ctx context.Context, prefix Key) iter.Seq2[Entry, error]

	// BatchSet atomically stores multiple key-value pairs.
	BatchSet(ctx context.Context, entries []Entry) error

	// BatchDelete atomically removes multiple keys.
	BatchDelete(ctx context.Context, keys []Key) error

	// Close releases any resources held by the store.
	Close() error
}

// DefaultSeparator is the default separator byte used to encode key segments.
const DefaultSeparator byte = ':'

// Options configures key encoding.
type Options struct {
	// Separator is the byte used to join key segments. Default is ':' if zero.
	Separator byte
}

func (o *Options) sep() byte {
	if o != nil && o.Separator != 0 {
		return o.Separator
	}
	return DefaultSeparator
}

// encode joins the segments of k with the separator.
func (o *Options) encode(k Key) ([]byte, error) {
	s := o.sep()
	var buf bytes.Buffer
	for i, seg := range k {
		if strings.IndexByte(seg, s) >= 0 {
			return nil, fmt.Errorf("%w: segment %q contains separator %q", ErrInvalidKey, seg, s)
		}
		if i > 0 {
			buf.WriteByte(s)
		}
		buf.WriteString(seg)
	}
	return buf.Bytes(), nil
}

// prefix returns the encoded scan prefix for p. A non-empty prefix ends with
// the separator so that "a:b" does not match "a:bc".
func (o *Options) prefix(p Key) ([]byte, error) {
	b, err := o.encode(p)
	if err != nil || len(b) == 0 {
		return nil, err
	}
	return append(b, o.sep()), nil
}

func (o *Options) decode(b []byte) Key {
	parts := bytes.Split(b, []byte{o.sep()})
	k := make(Key, len(parts))
	for i, p := range parts {
		k[i] = string(p)
	}
	return k
}

// Config selects and configures a backend for Open.
type Config struct {
	// Backend is "memory", "badger" or "pebble". Empty means memory.
	Backend string `yaml:"backend,omitempty" json:"backend,omitempty"`

	// Dir is the data directory for on-disk backends.
	Dir string `yaml:"dir,omitempty" json:"dir,omitempty"`
}

// Open creates the Store described by cfg. logger receives backend log
// output; nil means slog.Default().
func Open(cfg Config, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Backend {
	case "", "memory":
		return NewMemory(nil), nil
	case "badger":
		return NewBadger(BadgerOptions{Dir: cfg.Dir, Logger: NewBadgerLogger(logger)})
	case "pebble":
		return NewPebble(PebbleOptions{Dir: cfg.Dir})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
