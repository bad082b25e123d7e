package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/haivivi/lincon/pkg/jsontime"
	"github.com/haivivi/lincon/pkg/kv"
)

// ErrInvalidName is returned for snapshot names that cannot be stored.
var ErrInvalidName = errors.New("snapshot: invalid name")

// keyPrefix is the first kv key segment of every snapshot entry.
const keyPrefix = "snapshot"

// Meta describes a stored snapshot without its items.
type Meta struct {
	Name      string         `json:"name" yaml:"name"`
	ID        string         `json:"id" yaml:"id"`
	Kind      Kind           `json:"kind" yaml:"kind"`
	Len       int            `json:"len" yaml:"len"`
	Format    Format         `json:"format" yaml:"format"`
	Size      int64          `json:"size" yaml:"size"`
	CreatedAt jsontime.Milli `json:"created_at" yaml:"created_at"`
}

// Store keeps named snapshots in a kv.Store. Each snapshot occupies two
// keys written in one batch: snapshot:NAME:meta (JSON Meta) and
// snapshot:NAME:data (the snapshot encoded in the store's format).
type Store[T any] struct {
	kv     kv.Store
	format Format
}

// NewStore creates a Store that encodes new snapshots in format.
func NewStore[T any](s kv.Store, format Format) *Store[T] {
	if format == "" {
		format = FormatMsgpack
	}
	return &Store[T]{kv: s, format: format}
}

func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, ":/\\") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func metaKey(name string) kv.Key { return kv.Key{keyPrefix, name, "meta"} }
func dataKey(name string) kv.Key { return kv.Key{keyPrefix, name, "data"} }

// Save stores snap under name, replacing any snapshot with that name.
func (s *Store[T]) Save(ctx context.Context, name string, snap *Snapshot[T]) (Meta, error) {
	if err := checkName(name); err != nil {
		return Meta{}, err
	}
	data, err := Marshal(s.format, snap)
	if err != nil {
		return Meta{}, err
	}
	meta := Meta{
		Name:      name,
		ID:        snap.ID,
		Kind:      snap.Kind,
		Len:       snap.Len(),
		Format:    s.format,
		Size:      int64(len(data)),
		CreatedAt: snap.CreatedAt,
	}
	mdata, err := json.Marshal(meta)
	if err != nil {
		return Meta{}, fmt.Errorf("snapshot: encode meta: %w", err)
	}
	err = s.kv.BatchSet(ctx, []kv.Entry{
		{Key: metaKey(name), Value: mdata},
		{Key: dataKey(name), Value: data},
	})
	if err != nil {
		return Meta{}, fmt.Errorf("snapshot: save %s: %w", name, err)
	}
	return meta, nil
}

// Stat returns the metadata of the named snapshot.
func (s *Store[T]) Stat(ctx context.Context, name string) (Meta, error) {
	if err := checkName(name); err != nil {
		return Meta{}, err
	}
	b, err := s.kv.Get(ctx, metaKey(name))
	if errors.Is(err, kv.ErrNotFound) {
		return Meta{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return Meta{}, fmt.Errorf("snapshot: stat %s: %w", name, err)
	}
	var meta Meta
	if err := json.Unmarshal(b, &meta); err != nil {
		return Meta{}, fmt.Errorf("snapshot: decode meta %s: %w", name, err)
	}
	return meta, nil
}

// Load returns the named snapshot. The data is decoded with the format
// recorded when it was saved.
func (s *Store[T]) Load(ctx context.Context, name string) (*Snapshot[T], error) {
	meta, err := s.Stat(ctx, name)
	if err != nil {
		return nil, err
	}
	data, err := s.kv.Get(ctx, dataKey(name))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s has no data", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: load %s: %w", name, err)
	}
	return Unmarshal[T](meta.Format, data)
}

// Delete removes the named snapshot. Deleting a missing snapshot returns
// ErrNotFound.
func (s *Store[T]) Delete(ctx context.Context, name string) error {
	if _, err := s.Stat(ctx, name); err != nil {
		return err
	}
	if err := s.kv.BatchDelete(ctx, []kv.Key{metaKey(name), dataKey(name)}); err != nil {
		return fmt.Errorf("snapshot: delete %s: %w", name, err)
	}
	return nil
}

// List returns the metadata of every stored snapshot, sorted by name.
func (s *Store[T]) List(ctx context.Context) ([]Meta, error) {
	var metas []Meta
	for e, err := range s.kv.List(ctx, kv.Key{keyPrefix}) {
		if err != nil {
			return nil, fmt.Errorf("snapshot: list: %w", err)
		}
		if len(e.Key) != 3 || e.Key[2] != "meta" {
			continue
		}
		var meta Meta
		if err := json.Unmarshal(e.Value, &meta); err != nil {
			return nil, fmt.Errorf("snapshot: decode meta %s: %w", e.Key[1], err)
		}
		metas = append(metas, meta)
	}
	slices.SortFunc(metas, func(a, b Meta) int { return strings.Compare(a.Name, b.Name) })
	return metas, nil
}
