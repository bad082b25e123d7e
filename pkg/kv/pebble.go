package kv

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

// Pebble is a Store backed by CockroachDB's Pebble engine. Writes are
// synced before they return.
type Pebble struct {
	db   *pebble.DB
	opts *Options
}

// PebbleOptions configures the Pebble store.
type PebbleOptions struct {
	Options *Options

	// Dir is the directory for Pebble data files. Required unless InMemory
	// is set.
	Dir string

	// InMemory keeps all files in an in-memory filesystem.
	InMemory bool
}

// NewPebble opens a Pebble-backed Store.
func NewPebble(popts PebbleOptions) (*Pebble, error) {
	if !popts.InMemory && popts.Dir == "" {
		return nil, errors.New("kv: PebbleOptions.Dir is required for on-disk mode")
	}
	dbOpts := &pebble.Options{}
	if popts.InMemory {
		dbOpts.FS = vfs.NewMem()
	}
	db, err := pebble.Open(popts.Dir, dbOpts)
	if err != nil {
		return nil, fmt.Errorf("kv: open pebble: %w", err)
	}
	return &Pebble{db: db, opts: popts.Options}, nil
}

func (p *Pebble) Get(_ context.Context, key Key) ([]byte, error) {
	k, err := p.opts.encode(key)
	if err != nil {
		return nil, err
	}
	val, closer, err := p.db.Get(k)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return append([]byte(nil), val...), nil
}

func (p *Pebble) Set(ctx context.Context, key Key, value []byte) error {
	return p.BatchSet(ctx, []Entry{{Key: key, Value: value}})
}

func (p *Pebble) Delete(ctx context.Context, key Key) error {
	return p.BatchDelete(ctx, []Key{key})
}

// upperBound returns the smallest key greater than every key starting with
// prefix, or nil if there is none.
func upperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

func (p *Pebble) List(_ context.Context, prefix Key) iter.Seq2[Entry, error] {
	lower, err := p.opts.prefix(prefix)
	return func(yield func(Entry, error) bool) {
		if err != nil {
			yield(Entry{}, err)
			return
		}
		it, err := p.db.NewIter(&pebble.IterOptions{
			LowerBound: lower,
			UpperBound: upperBound(lower),
		})
		if err != nil {
			yield(Entry{}, err)
			return
		}
		defer it.Close()

		for it.First(); it.Valid(); it.Next() {
			e := Entry{
				Key:   p.opts.decode(append([]byte(nil), it.Key()...)),
				Value: append([]byte(nil), it.Value()...),
			}
			if !yield(e, nil) {
				return
			}
		}
		if err := it.Error(); err != nil {
			yield(Entry{}, err)
		}
	}
}

func (p *Pebble) BatchSet(_ context.Context, entries []Entry) error {
	b := p.db.NewBatch()
	defer b.Close()
	for _, e := range entries {
		k, err := p.opts.encode(e.Key)
		if err != nil {
			return err
		}
		if err := b.Set(k, e.Value, nil); err != nil {
			return err
		}
	}
	return b.Commit(pebble.Sync)
}

func (p *Pebble) BatchDelete(_ context.Context, keys []Key) error {
	b := p.db.NewBatch()
	defer b.Close()
	for _, key := range keys {
		k, err := p.opts.encode(key)
		if err != nil {
			return err
		}
		if err := b.Delete(k, nil); err != nil {
			return err
		}
	}
	return b.Commit(pebble.Sync)
}

func (p *Pebble) Close() error {
	return p.db.Close()
}
