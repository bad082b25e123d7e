// Package snapshot captures the contents of a container as a value that can
// be encoded, stored in a kv.Store, exported to a FileStore and restored
// into a container with the same iteration order.
package snapshot

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/google/uuid"

	"github.com/haivivi/lincon/pkg/buffer"
	"github.com/haivivi/lincon/pkg/jsontime"
	"github.com/haivivi/lincon/pkg/linked"
)

var (
	// ErrNotFound is returned when a named snapshot does not exist.
	ErrNotFound = errors.New("snapshot: not found")

	// ErrKindMismatch is returned when restoring a snapshot into a container
	// of a different kind.
	ErrKindMismatch = errors.New("snapshot: kind mismatch")

	// ErrUnknownKind is returned for an unrecognized container kind.
	ErrUnknownKind = errors.New("snapshot: unknown kind")

	// ErrCapacity is returned when a snapshot's reserved capacity is
	// negative or larger than MaxCap.
	ErrCapacity = errors.New("snapshot: bad capacity")
)

// MaxCap is the largest reserved capacity a snapshot may restore with.
const MaxCap = 1 << 24

// Kind names a container type.
type Kind string

const (
	KindArray Kind = "array"
	KindRing  Kind = "ring"
	KindQueue Kind = "queue"
	KindStack Kind = "stack"
)

// Kinds lists every container kind.
var Kinds = []Kind{KindArray, KindRing, KindQueue, KindStack}

// ParseKind validates s as a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !slices.Contains(Kinds, k) {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Snapshot is a point-in-time copy of a container's elements.
//
// Items are in the container's iteration order: front to back for arrays,
// rings and queues, top to bottom for stacks. Cap records the reserved
// capacity of buffer-backed containers and is zero for linked ones.
type Snapshot[T any] struct {
	ID        string         `json:"id" yaml:"id" msgpack:"id"`
	Kind      Kind           `json:"kind" yaml:"kind" msgpack:"kind"`
	CreatedAt jsontime.Milli `json:"created_at" yaml:"created_at" msgpack:"created_at"`
	Cap       int            `json:"cap,omitempty" yaml:"cap,omitempty" msgpack:"cap,omitempty"`
	Items     []T            `json:"items" yaml:"items" msgpack:"items"`
}

// Of builds a Snapshot of the given kind from seq.
func Of[T any](kind Kind, seq iter.Seq[T]) *Snapshot[T] {
	items := slices.Collect(seq)
	if items == nil {
		items = []T{}
	}
	return &Snapshot[T]{
		ID:        uuid.New().String(),
		Kind:      kind,
		CreatedAt: jsontime.NowEpochMilli(),
		Items:     items,
	}
}

// FromArray snapshots a.
func FromArray[T any](a *buffer.Array[T]) *Snapshot[T] {
	s := Of(KindArray, a.Values())
	s.Cap = a.Cap()
	return s
}

// FromRing snapshots rb front to back.
func FromRing[T any](rb *buffer.Ring[T]) *Snapshot[T] {
	s := Of(KindRing, rb.Values())
	s.Cap = rb.Cap()
	return s
}

// FromQueue snapshots q head to tail.
func FromQueue[T any](q *linked.Queue[T]) *Snapshot[T] {
	return Of(KindQueue, q.All())
}

// FromStack snapshots s top to bottom.
func FromStack[T any](s *linked.Stack[T]) *Snapshot[T] {
	return Of(KindStack, s.All())
}

// Len returns the number of captured elements.
func (s *Snapshot[T]) Len() int {
	return len(s.Items)
}

func (s *Snapshot[T]) expect(kind Kind) error {
	if s.Kind != kind {
		return fmt.Errorf("%w: snapshot %s is a %s, not a %s", ErrKindMismatch, s.ID, s.Kind, kind)
	}
	return nil
}

func (s *Snapshot[T]) restoreCap() (int, error) {
	if s.Cap < 0 || s.Cap > MaxCap {
		return 0, fmt.Errorf("%w: snapshot %s reserves %d, limit %d", ErrCapacity, s.ID, s.Cap, MaxCap)
	}
	return max(s.Cap, len(s.Items)), nil
}

// Array restores an array snapshot.
func (s *Snapshot[T]) Array() (*buffer.Array[T], error) {
	if err := s.expect(KindArray); err != nil {
		return nil, err
	}
	n, err := s.restoreCap()
	if err != nil {
		return nil, err
	}
	a := buffer.ArrayN[T](n)
	a.Extend(slices.Values(s.Items))
	return a, nil
}

// Ring restores a ring snapshot. The restored ring starts at physical slot 0.
func (s *Snapshot[T]) Ring() (*buffer.Ring[T], error) {
	if err := s.expect(KindRing); err != nil {
		return nil, err
	}
	n, err := s.restoreCap()
	if err != nil {
		return nil, err
	}
	rb := buffer.RingN[T](n)
	rb.Extend(slices.Values(s.Items))
	return rb, nil
}

// Queue restores a queue snapshot.
func (s *Snapshot[T]) Queue() (*linked.Queue[T], error) {
	if err := s.expect(KindQueue); err != nil {
		return nil, err
	}
	return linked.CollectQueue(slices.Values(s.Items)), nil
}

// Stack restores a stack snapshot. Items are pushed bottom first so the
// first item ends on top.
func (s *Snapshot[T]) Stack() (*linked.Stack[T], error) {
	if err := s.expect(KindStack); err != nil {
		return nil, err
	}
	return linked.CollectStack(func(yield func(T) bool) {
		for _, v := range slices.Backward(s.Items) {
			if !yield(v) {
				return
			}
		}
	}), nil
}
