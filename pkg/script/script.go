// Package script drives the containers from declarative operation scripts.
//
// A Script names a container kind and lists operations to apply to it in
// order. Each operation may carry an expectation; the Runner stops at the
// first operation whose result does not match and reports a Trace of every
// step it executed.
//
//	container: queue
//	ops:
//	  - {op: enqueue, value: Hello}
//	  - {op: enqueue, value: World}
//	  - {op: dequeue, expect: Hello}
//	  - {op: len, expect: "1"}
package script

import (
	"errors"
	"fmt"
	"slices"

	"github.com/haivivi/lincon/pkg/snapshot"
)

var (
	// ErrUnknownOp is returned for an operation the container does not
	// support.
	ErrUnknownOp = errors.New("script: unknown op")

	// ErrExpectation is returned when an operation's result differs from
	// its expectation.
	ErrExpectation = errors.New("script: expectation failed")

	// ErrBadIndex is returned for a missing or out-of-range index.
	ErrBadIndex = errors.New("script: bad index")

	// ErrCapacity is returned for a negative capacity or one above
	// MaxCapacity.
	ErrCapacity = errors.New("script: bad capacity")
)

// MaxCapacity bounds the capacity a script may reserve for an array or ring.
const MaxCapacity = 1 << 20

func checkCapacity(n int) error {
	if n < 0 || n > MaxCapacity {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrCapacity, n, MaxCapacity)
	}
	return nil
}

// Script is a sequence of operations against one container.
type Script struct {
	// Container is the container kind: array, ring, queue or stack.
	Container snapshot.Kind `yaml:"container" json:"container" jsonschema:"container kind: array, ring, queue or stack"`

	// Capacity reserves room in buffer-backed containers before the first
	// operation. Linked containers ignore it.
	Capacity int `yaml:"capacity,omitempty" json:"capacity,omitempty" jsonschema:"initial capacity for array and ring"`

	Ops []Op `yaml:"ops" json:"ops" jsonschema:"operations applied in order"`
}

// Op is a single operation.
type Op struct {
	Op string `yaml:"op" json:"op" jsonschema:"operation name"`

	// Value is the element pushed by push, push_back, push_front, enqueue
	// and insert.
	Value string `yaml:"value,omitempty" json:"value,omitempty" jsonschema:"element to add"`

	// Index is required by insert, remove and get.
	Index *int `yaml:"index,omitempty" json:"index,omitempty" jsonschema:"position for insert, remove and get"`

	// Expect is the expected result. For len and is_empty it is compared
	// with the decimal length or "true"/"false".
	Expect *string `yaml:"expect,omitempty" json:"expect,omitempty" jsonschema:"expected result"`

	// ExpectNone expects the operation to find nothing, as pop on an empty
	// container does.
	ExpectNone bool `yaml:"expect_none,omitempty" json:"expect_none,omitempty" jsonschema:"expect no result"`
}

var commonOps = []string{"len", "is_empty", "clear"}

var containerOps = map[snapshot.Kind][]string{
	snapshot.KindArray: {"push", "pop", "insert", "remove", "get"},
	snapshot.KindRing:  {"push_back", "push_front", "pop", "peek", "peek_back", "get"},
	snapshot.KindQueue: {"enqueue", "dequeue", "peek"},
	snapshot.KindStack: {"push", "pop", "peek"},
}

// Ops returns the operations supported by kind.
func Ops(kind snapshot.Kind) []string {
	ops, ok := containerOps[kind]
	if !ok {
		return nil
	}
	return append(slices.Clone(ops), commonOps...)
}

// AllOps returns every operation name, sorted and without duplicates.
func AllOps() []string {
	var all []string
	for _, k := range snapshot.Kinds {
		all = append(all, Ops(k)...)
	}
	slices.Sort(all)
	return slices.Compact(all)
}

func needsIndex(op string) bool {
	switch op {
	case "insert", "remove", "get":
		return true
	}
	return false
}

// Validate checks that every operation exists for the script's container
// and carries the fields it needs. It does not execute anything.
func (s *Script) Validate() error {
	if _, err := snapshot.ParseKind(string(s.Container)); err != nil {
		return err
	}
	ops := Ops(s.Container)
	for i, op := range s.Ops {
		if !slices.Contains(ops, op.Op) {
			return fmt.Errorf("%w: step %d: %q on %s", ErrUnknownOp, i, op.Op, s.Container)
		}
		if needsIndex(op.Op) && op.Index == nil {
			return fmt.Errorf("%w: step %d: %s needs an index", ErrBadIndex, i, op.Op)
		}
		if op.Expect != nil && op.ExpectNone {
			return fmt.Errorf("script: step %d: expect and expect_none are exclusive", i)
		}
	}
	return checkCapacity(s.Capacity)
}

// check compares an operation's outcome with its expectation.
func (op *Op) check(result string, found bool) error {
	switch {
	case op.ExpectNone && found:
		return fmt.Errorf("%w: %s: want nothing, got %q", ErrExpectation, op.Op, result)
	case op.Expect != nil && !found:
		return fmt.Errorf("%w: %s: want %q, got nothing", ErrExpectation, op.Op, *op.Expect)
	case op.Expect != nil && result != *op.Expect:
		return fmt.Errorf("%w: %s: want %q, got %q", ErrExpectation, op.Op, *op.Expect, result)
	}
	return nil
}
