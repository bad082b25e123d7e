package script

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/haivivi/lincon/pkg/buffer"
	"github.com/haivivi/lincon/pkg/linked"
	"github.com/haivivi/lincon/pkg/snapshot"
)

// Target holds the one container a script runs against.
type Target struct {
	kind  snapshot.Kind
	array *buffer.Array[string]
	ring  *buffer.Ring[string]
	queue *linked.Queue[string]
	stack *linked.Stack[string]
}

// NewTarget creates an empty container of the given kind. capacity is
// reserved up front for arrays and rings.
func NewTarget(kind snapshot.Kind, capacity int) (*Target, error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}
	t := &Target{kind: kind}
	switch kind {
	case snapshot.KindArray:
		t.array = buffer.ArrayN[string](capacity)
	case snapshot.KindRing:
		t.ring = buffer.RingN[string](capacity)
	case snapshot.KindQueue:
		t.queue = linked.NewQueue[string]()
	case snapshot.KindStack:
		t.stack = linked.NewStack[string]()
	default:
		return nil, fmt.Errorf("%w: %q", snapshot.ErrUnknownKind, kind)
	}
	return t, nil
}

// TargetFromSnapshot restores the container captured in s.
func TargetFromSnapshot(s *snapshot.Snapshot[string]) (*Target, error) {
	t := &Target{kind: s.Kind}
	var err error
	switch s.Kind {
	case snapshot.KindArray:
		t.array, err = s.Array()
	case snapshot.KindRing:
		t.ring, err = s.Ring()
	case snapshot.KindQueue:
		t.queue, err = s.Queue()
	case snapshot.KindStack:
		t.stack, err = s.Stack()
	default:
		err = fmt.Errorf("%w: %q", snapshot.ErrUnknownKind, s.Kind)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Kind returns the container kind.
func (t *Target) Kind() snapshot.Kind {
	return t.kind
}

// Snapshot captures the container's current contents.
func (t *Target) Snapshot() *snapshot.Snapshot[string] {
	switch t.kind {
	case snapshot.KindArray:
		return snapshot.FromArray(t.array)
	case snapshot.KindRing:
		return snapshot.FromRing(t.ring)
	case snapshot.KindQueue:
		return snapshot.FromQueue(t.queue)
	default:
		return snapshot.FromStack(t.stack)
	}
}

// Len returns the number of elements.
func (t *Target) Len() int {
	switch t.kind {
	case snapshot.KindArray:
		return t.array.Len()
	case snapshot.KindRing:
		return t.ring.Len()
	case snapshot.KindQueue:
		return t.queue.Len()
	default:
		return t.stack.Len()
	}
}

// Cap returns the reserved capacity. Linked containers report 0.
func (t *Target) Cap() int {
	switch t.kind {
	case snapshot.KindArray:
		return t.array.Cap()
	case snapshot.KindRing:
		return t.ring.Cap()
	default:
		return 0
	}
}

// Items returns the elements in iteration order. The result is never nil.
func (t *Target) Items() []string {
	items := make([]string, 0, t.Len())
	switch t.kind {
	case snapshot.KindArray:
		return slices.AppendSeq(items, t.array.Values())
	case snapshot.KindRing:
		return slices.AppendSeq(items, t.ring.Values())
	case snapshot.KindQueue:
		return slices.AppendSeq(items, t.queue.All())
	default:
		return slices.AppendSeq(items, t.stack.All())
	}
}

// index validates op.Index against [0, limit).
func index(op Op, limit int) (int, error) {
	if op.Index == nil {
		return 0, fmt.Errorf("%w: %s needs an index", ErrBadIndex, op.Op)
	}
	i := *op.Index
	if i < 0 || i >= limit {
		return 0, fmt.Errorf("%w: %s at %d outside [0, %d)", ErrBadIndex, op.Op, i, limit)
	}
	return i, nil
}

// apply executes op and returns its result. found is false when the
// operation produced nothing, as pop on an empty container does.
func (t *Target) apply(op Op) (result string, found bool, err error) {
	switch op.Op {
	case "len":
		return strconv.Itoa(t.Len()), true, nil
	case "is_empty":
		return strconv.FormatBool(t.Len() == 0), true, nil
	case "clear":
		t.clear()
		return "", false, nil
	}

	switch t.kind {
	case snapshot.KindArray:
		return t.applyArray(op)
	case snapshot.KindRing:
		return t.applyRing(op)
	case snapshot.KindQueue:
		return t.applyQueue(op)
	default:
		return t.applyStack(op)
	}
}

func (t *Target) clear() {
	switch t.kind {
	case snapshot.KindArray:
		t.array.Release()
	case snapshot.KindRing:
		t.ring.Release()
	case snapshot.KindQueue:
		t.queue.Clear()
	default:
		t.stack.Clear()
	}
}

func unknown(kind snapshot.Kind, op Op) error {
	return fmt.Errorf("%w: %q on %s", ErrUnknownOp, op.Op, kind)
}

func (t *Target) applyArray(op Op) (string, bool, error) {
	a := t.array
	switch op.Op {
	case "push":
		a.Push(op.Value)
		return "", false, nil
	case "pop":
		v, ok := a.Pop()
		return v, ok, nil
	case "insert":
		i, err := index(op, a.Len()+1)
		if err != nil {
			return "", false, err
		}
		a.Insert(i, op.Value)
		return "", false, nil
	case "remove":
		if a.IsEmpty() {
			return "", false, nil
		}
		i, err := index(op, a.Len())
		if err != nil {
			return "", false, err
		}
		v, ok := a.Remove(i)
		return v, ok, nil
	case "get":
		i, err := index(op, a.Len())
		if err != nil {
			return "", false, err
		}
		return a.At(i), true, nil
	}
	return "", false, unknown(t.kind, op)
}

func (t *Target) applyRing(op Op) (string, bool, error) {
	rb := t.ring
	switch op.Op {
	case "push_back":
		rb.PushBack(op.Value)
		return "", false, nil
	case "push_front":
		rb.PushFront(op.Value)
		return "", false, nil
	case "pop":
		v, ok := rb.Pop()
		return v, ok, nil
	case "peek":
		v, ok := rb.Peek()
		return v, ok, nil
	case "peek_back":
		v, ok := rb.PeekBack()
		return v, ok, nil
	case "get":
		i, err := index(op, rb.Len())
		if err != nil {
			return "", false, err
		}
		return rb.At(i), true, nil
	}
	return "", false, unknown(t.kind, op)
}

func (t *Target) applyQueue(op Op) (string, bool, error) {
	q := t.queue
	switch op.Op {
	case "enqueue":
		q.Enqueue(op.Value)
		return "", false, nil
	case "dequeue":
		v, ok := q.Dequeue()
		return v, ok, nil
	case "peek":
		v, ok := q.Peek()
		return v, ok, nil
	}
	return "", false, unknown(t.kind, op)
}

func (t *Target) applyStack(op Op) (string, bool, error) {
	s := t.stack
	switch op.Op {
	case "push":
		s.Push(op.Value)
		return "", false, nil
	case "pop":
		v, ok := s.Pop()
		return v, ok, nil
	case "peek":
		v, ok := s.Peek()
		return v, ok, nil
	}
	return "", false, unknown(t.kind, op)
}
