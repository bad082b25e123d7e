package linked

import (
	"cmp"
	"errors"
	"iter"
	"weak"
)

// errStaleTail is raised when the tail locator no longer denotes the last
// node of the chain. It indicates a broken invariant, not a caller error.
var errStaleTail = errors.New("linked: queue tail does not denote the last node")

// Queue is a singly-linked FIFO.
//
//	(A) -> (B) -> (C) -> (D)
//	head                 tail
//
// The queue owns the chain through head. tail is a weak locator used only
// to splice new nodes after the last one in constant time; it is checked
// before use and never used to release a node.
//
// The zero value is an empty Queue ready to use.
type Queue[T any] struct {
	chain[T]
	tail weak.Pointer[node[T]]
}

// NewQueue creates an empty Queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// CollectQueue enqueues every element of seq, in order, into a new Queue.
func CollectQueue[T any](seq iter.Seq[T]) *Queue[T] {
	q := NewQueue[T]()
	q.Extend(seq)
	return q
}

// Enqueue adds v at the tail.
func (q *Queue[T]) Enqueue(v T) {
	n := &node[T]{value: v}
	if last := q.tail.Value(); last != nil {
		if last.next != nil {
			panic(errStaleTail)
		}
		last.next = n
	} else {
		if q.head != nil {
			panic(errStaleTail)
		}
		q.head = n
	}
	q.tail = weak.Make(n)
	q.len++
	q.version++
}

// Dequeue removes and returns the value at the head. It reports false if
// the Queue is empty.
func (q *Queue[T]) Dequeue() (T, bool) {
	v, ok := q.popHead()
	if ok && q.head == nil {
		q.tail = weak.Pointer[node[T]]{}
	}
	return v, ok
}

// Peek returns the value at the head without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	return q.peek()
}

// PeekPtr returns a pointer to the value at the head, or nil if the Queue
// is empty. The pointer is valid until that value is dequeued.
func (q *Queue[T]) PeekPtr() *T {
	return q.peekPtr()
}

// Len returns the number of values.
func (q *Queue[T]) Len() int {
	return q.len
}

// IsEmpty reports whether the Queue holds no values.
func (q *Queue[T]) IsEmpty() bool {
	return q.len == 0
}

// All returns an iterator over the values from head to tail.
func (q *Queue[T]) All() iter.Seq[T] {
	return q.values
}

// Pointers returns an iterator over pointers to the values from head to
// tail, for updating them in place.
func (q *Queue[T]) Pointers() iter.Seq[*T] {
	return q.pointers
}

// Drain returns an iterator that dequeues values until the Queue is empty
// or the consumer stops.
func (q *Queue[T]) Drain() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := q.Dequeue()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Extend enqueues every element of seq.
func (q *Queue[T]) Extend(seq iter.Seq[T]) {
	for v := range seq {
		q.Enqueue(v)
	}
}

// Clone returns a Queue holding the same values in the same order.
func (q *Queue[T]) Clone() *Queue[T] {
	return CollectQueue(q.All())
}

// Clear dequeues every value.
func (q *Queue[T]) Clear() {
	for q.head != nil {
		q.Dequeue()
	}
}

// EqualFunc reports whether q and other have the same length and equal
// values in order, using eq to compare values.
func (q *Queue[T]) EqualFunc(other *Queue[T], eq func(T, T) bool) bool {
	return equalChains(&q.chain, &other.chain, eq)
}

// CompareFunc compares q and other lexicographically using cmp. A Queue
// that is a proper prefix of the other compares as less.
func (q *Queue[T]) CompareFunc(other *Queue[T], cmp func(T, T) int) int {
	return compareChains(&q.chain, &other.chain, cmp)
}

// String formats the values head to tail like a slice.
func (q *Queue[T]) String() string {
	return q.chain.String()
}

// QueueEqual reports whether a and b hold equal values in the same order.
func QueueEqual[T comparable](a, b *Queue[T]) bool {
	return a.EqualFunc(b, func(x, y T) bool { return x == y })
}

// QueueCompare compares a and b lexicographically.
func QueueCompare[T cmp.Ordered](a, b *Queue[T]) int {
	return a.CompareFunc(b, cmp.Compare[T])
}
