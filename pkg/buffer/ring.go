package buffer

import (
	"fmt"
	"iter"
	"strings"
)

// Ring is a growable circular buffer backed by a Raw region.
//
// Live elements occupy physical slots (head + i) mod Cap() for i in
// [0, Len()). PushBack, PushFront and Pop run in amortized constant time.
// Unlike a fixed-size ring, a full Ring grows instead of overwriting the
// oldest element. Growing relinearizes the live elements: afterwards
// logical slot i is physical slot i and head is 0.
//
// head is kept reduced modulo the capacity, so it is always a valid
// physical index and, while the Ring is non-empty, denotes a live element.
//
// The zero value is an empty Ring ready to use.
type Ring[T any] struct {
	buf  Raw[T]
	head int
	len  int
}

// NewRing creates an empty Ring. No storage is allocated until the first
// push.
func NewRing[T any]() *Ring[T] {
	return &Ring[T]{}
}

// RingN creates an empty Ring with room for n elements.
func RingN[T any](n int) *Ring[T] {
	rb := &Ring[T]{}
	rb.buf.alloc(n)
	return rb
}

// physical maps logical slot i to its physical index without overflowing
// when the capacity is close to math.MaxInt.
func (rb *Ring[T]) physical(i int) int {
	capacity := rb.buf.Cap()
	if i >= capacity-rb.head {
		return i - (capacity - rb.head)
	}
	return rb.head + i
}

func (rb *Ring[T]) growIfFull() {
	if rb.len < rb.buf.Cap() {
		return
	}
	rb.buf.GrowLinear(rb.head, rb.len)
	rb.head = 0
}

// PushBack appends v after the last element.
func (rb *Ring[T]) PushBack(v T) {
	rb.growIfFull()
	rb.buf.Write(rb.physical(rb.len), v)
	rb.len++
}

// PushFront inserts v before the first element.
//
// On an empty Ring the head does not move, so the head slot always holds a
// live element once the Ring is non-empty.
func (rb *Ring[T]) PushFront(v T) {
	rb.growIfFull()
	if rb.len > 0 {
		if rb.head == 0 {
			rb.head = rb.buf.Cap() - 1
		} else {
			rb.head--
		}
	}
	rb.buf.Write(rb.head, v)
	rb.len++
}

// Pop removes and returns the first element. It reports false if the Ring
// is empty.
func (rb *Ring[T]) Pop() (T, bool) {
	if rb.len == 0 {
		var zero T
		return zero, false
	}
	v := rb.buf.Take(rb.head)
	rb.head++
	if rb.head == rb.buf.Cap() {
		rb.head = 0
	}
	rb.len--
	return v, true
}

// Peek returns the first element without removing it.
func (rb *Ring[T]) Peek() (T, bool) {
	if rb.len == 0 {
		var zero T
		return zero, false
	}
	return rb.buf.Read(rb.head), true
}

// PeekBack returns the last element without removing it.
func (rb *Ring[T]) PeekBack() (T, bool) {
	if rb.len == 0 {
		var zero T
		return zero, false
	}
	return rb.buf.Read(rb.physical(rb.len - 1)), true
}

// Len returns the number of elements.
func (rb *Ring[T]) Len() int {
	return rb.len
}

// IsEmpty reports whether the Ring holds no elements.
func (rb *Ring[T]) IsEmpty() bool {
	return rb.len == 0
}

// Cap returns the number of elements the Ring can hold before it grows.
func (rb *Ring[T]) Cap() int {
	return rb.buf.Cap()
}

// At returns the element at logical slot i, counting from the front.
// It panics with ErrIndexOutOfRange if i is outside [0, Len()).
func (rb *Ring[T]) At(i int) T {
	if i < 0 || i >= rb.len {
		panic(fmt.Errorf("%w: index %d with length %d", ErrIndexOutOfRange, i, rb.len))
	}
	return rb.buf.Read(rb.physical(i))
}

// All returns an iterator over logical index/element pairs, front to back.
func (rb *Ring[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < rb.len; i++ {
			if !yield(i, rb.buf.Read(rb.physical(i))) {
				return
			}
		}
	}
}

// Values returns an iterator over the elements, front to back.
func (rb *Ring[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < rb.len; i++ {
			if !yield(rb.buf.Read(rb.physical(i))) {
				return
			}
		}
	}
}

// Extend pushes every element of seq at the back.
func (rb *Ring[T]) Extend(seq iter.Seq[T]) {
	for v := range seq {
		rb.PushBack(v)
	}
}

// Clone returns a linearized shallow copy with capacity equal to the
// length.
func (rb *Ring[T]) Clone() *Ring[T] {
	c := RingN[T](rb.len)
	for i := 0; i < rb.len; i++ {
		c.buf.Write(i, rb.buf.Read(rb.physical(i)))
	}
	c.len = rb.len
	return c
}

// Release pops every element and drops the storage. The Ring is empty and
// reusable afterwards.
func (rb *Ring[T]) Release() {
	for rb.len > 0 {
		rb.Pop()
	}
	rb.buf.Release()
	rb.head = 0
}

// String formats the elements front to back like a slice.
func (rb *Ring[T]) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range rb.All() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprint(&sb, v)
	}
	sb.WriteByte(']')
	return sb.String()
}
