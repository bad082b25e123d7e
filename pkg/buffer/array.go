package buffer

import (
	"fmt"
	"iter"
)

// Array is a growable, index-addressable sequence backed by a Raw region.
//
// Elements occupy slots [0, Len()). Push and Pop work at the end in
// amortized constant time; Insert and Remove shift the elements after the
// index and run in linear time.
//
// The zero value is an empty Array ready to use.
type Array[T any] struct {
	buf Raw[T]
	len int
}

// NewArray creates an empty Array. No storage is allocated until the first
// push.
func NewArray[T any]() *Array[T] {
	return &Array[T]{}
}

// ArrayN creates an empty Array with room for n elements.
func ArrayN[T any](n int) *Array[T] {
	a := &Array[T]{}
	a.buf.alloc(n)
	return a
}

// ArrayOf creates an Array holding values in order.
func ArrayOf[T any](values ...T) *Array[T] {
	a := ArrayN[T](len(values))
	for _, v := range values {
		a.Push(v)
	}
	return a
}

// Push appends v, growing the storage if it is full.
func (a *Array[T]) Push(v T) {
	if a.len == a.buf.Cap() {
		a.buf.Grow()
	}
	a.buf.Write(a.len, v)
	a.len++
}

// Pop removes and returns the last element. It reports false if the Array
// is empty.
func (a *Array[T]) Pop() (T, bool) {
	if a.len == 0 {
		var zero T
		return zero, false
	}
	a.len--
	return a.buf.Take(a.len), true
}

// Insert places v at index i, shifting the elements at and after i one slot
// to the right. i may equal Len(), which appends.
//
// Insert panics with ErrIndexOutOfRange if i is outside [0, Len()].
func (a *Array[T]) Insert(i int, v T) {
	if i < 0 || i > a.len {
		panic(fmt.Errorf("%w: insert at %d with length %d", ErrIndexOutOfRange, i, a.len))
	}
	if a.len == a.buf.Cap() {
		a.buf.Grow()
	}
	a.buf.Move(i+1, i, a.len-i)
	a.buf.Write(i, v)
	a.len++
}

// Remove deletes and returns the element at index i, shifting the elements
// after it one slot to the left. It reports false if the Array is empty.
//
// Remove panics with ErrIndexOutOfRange if the Array is not empty and i is
// outside [0, Len()).
func (a *Array[T]) Remove(i int) (T, bool) {
	if a.len == 0 {
		var zero T
		return zero, false
	}
	if i < 0 || i >= a.len {
		panic(fmt.Errorf("%w: remove at %d with length %d", ErrIndexOutOfRange, i, a.len))
	}
	v := a.buf.Read(i)
	a.buf.Move(i, i+1, a.len-i-1)
	a.len--
	a.buf.Clear(a.len, 1)
	return v, true
}

// Len returns the number of elements.
func (a *Array[T]) Len() int {
	return a.len
}

// IsEmpty reports whether the Array holds no elements.
func (a *Array[T]) IsEmpty() bool {
	return a.len == 0
}

// Cap returns the number of elements the Array can hold before it grows.
func (a *Array[T]) Cap() int {
	return a.buf.Cap()
}

func (a *Array[T]) checkIndex(i int) {
	if i < 0 || i >= a.len {
		panic(fmt.Errorf("%w: index %d with length %d", ErrIndexOutOfRange, i, a.len))
	}
}

// At returns the element at index i. It panics if i is out of range.
func (a *Array[T]) At(i int) T {
	a.checkIndex(i)
	return a.buf.Read(i)
}

// Set replaces the element at index i. It panics if i is out of range.
func (a *Array[T]) Set(i int, v T) {
	a.checkIndex(i)
	a.buf.Write(i, v)
}

// Slice returns the live elements as a slice that aliases the Array's
// storage. Writes through it are visible in the Array. The slice is valid
// until the next call that grows or releases the Array.
func (a *Array[T]) Slice() []T {
	return a.buf.Slice(0, a.len)
}

// All returns an iterator over index/element pairs in order.
func (a *Array[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < a.len; i++ {
			if !yield(i, a.buf.Read(i)) {
				return
			}
		}
	}
}

// Values returns an iterator over the elements in order.
func (a *Array[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < a.len; i++ {
			if !yield(a.buf.Read(i)) {
				return
			}
		}
	}
}

// Extend pushes every element of seq.
func (a *Array[T]) Extend(seq iter.Seq[T]) {
	for v := range seq {
		a.Push(v)
	}
}

// Clone returns a shallow copy with capacity equal to the length.
func (a *Array[T]) Clone() *Array[T] {
	c := ArrayN[T](a.len)
	copy(c.buf.Slice(0, a.len), a.Slice())
	c.len = a.len
	return c
}

// Release pops every element and drops the storage. The Array is empty and
// reusable afterwards.
func (a *Array[T]) Release() {
	for a.len > 0 {
		a.Pop()
	}
	a.buf.Release()
}

// String formats the elements like a slice.
func (a *Array[T]) String() string {
	return fmt.Sprint(a.Slice())
}
