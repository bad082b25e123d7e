package linked

import (
	"cmp"
	"iter"
)

// Stack is a singly-linked LIFO.
//
//	(D) -> (C) -> (B) -> (A)
//	head
//
// The zero value is an empty Stack ready to use.
type Stack[T any] struct {
	chain[T]
}

// NewStack creates an empty Stack.
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{}
}

// CollectStack pushes every element of seq, in order, onto a new Stack.
// The last element ends up on top.
func CollectStack[T any](seq iter.Seq[T]) *Stack[T] {
	s := NewStack[T]()
	s.Extend(seq)
	return s
}

// Push places v on top.
func (s *Stack[T]) Push(v T) {
	s.head = &node[T]{value: v, next: s.head}
	s.len++
	s.version++
}

// Pop removes and returns the top value. It reports false if the Stack is
// empty.
func (s *Stack[T]) Pop() (T, bool) {
	return s.popHead()
}

// Peek returns the top value without removing it.
func (s *Stack[T]) Peek() (T, bool) {
	return s.peek()
}

// PeekPtr returns a pointer to the top value, or nil if the Stack is empty.
func (s *Stack[T]) PeekPtr() *T {
	return s.peekPtr()
}

// Len returns the number of values.
func (s *Stack[T]) Len() int {
	return s.len
}

// IsEmpty reports whether the Stack holds no values.
func (s *Stack[T]) IsEmpty() bool {
	return s.len == 0
}

// All returns an iterator over the values from the top down.
func (s *Stack[T]) All() iter.Seq[T] {
	return s.values
}

// Pointers returns an iterator over pointers to the values from the top
// down.
func (s *Stack[T]) Pointers() iter.Seq[*T] {
	return s.pointers
}

// Drain returns an iterator that pops values until the Stack is empty or
// the consumer stops.
func (s *Stack[T]) Drain() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := s.Pop()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Extend pushes every element of seq.
func (s *Stack[T]) Extend(seq iter.Seq[T]) {
	for v := range seq {
		s.Push(v)
	}
}

// Clone returns a Stack holding the same values in the same order.
func (s *Stack[T]) Clone() *Stack[T] {
	c := NewStack[T]()
	link := &c.head
	for n := s.head; n != nil; n = n.next {
		*link = &node[T]{value: n.value}
		link = &(*link).next
	}
	c.len = s.len
	return c
}

// Clear pops every value.
func (s *Stack[T]) Clear() {
	for s.head != nil {
		s.Pop()
	}
}

// EqualFunc reports whether s and other have the same length and equal
// values in order, using eq to compare values.
func (s *Stack[T]) EqualFunc(other *Stack[T], eq func(T, T) bool) bool {
	return equalChains(&s.chain, &other.chain, eq)
}

// CompareFunc compares s and other lexicographically from the top down
// using cmp.
func (s *Stack[T]) CompareFunc(other *Stack[T], cmp func(T, T) int) int {
	return compareChains(&s.chain, &other.chain, cmp)
}

// String formats the values from the top down like a slice.
func (s *Stack[T]) String() string {
	return s.chain.String()
}

// StackEqual reports whether a and b hold equal values in the same order.
func StackEqual[T comparable](a, b *Stack[T]) bool {
	return a.EqualFunc(b, func(x, y T) bool { return x == y })
}

// StackCompare compares a and b lexicographically from the top down.
func StackCompare[T cmp.Ordered](a, b *Stack[T]) int {
	return a.CompareFunc(b, cmp.Compare[T])
}
