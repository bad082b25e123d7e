package linked

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConcurrentModification is the panic value raised when a container is
// structurally modified while one of its iterators is in progress.
var ErrConcurrentModification = errors.New("linked: container modified during iteration")

// node is a single allocation in a chain. next is the owning link to the
// successor.
type node[T any] struct {
	value T
	next  *node[T]
}

// scrub drops the node's value and link so a detached node keeps nothing
// alive.
func (n *node[T]) scrub() {
	var zero T
	n.value = zero
	n.next = nil
}

// chain is the head, length and modification counter shared by Queue and
// Stack.
type chain[T any] struct {
	head    *node[T]
	len     int
	version uint64
}

func (c *chain[T]) check(version uint64) {
	if c.version != version {
		panic(fmt.Errorf("%w: version %d, now %d", ErrConcurrentModification, version, c.version))
	}
}

// values yields every value from head to tail.
func (c *chain[T]) values(yield func(T) bool) {
	version := c.version
	for n := c.head; n != nil; n = n.next {
		if !yield(n.value) {
			return
		}
		c.check(version)
	}
}

// pointers yields a pointer to every value from head to tail.
func (c *chain[T]) pointers(yield func(*T) bool) {
	version := c.version
	for n := c.head; n != nil; n = n.next {
		if !yield(&n.value) {
			return
		}
		c.check(version)
	}
}

func (c *chain[T]) peek() (T, bool) {
	if c.head == nil {
		var zero T
		return zero, false
	}
	return c.head.value, true
}

func (c *chain[T]) peekPtr() *T {
	if c.head == nil {
		return nil
	}
	return &c.head.value
}

// popHead detaches the first node and returns its value.
func (c *chain[T]) popHead() (T, bool) {
	old := c.head
	if old == nil {
		var zero T
		return zero, false
	}
	v := old.value
	c.head = old.next
	c.len--
	c.version++
	old.scrub()
	return v, true
}

func (c *chain[T]) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for n := c.head; n != nil; n = n.next {
		if n != c.head {
			sb.WriteByte(' ')
		}
		fmt.Fprint(&sb, n.value)
	}
	sb.WriteByte(']')
	return sb.String()
}

func equalChains[T any](a, b *chain[T], eq func(T, T) bool) bool {
	if a.len != b.len {
		return false
	}
	for x, y := a.head, b.head; x != nil && y != nil; x, y = x.next, y.next {
		if !eq(x.value, y.value) {
			return false
		}
	}
	return true
}

// compareChains orders chains lexicographically; a chain that is a proper
// prefix of the other sorts first.
func compareChains[T any](a, b *chain[T], cmp func(T, T) int) int {
	x, y := a.head, b.head
	for ; x != nil && y != nil; x, y = x.next, y.next {
		if c := cmp(x.value, y.value); c != 0 {
			return c
		}
	}
	switch {
	case x == nil && y == nil:
		return 0
	case x == nil:
		return -1
	default:
		return 1
	}
}
