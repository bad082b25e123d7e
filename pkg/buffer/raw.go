package buffer

import (
	"errors"
	"fmt"
	"math"
	"unsafe"
)

var (
	// ErrCapacityOverflow is the panic value (wrapped) raised when a region
	// would exceed the addressable size. It is not recoverable by design of
	// the callers: there is no way to continue without the memory.
	ErrCapacityOverflow = errors.New("buffer: capacity overflow")

	// ErrIndexOutOfRange is the panic value (wrapped) raised when a caller
	// passes an index outside the valid range of an operation.
	ErrIndexOutOfRange = errors.New("buffer: index out of range")
)

// maxRegionBytes is the largest region Raw will request, the signed
// address-space limit.
const maxRegionBytes = uintptr(math.MaxInt)

// Raw is an owned region of slots for elements of type T.
//
// Raw tracks only its capacity. It never records which slots hold live
// elements; the owning container is responsible for that, and for clearing
// slots it vacates. Slots that were never written hold the zero value of T.
//
// A Raw of a zero-sized T never allocates and reports an unbounded capacity
// (math.MaxInt). Reads of such slots yield the zero value and writes are
// discarded.
//
// The zero value is an empty Raw ready to use.
type Raw[T any] struct {
	slots []T
	cap   int
}

// NewRaw creates a Raw with zero capacity. No region is allocated.
func NewRaw[T any]() *Raw[T] {
	return &Raw[T]{}
}

// RawN creates a Raw with room for exactly n elements.
//
// It panics with ErrCapacityOverflow if n is negative or the region would
// exceed the addressable size.
func RawN[T any](n int) *Raw[T] {
	r := &Raw[T]{}
	r.alloc(n)
	return r
}

func zeroSized[T any]() bool {
	var zero T
	return unsafe.Sizeof(zero) == 0
}

// checkRegion panics if a region of n elements of T cannot be addressed.
func checkRegion[T any](n int) {
	if n < 0 {
		panic(fmt.Errorf("%w: negative capacity %d", ErrCapacityOverflow, n))
	}
	var zero T
	size := unsafe.Sizeof(zero)
	if size != 0 && uintptr(n) > maxRegionBytes/size {
		panic(fmt.Errorf("%w: %d elements of %d bytes", ErrCapacityOverflow, n, size))
	}
}

func (r *Raw[T]) alloc(n int) {
	checkRegion[T](n)
	if zeroSized[T]() || n == 0 {
		return
	}
	r.slots = make([]T, n)
	r.cap = n
}

// Cap returns the number of elements the region can hold.
func (r *Raw[T]) Cap() int {
	if zeroSized[T]() {
		return math.MaxInt
	}
	return r.cap
}

// nextCap returns the capacity Grow moves to.
func (r *Raw[T]) nextCap() int {
	if r.cap == 0 {
		return 1
	}
	if r.cap > math.MaxInt/2 {
		panic(fmt.Errorf("%w: cannot double %d", ErrCapacityOverflow, r.cap))
	}
	return r.cap * 2
}

// Grow doubles the capacity (an empty Raw grows to 1) and returns the new
// capacity. Every slot keeps its index; the previous region is dropped.
//
// Grow panics with ErrCapacityOverflow if the doubled region cannot be
// addressed, and always for zero-sized T whose capacity is already
// unbounded.
func (r *Raw[T]) Grow() int {
	return r.grow(func(dst []T) {
		copy(dst, r.slots)
	})
}

// GrowLinear doubles the capacity like Grow, but moves the n slots that
// start at physical index head (wrapping at the current capacity) to
// indices [0, n) of the new region. It returns the new capacity.
//
// Ring uses it to undo wraparound while growing.
func (r *Raw[T]) GrowLinear(head, n int) int {
	if head < 0 || n < 0 || n > r.cap {
		panic(fmt.Errorf("%w: linear grow of %d slots at %d with capacity %d",
			ErrIndexOutOfRange, n, head, r.cap))
	}
	return r.grow(func(dst []T) {
		if n == 0 {
			return
		}
		h := head % r.cap
		c := copy(dst[:n], r.slots[h:min(h+n, r.cap)])
		copy(dst[c:n], r.slots[:n-c])
	})
}

func (r *Raw[T]) grow(fill func(dst []T)) int {
	if zeroSized[T]() {
		panic(fmt.Errorf("%w: zero-sized elements have unbounded capacity", ErrCapacityOverflow))
	}
	next := r.nextCap()
	checkRegion[T](next)

	slots := make([]T, next)
	fill(slots)
	clear(r.slots)
	r.slots = slots
	r.cap = next
	return next
}

// Read returns the element in slot i.
func (r *Raw[T]) Read(i int) T {
	if zeroSized[T]() {
		var zero T
		return zero
	}
	return r.slots[i]
}

// Write stores v in slot i, replacing whatever the slot held.
func (r *Raw[T]) Write(i int, v T) {
	if zeroSized[T]() {
		return
	}
	r.slots[i] = v
}

// Take returns the element in slot i and resets the slot to the zero value.
func (r *Raw[T]) Take(i int) T {
	if zeroSized[T]() {
		var zero T
		return zero
	}
	v := r.slots[i]
	var zero T
	r.slots[i] = zero
	return v
}

// Move copies n slots starting at src to the n slots starting at dst.
// The ranges may overlap. Source slots outside the destination range keep
// their old contents; callers clear them if they no longer own them.
func (r *Raw[T]) Move(dst, src, n int) {
	if zeroSized[T]() || n == 0 {
		return
	}
	copy(r.slots[dst:dst+n], r.slots[src:src+n])
}

// Clear resets n slots starting at i to the zero value.
func (r *Raw[T]) Clear(i, n int) {
	if zeroSized[T]() || n == 0 {
		return
	}
	clear(r.slots[i : i+n])
}

// Slice returns a view of slots [lo, hi). The view aliases the region
// until the next Grow or Release; its capacity is limited to hi-lo so
// appending to it never touches slots past hi.
func (r *Raw[T]) Slice(lo, hi int) []T {
	if zeroSized[T]() {
		return make([]T, hi-lo)
	}
	return r.slots[lo:hi:hi]
}

// Release drops the region. The Raw is empty afterwards and may be reused.
// Releasing an empty Raw does nothing.
func (r *Raw[T]) Release() {
	if r.cap == 0 {
		return
	}
	clear(r.slots)
	r.slots = nil
	r.cap = 0
}
