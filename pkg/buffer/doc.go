// Package buffer provides growable contiguous containers whose storage is
// managed explicitly by the package instead of by append.
//
// The package offers three types that build on each other:
//
//   - Raw: an owned slot region with an explicit capacity. It never tracks
//     which slots are live; its owner does. Growth doubles the capacity
//     (0 becomes 1) in a single call that returns the new capacity.
//
//   - Array: an index-addressable sequence on top of Raw with push, pop,
//     insert and remove at arbitrary positions.
//
//   - Ring: a circular sequence on top of Raw with constant-time push at
//     both ends and pop at the front. A full Ring grows; it never
//     overwrites live data. Growing relinearizes the live elements so that
//     logical slot i sits at physical offset i.
//
// None of the types are safe for concurrent use. Share them between
// goroutines only under an external lock.
//
// Two conditions are fatal and reported with a panic rather than an error:
// requesting a region larger than the address space (ErrCapacityOverflow),
// and passing an out-of-range index to Array.Insert or Array.Remove
// (ErrIndexOutOfRange). Popping an empty container is not an error; it
// reports false.
//
// Example usage:
//
//	arr := buffer.NewArray[int]()
//	arr.Push(10)
//	arr.Insert(0, 5)
//	v, ok := arr.Remove(0) // 5, true
//
//	rb := buffer.NewRing[string]()
//	rb.PushBack("b")
//	rb.PushFront("a")
//	s, _ := rb.Pop() // "a"
package buffer
