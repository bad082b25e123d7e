// Package linked provides singly-linked FIFO and LIFO containers built from
// individually allocated nodes.
//
// Queue keeps an owning link to its first node and a weak locator for its
// last node, which it uses only to splice new nodes in constant time.
// Stack keeps an owning link to its top node. Every node is owned by
// exactly one predecessor: the previous node, or the container itself for
// the first node.
//
// Iterators returned by All, Pointers and Drain observe the container they
// came from. A structural change (push, pop, enqueue, dequeue or clear)
// made through anything other than the iterator itself causes the iterator
// to panic with ErrConcurrentModification at its next step rather than
// continue over a stale chain.
//
// None of the types are safe for concurrent use.
package linked
