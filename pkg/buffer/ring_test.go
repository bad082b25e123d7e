package buffer

import (
	"slices"
	"strconv"
	"testing"
)

func TestRing(t *testing.T) {
	t.Run("scenario", func(t *testing.T) {
		rb := NewRing[int]()
		if _, ok := rb.Pop(); ok {
			t.Fatal("pop on empty ring returned a value")
		}
		if !rb.IsEmpty() {
			t.Fatal("new ring is not empty")
		}

		for _, v := range []int{10, 15, 20, 25} {
			rb.PushBack(v)
		}
		if rb.Len() != 4 {
			t.Errorf("len=%d", rb.Len())
		}
		for _, want := range []int{10, 15} {
			if v, ok := rb.Pop(); !ok || v != want {
				t.Errorf("pop=%d,%v want %d", v, ok, want)
			}
		}
		rb.PushFront(30)
		if rb.Len() != 3 {
			t.Errorf("len=%d", rb.Len())
		}
		for _, want := range []int{30, 20, 25} {
			if v, ok := rb.Pop(); !ok || v != want {
				t.Errorf("pop=%d,%v want %d", v, ok, want)
			}
		}
		if !rb.IsEmpty() {
			t.Errorf("len=%d", rb.Len())
		}
	})

	t.Run("push_front/pop", func(t *testing.T) {
		rb := NewRing[string]()
		rb.PushBack("b")
		rb.PushBack("c")
		before := slices.Collect(rb.Values())

		rb.PushFront("a")
		if v, ok := rb.Pop(); !ok || v != "a" {
			t.Fatalf("pop=%q,%v", v, ok)
		}
		if got := slices.Collect(rb.Values()); !slices.Equal(got, before) {
			t.Errorf("got=%v want=%v", got, before)
		}
	})

	t.Run("push_front on empty keeps head", func(t *testing.T) {
		rb := RingN[int](4)
		rb.PushFront(1)
		if rb.head != 0 {
			t.Errorf("head=%d", rb.head)
		}
		rb.PushFront(0)
		if rb.head != 3 {
			t.Errorf("head=%d", rb.head)
		}
		if got := slices.Collect(rb.Values()); !slices.Equal(got, []int{0, 1}) {
			t.Errorf("got=%v", got)
		}
	})

	t.Run("empty pops are idempotent", func(t *testing.T) {
		rb := NewRing[int]()
		for range 3 {
			if _, ok := rb.Pop(); ok {
				t.Fatal("pop on empty ring returned a value")
			}
			if _, ok := rb.Peek(); ok {
				t.Fatal("peek on empty ring returned a value")
			}
		}
		if rb.Len() != 0 || rb.Cap() != 0 {
			t.Errorf("len=%d cap=%d", rb.Len(), rb.Cap())
		}
	})

	for k := 0; k <= 6; k++ {
		n := 1<<k + 1
		t.Run("grow.n="+strconv.Itoa(n), func(t *testing.T) {
			rb := NewRing[int]()
			for i := range n {
				rb.PushBack(i)
			}
			if rb.Len() != n {
				t.Fatalf("len=%d", rb.Len())
			}
			for i := range n {
				if v, ok := rb.Pop(); !ok || v != i {
					t.Fatalf("pop=%d,%v want %d", v, ok, i)
				}
			}
		})
	}

	t.Run("grow while wrapped", func(t *testing.T) {
		rb := RingN[int](4)
		for i := range 4 {
			rb.PushBack(i)
		}
		rb.Pop()
		rb.Pop()
		rb.PushBack(4)
		rb.PushBack(5)
		// head=2, live slots wrap: [4 5 2 3]
		if rb.head != 2 {
			t.Fatalf("head=%d", rb.head)
		}
		rb.PushBack(6)
		if rb.Cap() != 8 {
			t.Errorf("cap=%d", rb.Cap())
		}
		if rb.head != 0 {
			t.Errorf("head=%d after grow", rb.head)
		}
		if got := slices.Collect(rb.Values()); !slices.Equal(got, []int{2, 3, 4, 5, 6}) {
			t.Errorf("got=%v", got)
		}
	})

	t.Run("grow via push_front while wrapped", func(t *testing.T) {
		rb := NewRing[int]()
		for i := 3; i >= 0; i-- {
			rb.PushFront(i)
		}
		rb.PushFront(-1)
		if got := slices.Collect(rb.Values()); !slices.Equal(got, []int{-1, 0, 1, 2, 3}) {
			t.Errorf("got=%v", got)
		}
		if v, ok := rb.PeekBack(); !ok || v != 3 {
			t.Errorf("peek back=%d,%v", v, ok)
		}
	})

	t.Run("length matches pushes minus pops", func(t *testing.T) {
		rb := NewRing[int]()
		pushes, pops := 0, 0
		for i := range 200 {
			switch i % 5 {
			case 0, 1:
				rb.PushBack(i)
				pushes++
			case 2:
				rb.PushFront(i)
				pushes++
			default:
				if _, ok := rb.Pop(); ok {
					pops++
				}
			}
			if rb.Len() != pushes-pops {
				t.Fatalf("step %d: len=%d want %d", i, rb.Len(), pushes-pops)
			}
		}
	})

	t.Run("at", func(t *testing.T) {
		rb := RingN[string](2)
		rb.PushBack("b")
		rb.PushFront("a")
		if rb.At(0) != "a" || rb.At(1) != "b" {
			t.Errorf("got=%v", rb)
		}
		mustPanic(t, ErrIndexOutOfRange, func() { rb.At(2) })
	})

	t.Run("clone", func(t *testing.T) {
		rb := RingN[int](3)
		rb.PushBack(1)
		rb.PushBack(2)
		rb.PushFront(0)
		c := rb.Clone()
		rb.Pop()
		if got := slices.Collect(c.Values()); !slices.Equal(got, []int{0, 1, 2}) {
			t.Errorf("clone=%v", got)
		}
		if c.String() != "[0 1 2]" {
			t.Errorf("string=%q", c.String())
		}
	})

	t.Run("release", func(t *testing.T) {
		rb := NewRing[*int]()
		for i := range 5 {
			rb.PushBack(&i)
		}
		rb.Release()
		if rb.Len() != 0 || rb.Cap() != 0 {
			t.Errorf("len=%d cap=%d", rb.Len(), rb.Cap())
		}
		rb.PushBack(nil)
		if rb.Len() != 1 {
			t.Errorf("len=%d", rb.Len())
		}
	})

	t.Run("zero-sized", func(t *testing.T) {
		rb := NewRing[struct{}]()
		for range 10 {
			rb.PushFront(struct{}{})
			rb.PushBack(struct{}{})
		}
		if rb.Len() != 20 {
			t.Errorf("len=%d", rb.Len())
		}
		n := 0
		for range rb.Values() {
			n++
		}
		if n != 20 {
			t.Errorf("iterated %d", n)
		}
	})
}
