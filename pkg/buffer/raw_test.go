package buffer

import (
	"errors"
	"math"
	"testing"
)

// mustPanic runs fn and fails the test unless it panics with an error
// wrapping want.
func mustPanic(t *testing.T, want error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic with %v", want)
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("panic value %v (%T) is not an error", r, r)
		}
		if !errors.Is(err, want) {
			t.Fatalf("panic %v, want %v", err, want)
		}
	}()
	fn()
}

func TestRaw(t *testing.T) {
	t.Run("new is empty", func(t *testing.T) {
		r := NewRaw[int]()
		if r.Cap() != 0 {
			t.Errorf("cap=%d", r.Cap())
		}
		if r.slots != nil {
			t.Error("new raw allocated a region")
		}
	})

	t.Run("with capacity", func(t *testing.T) {
		r := RawN[int](5)
		if r.Cap() != 5 || len(r.slots) != 5 {
			t.Errorf("cap=%d len=%d", r.Cap(), len(r.slots))
		}
		r0 := RawN[int](0)
		if r0.Cap() != 0 || r0.slots != nil {
			t.Errorf("cap=%d", r0.Cap())
		}
	})

	t.Run("grow doubles", func(t *testing.T) {
		r := NewRaw[int]()
		want := []int{1, 2, 4, 8, 16}
		for _, w := range want {
			if got := r.Grow(); got != w {
				t.Fatalf("grow=%d want %d", got, w)
			}
		}
	})

	t.Run("grow keeps slots", func(t *testing.T) {
		r := RawN[string](2)
		r.Write(0, "a")
		r.Write(1, "b")
		r.Grow()
		if r.Read(0) != "a" || r.Read(1) != "b" || r.Read(2) != "" {
			t.Errorf("slots=%v", r.slots)
		}
	})

	t.Run("grow linear", func(t *testing.T) {
		r := RawN[int](4)
		for i, v := range []int{4, 5, 2, 3} {
			r.Write(i, v)
		}
		if got := r.GrowLinear(2, 4); got != 8 {
			t.Fatalf("cap=%d", got)
		}
		for i, want := range []int{2, 3, 4, 5, 0, 0, 0, 0} {
			if r.Read(i) != want {
				t.Fatalf("slots=%v", r.slots)
			}
		}
	})

	t.Run("grow linear from empty", func(t *testing.T) {
		r := NewRaw[int]()
		if got := r.GrowLinear(0, 0); got != 1 {
			t.Fatalf("cap=%d", got)
		}
	})

	t.Run("take clears", func(t *testing.T) {
		r := RawN[*int](1)
		v := 7
		r.Write(0, &v)
		if p := r.Take(0); p != &v {
			t.Error("take returned a different pointer")
		}
		if r.Read(0) != nil {
			t.Error("take left the slot populated")
		}
	})

	t.Run("move overlapping", func(t *testing.T) {
		r := RawN[int](5)
		for i := range 4 {
			r.Write(i, i+1)
		}
		r.Move(1, 0, 4)
		for i, want := range []int{1, 1, 2, 3, 4} {
			if r.Read(i) != want {
				t.Fatalf("slots=%v", r.slots)
			}
		}
		r.Clear(0, 2)
		if r.Read(0) != 0 || r.Read(1) != 0 || r.Read(2) != 2 {
			t.Fatalf("slots=%v", r.slots)
		}
	})

	t.Run("slice view is capped", func(t *testing.T) {
		r := RawN[int](4)
		s := r.Slice(0, 2)
		if cap(s) != 2 {
			t.Fatalf("cap=%d", cap(s))
		}
		s[1] = 9
		_ = append(s, 10)
		if r.Read(1) != 9 || r.Read(2) != 0 {
			t.Errorf("slots=%v", r.slots)
		}
	})

	t.Run("release", func(t *testing.T) {
		r := RawN[int](3)
		r.Release()
		if r.Cap() != 0 || r.slots != nil {
			t.Errorf("cap=%d", r.Cap())
		}
		r.Release()
		if r.Grow() != 1 {
			t.Error("released raw did not restart at 1")
		}
	})

	t.Run("zero-sized", func(t *testing.T) {
		r := NewRaw[struct{}]()
		if r.Cap() != math.MaxInt {
			t.Errorf("cap=%d", r.Cap())
		}
		r.Write(100, struct{}{})
		_ = r.Read(100)
		if r.slots != nil {
			t.Error("zero-sized raw allocated a region")
		}
		if n := len(r.Slice(3, 10)); n != 7 {
			t.Errorf("slice len=%d", n)
		}
		mustPanic(t, ErrCapacityOverflow, func() { r.Grow() })
	})

	t.Run("overflow", func(t *testing.T) {
		mustPanic(t, ErrCapacityOverflow, func() { RawN[int64](math.MaxInt / 4) })
		mustPanic(t, ErrCapacityOverflow, func() { RawN[int](-1) })
	})
}
