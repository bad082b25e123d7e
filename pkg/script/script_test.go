package script

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"slices"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haivivi/lincon/pkg/snapshot"
)

func ptr[T any](v T) *T { return &v }

func expect(v string) *string { return &v }

func quietRunner(t *testing.T) *Runner {
	t.Helper()
	return &Runner{Logger: slog.New(slog.DiscardHandler)}
}

func TestRunScenarios(t *testing.T) {
	tests := []struct {
		name   string
		script Script
		items  []string
	}{
		{
			name: "array",
			script: Script{Container: snapshot.KindArray, Ops: []Op{
				{Op: "pop", ExpectNone: true},
				{Op: "push", Value: "10"},
				{Op: "push", Value: "15"},
				{Op: "push", Value: "20"},
				{Op: "push", Value: "25"},
				{Op: "len", Expect: expect("4")},
				{Op: "remove", Index: ptr(0), Expect: expect("10")},
				{Op: "remove", Index: ptr(0), Expect: expect("15")},
				{Op: "insert", Index: ptr(0), Value: "30"},
				{Op: "len", Expect: expect("3")},
				{Op: "pop", Expect: expect("25")},
				{Op: "pop", Expect: expect("20")},
				{Op: "pop", Expect: expect("30")},
				{Op: "is_empty", Expect: expect("true")},
			}},
			items: []string{},
		},
		{
			name: "ring",
			script: Script{Container: snapshot.KindRing, Ops: []Op{
				{Op: "pop", ExpectNone: true},
				{Op: "is_empty", Expect: expect("true")},
				{Op: "push_back", Value: "10"},
				{Op: "push_back", Value: "15"},
				{Op: "push_back", Value: "20"},
				{Op: "push_back", Value: "25"},
				{Op: "len", Expect: expect("4")},
				{Op: "pop", Expect: expect("10")},
				{Op: "pop", Expect: expect("15")},
				{Op: "push_front", Value: "30"},
				{Op: "len", Expect: expect("3")},
				{Op: "pop", Expect: expect("30")},
				{Op: "pop", Expect: expect("20")},
				{Op: "pop", Expect: expect("25")},
				{Op: "is_empty", Expect: expect("true")},
			}},
			items: []string{},
		},
		{
			name: "queue",
			script: Script{Container: snapshot.KindQueue, Ops: []Op{
				{Op: "is_empty", Expect: expect("true")},
				{Op: "peek", ExpectNone: true},
				{Op: "enqueue", Value: "Hello"},
				{Op: "enqueue", Value: "World"},
				{Op: "len", Expect: expect("2")},
				{Op: "peek", Expect: expect("Hello")},
				{Op: "dequeue", Expect: expect("Hello")},
				{Op: "peek", Expect: expect("World")},
			}},
			items: []string{"World"},
		},
		{
			name: "stack",
			script: Script{Container: snapshot.KindStack, Ops: []Op{
				{Op: "pop", ExpectNone: true},
				{Op: "push", Value: "Hello"},
				{Op: "push", Value: "World"},
				{Op: "len", Expect: expect("2")},
				{Op: "peek", Expect: expect("World")},
				{Op: "pop", Expect: expect("World")},
				{Op: "peek", Expect: expect("Hello")},
				{Op: "pop", Expect: expect("Hello")},
				{Op: "pop", ExpectNone: true},
				{Op: "pop", ExpectNone: true},
			}},
			items: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trace, err := quietRunner(t).Run(context.Background(), &tt.script)
			require.NoError(t, err)
			assert.Len(t, trace.Steps, len(tt.script.Ops))
			assert.Equal(t, tt.items, trace.Items)
			assert.Equal(t, len(tt.items), trace.Len)
		})
	}
}

func TestRunExpectationFailure(t *testing.T) {
	s := &Script{Container: snapshot.KindQueue, Ops: []Op{
		{Op: "enqueue", Value: "a"},
		{Op: "dequeue", Expect: expect("b")},
		{Op: "enqueue", Value: "never"},
	}}
	trace, err := quietRunner(t).Run(context.Background(), s)
	require.ErrorIs(t, err, ErrExpectation)
	assert.Contains(t, err.Error(), "step 1")
	require.NotNil(t, trace)
	assert.Len(t, trace.Steps, 2)
	assert.Equal(t, "a", trace.Steps[1].Result)

	_, err = quietRunner(t).Run(context.Background(), &Script{Container: snapshot.KindStack, Ops: []Op{
		{Op: "pop", Expect: expect("x")},
	}})
	assert.ErrorIs(t, err, ErrExpectation)

	_, err = quietRunner(t).Run(context.Background(), &Script{Container: snapshot.KindStack, Ops: []Op{
		{Op: "push", Value: "x"},
		{Op: "peek", ExpectNone: true},
	}})
	assert.ErrorIs(t, err, ErrExpectation)
}

func TestRunBadIndex(t *testing.T) {
	tests := []struct {
		name string
		ops  []Op
	}{
		{"insert past end", []Op{{Op: "insert", Index: ptr(1), Value: "x"}}},
		{"negative insert", []Op{{Op: "insert", Index: ptr(-1), Value: "x"}}},
		{"remove past end", []Op{{Op: "push"}, {Op: "remove", Index: ptr(1)}}},
		{"get on empty", []Op{{Op: "get", Index: ptr(0)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := quietRunner(t).Run(context.Background(), &Script{Container: snapshot.KindArray, Ops: tt.ops})
			assert.ErrorIs(t, err, ErrBadIndex)
		})
	}

	// remove on an empty array finds nothing regardless of index.
	trace, err := quietRunner(t).Run(context.Background(), &Script{Container: snapshot.KindArray, Ops: []Op{
		{Op: "remove", Index: ptr(7), ExpectNone: true},
	}})
	require.NoError(t, err)
	assert.False(t, trace.Steps[0].Found)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		script Script
		want   error
	}{
		{"unknown container", Script{Container: "deque"}, snapshot.ErrUnknownKind},
		{"op of another container", Script{Container: snapshot.KindQueue, Ops: []Op{{Op: "push"}}}, ErrUnknownOp},
		{"missing index", Script{Container: snapshot.KindArray, Ops: []Op{{Op: "get"}}}, ErrBadIndex},
		{"ring get missing index", Script{Container: snapshot.KindRing, Ops: []Op{{Op: "get"}}}, ErrBadIndex},
		{"negative capacity", Script{Container: snapshot.KindRing, Capacity: -1}, ErrCapacity},
		{"capacity above limit", Script{Container: snapshot.KindArray, Capacity: MaxCapacity + 1}, ErrCapacity},
		{"max int capacity", Script{Container: snapshot.KindRing, Capacity: math.MaxInt}, ErrCapacity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.script.Validate(), tt.want)
		})
	}

	s := Script{Container: snapshot.KindStack, Ops: []Op{{Op: "pop", Expect: expect("x"), ExpectNone: true}}}
	assert.Error(t, s.Validate())
	s = Script{Container: snapshot.KindArray, Capacity: MaxCapacity}
	assert.NoError(t, s.Validate())
}

func TestRunHugeCapacity(t *testing.T) {
	for _, capacity := range []int{math.MaxInt, 1_000_000_000_000} {
		trace, err := quietRunner(t).Run(context.Background(), &Script{
			Container: snapshot.KindArray,
			Capacity:  capacity,
			Ops:       []Op{{Op: "push", Value: "x"}},
		})
		assert.ErrorIs(t, err, ErrCapacity)
		assert.Nil(t, trace)
	}
}

func TestRunGrowth(t *testing.T) {
	s := &Script{Container: snapshot.KindRing, Capacity: 2, Ops: []Op{
		{Op: "push_back", Value: "a"},
		{Op: "push_back", Value: "b"},
		{Op: "pop", Expect: expect("a")},
		{Op: "push_back", Value: "c"},
		{Op: "push_back", Value: "d"},
		{Op: "get", Index: ptr(0), Expect: expect("b")},
		{Op: "peek_back", Expect: expect("d")},
	}}
	trace, err := quietRunner(t).Run(context.Background(), s)
	require.NoError(t, err)

	var grew []int
	for _, st := range trace.Steps {
		if st.Grew {
			grew = append(grew, st.Index)
		}
	}
	assert.Equal(t, []int{4}, grew)
	assert.Equal(t, 4, trace.Cap)
	assert.Equal(t, []string{"b", "c", "d"}, trace.Items)
}

func TestRunClear(t *testing.T) {
	for _, kind := range snapshot.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			push := Ops(kind)[0]
			s := &Script{Container: kind, Ops: []Op{
				{Op: push, Value: "x"},
				{Op: "clear"},
				{Op: "len", Expect: expect("0")},
				{Op: push, Value: "y"},
				{Op: "len", Expect: expect("1")},
			}}
			trace, err := quietRunner(t).Run(context.Background(), s)
			require.NoError(t, err)
			assert.Equal(t, []string{"y"}, trace.Items)
		})
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	trace, err := quietRunner(t).Run(ctx, &Script{Container: snapshot.KindQueue, Ops: []Op{{Op: "enqueue"}}})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, trace.Steps)
}

func TestRunOn(t *testing.T) {
	snap := snapshot.Of(snapshot.KindStack, func(yield func(string) bool) {
		for _, v := range []string{"top", "bottom"} {
			if !yield(v) {
				return
			}
		}
	})
	target, err := TargetFromSnapshot(snap)
	require.NoError(t, err)

	trace, err := quietRunner(t).RunOn(context.Background(), target, &Script{Ops: []Op{
		{Op: "pop", Expect: expect("top")},
		{Op: "push", Value: "new"},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "bottom"}, trace.Items)
	assert.Equal(t, []string{"new", "bottom"}, target.Snapshot().Items)

	_, err = quietRunner(t).RunOn(context.Background(), target, &Script{Container: snapshot.KindQueue})
	assert.ErrorIs(t, err, snapshot.ErrKindMismatch)
}

func TestNewTarget(t *testing.T) {
	target, err := NewTarget(snapshot.KindArray, 8)
	require.NoError(t, err)
	assert.Equal(t, 8, target.Cap())

	_, err = NewTarget("deque", 0)
	assert.ErrorIs(t, err, snapshot.ErrUnknownKind)
	_, err = NewTarget(snapshot.KindRing, -1)
	assert.ErrorIs(t, err, ErrCapacity)
	_, err = NewTarget(snapshot.KindRing, MaxCapacity+1)
	assert.ErrorIs(t, err, ErrCapacity)
	_, err = NewTarget(snapshot.KindArray, math.MaxInt)
	assert.ErrorIs(t, err, ErrCapacity)
}

func TestTargetFromSnapshotHugeCap(t *testing.T) {
	snap := snapshot.Of(snapshot.KindRing, slices.Values([]string{"a"}))
	snap.Cap = math.MaxInt
	_, err := TargetFromSnapshot(snap)
	assert.ErrorIs(t, err, snapshot.ErrCapacity)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	r := &Runner{Logger: slog.New(slog.DiscardHandler), Metrics: m}
	_, err = r.Run(context.Background(), &Script{Container: snapshot.KindArray, Ops: []Op{
		{Op: "push", Value: "a"},
		{Op: "push", Value: "b"},
		{Op: "push", Value: "c"},
		{Op: "pop"},
	}})
	require.NoError(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.ops.WithLabelValues("array", "push")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ops.WithLabelValues("array", "pop")))
	// 0 -> 1 -> 2 -> 4
	assert.Equal(t, 3.0, testutil.ToFloat64(m.grows.WithLabelValues("array")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.length.WithLabelValues("array")))

	_, err = NewMetrics(reg)
	assert.Error(t, err, "duplicate registration")
}

func TestTraceTable(t *testing.T) {
	trace, err := quietRunner(t).Run(context.Background(), &Script{Container: snapshot.KindQueue, Ops: []Op{
		{Op: "dequeue"},
		{Op: "enqueue", Value: "v"},
	}})
	require.NoError(t, err)
	assert.Len(t, trace.Header(), 7)
	assert.Equal(t, [][]string{
		{"0", "dequeue", "", "-", "0", "0", ""},
		{"1", "enqueue", "v", "-", "1", "0", ""},
	}, trace.Rows())
}

func TestSchema(t *testing.T) {
	s, err := Schema()
	require.NoError(t, err)
	require.Contains(t, s.Properties, "container")
	assert.ElementsMatch(t, []any{"array", "ring", "queue", "stack"}, s.Properties["container"].Enum)
	require.Contains(t, s.Properties, "ops")
	require.NotNil(t, s.Properties["ops"].Items)
	assert.Contains(t, s.Properties["ops"].Items.Properties["op"].Enum, "push_front")
}

func TestAllOps(t *testing.T) {
	ops := AllOps()
	assert.Contains(t, ops, "enqueue")
	assert.Contains(t, ops, "clear")
	seen := map[string]bool{}
	for _, op := range ops {
		assert.False(t, seen[op], "duplicate %s", op)
		seen[op] = true
	}
	assert.Nil(t, Ops("deque"))
}
