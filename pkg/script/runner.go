package script

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/haivivi/lincon/pkg/snapshot"
)

// Step is the outcome of one operation.
type Step struct {
	Index  int    `yaml:"index" json:"index"`
	Op     string `yaml:"op" json:"op"`
	Value  string `yaml:"value,omitempty" json:"value,omitempty"`
	Result string `yaml:"result,omitempty" json:"result,omitempty"`
	Found  bool   `yaml:"found" json:"found"`
	Len    int    `yaml:"len" json:"len"`
	Cap    int    `yaml:"cap" json:"cap"`
	Grew   bool   `yaml:"grew,omitempty" json:"grew,omitempty"`
}

// Trace records every executed step and the final container state.
type Trace struct {
	Container snapshot.Kind `yaml:"container" json:"container"`
	Steps     []Step        `yaml:"steps" json:"steps"`
	Items     []string      `yaml:"items" json:"items"`
	Len       int           `yaml:"len" json:"len"`
	Cap       int           `yaml:"cap" json:"cap"`
}

// Header implements cli.Table.
func (tr *Trace) Header() []string {
	return []string{"#", "OP", "VALUE", "RESULT", "LEN", "CAP", "GREW"}
}

// Rows implements cli.Table.
func (tr *Trace) Rows() [][]string {
	rows := make([][]string, 0, len(tr.Steps))
	for _, s := range tr.Steps {
		result := s.Result
		if !s.Found {
			result = "-"
		}
		grew := ""
		if s.Grew {
			grew = "yes"
		}
		rows = append(rows, []string{
			strconv.Itoa(s.Index), s.Op, s.Value, result,
			strconv.Itoa(s.Len), strconv.Itoa(s.Cap), grew,
		})
	}
	return rows
}

// Runner executes scripts. The zero value logs to slog.Default() and
// records no metrics.
type Runner struct {
	Logger  *slog.Logger
	Metrics *Metrics
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Run validates s and executes it against a new container.
func (r *Runner) Run(ctx context.Context, s *Script) (*Trace, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	t, err := NewTarget(s.Container, s.Capacity)
	if err != nil {
		return nil, err
	}
	return r.RunOn(ctx, t, s)
}

// RunOn executes s against an existing container. s.Container may be empty,
// in which case the target's kind is used; Capacity is ignored.
//
// The returned Trace holds every step executed so far, including the one
// that failed, even when err is non-nil.
func (r *Runner) RunOn(ctx context.Context, t *Target, s *Script) (*Trace, error) {
	if s.Container == "" {
		c := *s
		c.Container = t.Kind()
		s = &c
	}
	if s.Container != t.Kind() {
		return nil, fmt.Errorf("%w: script for %s run on %s", snapshot.ErrKindMismatch, s.Container, t.Kind())
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	log := r.logger().With("container", string(t.Kind()))
	trace := &Trace{Container: t.Kind()}
	defer func() {
		trace.Items = t.Items()
		trace.Len = t.Len()
		trace.Cap = t.Cap()
	}()

	for i, op := range s.Ops {
		if err := ctx.Err(); err != nil {
			return trace, fmt.Errorf("script: step %d: %w", i, err)
		}
		before := t.Cap()
		result, found, err := t.apply(op)
		if err != nil {
			return trace, fmt.Errorf("script: step %d: %w", i, err)
		}
		step := Step{
			Index:  i,
			Op:     op.Op,
			Value:  op.Value,
			Result: result,
			Found:  found,
			Len:    t.Len(),
			Cap:    t.Cap(),
			Grew:   t.Cap() > before,
		}
		trace.Steps = append(trace.Steps, step)
		r.Metrics.observe(t.Kind(), step)

		log.Debug("op", "step", i, "op", op.Op, "result", result, "found", found, "len", step.Len)
		if step.Grew {
			log.Info("grow", "step", i, "from", before, "to", step.Cap)
		}
		if err := op.check(result, found); err != nil {
			return trace, fmt.Errorf("script: step %d: %w", i, err)
		}
	}
	return trace, nil
}
