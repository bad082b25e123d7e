package commands

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"github.com/haivivi/lincon/pkg/cli"
	"github.com/haivivi/lincon/pkg/script"
)

var (
	runFile    string
	runFrom    string
	runSave    string
	runMetrics bool
)

// runLogLines is how many runner log lines are kept for a failed run.
const runLogLines = 20

var runScriptCmd = &cobra.Command{
	Use:   "run -f <file>",
	Short: "Apply an operation script to a container",
	Long: `Apply the operations of a script file to a container and print the
trace of every step. Use '-' to read the script from stdin.

With --from the script runs on a container restored from a snapshot; the
script's container field may then be omitted. With --save the final
container is stored as a snapshot. --metrics prints the runner's counters
after the trace.

Operations:
  array   push, pop, insert, remove, get
  ring    push_back, push_front, pop, peek, peek_back, get
  queue   enqueue, dequeue, peek
  stack   push, pop, peek
  all     len, is_empty, clear

Examples:
  lincon run -f testdata/scripts/array.yaml
  lincon run -f testdata/scripts/ring.yaml --save r1 --format table
  lincon run -f drain.yaml --from r1 --metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if runFile == "" {
			return fmt.Errorf("flag -f is required")
		}

		var s script.Script
		if err := cli.LoadRequest(runFile, &s); err != nil {
			return err
		}

		// The runner logs to stderr at the user's level and records every
		// line, debug included, so a failed run can show what led up to it.
		runLog := cli.NewLogWriter(runLogLines)
		runner := &script.Runner{Logger: slog.New(cli.TeeHandler(
			logger.Handler(),
			slog.NewTextHandler(runLog, &slog.HandlerOptions{Level: slog.LevelDebug}),
		))}
		var reg *prometheus.Registry
		if runMetrics {
			reg = prometheus.NewRegistry()
			m, err := script.NewMetrics(reg)
			if err != nil {
				return err
			}
			runner.Metrics = m
		}

		var store *snapshotStore
		if runFrom != "" || runSave != "" {
			st, closeFn, err := openStore()
			if err != nil {
				return err
			}
			defer closeFn()
			store = st
		}

		var target *script.Target
		if runFrom != "" {
			snap, err := store.Load(cmd.Context(), runFrom)
			if err != nil {
				return err
			}
			if target, err = script.TargetFromSnapshot(snap); err != nil {
				return err
			}
			logger.Debug("restored", "snapshot", runFrom, "container", snap.Kind, "len", snap.Len())
		} else {
			if err := s.Validate(); err != nil {
				return err
			}
			var err error
			if target, err = script.NewTarget(s.Container, s.Capacity); err != nil {
				return err
			}
		}

		trace, runErr := runner.RunOn(cmd.Context(), target, &s)
		if runErr != nil {
			if trace != nil {
				if err := printResult(trace); err != nil {
					return err
				}
			}
			if !IsVerbose() {
				printRunLog(runLog.Lines())
			}
			return runErr
		}

		if runSave != "" {
			meta, err := store.Save(cmd.Context(), runSave, target.Snapshot())
			if err != nil {
				return err
			}
			logger.Info("snapshot saved", "name", meta.Name, "id", meta.ID, "len", meta.Len)
		}

		if reg == nil {
			return printResult(trace)
		}
		samples, err := gatherSamples(reg)
		if err != nil {
			return err
		}
		return printResult(trace, samples)
	},
}

// printRunLog writes the tail of a failed run's log to stderr.
func printRunLog(lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "last %d runner log lines:\n", len(lines))
	for _, line := range lines {
		fmt.Fprintln(os.Stderr, "  "+line)
	}
}

// metricSample is one gathered metric value.
type metricSample struct {
	Name   string            `json:"name" yaml:"name"`
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	Value  float64           `json:"value" yaml:"value"`
}

// metricSamples implements cli.Table.
type metricSamples []metricSample

func (metricSamples) Header() []string { return []string{"METRIC", "LABELS", "VALUE"} }

func (ms metricSamples) Rows() [][]string {
	rows := make([][]string, 0, len(ms))
	for _, m := range ms {
		labels := make([]string, 0, len(m.Labels))
		for _, k := range slices.Sorted(maps.Keys(m.Labels)) {
			labels = append(labels, k+"="+m.Labels[k])
		}
		rows = append(rows, []string{m.Name, strings.Join(labels, ","), strconv.FormatFloat(m.Value, 'f', -1, 64)})
	}
	return rows
}

func gatherSamples(g prometheus.Gatherer) (metricSamples, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	var out metricSamples
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			sample := metricSample{Name: mf.GetName(), Labels: map[string]string{}}
			for _, lp := range m.GetLabel() {
				sample.Labels[lp.GetName()] = lp.GetValue()
			}
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				sample.Value = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				sample.Value = m.GetGauge().GetValue()
			default:
				continue
			}
			out = append(out, sample)
		}
	}
	return out, nil
}

func init() {
	runScriptCmd.Flags().StringVarP(&runFile, "file", "f", "", "script YAML/JSON file (use '-' for stdin)")
	runScriptCmd.Flags().StringVar(&runFrom, "from", "", "restore the container from this snapshot")
	runScriptCmd.Flags().StringVar(&runSave, "save", "", "save the final container as this snapshot")
	runScriptCmd.Flags().BoolVar(&runMetrics, "metrics", false, "print runner metrics after the trace")
	rootCmd.AddCommand(runScriptCmd)
}
