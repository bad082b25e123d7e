// Package cli provides the terminal plumbing shared by lincon commands.
//
// This package includes:
//   - Output formatting (YAML, JSON, table, raw) with optional jq queries
//   - Request file loading (YAML/JSON, or stdin via "-")
//   - A bounded log capture for verbose runs
//
// Example usage:
//
//	var s script.Script
//	if err := cli.LoadRequest("queue.yaml", &s); err != nil {
//	    return err
//	}
//
//	cli.Output(trace, cli.OutputOptions{
//	    Format: cli.FormatTable,
//	    Query:  ".steps[-1]",
//	})
package cli
