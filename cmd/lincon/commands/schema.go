package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/lincon/pkg/script"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of operation scripts",
	Long: `Print the JSON schema of the documents accepted by 'lincon run -f'.

Examples:
  lincon schema --format json > script.schema.json
  lincon schema --query '.properties.ops.items.properties.op.enum'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := script.Schema()
		if err != nil {
			return err
		}
		// The schema's JSON form is canonical; round trip it so every
		// output format shows the same keys.
		data, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("encode schema: %w", err)
		}
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("decode schema: %w", err)
		}
		return printResult(v)
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
