package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/haivivi/lincon/pkg/cli"
	"github.com/haivivi/lincon/pkg/snapshot"
)

var (
	snapshotTo     string
	snapshotFrom   string
	snapshotFormat string
)

var snapshotCmd = &cobra.Command{
	Use:     "snapshot",
	Aliases: []string{"snap"},
	Short:   "Manage saved containers",
	Long: `Manage the containers saved with 'lincon run --save'.

Snapshots live in the context's store (store.yaml selects memory, badger or
pebble). Export and import move them between the store and files; a
location starting with s3:// uses the bucket in the context's s3.yaml.

Examples:
  lincon snapshot list --format table
  lincon snapshot show q1 --query '.items'
  lincon snapshot export q1 --to ./q1.json
  lincon snapshot import q2 --from s3://shared/q1.msgpack
  lincon snapshot delete q1`,
}

// metaTable implements cli.Table.
type metaTable []snapshot.Meta

func (metaTable) Header() []string {
	return []string{"NAME", "KIND", "LEN", "FORMAT", "SIZE", "CREATED"}
}

func (mt metaTable) Rows() [][]string {
	rows := make([][]string, 0, len(mt))
	for _, m := range mt {
		rows = append(rows, []string{
			m.Name, string(m.Kind), strconv.Itoa(m.Len), string(m.Format),
			cli.FormatBytes(m.Size), m.CreatedAt.String(),
		})
	}
	return rows
}

var snapshotListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved snapshots",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeFn, err := openStore()
		if err != nil {
			return err
		}
		defer closeFn()

		metas, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		if metas == nil {
			metas = []snapshot.Meta{}
		}
		return printResult(metaTable(metas))
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a snapshot with its items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeFn, err := openStore()
		if err != nil {
			return err
		}
		defer closeFn()

		snap, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResult(snap)
	},
}

var snapshotDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a snapshot",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeFn, err := openStore()
		if err != nil {
			return err
		}
		defer closeFn()

		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		cli.PrintSuccess(cmd.OutOrStdout(), "Snapshot %q deleted.", args[0])
		return nil
	},
}

var snapshotExportCmd = &cobra.Command{
	Use:   "export <name> --to <location>",
	Short: "Write a snapshot to a file or s3:// location",
	Long: `Write a snapshot to a local file or an s3:// location. The encoding is
taken from --as, or from the extension (.msgpack, .json, .yaml).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if snapshotTo == "" {
			return fmt.Errorf("flag --to is required")
		}
		store, closeFn, err := openStore()
		if err != nil {
			return err
		}
		defer closeFn()

		snap, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fs, path, err := resolveLocation(cmd.Context(), snapshotTo)
		if err != nil {
			return err
		}
		n, err := snapshot.Export(cmd.Context(), fs, path, snapshot.Format(snapshotFormat), snap)
		if err != nil {
			return err
		}
		cli.PrintSuccess(cmd.OutOrStdout(), "Exported %s to %s (%s).", args[0], snapshotTo, cli.FormatBytes(n))
		return nil
	},
}

var snapshotImportCmd = &cobra.Command{
	Use:   "import <name> --from <location>",
	Short: "Save a snapshot read from a file or s3:// location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if snapshotFrom == "" {
			return fmt.Errorf("flag --from is required")
		}
		fs, path, err := resolveLocation(cmd.Context(), snapshotFrom)
		if err != nil {
			return err
		}
		snap, err := snapshot.Import[string](cmd.Context(), fs, path, snapshot.Format(snapshotFormat))
		if err != nil {
			return err
		}

		store, closeFn, err := openStore()
		if err != nil {
			return err
		}
		defer closeFn()

		meta, err := store.Save(cmd.Context(), args[0], snap)
		if err != nil {
			return err
		}
		cli.PrintSuccess(cmd.OutOrStdout(), "Imported %s as %s (%s, %d items).", snapshotFrom, meta.Name, meta.Kind, meta.Len)
		return nil
	},
}

func init() {
	snapshotExportCmd.Flags().StringVar(&snapshotTo, "to", "", "destination path or s3:// location")
	snapshotExportCmd.Flags().StringVar(&snapshotFormat, "as", "", "encoding: msgpack, json or yaml (default: from extension)")
	snapshotImportCmd.Flags().StringVar(&snapshotFrom, "from", "", "source path or s3:// location")
	snapshotImportCmd.Flags().StringVar(&snapshotFormat, "as", "", "encoding: msgpack, json or yaml (default: from extension)")

	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotDeleteCmd)
	snapshotCmd.AddCommand(snapshotExportCmd)
	snapshotCmd.AddCommand(snapshotImportCmd)
	rootCmd.AddCommand(snapshotCmd)
}
