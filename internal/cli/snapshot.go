package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/minhlq/curmap/pkg/graph"
	"github.com/minhlq/curmap/pkg/store"
)

// snapshotCommand creates the snapshot command group for persisting named
// curriculum maps.
func (c *CLI) snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage saved curriculum snapshots",
		Long: `Snapshot saves the built curriculum map under a name. Snapshots go to
MongoDB when configured, otherwise to process memory (which only makes
sense inside a running server; the CLI warns about it).`,
	}

	cmd.AddCommand(c.snapshotSaveCommand())
	cmd.AddCommand(c.snapshotListCommand())
	cmd.AddCommand(c.snapshotExportCommand())
	cmd.AddCommand(c.snapshotDeleteCommand())

	return cmd
}

// snapshotSaveCommand creates the "snapshot save" subcommand.
func (c *CLI) snapshotSaveCommand() *cobra.Command {
	var flags sourceFlags

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Build the dataset and save it as a named snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)
			c.warnMemoryStore()

			runner, err := c.newRunner(flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			ds, _, err := runner.Load(ctx, flags.options(c.Logger))
			if err != nil {
				return err
			}

			snap := store.New(args[0], graph.FromDataset(ds))
			if err := st.Set(ctx, snap); err != nil {
				return err
			}

			printSuccess("Saved snapshot %s", StyleHighlight.Render(snap.Name))
			printKeyValue("id", snap.ID)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// snapshotListCommand creates the "snapshot list" subcommand.
func (c *CLI) snapshotListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)
			c.warnMemoryStore()

			snaps, err := st.List(ctx)
			if err != nil {
				return err
			}
			if len(snaps) == 0 {
				printInfo("No snapshots")
				return nil
			}

			t := newTable("ID", "Name", "Nodes", "Edges", "Updated")
			for _, s := range snaps {
				t.Row(s.ID, s.Name,
					fmt.Sprintf("%d", len(s.Graph.Nodes)),
					fmt.Sprintf("%d", len(s.Graph.Edges)),
					s.UpdatedAt.Format("2006-01-02 15:04"))
			}
			fmt.Println(t)
			return nil
		},
	}
}

// snapshotExportCommand creates the "snapshot export" subcommand.
func (c *CLI) snapshotExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Write a snapshot's graph as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			snap, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if snap == nil {
				return fmt.Errorf("snapshot not found: %s", args[0])
			}

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(snap.Graph); err != nil {
				return err
			}
			if output != "" {
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// snapshotDeleteCommand creates the "snapshot delete" subcommand.
func (c *CLI) snapshotDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			if err := st.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted snapshot %s", args[0])
			return nil
		},
	}
}

// warnMemoryStore flags snapshot use without a configured Mongo backend.
func (c *CLI) warnMemoryStore() {
	cfg, err := c.config()
	if err == nil && cfg.Mongo.URI == "" {
		printWarning("No MongoDB configured; snapshots live only for this process")
	}
}
