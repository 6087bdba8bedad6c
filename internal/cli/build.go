package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minhlq/curmap/pkg/dataset"
	"github.com/minhlq/curmap/pkg/graph"
	"github.com/minhlq/curmap/pkg/views"
)

// buildCommand creates the build command that loads the CSV tables and
// reports the resulting dataset.
func (c *CLI) buildCommand() *cobra.Command {
	var flags sourceFlags
	var output string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the curriculum dataset from CSV tables",
		Long: `Build reads the curriculum CSV tables, resolves courses and outcomes,
and reports what was loaded and what was skipped. With --output the
assembled graph is written as JSON for later rendering or import.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			ctx := cmd.Context()
			prog := newProgress(c.Logger)
			ds, rep, hit, err := runner.LoadWithCacheInfo(ctx, flags.options(c.Logger))
			if err != nil {
				printError("Build failed: %v", err)
				return err
			}
			prog.done(fmt.Sprintf("Loaded %d relations", rep.Relations))

			g := graph.FromDataset(ds)
			printSuccess("Dataset built")
			printGraphStats(len(g.Nodes), len(g.Edges), hit)
			printKeyValue("outcomes", fmt.Sprintf("%d", rep.Outcomes))
			printKeyValue("indicators", fmt.Sprintf("%d", rep.Indicators))
			printKeyValue("courses", fmt.Sprintf("%d", rep.Courses))
			printKeyValue("details", fmt.Sprintf("%d", rep.Details))
			printKeyValue("relations", fmt.Sprintf("%d", rep.Relations))
			printSkips(rep)

			m := views.Recompute(ds)
			d := m.Distribution
			printLevelSummary(d.I, d.R, d.M, d.A)

			if output != "" {
				if err := graph.WriteFile(ds, output); err != nil {
					return err
				}
				printFile(output)
			}

			printNewline()
			printNextStep("Render the map", "curmap render -d "+flags.dir)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the graph as JSON to this file")

	return cmd
}

// printSkips warns about rows dropped during the load.
func printSkips(rep dataset.LoadReport) {
	skips := []struct {
		name string
		rep  dataset.SkipReport
	}{
		{"relation", rep.RelationSkips},
		{"detail", rep.DetailSkips},
		{"link", rep.LinkSkips},
	}
	for _, s := range skips {
		if s.rep.Skipped > 0 {
			printWarning("Skipped %d %s rows", s.rep.Skipped, s.name)
		}
	}
	if rep.LabelCollisions > 0 {
		printWarning("%d ambiguous course labels", rep.LabelCollisions)
	}
}
