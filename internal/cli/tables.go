package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/minhlq/curmap/pkg/analysis"
	"github.com/minhlq/curmap/pkg/dataset"
	"github.com/minhlq/curmap/pkg/views"
)

// tablesCommand creates the tables command group for printing derived views.
func (c *CLI) tablesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Print derived curriculum views",
	}

	cmd.AddCommand(c.pivotCommand())
	cmd.AddCommand(c.matrixCommand())
	cmd.AddCommand(c.centralityCommand())
	cmd.AddCommand(c.distributionCommand())
	cmd.AddCommand(c.flowCommand())

	return cmd
}

// loadViews loads the dataset and recomputes all derived views.
func (c *CLI) loadViews(cmd *cobra.Command, flags *sourceFlags) (*views.Model, error) {
	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	ds, _, err := runner.Load(cmd.Context(), flags.options(c.Logger))
	if err != nil {
		return nil, err
	}
	return views.Recompute(ds), nil
}

// newTable creates a bordered table with the shared header style.
func newTable(headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// pivotCommand prints the per-course proficiency summary.
func (c *CLI) pivotCommand() *cobra.Command {
	var flags sourceFlags

	cmd := &cobra.Command{
		Use:   "pivot",
		Short: "Per-course proficiency level counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.loadViews(cmd, &flags)
			if err != nil {
				return err
			}

			t := newTable("Course", "Name", "I", "R", "M", "A", "Total")
			for _, row := range m.Pivot {
				t.Row(row.Label, row.FullName,
					strconv.Itoa(row.Levels.I),
					strconv.Itoa(row.Levels.R),
					strconv.Itoa(row.Levels.M),
					strconv.Itoa(row.Levels.A),
					strconv.Itoa(row.Levels.Total()))
			}
			fmt.Println(t)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// matrixCommand prints the course by outcome grid.
func (c *CLI) matrixCommand() *cobra.Command {
	var flags sourceFlags

	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Course by outcome proficiency grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.loadViews(cmd, &flags)
			if err != nil {
				return err
			}

			headers := append([]string{"Course"}, m.Matrix.Outcomes...)
			t := newTable(headers...)
			for _, row := range m.Matrix.Rows {
				cells := make([]string, 0, len(row.Cells)+1)
				cells = append(cells, row.Label)
				for _, level := range row.Cells {
					cells = append(cells, renderLevel(level))
				}
				t.Row(cells...)
			}
			fmt.Println(t)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// centralityCommand prints the centrality scores, most central first.
func (c *CLI) centralityCommand() *cobra.Command {
	var flags sourceFlags
	var top int

	cmd := &cobra.Command{
		Use:   "centrality",
		Short: "Node centrality scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.loadViews(cmd, &flags)
			if err != nil {
				return err
			}

			scores := make([]analysis.Score, len(m.Centrality))
			copy(scores, m.Centrality)
			sort.SliceStable(scores, func(i, j int) bool {
				return scores[i].Degree > scores[j].Degree
			})
			if top > 0 && top < len(scores) {
				scores = scores[:top]
			}

			t := newTable("Node", "Kind", "Degree", "Betweenness", "Closeness", "Eigenvector")
			for _, s := range scores {
				t.Row(s.Label, string(s.Kind),
					strconv.Itoa(s.Degree),
					fmt.Sprintf("%.4f", s.Betweenness),
					fmt.Sprintf("%.4f", s.Closeness),
					fmt.Sprintf("%.4f", s.Eigenvector))
			}
			fmt.Println(t)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&top, "top", 0, "show only the N most central nodes")
	return cmd
}

// distributionCommand prints the relation totals per level.
func (c *CLI) distributionCommand() *cobra.Command {
	var flags sourceFlags

	cmd := &cobra.Command{
		Use:   "distribution",
		Short: "Relation counts per proficiency level",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.loadViews(cmd, &flags)
			if err != nil {
				return err
			}

			d := m.Distribution
			t := newTable("Level", "Relations")
			t.Row(renderLevel(dataset.LevelIntroduce), strconv.Itoa(d.I))
			t.Row(renderLevel(dataset.LevelReinforce), strconv.Itoa(d.R))
			t.Row(renderLevel(dataset.LevelMaster), strconv.Itoa(d.M))
			t.Row(renderLevel(dataset.LevelAssess), strconv.Itoa(d.A))
			t.Row("total", strconv.Itoa(d.Total()))
			fmt.Println(t)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// flowCommand prints one outcome's courses grouped by level stage.
func (c *CLI) flowCommand() *cobra.Command {
	var flags sourceFlags

	cmd := &cobra.Command{
		Use:   "flow <outcome>",
		Short: "Level progression of one outcome's courses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			ds, _, err := runner.Load(cmd.Context(), flags.options(c.Logger))
			if err != nil {
				return err
			}
			if !ds.Outcomes.Has(args[0]) {
				return fmt.Errorf("unknown outcome: %s", args[0])
			}

			f := views.BuildFlow(ds, args[0])
			printInfo("Flow for %s", StyleHighlight.Render(f.Outcome))
			stages := []struct {
				level   dataset.Level
				name    string
				courses []string
			}{
				{dataset.LevelIntroduce, "Introduce", f.I},
				{dataset.LevelReinforce, "Reinforce", f.R},
				{dataset.LevelMaster, "Master", f.M},
				{dataset.LevelAssess, "Assess", f.A},
			}
			for _, st := range stages {
				fmt.Println("  " + renderLevel(st.level) + " " + StyleValue.Render(st.name))
				if len(st.courses) == 0 {
					printDetail("  (none)")
					continue
				}
				for _, name := range st.courses {
					printDetail("  %s %s", iconArrow, name)
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
