package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minhlq/curmap/pkg/errors"
	"github.com/minhlq/curmap/pkg/plan"
)

// planCommand groups the semester planning subcommands.
func (c *CLI) planCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Assign courses to semesters and check ordering constraints",
	}

	cmd.AddCommand(c.planTemplateCommand())
	cmd.AddCommand(c.planShowCommand())
	cmd.AddCommand(c.planCheckCommand())

	return cmd
}

// planTemplateCommand writes an assignment CSV with every course and an
// empty semester column, ready to fill in with a spreadsheet.
func (c *CLI) planTemplateCommand() *cobra.Command {
	var flags sourceFlags
	var output string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write an empty semester assignment CSV",
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

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := plan.Write(plan.New(ds), f); err != nil {
				return err
			}

			printSuccess("Assignment template written")
			printFile(output)
			printNextStep("Fill in the semester column, then", "curmap plan show -d "+flags.dir+" --plan "+output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "plan.csv", "assignment CSV to write")

	return cmd
}

// planShowCommand prints the per-semester loads of an assignment CSV.
func (c *CLI) planShowCommand() *cobra.Command {
	var flags sourceFlags
	var planFile, constraintsFile string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show per-semester courses and credit loads",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.loadPlan(cmd, &flags, planFile, constraintsFile)
			if err != nil {
				return err
			}

			t := newTable("Semester", "Credits", "Courses")
			for _, load := range p.Summary() {
				t.Row(
					strconv.Itoa(load.Semester),
					formatCredits(load.Credits),
					strings.Join(load.Courses, ", "),
				)
			}
			fmt.Println(t)

			if bank := p.Unassigned(); len(bank) > 0 {
				printDetail("unassigned: %s", strings.Join(bank, ", "))
			}
			printViolations(p.Violations())
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&planFile, "plan", "", "assignment CSV (label, semester)")
	cmd.Flags().StringVar(&constraintsFile, "constraints", "", "constraint CSV (kind, from, to)")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

// planCheckCommand validates an assignment against its constraints and
// fails when any is violated, for use in scripts.
func (c *CLI) planCheckCommand() *cobra.Command {
	var flags sourceFlags
	var planFile, constraintsFile string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate prerequisite and corequisite constraints",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.loadPlan(cmd, &flags, planFile, constraintsFile)
			if err != nil {
				return err
			}

			violations := p.Violations()
			if len(violations) > 0 {
				printViolations(violations)
				return errors.New(errors.ErrCodePrecondition, "%d constraint violations", len(violations))
			}
			printSuccess("No constraint violations (%d courses placed)", p.Assigned())
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&planFile, "plan", "", "assignment CSV (label, semester)")
	cmd.Flags().StringVar(&constraintsFile, "constraints", "", "constraint CSV (kind, from, to)")
	_ = cmd.MarkFlagRequired("plan")
	_ = cmd.MarkFlagRequired("constraints")

	return cmd
}

// loadPlan loads the dataset and populates a plan from the assignment and
// optional constraint files.
func (c *CLI) loadPlan(cmd *cobra.Command, flags *sourceFlags, planFile, constraintsFile string) (*plan.Plan, error) {
	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	ds, _, err := runner.Load(cmd.Context(), flags.options(c.Logger))
	if err != nil {
		return nil, err
	}

	p := plan.New(ds)
	f, err := os.Open(planFile)
	if err != nil {
		return nil, err
	}
	rep, err := plan.Import(p, f)
	f.Close()
	if err != nil {
		return nil, err
	}
	if rep.Skipped > 0 {
		printWarning("Skipped %d assignment rows", rep.Skipped)
	}
	c.Logger.Debug("plan imported", "placed", rep.Placed, "skipped", rep.Skipped)

	if constraintsFile != "" {
		cf, err := os.Open(constraintsFile)
		if err != nil {
			return nil, err
		}
		crep, err := plan.LoadConstraints(p, cf)
		cf.Close()
		if err != nil {
			return nil, err
		}
		if crep.Skipped > 0 {
			printWarning("Skipped %d constraint rows", crep.Skipped)
		}
	}
	return p, nil
}

func printViolations(violations []plan.Violation) {
	for _, v := range violations {
		printWarning("%s: %s (semester %d) %s %s (semester %d)",
			v.Kind, v.From, v.FromSemester, iconArrow, v.To, v.ToSemester)
	}
}

func formatCredits(n float64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
