package cli

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/minhlq/curmap/pkg/graph"
)

// editCommand creates the edit command that opens the interactive relation
// browser.
func (c *CLI) editCommand() *cobra.Command {
	var flags sourceFlags
	var output string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit relations interactively",
		Long: `Edit opens a browser over the relation set. Levels cycle in place,
relations can be deleted and deletions undone. With --output the edited
relation set is written as a connections CSV on exit.`,
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

			p := tea.NewProgram(NewRelationListModel(ds))
			final, err := p.Run()
			if err != nil {
				return err
			}
			m, ok := final.(RelationListModel)
			if !ok || m.Changes == 0 {
				printInfo("No changes")
				return nil
			}

			printSuccess("Applied %d change(s)", m.Changes)

			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := graph.WriteConnections(ds, f); err != nil {
					return err
				}
				printFile(output)
			} else {
				printNextStep("Persist the edits", "curmap edit -d "+flags.dir+" -o relations.csv")
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the edited relations as a connections CSV")

	return cmd
}
