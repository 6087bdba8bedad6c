package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minhlq/curmap/pkg/dataset"
	"github.com/minhlq/curmap/pkg/suggest"
)

// suggestCommand creates the suggest command for generating detail text
// candidates.
func (c *CLI) suggestCommand() *cobra.Command {
	var (
		outcomeText string
		courseName  string
		level       string
		count       int
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "suggest <outcome>",
		Short: "Suggest learning-outcome texts for a course",
		Long: `Suggest asks the configured remote service for candidate learning-outcome
texts. Without a remote service, or when it fails, a deterministic local
generator built on the Bloom verb taxonomy answers instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lvl := dataset.Level(level)
			if !lvl.Valid() {
				return fmt.Errorf("invalid level: %s (must be I, R, M, or A)", level)
			}

			client, err := c.newSuggestClient(noCache)
			if err != nil {
				return err
			}

			items, remote := client.Suggest(cmd.Context(), suggest.Request{
				Outcome:     args[0],
				OutcomeText: outcomeText,
				CourseName:  courseName,
				Level:       lvl,
				Count:       count,
			})

			source := "local fallback"
			if remote {
				source = "remote service"
			}
			printInfo("Suggestions for %s at level %s (%s)", StyleHighlight.Render(args[0]), level, source)
			for _, item := range items {
				printDetail("%s %s", iconArrow, item)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outcomeText, "text", "", "outcome description passed to the service")
	cmd.Flags().StringVar(&courseName, "course", "", "course name passed to the service")
	cmd.Flags().StringVar(&level, "level", "I", "proficiency level: I, R, M, or A")
	cmd.Flags().IntVarP(&count, "count", "n", 3, "number of suggestions")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable response caching")

	return cmd
}

// evaluateCommand creates the evaluate command for scoring a detail text
// against its outcome.
func (c *CLI) evaluateCommand() *cobra.Command {
	var (
		outcomeText string
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate <outcome> <detail-text>",
		Short: "Score a learning-outcome text against its program outcome",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newSuggestClient(noCache)
			if err != nil {
				return err
			}

			eval, remote := client.Evaluate(cmd.Context(), args[0], outcomeText, args[1])

			source := "local fallback"
			if remote {
				source = "remote service"
			}
			printInfo("Evaluation (%s)", source)
			printKeyValue("score", fmt.Sprintf("%d / 100", eval.Score))
			printKeyValue("verdict", eval.Verdict)
			if eval.Text != "" {
				printDetail("%s", eval.Text)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outcomeText, "text", "", "outcome description used for keyword matching")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable response caching")

	return cmd
}
