package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minhlq/curmap/pkg/pipeline"
)

// renderCommand creates the render command for generating curriculum maps.
func (c *CLI) renderCommand() *cobra.Command {
	var flags sourceFlags
	var output, formatsStr string
	var detailed, includeDetails bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the curriculum map",
		Long: `Render loads the curriculum tables and draws the outcome-course map.
Formats: svg (default), png, dot, json. Multiple formats are written as
separate files sharing a base path.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := flags.options(c.Logger)
			opts.Formats = parseFormats(formatsStr)
			opts.Detailed = detailed
			opts.IncludeDetails = includeDetails
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			logger.Debugf("Rendering formats: %s", strings.Join(opts.Formats, ", "))

			spin := newSpinnerWithContext(ctx, "Rendering curriculum map...")
			spin.Start()

			result, err := runner.Execute(ctx, opts)
			if err != nil {
				spin.StopWithError(fmt.Sprintf("Render failed: %v", err))
				return err
			}
			spin.StopWithSuccess(fmt.Sprintf("Rendered %d format(s)", len(result.Artifacts)))
			printGraphStats(len(result.Graph.Nodes), len(result.Graph.Edges), result.CacheInfo.RenderHit)

			base := renderBasePath(output, flags.dir)
			for _, format := range opts.Formats {
				data, ok := result.Artifacts[format]
				if !ok {
					continue
				}
				path := base + "." + format
				if len(opts.Formats) == 1 && output != "" {
					path = output
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return err
				}
				printFile(path)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include full names and detail texts in node labels")
	cmd.Flags().BoolVar(&includeDetails, "details", false, "include course detail nodes")

	return cmd
}

// renderBasePath derives the output base path. An explicit output keeps its
// path with any known format extension stripped; otherwise the map is named
// after the source directory.
func renderBasePath(output, dir string) string {
	if output == "" {
		name := filepath.Base(dir)
		if name == "." || name == string(filepath.Separator) {
			name = "curriculum"
		}
		return name
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidFormats[ext] {
		return strings.TrimSuffix(output, "."+ext)
	}
	return output
}
