package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/minhlq/curmap/pkg/graph"
)

const (
	exportConnections = "connections" // plo,course,level triples
	exportTable       = "table"       // wide relation table with names
)

// exportCommand creates the export command for writing relation CSVs.
func (c *CLI) exportCommand() *cobra.Command {
	var flags sourceFlags
	var output, kind string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export relations as CSV",
		Long: `Export writes the relation set as a CSV file. The connections layout
(plo,course,level) round-trips through import; the table layout adds
course names for spreadsheet use. Files carry a UTF-8 byte order mark
so spreadsheet tools detect the encoding.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if kind != exportConnections && kind != exportTable {
				return fmt.Errorf("invalid export kind: %s (must be %q or %q)", kind, exportConnections, exportTable)
			}

			runner, err := c.newRunner(flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			ds, _, err := runner.Load(cmd.Context(), flags.options(c.Logger))
			if err != nil {
				return err
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

			switch kind {
			case exportTable:
				err = graph.WriteRelationTable(ds, out)
			default:
				err = graph.WriteConnections(ds, out)
			}
			if err != nil {
				return err
			}

			if output != "" {
				printSuccess("Exported %d relations", len(ds.Relations()))
				printFile(output)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&kind, "kind", "k", exportConnections, "export layout: connections or table")

	return cmd
}

// importCommand creates the import command that replaces the relation set
// from a connections CSV.
func (c *CLI) importCommand() *cobra.Command {
	var flags sourceFlags

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import relations from a connections CSV",
		Long: `Import reads a plo,course,level CSV and replaces the dataset's relation
set with its rows. Rows naming unknown outcomes or courses, or carrying
an invalid level, are skipped and reported.`,
		Args: cobra.ExactArgs(1),
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

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rep, err := graph.ImportConnections(ds, f)
			if err != nil {
				printError("Import failed: %v", err)
				return err
			}

			printSuccess("Imported %d relations", rep.Imported)
			if rep.Skipped > 0 {
				printWarning("Skipped %d rows", rep.Skipped)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
