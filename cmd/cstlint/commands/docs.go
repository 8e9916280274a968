package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/cstlint/cstlint/cmd/cstlint/commands/cmdutil"
	"github.com/cstlint/cstlint/linter"
	"github.com/spf13/cobra"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Print rule documentation",
	Long: `Print the documentation of every rule: summary, rationale, examples,
ordering constraints and the configuration properties each rule reads.

Examples:
  cstlint docs > RULES.md
  cstlint docs --format json`,
	Args: cobra.NoArgs,
	RunE: runDocs,
}

var docsFormat string

func init() {
	docsCmd.Flags().StringVarP(&docsFormat, "format", "f", "markdown", "Output format: markdown or json")
}

func runDocs(_ *cobra.Command, _ []string) error {
	if err := writeDocs(os.Stdout, docsFormat); err != nil {
		return cmdutil.Exit(2, err)
	}
	return nil
}

func writeDocs(w io.Writer, format string) error {
	reg, err := registry()
	if err != nil {
		return err
	}
	gen := linter.NewDocGenerator(reg)

	switch format {
	case "markdown", "md":
		return gen.WriteMarkdown(w)
	case "json":
		return gen.WriteJSON(w)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
