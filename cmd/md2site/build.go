package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	md2site "github.com/alnah/go-md2site"
)

func newBuildCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "build",
		Aliases: []string{"b"},
		Short:   "Build the site into the destination directory",
		Long: `Build loads every collection, derives the taxonomies, renders all pages
and replaces the destination directory. A failed build leaves the previous
output untouched.

Examples:
  md2site build
  md2site build --config ./site.yaml --destination public
  md2site build --staging --keep-staging   # inspect derived records`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := c.builder()
			if err != nil {
				return err
			}
			res, err := b.Build(cmd.Context())
			if err != nil {
				return err
			}
			if !c.v.GetBool("quiet") {
				printBuildSummary(c.env.Stdout, b.Config().Build.Destination, res, c.v.GetBool("verbose"))
			}
			return nil
		},
	}
}

// printBuildSummary writes a one-line report, plus collection and taxonomy
// tables when verbose.
func printBuildSummary(w io.Writer, dest string, res *md2site.BuildResult, verbose bool) {
	fmt.Fprintf(w, "Built %d %s, %d static %s in %s -> %s\n",
		len(res.Pages), plural(len(res.Pages), "page", "pages"),
		res.Static, plural(res.Static, "file", "files"),
		res.Duration.Round(time.Millisecond), dest)
	if res.Skipped > 0 {
		fmt.Fprintf(w, "Skipped %d %s without a layout\n", res.Skipped, plural(res.Skipped, "item", "items"))
	}
	if len(res.Warnings) > 0 {
		fmt.Fprintf(w, "%d %s (run with --verbose for details)\n",
			len(res.Warnings), plural(len(res.Warnings), "warning", "warnings"))
	}
	if !verbose {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nCOLLECTION\tKIND\tITEMS")
	for _, col := range res.Collections {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", col.Name, col.Kind, col.Items)
	}
	for _, tax := range res.Taxonomies {
		fmt.Fprintf(tw, "\nTAXONOMY %s\tfrom %s\t%d values\n", tax.Name, tax.Source, len(tax.Facets))
	}
	_ = tw.Flush()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
