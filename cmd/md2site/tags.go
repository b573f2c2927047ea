package main

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	md2site "github.com/alnah/go-md2site"
)

// Tag list orders.
const (
	sortFirstSeen = "first-seen"
	sortCount     = "count"
	sortName      = "name"
)

func newTagsCmd(c *cli) *cobra.Command {
	var order string

	cmd := &cobra.Command{
		Use:   "tags [taxonomy]",
		Short: "List taxonomy values with their item counts",
		Long: `Tags reads the taxonomy's source collection and prints every value with
the number of items carrying it. Nothing is rendered or staged.

The taxonomy defaults to the first one configured.

Examples:
  md2site tags
  md2site tags tags --sort count`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOrder(order); err != nil {
				return err
			}
			b, err := c.builder()
			if err != nil {
				return err
			}

			name := ""
			if len(args) == 1 {
				name = args[0]
			} else if names := b.TaxonomyNames(); len(names) > 0 {
				name = names[0]
			} else {
				return ErrNoTaxonomy
			}

			counts, err := b.Tags(cmd.Context(), name)
			if err != nil {
				return err
			}
			sortCounts(counts, order)
			printCounts(c.env.Stdout, counts)
			return nil
		},
	}

	cmd.Flags().StringVar(&order, "sort", sortFirstSeen, "order: first-seen, count, name")
	return cmd
}

func validateOrder(order string) error {
	switch order {
	case sortFirstSeen, sortCount, sortName:
		return nil
	default:
		return fmt.Errorf("%w: --sort must be %s, %s or %s, got %q", ErrUsage, sortFirstSeen, sortCount, sortName, order)
	}
}

// sortCounts reorders counts in place. First-seen keeps the derivation
// order; count sorts descending with ties by name.
func sortCounts(counts []md2site.FacetCount, order string) {
	switch order {
	case sortCount:
		slices.SortStableFunc(counts, func(a, b md2site.FacetCount) int {
			if c := cmp.Compare(b.Count, a.Count); c != 0 {
				return c
			}
			return cmp.Compare(a.Value, b.Value)
		})
	case sortName:
		slices.SortStableFunc(counts, func(a, b md2site.FacetCount) int {
			return cmp.Compare(a.Value, b.Value)
		})
	}
}

func printCounts(w io.Writer, counts []md2site.FacetCount) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, fc := range counts {
		fmt.Fprintf(tw, "%s\t%d\n", fc.Value, fc.Count)
	}
	_ = tw.Flush()
}
