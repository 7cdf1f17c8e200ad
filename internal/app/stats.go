package app

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/catalogctl/internal/model"
	"github.com/blackwell-systems/catalogctl/internal/view"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show how many authors, genres and books the catalog holds",
		Long: `Show catalog totals. The three counts are fetched concurrently; a count
that cannot be fetched is shown as "—" without failing the others.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			totals := fetchTotals(cmd, view.Counts(catalog))
			if structured() {
				return emit(totals)
			}
			header("Catalog")
			for _, kind := range model.Kinds {
				n, known := totals[string(kind)]
				value := color.HiBlackString("—")
				if known {
					value = color.GreenString("%d", n)
				}
				fmt.Fprintf(out, "  %-10s %s\n", capitalize(kind.Plural())+":", value)
			}
			return nil
		},
	}
}

// fetchTotals runs every count source; failed counts are left out.
func fetchTotals(cmd *cobra.Command, sources map[model.Kind]view.CountFunc) map[string]int {
	results := make([]int, len(model.Kinds))
	var g errgroup.Group
	for i, kind := range model.Kinds {
		fn, has := sources[kind]
		if !has {
			results[i] = view.Unknown
			continue
		}
		g.Go(func() error {
			n, err := fn(cmd.Context())
			if err != nil {
				warn("Could not count %s: %v", kind.Plural(), err)
				n = view.Unknown
			}
			results[i] = n
			return nil
		})
	}
	_ = g.Wait()

	totals := make(map[string]int, len(results))
	for i, kind := range model.Kinds {
		if results[i] != view.Unknown {
			totals[string(kind)] = results[i]
		}
	}
	return totals
}
