package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cardlens/internal/cli"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show collection statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			stats, err := store.GetStats(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.TitleStyle.Render(cli.ChartIcon+" Collection stats"))
			fmt.Fprintf(out, "  Total cards:   %d\n", stats.TotalCards)
			fmt.Fprintf(out, "  Unique cards:  %d\n", stats.UniqueCards)
			fmt.Fprintf(out, "  Total value:   %s\n", cli.PriceStyle.Render(fmt.Sprintf("$%.2f", stats.TotalValue)))

			if stats.MostValuable != nil {
				fmt.Fprintf(out, "  Most valuable: %s (%s) %s\n",
					stats.MostValuable.Name,
					stats.MostValuable.Set,
					cli.PriceStyle.Render(fmt.Sprintf("$%.2f", stats.MostValuable.Price)))
			}

			if len(stats.RecentAdditions) > 0 {
				fmt.Fprintln(out, "\n"+cli.SubtleStyle.Render("Recent additions:"))
				for _, entry := range stats.RecentAdditions {
					fmt.Fprintln(out, "  "+formatEntry(entry))
				}
			}

			return nil
		},
	}
}
