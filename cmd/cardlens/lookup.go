package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cardlens/internal/cli"
	"cardlens/internal/classify"
	"cardlens/internal/model"
)

func lookupCmd() *cobra.Command {
	var (
		game       string
		exhaustive bool
		fallback   bool
	)

	cmd := &cobra.Command{
		Use:   "lookup <name>",
		Short: "Resolve a card name against the catalog APIs",
		Long: `Resolve a card name without scanning an image.

By default the name is classified by keyword and only that catalog is queried.
--game pins the catalog explicitly; --exhaustive tries every catalog in order
(mtg, pokemon, yugioh, baseball, basketball, marvel) and returns the first hit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			name := args[0]
			resolver := newResolver(fallback)

			var (
				card *model.Card
				err  error
			)
			switch {
			case exhaustive:
				card, err = resolver.ResolveExhaustive(ctx, name)
			case game != "":
				domain, parseErr := parseDomain(game)
				if parseErr != nil {
					return parseErr
				}
				card, err = resolver.Resolve(ctx, name, domain)
			default:
				fmt.Fprintln(out, cli.SubtleStyle.Render(
					fmt.Sprintf("Classified as %s", classify.Classify(name))))
				card, err = resolver.ResolveAuto(ctx, name)
			}

			if err != nil {
				fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("No match for %q", name)))
				return nil
			}

			fmt.Fprintln(out, formatCard(*card))
			return nil
		},
	}

	cmd.Flags().StringVar(&game, "game", "", "catalog to query (mtg, pokemon, yugioh, baseball, basketball, marvel)")
	cmd.Flags().BoolVar(&exhaustive, "exhaustive", false, "try every catalog in fixed order")
	cmd.Flags().BoolVar(&fallback, "fallback", false, "fall back to exhaustive search when the guessed catalog misses")
	cmd.MarkFlagsMutuallyExclusive("game", "exhaustive")

	return cmd
}
