package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cardlens/internal/cli"
	"cardlens/internal/model"
	"cardlens/internal/service"
)

func collectionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collection",
		Aliases: []string{"col"},
		Short:   "Browse and manage the card collection",
	}

	cmd.AddCommand(collectionListCmd())
	cmd.AddCommand(collectionSearchCmd())
	cmd.AddCommand(collectionSetsCmd())
	cmd.AddCommand(collectionEditCmd())
	cmd.AddCommand(collectionRemoveCmd())
	cmd.AddCommand(collectionClearCmd())

	return cmd
}

func collectionListCmd() *cobra.Command {
	var setName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List collection entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var entries []model.CollectionEntry
			if setName != "" {
				entries, err = store.GetEntriesBySet(ctx, setName)
			} else {
				entries, err = store.GetAllEntries(ctx)
			}
			if err != nil {
				return err
			}

			printEntries(cmd, entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&setName, "set", "", "only show entries from this set")
	return cmd
}

func collectionSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search entries by name, set, or notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.SearchEntries(ctx, args[0])
			if err != nil {
				return err
			}

			printEntries(cmd, entries)
			return nil
		},
	}
}

func collectionSetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sets",
		Short: "List the distinct sets in the collection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sets, err := store.GetSets(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(sets) == 0 {
				fmt.Fprintln(out, cli.SubtleStyle.Render("Collection is empty"))
				return nil
			}
			for _, set := range sets {
				fmt.Fprintln(out, set)
			}
			return nil
		},
	}
}

func collectionEditCmd() *cobra.Command {
	var (
		quantity  int
		condition string
		notes     string
		tags      []string
		price     float64
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an entry's quantity, condition, notes, tags, or price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var updates service.EntryUpdates
			if cmd.Flags().Changed("quantity") {
				updates.Quantity = &quantity
			}
			if cmd.Flags().Changed("condition") {
				updates.Condition = &condition
			}
			if cmd.Flags().Changed("notes") {
				updates.Notes = &notes
			}
			if cmd.Flags().Changed("tags") {
				updates.Tags = &tags
			}
			if cmd.Flags().Changed("price") {
				updates.Price = &price
			}

			if err := store.UpdateEntry(ctx, args[0], updates); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Entry updated"))
			return nil
		},
	}

	cmd.Flags().IntVar(&quantity, "quantity", 1, "owned quantity")
	cmd.Flags().StringVar(&condition, "condition", "", "condition label (e.g. NM, LP)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-text notes")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "comma-separated tags")
	cmd.Flags().Float64Var(&price, "price", 0, "override market price")

	return cmd
}

func collectionRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an entry from the collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteEntry(ctx, args[0]); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Entry removed"))
			return nil
		},
	}
}

func collectionClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every entry in the collection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the collection without --yes")
			}

			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.ClearEntries(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Collection cleared"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the bulk delete")
	return cmd
}

func printEntries(cmd *cobra.Command, entries []model.CollectionEntry) {
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, cli.SubtleStyle.Render("No entries found"))
		return
	}

	fmt.Fprintln(out, cli.TableHeaderStyle.Render(
		fmt.Sprintf("%-8s  %-36s  %-4s  %s", "ID", "Card (Set)", "Qty", "Value")))
	for _, entry := range entries {
		fmt.Fprintln(out, formatEntry(entry))
		if len(entry.Tags) > 0 {
			fmt.Fprintln(out, "          "+cli.SubtleStyle.Render("tags: "+strings.Join(entry.Tags, ", ")))
		}
	}
	fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("%d entries", len(entries))))
}
