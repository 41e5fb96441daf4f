package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cardlens/internal/cli"
	"cardlens/internal/common"
	"cardlens/internal/model"
)

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the collection as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			export, err := store.ExportCollection(ctx)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(export, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode export: %w", err)
			}

			if output == "" || output == "-" {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			if err := os.WriteFile(output, data, 0600); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Exported %d card(s) to %s", export.TotalCards, output)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a collection export, replacing the current collection",
		Long: `Import a collection from a JSON export.

Import uses replace semantics: the existing collection is deleted and the
imported entries take its place, in a single transaction. A malformed file
leaves the collection untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read import file: %w", err)
			}

			var export model.CollectionExport
			if err := json.Unmarshal(data, &export); err != nil {
				return fmt.Errorf("%w: %v", common.ErrImportFormat, err)
			}

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.ImportCollection(ctx, &export); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Imported %d card(s)", len(export.Cards))))
			return nil
		},
	}

	return cmd
}
