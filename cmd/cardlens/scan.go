package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"cardlens/internal/cli"
	"cardlens/internal/common"
	"cardlens/internal/engine"
	"cardlens/internal/model"
	"cardlens/internal/scanner"
	"cardlens/internal/service"
)

func scanCmd() *cobra.Command {
	var (
		single   bool
		fallback bool
		autoSave bool
		noSave   bool
	)

	cmd := &cobra.Command{
		Use:   "scan <image>",
		Short: "Identify cards in a photograph and add them to the collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			settings, err := store.GetSettings(ctx)
			if err != nil {
				return err
			}

			recognizer, err := newRecognizer(ctx)
			if err != nil {
				return err
			}

			profile := scanner.HighQuality
			if !settings.HighQualityScan {
				profile = scanner.FastScan
			}

			var bar *progressbar.ProgressBar
			eng := engine.New(recognizer, newResolver(fallback),
				engine.WithPreprocessor(scanner.NewPreprocessor(profile)),
				engine.WithProgress(func(completed, total int) {
					if bar == nil {
						bar = progressbar.NewOptions(total,
							progressbar.OptionSetDescription("Resolving candidates"),
							progressbar.OptionSetWriter(os.Stderr),
							progressbar.OptionClearOnFinish())
					}
					_ = bar.Set(completed)
				}))

			if single {
				detected, scanErr := scanSingleImage(cmd, eng, args[0])
				if scanErr != nil {
					return scanErr
				}
				return saveDetected(cmd, store, []model.DetectedCard{*detected}, settings.AutoSave, autoSave, noSave)
			}

			result, err := eng.ScanFile(ctx, args[0])
			if err != nil {
				return common.NewUserError("could not scan "+args[0], err)
			}

			if len(result.Candidates) == 0 {
				fmt.Fprintln(out, cli.FormatWarning("No card text recognized in image"))
				return nil
			}
			if len(result.Cards) == 0 {
				fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf(
					"No catalog matches for %d candidate(s): %s",
					len(result.Candidates), strings.Join(result.Candidates, ", "))))
				return nil
			}

			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Detected %d card(s)", len(result.Cards))))
			for _, detected := range result.Cards {
				fmt.Fprintln(out, formatCard(detected.Card))
				fmt.Fprintf(out, "  %s %.0f%%\n\n",
					cli.SubtleStyle.Render("Confidence:"), detected.Confidence*100)
			}

			return saveDetected(cmd, store, result.Cards, settings.AutoSave, autoSave, noSave)
		},
	}

	cmd.Flags().BoolVar(&single, "single", false, "treat the photo as one card and use web detection")
	cmd.Flags().BoolVar(&fallback, "fallback", false, "search all catalogs when the guessed catalog has no match")
	cmd.Flags().BoolVar(&autoSave, "save", false, "save detected cards without prompting")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "never save, just show detections")
	cmd.MarkFlagsMutuallyExclusive("save", "no-save")

	return cmd
}

func scanSingleImage(cmd *cobra.Command, eng *engine.Engine, path string) (*model.DetectedCard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	detected, err := eng.ScanSingle(cmd.Context(), data)
	if err != nil {
		return nil, common.NewUserError("could not recognize a card in "+path, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatTitle("Recognized card"))
	fmt.Fprintln(out, formatCard(detected.Card))
	fmt.Fprintf(out, "  %s %.0f%%\n",
		cli.SubtleStyle.Render("Confidence:"), detected.Confidence*100)

	return detected, nil
}

// saveDetected promotes detections into the collection. The stored autoSave
// setting decides whether to prompt; explicit flags override it.
func saveDetected(cmd *cobra.Command, store service.Storage, cards []model.DetectedCard, settingAutoSave, forceSave, forceNoSave bool) error {
	if forceNoSave || len(cards) == 0 {
		return nil
	}

	save := settingAutoSave || forceSave
	if !save {
		fmt.Fprint(cmd.OutOrStdout(), "Add to collection? [y/N] ")
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		save = strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y")
	}
	if !save {
		return nil
	}

	for _, detected := range cards {
		entry := model.NewCollectionEntry(detected)
		if err := store.SaveEntry(cmd.Context(), &entry); err != nil {
			return fmt.Errorf("failed to save %s: %w", detected.Card.Name, err)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
		fmt.Sprintf("Saved %d card(s) to collection", len(cards))))
	return nil
}
