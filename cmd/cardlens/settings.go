package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cardlens/internal/cli"
	"cardlens/internal/model"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "View or change app settings",
	}

	cmd.AddCommand(settingsShowCmd())
	cmd.AddCommand(settingsSetCmd())

	return cmd
}

func settingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			settings, err := store.GetSettings(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "auto-save:         %t\n", settings.AutoSave)
			fmt.Fprintf(out, "notifications:     %t\n", settings.Notifications)
			fmt.Fprintf(out, "dark-mode:         %t\n", settings.DarkMode)
			fmt.Fprintf(out, "high-quality-scan: %t\n", settings.HighQualityScan)
			return nil
		},
	}
}

func settingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <name> <true|false>",
		Short: "Change one setting toggle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			settings, err := store.GetSettings(ctx)
			if err != nil {
				return err
			}

			var value bool
			switch args[1] {
			case "true", "on":
				value = true
			case "false", "off":
				value = false
			default:
				return fmt.Errorf("invalid value %q (want true or false)", args[1])
			}

			if err := applySetting(&settings, args[0], value); err != nil {
				return err
			}
			if err := store.SaveSettings(ctx, settings); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Setting saved"))
			return nil
		},
	}
}

func applySetting(settings *model.Settings, name string, value bool) error {
	switch name {
	case "auto-save":
		settings.AutoSave = value
	case "notifications":
		settings.Notifications = value
	case "dark-mode":
		settings.DarkMode = value
	case "high-quality-scan":
		settings.HighQualityScan = value
	default:
		return fmt.Errorf("unknown setting %q (valid: auto-save, notifications, dark-mode, high-quality-scan)", name)
	}
	return nil
}
