package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/newtron-network/evpngen/pkg/cli"
	"github.com/newtron-network/evpngen/pkg/settings"
)

func newSettingsCmd() *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage persistent settings",
		Long: `Manage persistent settings stored in ~/.evpngen/settings.json.

Settings provide defaults for flags:
  - data_model:    Used when -d is not specified
  - templates_dir: Used when -t is not specified
  - output_dir:    Used when -o is not specified

Examples:
  evpngen settings show
  evpngen settings set data_model /srv/evpn/fabric.yml
  evpngen settings set output_dir configs
  evpngen settings clear`,
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings.Load()
			if err != nil {
				return fmt.Errorf("loading settings: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Settings file: %s\n\n", settings.DefaultSettingsPath())

			t := cli.NewTable(out, "SETTING", "VALUE")
			for _, key := range settings.Keys() {
				value, _ := s.Get(key)
				if value == "" {
					value = cli.Dim("(not set)")
				}
				t.Row(key, value)
			}
			t.Flush()
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <setting> <value>",
		Short: "Set a setting value",
		Long: `Set a persistent setting value.

Available settings: ` + strings.Join(settings.Keys(), ", "),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings.Load()
			if err != nil {
				s = &settings.Settings{}
			}
			if err := s.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := s.Save(); err != nil {
				return fmt.Errorf("saving settings: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s set to: %s\n", args[0], args[1])
			return nil
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <setting>",
		Short: "Get a setting value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings.Load()
			if err != nil {
				return fmt.Errorf("loading settings: %w", err)
			}
			value, err := s.Get(args[0])
			if err != nil {
				return err
			}
			if value == "" {
				value = "(not set)"
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &settings.Settings{}
			if err := s.Save(); err != nil {
				return fmt.Errorf("saving settings: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All settings cleared.")
			return nil
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show settings file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), settings.DefaultSettingsPath())
		},
	}

	settingsCmd.AddCommand(showCmd, setCmd, getCmd, clearCmd, pathCmd)
	return settingsCmd
}
