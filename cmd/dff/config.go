package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	dff "github.com/lemonyte/dff/pkg"
)

// newConfigCmd builds "dff config" and its subcommands
func newConfigCmd(o *options) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the dff configuration file",
	}
	configCmd.AddCommand(newConfigInitCmd(o))
	configCmd.AddCommand(newConfigShowCmd(o))
	return configCmd
}

func newConfigInitCmd(o *options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a configuration file holding the defaults",
		Long: `Write a configuration file holding every setting at its default value.

The file is written to the given path, the --config path, or ./.dff.ini.
An existing file is left alone unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := o.configPath
			if len(args) > 0 {
				path = args[0]
			}
			if path == "" {
				path = dff.DefaultConfigFile
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := dff.DefaultConfig(path).Save(); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			green := color.New(color.FgGreen).SprintFunc()
			cyan := color.New(color.FgCyan).SprintFunc()
			fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote default configuration to %s\n", green("✓"), cyan(path))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigShowCmd(o *options) *cobra.Command {
	var overrides []string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after the config file and any -O key:value
overrides are applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := dff.LoadConfig(o.resolveConfigPath())
			if err != nil {
				return err
			}
			if err := cfg.ApplyOverrides(overrides); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", cfg.Path())
			_, err = cfg.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().StringArrayVarP(&overrides, "override", "O", nil, "config override as key:value (repeatable)")
	return cmd
}
