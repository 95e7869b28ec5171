package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/smbtrans2/cmd/trans2ctl/cmdutil"
	"github.com/marmos91/smbtrans2/internal/cli/output"
	"github.com/marmos91/smbtrans2/pkg/config"
)

func newConfigCmd(s *cmdutil.Session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage trans2ctl configuration",
		Long: `Manage trans2ctl configuration files.

Configuration is read from $XDG_CONFIG_HOME/trans2ctl/config.yaml (or the
file given with --config) and overridden by TRANS2_* environment
variables and command-line flags.`,
		// Config commands must work even when the current file is invalid.
		PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
		PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
	}

	cmd.AddCommand(newConfigInitCmd(s))
	cmd.AddCommand(newConfigShowCmd(s))
	return cmd
}

func newConfigInitCmd(s *cmdutil.Session) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write a configuration file with default values.

Examples:
  # Create the default config file
  trans2ctl config init

  # Overwrite an existing file at a custom path
  trans2ctl config init --config ./trans2ctl.yaml --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := s.Flags.ConfigPath
			if path == "" {
				path = config.GetDefaultConfigPath()
			}
			if err := config.InitConfigToPath(path, force); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

func newConfigShowCmd(s *cmdutil.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the effective configuration after file and environment
are merged.

By default outputs YAML format. Use --output json to change format.

Examples:
  trans2ctl config show
  trans2ctl config show --config ./trans2ctl.yaml -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(s.Flags.ConfigPath)
			if err != nil {
				return err
			}

			format := output.FormatYAML
			if s.Flags.Output != "" {
				if format, err = output.ParseFormat(s.Flags.Output); err != nil {
					return err
				}
			}

			switch format {
			case output.FormatJSON:
				return output.PrintJSON(cmd.OutOrStdout(), cfg)
			default:
				return output.PrintYAML(cmd.OutOrStdout(), cfg)
			}
		},
	}
}
