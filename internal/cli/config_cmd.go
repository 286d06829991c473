package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/relnotes/internal/config"
	"github.com/ariel-frischer/relnotes/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage relnotes configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  "Print the configuration after merging defaults, user config, project config, and environment variables.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return errors.Wrap(err, errors.Configuration,
				"Check the config file syntax",
				"Run 'relnotes config init' to write a fresh default config")
		}

		body, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, errors.Runtime)
		}
		cmd.Print(string(body))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default user config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.UserConfigPath()
		if err != nil {
			return errors.Wrap(err, errors.Configuration)
		}
		if err := config.WriteDefault(path); err != nil {
			return errors.Wrap(err, errors.Configuration,
				fmt.Sprintf("Remove %s first if you want to regenerate it", path))
		}
		cmd.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
