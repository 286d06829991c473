package cli

import (
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/relnotes/internal/cache"
	"github.com/ariel-frischer/relnotes/internal/config"
	"github.com/ariel-frischer/relnotes/internal/errors"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the GitHub lookup cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop all cached GitHub lookups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return errors.Wrap(err, errors.Configuration)
		}

		path := cfg.CachePath
		if path == "" {
			path, err = cache.DefaultPath()
			if err != nil {
				return errors.Wrap(err, errors.Runtime)
			}
		}

		store, err := cache.Open(path)
		if err != nil {
			return errors.WrapWithMessage(err, errors.Runtime, "opening cache")
		}
		defer store.Close()

		if err := store.Clear(); err != nil {
			return errors.WrapWithMessage(err, errors.Runtime, "clearing cache")
		}
		cmd.Printf("Cleared %s\n", path)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
