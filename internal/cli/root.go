// Package cli wires the relnotes commands. The root command runs the
// release notes generation; config, cache, and version are subcommands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/relnotes/internal/errors"
)

var (
	flagClipboard  bool
	flagPRNumbers  bool
	flagRawCommits bool
	flagDebug      bool
	flagTerse      bool
	flagTag        string
	flagCommit     string
	flagConfig     string
)

var rootCmd = &cobra.Command{
	Use:   "relnotes",
	Short: "Generate release notes from git history",
	Long: `relnotes walks the commit history from HEAD back to the previous
release (the nearest tag, or an explicit tag/commit), classifies every
commit, consolidates dependabot upgrades into one line per package, and
prints the release notes document.

Set GITHUB_TOKEN (environment or .env file) to resolve pull request
numbers and grouped-update details through the GitHub API.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&flagClipboard, "clipboard", "c", false, "copy output to clipboard")
	rootCmd.Flags().BoolVarP(&flagPRNumbers, "pr-numbers", "p", false, "include PR numbers in output")
	rootCmd.Flags().BoolVarP(&flagRawCommits, "raw-commits", "x", false, "list the raw commits that form the basis of the output")
	rootCmd.Flags().BoolVarP(&flagDebug, "debug", "X", false, "enable debug logging")
	rootCmd.Flags().BoolVarP(&flagTerse, "terse", "T", false, "output only the release notes, skip preflight and headers")
	rootCmd.Flags().StringVarP(&flagTag, "tag", "t", "", "use this tag as the range start instead of the latest")
	rootCmd.Flags().StringVarP(&flagCommit, "commit", "C", "", "use this commit hash as the range start instead of a tag")
	rootCmd.MarkFlagsMutuallyExclusive("tag", "commit")

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a project config file (default .relnotes.yml)")
}

// Execute runs the CLI and returns the process exit code. Structured
// errors are printed with their remediation steps; anything else gets
// cobra's plain rendering.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	if cliErr := errors.AsCLIError(err); cliErr != nil {
		errors.PrintError(cliErr)
		return exitCodeFor(cliErr.Category)
	}

	rootCmd.PrintErrln("Error:", err)
	return ExitRuntimeFailure
}
