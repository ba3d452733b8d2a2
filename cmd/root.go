// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/simple-icons/release-action/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "release-action",
	Short: "Prepares and merges simple-icons releases.",
	Long: `release-action collects the icons added, updated and removed since the
previous release, opens a release pull request from the development branch
into the stable branch, and merges it once a maintainer approves it.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file (defaults are used if it does not exist)")
	rootCmd.PersistentFlags().String("owner", "", "Repository owner (defaults to GITHUB_REPOSITORY)")
	rootCmd.PersistentFlags().String("repo", "", "Repository name (defaults to GITHUB_REPOSITORY)")
}

// newLoggers returns the run logger and the debug logger. Both carry a short
// run id so that interleaved workflow logs can be told apart.
func newLoggers(cmd *cobra.Command) (logger, debug *log.Logger) {
	prefix := fmt.Sprintf("[%s] ", uuid.New().String()[:8])
	logger = log.New(os.Stderr, prefix, log.LstdFlags)
	debug = log.New(io.Discard, prefix+"debug: ", log.LstdFlags) // Default: discard debug dumps.

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		debug.SetOutput(os.Stderr)
	}
	return logger, debug
}

func loadConfig(cmd *cobra.Command, getenv func(string) string) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	owner, _ := cmd.Flags().GetString("owner")
	repo, _ := cmd.Flags().GetString("repo")
	if owner != "" && repo != "" {
		cfg.Owner, cfg.Repo = owner, repo
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
