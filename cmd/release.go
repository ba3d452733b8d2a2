package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/simple-icons/release-action/internal/config"
	"github.com/simple-icons/release-action/internal/gateway"
	"github.com/simple-icons/release-action/internal/usecase"
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Opens a release PR with the changes since the previous release",
	Long: `Walks the merged pull requests since the previous release, reconciles the
icon changes they contain and opens (or refreshes) the release pull request.
With --dry-run, or when ` + config.DebugTokenEnv + ` is set, the composed
release notes are printed instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger, debug := newLoggers(cmd)

		cfg, err := loadConfig(cmd, os.Getenv)
		if err != nil {
			fail("invalid configuration: %v", err)
		}

		token, _ := cmd.Flags().GetString("token")
		if token == "" {
			token = os.Getenv("GITHUB_TOKEN")
		}
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if t := os.Getenv(config.DebugTokenEnv); t != "" {
			token, dryRun = t, true
		}
		if token == "" {
			fail("GITHUB_TOKEN environment variable is not set.")
		}

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(token, cfg.Owner, cfg.Repo, logger)
		if err != nil {
			fail("Failed to create GitHub gateway: %v", err)
		}
		if _, err := makeRelease(ctx, githubGateway, cfg, logger, debug, dryRun, os.Stdout); err != nil {
			fail("Failed to make release: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(releaseCmd)
	releaseCmd.Flags().StringP("token", "t", "", "GitHub token (defaults to GITHUB_TOKEN)")
	releaseCmd.Flags().Bool("dry-run", false, "Print the release notes instead of opening a PR")
}

func makeRelease(ctx context.Context, client gateway.Client, cfg config.Config, logger, debug *log.Logger, dryRun bool, out io.Writer) (usecase.Result, error) {
	result, err := usecase.NewReleaser(client, cfg, logger, debug, dryRun).MakeRelease(ctx)
	if err != nil {
		return result, err
	}
	if dryRun && result.Version != "" {
		printPlan(out, result)
	}
	return result, nil
}

func printPlan(w io.Writer, result usecase.Result) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()

	fmt.Fprintf(w, "%s\n\n", color.YellowString("DRY RUN MODE - No release PR will be opened"))
	fmt.Fprintf(w, "%s %s\n", cyan("Version:"), result.Version)
	fmt.Fprintf(w, "%s %s\n\n", cyan("Title:"), result.Plan.Title)
	fmt.Fprintln(w, result.Plan.Body)

	s := result.Stats
	fmt.Fprintf(w, "%s %d new, %d updated, %d removed icons from %d PRs (PRs per icon: mean %.2f, median %.1f, max %.0f)\n",
		cyan("Stats:"), s.NewIcons, s.UpdatedIcons, s.RemovedIcons, s.PullRequests, s.MeanPRsPerIcon, s.MedianPRs, s.MaxPRs)
}
