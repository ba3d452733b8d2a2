package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/simple-icons/release-action/internal/actions"
	"github.com/simple-icons/release-action/internal/gateway"
	"github.com/simple-icons/release-action/internal/usecase"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merges an approved release PR",
	Long: `Reads a pull_request_review event payload and merges the reviewed pull
request if it targets the stable branch and was approved by an owner or member.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger, _ := newLoggers(cmd)

		cfg, err := loadConfig(cmd, os.Getenv)
		if err != nil {
			fail("invalid configuration: %v", err)
		}

		eventPath, _ := cmd.Flags().GetString("event-path")
		if eventPath == "" {
			eventPath = os.Getenv("GITHUB_EVENT_PATH")
		}
		payload, err := os.ReadFile(eventPath)
		if err != nil {
			fail("failed to read event payload: %v", err)
		}
		review, err := actions.DecodeReview(payload)
		if err != nil {
			fail("%v", err)
		}

		token, _ := cmd.Flags().GetString("token")
		if token == "" {
			token = os.Getenv("GITHUB_TOKEN")
		}
		if token == "" {
			fail("GITHUB_TOKEN environment variable is not set.")
		}

		githubGateway, err := gateway.NewGitHubGateway(token, cfg.Owner, cfg.Repo, logger)
		if err != nil {
			fail("Failed to create GitHub gateway: %v", err)
		}
		if _, err := usecase.NewMerger(githubGateway, cfg, logger).MergeOnApprove(ctx, review); err != nil {
			fail("Failed to merge release: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)
	mergeCmd.Flags().StringP("token", "t", "", "GitHub token (defaults to GITHUB_TOKEN)")
	mergeCmd.Flags().String("event-path", "", "Path to the review event payload (defaults to GITHUB_EVENT_PATH)")
}
