package cmd

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/simple-icons/release-action/internal/actions"
	"github.com/simple-icons/release-action/internal/config"
	"github.com/simple-icons/release-action/internal/gateway"
	"github.com/simple-icons/release-action/internal/usecase"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "GitHub Actions entrypoint",
	Long: `Dispatches on the event that triggered the workflow: scheduled and manual
runs prepare a release PR, pull request reviews may merge it.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger, debug := newLoggers(cmd)

		cfg, err := loadConfig(cmd, os.Getenv)
		if err != nil {
			fail("invalid configuration: %v", err)
		}

		rt := actions.New(os.Getenv, os.Stdout)
		connect := func(token string) (gateway.Client, error) {
			return gateway.NewGitHubGateway(token, cfg.Owner, cfg.Repo, logger)
		}
		if err := dispatch(ctx, rt, cfg, connect, logger, debug, os.Stdout); err != nil {
			fail("%v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// dispatch runs the action for the triggering event. Unsupported events are
// reported on the workflow run but are not an error.
func dispatch(ctx context.Context, rt *actions.Runtime, cfg config.Config, connect func(token string) (gateway.Client, error), logger, debug *log.Logger, out io.Writer) error {
	ev, err := rt.Event()
	if err != nil {
		return err
	}

	switch ev.Name {
	case actions.EventPullRequest, actions.EventWorkflowDispatch, actions.EventSchedule:
		logger.Println("Scheduled run; creating release PR")
		token, dryRun, err := rt.Token()
		if err != nil {
			return err
		}
		client, err := connect(token)
		if err != nil {
			return err
		}
		result, err := makeRelease(ctx, client, cfg, logger, debug, dryRun, out)
		if err != nil {
			return err
		}
		rt.SetResult(result)
	case actions.EventPullRequestReview:
		logger.Println("PR review detected; checking if release PR should be merged")
		review, err := actions.DecodeReview(ev.Payload)
		if err != nil {
			return err
		}
		token, _, err := rt.Token()
		if err != nil {
			return err
		}
		client, err := connect(token)
		if err != nil {
			return err
		}
		if _, err := usecase.NewMerger(client, cfg, logger).MergeOnApprove(ctx, review); err != nil {
			return err
		}
	default:
		rt.Errorf("Event '%s' not supported by the release action", ev.Name)
	}
	return nil
}
