// Package actions is the boundary to the GitHub Actions runner: inputs,
// outputs and the triggering event.
package actions

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/google/go-github/v62/github"
	"github.com/sethvargo/go-githubactions"

	"github.com/simple-icons/release-action/internal/config"
	"github.com/simple-icons/release-action/internal/usecase"
)

const (
	TokenInput = "repo-token"

	OutputDidCreatePR = "did-create-pr"
	OutputNewVersion  = "new-version"
)

// Events the action reacts to.
const (
	EventSchedule          = "schedule"
	EventWorkflowDispatch  = "workflow_dispatch"
	EventPullRequest       = "pull_request"
	EventPullRequestReview = "pull_request_review"
)

// ErrMissingToken is returned when neither the token input nor the debug
// token is set.
var ErrMissingToken = errors.New("input required and not supplied: " + TokenInput)

// Event is the event that triggered the workflow run.
type Event struct {
	Name       string
	Repository string
	Payload    []byte
}

// Runtime wraps the Actions toolkit for one run.
type Runtime struct {
	action *githubactions.Action
	getenv func(string) string
}

// New creates a Runtime reading the environment through getenv and writing
// workflow commands to w.
func New(getenv func(string) string, w io.Writer) *Runtime {
	return &Runtime{
		action: githubactions.New(githubactions.WithGetenv(getenv), githubactions.WithWriter(w)),
		getenv: getenv,
	}
}

// Token returns the API token. debug is true when the token came from the
// debug override, in which case nothing must be published.
func (r *Runtime) Token() (token string, debug bool, err error) {
	if t := r.getenv(config.DebugTokenEnv); t != "" {
		return t, true, nil
	}
	if t := r.action.GetInput(TokenInput); t != "" {
		return t, false, nil
	}
	return "", false, ErrMissingToken
}

// Event reads the name and payload of the triggering event.
func (r *Runtime) Event() (Event, error) {
	ghctx, err := r.action.Context()
	if err != nil {
		return Event{}, fmt.Errorf("failed to read the actions context: %w", err)
	}

	ev := Event{Name: ghctx.EventName, Repository: ghctx.Repository}
	if ghctx.EventPath != "" {
		ev.Payload, err = os.ReadFile(ghctx.EventPath)
		if err != nil {
			return Event{}, fmt.Errorf("failed to read event payload: %w", err)
		}
	}
	return ev, nil
}

// SetResult writes the release outputs. The version is only written when a
// release PR was opened or refreshed.
func (r *Runtime) SetResult(res usecase.Result) {
	r.action.SetOutput(OutputDidCreatePR, strconv.FormatBool(res.Created))
	if res.Version != "" && res.Number != 0 {
		r.action.SetOutput(OutputNewVersion, res.Version)
	}
}

// Errorf emits an error annotation on the workflow run.
func (r *Runtime) Errorf(format string, args ...any) {
	r.action.Errorf(format, args...)
}

// DecodeReview reads a pull_request_review event payload.
func DecodeReview(payload []byte) (usecase.Review, error) {
	var ev github.PullRequestReviewEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return usecase.Review{}, fmt.Errorf("failed to decode review event: %w", err)
	}
	if ev.PullRequest == nil || ev.Review == nil {
		return usecase.Review{}, errors.New("review event has no pull_request or review")
	}

	pr := ev.PullRequest
	return usecase.Review{
		Number:            pr.GetNumber(),
		Title:             pr.GetTitle(),
		Body:              pr.GetBody(),
		BaseRef:           pr.GetBase().GetRef(),
		State:             ev.Review.GetState(),
		AuthorAssociation: ev.Review.GetAuthorAssociation(),
	}, nil
}
