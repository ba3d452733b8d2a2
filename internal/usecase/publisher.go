package usecase

import (
	"context"
	"log"

	"github.com/simple-icons/release-action/internal/config"
	"github.com/simple-icons/release-action/internal/domain"
	"github.com/simple-icons/release-action/internal/gateway"
)

// Publisher opens the release PR from the development branch into the stable
// branch and labels it.
type Publisher struct {
	client gateway.Client
	cfg    config.Config
	logger *log.Logger
	debug  *log.Logger
}

// NewPublisher creates a Publisher.
func NewPublisher(client gateway.Client, cfg config.Config, logger, debug *log.Logger) *Publisher {
	return &Publisher{client: client, cfg: cfg, logger: logger, debug: debug}
}

// Publish opens a release PR for plan, or updates the one already open.
// created reports whether a new PR was opened.
func (p *Publisher) Publish(ctx context.Context, plan domain.ReleasePlan) (number int, created bool, err error) {
	head, base := p.cfg.DevelopBranch, p.cfg.StableBranch

	p.logger.Println("Creating PR for release:")
	p.logger.Printf("PR title: %s", plan.Title)
	p.debug.Printf("PR body:\n%s", plan.Body)

	number, found, err := p.client.FindOpenPullRequest(ctx, head, base)
	if err != nil {
		return 0, false, err
	}
	if found {
		p.logger.Printf("Updating existing release PR #%d", number)
		if err := p.client.UpdatePullRequest(ctx, number, plan.Title, plan.Body); err != nil {
			return 0, false, err
		}
	} else {
		number, err = p.client.CreatePullRequest(ctx, plan.Title, plan.Body, head, base)
		if err != nil {
			return 0, false, err
		}
		created = true
		p.logger.Printf("New release PR is: %d", number)
	}

	label := p.cfg.ReleaseLabel
	p.logger.Printf("Adding label '%s' to PR %d", label, number)
	if err := p.client.AddLabels(ctx, number, []string{label}); err != nil {
		return 0, false, err
	}
	p.logger.Printf("Added the '%s' label to PR %d", label, number)

	return number, created, nil
}
