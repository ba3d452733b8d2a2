// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/simple-icons/release-action/internal/changes"
	"github.com/simple-icons/release-action/internal/config"
	"github.com/simple-icons/release-action/internal/content"
	"github.com/simple-icons/release-action/internal/domain"
	"github.com/simple-icons/release-action/internal/gateway"
	"github.com/simple-icons/release-action/internal/history"
	"github.com/simple-icons/release-action/internal/release"
)

// Result is the outcome of a release run.
type Result struct {
	// Created is true only when a new release PR was opened.
	Created bool
	// Number of the release PR that was opened or refreshed; 0 otherwise.
	Number  int
	Version string
	Plan    domain.ReleasePlan
	Changes domain.ChangeSet
	Stats   domain.ReleaseStats
}

// Releaser is the use case for preparing a release.
// It orchestrates the history walk, change reconciliation and publishing.
type Releaser struct {
	client    gateway.Client
	publisher *Publisher
	cfg       config.Config
	logger    *log.Logger
	debug     *log.Logger
	dryRun    bool
}

// NewReleaser creates a new Releaser. In dry-run mode the plan is computed
// but nothing is written to the repository.
func NewReleaser(client gateway.Client, cfg config.Config, logger, debug *log.Logger, dryRun bool) *Releaser {
	return &Releaser{
		client:    client,
		publisher: NewPublisher(client, cfg, logger, debug),
		cfg:       cfg,
		logger:    logger,
		debug:     debug,
		dryRun:    dryRun,
	}
}

// MakeRelease computes the changes since the previous release and opens (or
// refreshes) the release PR for them.
func (r *Releaser) MakeRelease(ctx context.Context) (Result, error) {
	r.logger.Println("Usecase: Collecting changes since the previous release...")

	// File contents are shared by the walk and the version lookup.
	cache := content.NewCache(r.client)

	set, err := r.changes(ctx, cache)
	if err != nil {
		return Result{}, err
	}
	if set.IsEmpty() {
		r.logger.Println("No notable changes detected")
		return Result{}, nil
	}

	plan, err := release.NewPlanner(cache, r.cfg).Plan(ctx, set)
	if err != nil {
		return Result{}, fmt.Errorf("failed to plan release: %w", err)
	}
	result := Result{
		Version: plan.Version,
		Plan:    plan,
		Changes: set,
		Stats:   release.Summarize(set),
	}

	if r.dryRun {
		r.logger.Println("Dry run; not opening a release PR")
		return result, nil
	}

	number, created, err := r.publisher.Publish(ctx, plan)
	if err != nil {
		return Result{}, err
	}
	result.Number, result.Created = number, created
	return result, nil
}

func (r *Releaser) changes(ctx context.Context, cache *content.Cache) (domain.ChangeSet, error) {
	collector := history.NewFileCollector(r.client, cache, r.cfg, r.logger, r.debug)
	walker := history.NewWalker(r.client, collector, r.cfg, r.logger, r.debug)

	files, err := walker.FilesSinceLastRelease(ctx)
	if err != nil {
		return domain.ChangeSet{}, fmt.Errorf("failed to walk pull requests: %w", err)
	}

	classifier := changes.NewClassifier(r.cfg, r.logger)
	var events []*domain.ChangeEvent
	for i, f := range files {
		items := classifier.Classify(f, i+1)
		r.debug.Printf("[usecase:changes] items: %s", dumpJSON(items))
		events = append(events, items...)
	}

	added, updated, removed := changes.Partition(events)
	r.debug.Printf("[usecase:changes] newIcons: %s", dumpJSON(added))
	r.debug.Printf("[usecase:changes] updatedIcons: %s", dumpJSON(updated))
	r.debug.Printf("[usecase:changes] removedIcons: %s", dumpJSON(removed))

	return changes.Resolve(added, updated, removed), nil
}

func dumpJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}
