// Package history walks the merged pull requests since the previous release
// and gathers the icon-related files they touched.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/simple-icons/release-action/internal/config"
	"github.com/simple-icons/release-action/internal/content"
	"github.com/simple-icons/release-action/internal/domain"
)

// Source is the part of the GitHub gateway the history needs.
type Source interface {
	ListClosedPullRequests(ctx context.Context, page, perPage int) ([]domain.PullRequest, error)
	ListPullRequestFiles(ctx context.Context, number int) ([]domain.PRFile, error)
}

// Contents returns decoded file content at a ref.
type Contents interface {
	Get(ctx context.Context, path, ref string) (string, error)
}

// FileCollector turns the changed-file listing of one PR into FileChanges
// carrying the content relevant to each file's status.
type FileCollector struct {
	source   Source
	contents Contents
	cfg      config.Config
	logger   *log.Logger
	debug    *log.Logger
}

// NewFileCollector creates a FileCollector. debug receives raw file listings.
func NewFileCollector(source Source, contents Contents, cfg config.Config, logger, debug *log.Logger) *FileCollector {
	return &FileCollector{source: source, contents: contents, cfg: cfg, logger: logger, debug: debug}
}

// IsIconFile reports whether path is an icon asset.
func IsIconFile(cfg config.Config, path string) bool {
	return strings.HasPrefix(path, cfg.IconsDir+"/") && strings.HasSuffix(path, cfg.IconExt)
}

// Collect returns the icon files touched by pr: added and modified icons with
// their content on the development branch, removed icons with their content
// on the stable branch (the only place they still exist), then the data file
// once. A file whose content cannot be fetched is logged and left out.
func (c *FileCollector) Collect(ctx context.Context, pr domain.PullRequest) ([]domain.FileChange, error) {
	files, err := c.source.ListPullRequestFiles(ctx, pr.Number)
	if err != nil {
		return nil, err
	}
	c.debug.Printf("[history:Collect] files of #%d: %s", pr.Number, dumpJSON(files))

	var existing, removed []domain.PRFile
	var dataFile *domain.PRFile
	for i, f := range files {
		switch {
		case IsIconFile(c.cfg, f.Filename) && (f.Status == domain.StatusAdded || f.Status == domain.StatusModified):
			existing = append(existing, f)
		case IsIconFile(c.cfg, f.Filename) && f.Status == domain.StatusRemoved:
			removed = append(removed, f)
		case f.Filename == c.cfg.DataFile && dataFile == nil:
			dataFile = &files[i]
		}
	}

	var changes []domain.FileChange
	add := func(f domain.PRFile, ref string) error {
		text, err := c.contents.Get(ctx, f.Filename, ref)
		if errors.Is(err, content.ErrUnknownEncoding) {
			return err
		}
		if err != nil {
			c.logger.Printf("warning: %s file not found on %s ('%s'): %v", f.Status, ref, f.Filename, err)
			return nil
		}
		changes = append(changes, domain.FileChange{
			Path:     f.Filename,
			Status:   f.Status,
			Patch:    f.Patch,
			Content:  text,
			PRNumber: pr.Number,
			Author:   pr.Author,
		})
		return nil
	}

	for _, f := range existing {
		if err := add(f, c.cfg.DevelopBranch); err != nil {
			return nil, err
		}
	}
	for _, f := range removed {
		if err := add(f, c.cfg.StableBranch); err != nil {
			return nil, err
		}
	}
	if dataFile != nil {
		if err := add(*dataFile, c.cfg.DevelopBranch); err != nil {
			return nil, err
		}
	}

	if pr.MergedAt != nil {
		for i := range changes {
			changes[i].MergedAt = *pr.MergedAt
		}
	}
	return changes, nil
}

func dumpJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}
