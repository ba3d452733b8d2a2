// Package release turns a reconciled change set into a release plan: the
// next version number, the pull request title and the release notes.
package release

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/tidwall/gjson"

	"github.com/simple-icons/release-action/internal/config"
	"github.com/simple-icons/release-action/internal/domain"
)

// ErrNoVersion is returned when the package manifest carries no version.
var ErrNoVersion = errors.New("package manifest has no version")

// Contents reads decoded file contents at a ref.
type Contents interface {
	Get(ctx context.Context, path, ref string) (string, error)
}

// Planner computes release plans.
type Planner struct {
	contents Contents
	cfg      config.Config
}

// NewPlanner creates a Planner.
func NewPlanner(contents Contents, cfg config.Config) *Planner {
	return &Planner{contents: contents, cfg: cfg}
}

// BumpFor picks the increment for a change set: any removal is breaking, any
// addition is a feature, everything else is a patch.
func BumpFor(changes domain.ChangeSet) domain.Bump {
	switch {
	case len(changes.Removed) > 0:
		return domain.BumpMajor
	case len(changes.New) > 0:
		return domain.BumpMinor
	default:
		return domain.BumpPatch
	}
}

// NextVersion increments the version of the package manifest on the stable
// branch. The result carries no "v" prefix.
func (p *Planner) NextVersion(ctx context.Context, bump domain.Bump) (string, error) {
	manifest, err := p.contents.Get(ctx, p.cfg.PackageFile, p.cfg.StableBranch)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", p.cfg.PackageFile, err)
	}
	if !gjson.Valid(manifest) {
		return "", fmt.Errorf("%s is not valid JSON", p.cfg.PackageFile)
	}
	raw := gjson.Get(manifest, "version")
	if !raw.Exists() || raw.String() == "" {
		return "", ErrNoVersion
	}
	return Increment(raw.String(), bump)
}

// Increment applies bump to version. Pre-release and build metadata are
// dropped by every increment. A pre-release whose lower components are
// already zero is released as is: 2.0.0-beta.1 becomes 2.0.0 for a major
// or minor bump, and 2.1.0-rc.1 becomes 2.1.0 for a minor one.
func Increment(version string, bump domain.Bump) (string, error) {
	current, err := semver.StrictNewVersion(version)
	if err != nil {
		return "", fmt.Errorf("invalid version %q: %w", version, err)
	}
	pre := current.Prerelease() != ""

	var next semver.Version
	switch bump {
	case domain.BumpMajor:
		if pre && current.Minor() == 0 && current.Patch() == 0 {
			next = *semver.New(current.Major(), 0, 0, "", "")
		} else {
			next = current.IncMajor()
		}
	case domain.BumpMinor:
		if pre && current.Patch() == 0 {
			next = *semver.New(current.Major(), current.Minor(), 0, "", "")
		} else {
			next = current.IncMinor()
		}
	case domain.BumpPatch:
		next = current.IncPatch()
	default:
		return "", fmt.Errorf("unknown bump %q", bump)
	}
	return next.String(), nil
}

// Plan builds the full release plan for changes. changes must not be empty.
func (p *Planner) Plan(ctx context.Context, changes domain.ChangeSet) (domain.ReleasePlan, error) {
	bump := BumpFor(changes)
	version, err := p.NextVersion(ctx, bump)
	if err != nil {
		return domain.ReleasePlan{}, err
	}
	return domain.ReleasePlan{
		Version: version,
		Bump:    bump,
		Title:   Title(changes),
		Body:    Notes(version, changes),
	}, nil
}
