// Package config holds the release action settings: repository layout,
// branch names and release policy.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DebugTokenEnv overrides the token input and turns the run into a dry run
// that prints the release notes instead of opening a pull request.
const DebugTokenEnv = "RELEASE_DEBUG_TOKEN"

// Config describes the repository the action operates on.
type Config struct {
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`

	// StableBranch is the release target; a merged PR into it marks the
	// previous release.
	StableBranch  string `yaml:"stable_branch"`
	DevelopBranch string `yaml:"develop_branch"`

	IconsDir    string `yaml:"icons_dir"`
	IconExt     string `yaml:"icon_extension"`
	DataFile    string `yaml:"data_file"`
	PackageFile string `yaml:"package_file"`

	PageSize        int    `yaml:"page_size"`
	IgnorePRs       []int  `yaml:"ignore_prs"`
	SkipLabel       string `yaml:"skip_label"`
	SkipTitlePrefix string `yaml:"skip_title_prefix"`

	ReleaseLabel         string   `yaml:"release_label"`
	MergeMethod          string   `yaml:"merge_method"`
	ApproverAssociations []string `yaml:"approver_associations"`
}

// Default returns the settings used by the simple-icons repository.
func Default() Config {
	return Config{
		StableBranch:         "master",
		DevelopBranch:        "develop",
		IconsDir:             "icons",
		IconExt:              ".svg",
		DataFile:             "_data/simple-icons.json",
		PackageFile:          "package.json",
		PageSize:             10,
		IgnorePRs:            []int{6296, 6298},
		SkipLabel:            "skip release",
		SkipTitlePrefix:      "[skip release]",
		ReleaseLabel:         "release",
		MergeMethod:          "merge",
		ApproverAssociations: []string{"OWNER", "MEMBER"},
	}
}

// Load reads a YAML config file on top of the defaults. A missing file is not
// an error; the defaults are returned as is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment.
//
// Environment variables:
//   - GITHUB_REPOSITORY: "owner/repo" (used only when owner/repo are unset)
//   - RELEASE_STABLE_BRANCH, RELEASE_DEVELOP_BRANCH
//   - RELEASE_PAGE_SIZE
//   - RELEASE_IGNORE_PRS: comma separated PR numbers
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if repo := getenv("GITHUB_REPOSITORY"); repo != "" && c.Owner == "" && c.Repo == "" {
		owner, name, ok := strings.Cut(repo, "/")
		if !ok {
			return fmt.Errorf("GITHUB_REPOSITORY must be owner/repo (got %q)", repo)
		}
		c.Owner, c.Repo = owner, name
	}
	if v := getenv("RELEASE_STABLE_BRANCH"); v != "" {
		c.StableBranch = v
	}
	if v := getenv("RELEASE_DEVELOP_BRANCH"); v != "" {
		c.DevelopBranch = v
	}
	if v := getenv("RELEASE_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RELEASE_PAGE_SIZE: %w", err)
		}
		c.PageSize = n
	}
	if v := getenv("RELEASE_IGNORE_PRS"); v != "" {
		var prs []int
		for _, field := range strings.Split(v, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return fmt.Errorf("invalid RELEASE_IGNORE_PRS entry %q: %w", field, err)
			}
			prs = append(prs, n)
		}
		c.IgnorePRs = prs
	}
	return nil
}

// Validate checks if the configuration has valid values
func (c Config) Validate() error {
	if c.Owner == "" || c.Repo == "" {
		return errors.New("repository owner and name are required")
	}
	if c.StableBranch == "" || c.DevelopBranch == "" {
		return errors.New("stable_branch and develop_branch are required")
	}
	if c.StableBranch == c.DevelopBranch {
		return fmt.Errorf("stable_branch and develop_branch must differ (both %q)", c.StableBranch)
	}
	if c.PageSize <= 0 || c.PageSize > 100 {
		return fmt.Errorf("page_size must be between 1 and 100 (got %d)", c.PageSize)
	}
	if c.DataFile == "" || c.PackageFile == "" || c.IconsDir == "" {
		return errors.New("data_file, package_file and icons_dir are required")
	}
	switch c.MergeMethod {
	case "merge", "squash", "rebase":
	default:
		return fmt.Errorf("merge_method must be merge, squash or rebase (got %q)", c.MergeMethod)
	}
	return nil
}

// IsIgnored reports whether a PR number is on the deny list.
func (c Config) IsIgnored(number int) bool {
	for _, n := range c.IgnorePRs {
		if n == number {
			return true
		}
	}
	return false
}
