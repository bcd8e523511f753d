// Package selfupdate checks GitHub releases for a newer mathgenius build
// and swaps the running binary for it.
package selfupdate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/mod/semver"

	"github.com/abhisek/mathgenius/internal/logging"
)

// DevVersion is the version string of binaries built without -ldflags.
const DevVersion = "(devel)"

const (
	defaultAPIBaseURL      = "https://api.github.com"
	defaultDownloadBaseURL = "https://github.com"
	defaultOwner           = "abhisek"
	defaultRepo            = "mathgenius"
	defaultTimeout         = 30 * time.Second
)

// Checker talks to the release host.
type Checker struct {
	client          *http.Client
	baseURL         string
	downloadBaseURL string
	owner           string
	repo            string
	execPath        func() (string, error)
	log             *logrus.Entry
}

// Option configures a Checker.
type Option func(*Checker)

// WithBaseURL points release lookups at another API host.
func WithBaseURL(u string) Option {
	return func(c *Checker) { c.baseURL = u }
}

// WithDownloadBaseURL points asset downloads at another host.
func WithDownloadBaseURL(u string) Option {
	return func(c *Checker) { c.downloadBaseURL = u }
}

// WithTimeout bounds every HTTP request.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) { c.client.Timeout = d }
}

// WithRepository selects the GitHub repository releases come from.
func WithRepository(owner, repo string) Option {
	return func(c *Checker) { c.owner, c.repo = owner, repo }
}

// WithLogger sets the logger.
func WithLogger(log *logrus.Entry) Option {
	return func(c *Checker) {
		if log != nil {
			c.log = log
		}
	}
}

func withExecPath(fn func() (string, error)) Option {
	return func(c *Checker) { c.execPath = fn }
}

// NewChecker creates a Checker for the mathgenius releases on GitHub.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		client:          &http.Client{Timeout: defaultTimeout},
		baseURL:         defaultAPIBaseURL,
		downloadBaseURL: defaultDownloadBaseURL,
		owner:           defaultOwner,
		repo:            defaultRepo,
		execPath:        currentExecutable,
		log:             logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithField("component", "selfupdate")
	return c
}

// CheckInput is the version to compare against the latest release.
type CheckInput struct {
	Version string
}

// CheckResult describes the latest release.
type CheckResult struct {
	CurrentVersion  string
	LatestVersion   string
	ReleaseURL      string
	UpdateAvailable bool
}

type latestRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Check fetches the latest release and reports whether it is newer than
// input.Version. Versions are compared as semver; a leading "v" is optional.
func (c *Checker) Check(ctx context.Context, input *CheckInput) (*CheckResult, error) {
	current := canonicalVersion(input.Version)
	if current == "" {
		return nil, fmt.Errorf("current version %q is not a release version", input.Version)
	}

	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", strings.TrimRight(c.baseURL, "/"), c.owner, c.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch latest release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch latest release: HTTP %d", resp.StatusCode)
	}

	var rel latestRelease
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}
	latest := canonicalVersion(rel.TagName)
	if latest == "" {
		return nil, fmt.Errorf("latest release tag %q is not a semantic version", rel.TagName)
	}

	res := &CheckResult{
		CurrentVersion:  input.Version,
		LatestVersion:   rel.TagName,
		ReleaseURL:      rel.HTMLURL,
		UpdateAvailable: semver.Compare(latest, current) > 0,
	}
	c.log.WithFields(logrus.Fields{
		"current": input.Version,
		"latest":  rel.TagName,
	}).Debug("checked latest release")
	return res, nil
}

// canonicalVersion returns v in canonical semver form, or "" if it is not
// a semantic version.
func canonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}

func currentExecutable() (string, error) {
	p, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(p)
}
