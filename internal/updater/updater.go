package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/yildizm/skeincare/internal/logger"
)

// Release is the subset of the GitHub release object the checker reads
type Release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	HTMLURL     string    `json:"html_url"`
	PublishedAt time.Time `json:"published_at"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
}

// Result is the outcome of comparing the running build with the latest release
type Result struct {
	Current   string
	Latest    string
	Release   *Release
	Available bool
	// Skipped is set when a newer release exists but the user chose to ignore it
	Skipped bool
}

// Checker queries the latest GitHub release of a repository
type Checker struct {
	client     *http.Client
	apiURL     string
	repository string
	logger     *logger.Logger
}

// NewChecker creates a checker for owner/name on the given API base URL
func NewChecker(apiURL, repository string, timeout time.Duration, log *logger.Logger) *Checker {
	if log == nil {
		log = logger.Discard()
	}
	return &Checker{
		client:     &http.Client{Timeout: timeout},
		apiURL:     strings.TrimRight(apiURL, "/"),
		repository: repository,
		logger:     log.WithComponent("updater"),
	}
}

// LatestRelease fetches the newest published release
func (c *Checker) LatestRelease(ctx context.Context) (*Release, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/releases/latest", c.apiURL, c.repository)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, newCheckError(ErrTypeNetwork, "failed to build request", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, newCheckError(ErrTypeNetwork, "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &CheckError{
			Type:       ErrTypeStatus,
			Message:    strings.TrimSpace(string(body)),
			StatusCode: resp.StatusCode,
		}
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, newCheckError(ErrTypeDecode, "failed to decode release", err)
	}
	if release.TagName == "" {
		return nil, newCheckError(ErrTypeDecode, "release has no tag_name", nil)
	}

	c.logger.DebugWithFields("latest release fetched", []logger.Field{
		logger.F("tag", release.TagName),
		logger.Duration(time.Since(start)),
	})
	return &release, nil
}

// Check compares current against the latest release. A skip tag equal to
// the latest tag marks the result Skipped instead of Available.
func (c *Checker) Check(ctx context.Context, current, skip string) (*Result, error) {
	release, err := c.LatestRelease(ctx)
	if err != nil {
		return nil, err
	}
	return Evaluate(current, release, skip)
}

// Evaluate decides whether release is newer than current. A current version
// that is not a semantic version (a development build) never reports an update.
func Evaluate(current string, release *Release, skip string) (*Result, error) {
	latest, ok := Canonical(release.TagName)
	if !ok {
		return nil, newCheckError(ErrTypeVersion, fmt.Sprintf("release tag %q is not a version", release.TagName), nil)
	}

	result := &Result{Current: current, Latest: release.TagName, Release: release}
	cur, ok := Canonical(current)
	if !ok {
		return result, nil
	}

	if semver.Compare(latest, cur) <= 0 {
		return result, nil
	}
	if skipped, ok := Canonical(skip); ok && semver.Compare(skipped, latest) == 0 {
		result.Skipped = true
		return result, nil
	}
	result.Available = true
	return result, nil
}

// Canonical turns "1.2", "v1.2.3" or "1.2.3-rc1" into the bare
// major.minor.patch form. Prerelease and build suffixes are dropped, so
// "v1.2.3-rc1" and "v1.2.3" are the same version.
func Canonical(version string) (string, bool) {
	v := strings.TrimSpace(version)
	if v == "" {
		return "", false
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", false
	}
	v = semver.Canonical(v)
	return strings.TrimSuffix(v, semver.Prerelease(v)), true
}

// Compare orders two version strings like semver.Compare. Invalid versions
// sort before valid ones.
func Compare(a, b string) int {
	ca, _ := Canonical(a)
	cb, _ := Canonical(b)
	return semver.Compare(ca, cb)
}
