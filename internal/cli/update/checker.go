package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultReleasesURL is the GitHub endpoint for the latest shopfront release
	DefaultReleasesURL = "https://api.github.com/repos/shopfront-dev/shopfront/releases/latest"
	UserAgent          = "shopfront-cli"
)

// Release represents a GitHub release
type Release struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
}

// Checker looks up the latest published release
type Checker struct {
	url        string
	httpClient *http.Client
}

// NewChecker creates a checker for a releases endpoint. An empty url uses
// DefaultReleasesURL.
func NewChecker(url string) *Checker {
	if url == "" {
		url = DefaultReleasesURL
	}
	return &Checker{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Latest fetches the latest release
func (c *Checker) Latest(ctx context.Context) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var release Release
	if err := json.Unmarshal(body, &release); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if release.TagName == "" {
		return nil, fmt.Errorf("latest release has no tag")
	}

	return &release, nil
}

// Check reports whether a release newer than currentVersion exists
func (c *Checker) Check(ctx context.Context, currentVersion string) (bool, *Release, error) {
	release, err := c.Latest(ctx)
	if err != nil {
		return false, nil, err
	}
	return isNewer(currentVersion, release.TagName), release, nil
}

// isNewer returns true if latest differs from current. Development builds
// are always behind.
func isNewer(current, latest string) bool {
	current = strings.TrimPrefix(current, "v")
	latest = strings.TrimPrefix(latest, "v")

	if current == "dev" {
		return true
	}

	return current != latest
}
