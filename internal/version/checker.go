// Package version reports whether a newer workbench release is published.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// ReleasesURL is the release feed queried by default
	ReleasesURL = "https://api.github.com/repos/studiowebux/workbench/releases/latest"

	checkTimeout = 5 * time.Second
)

// Release is the subset of the release feed the checker reads
type Release struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
}

// Version returns the tag without its leading "v"
func (r Release) Version() string {
	return strings.TrimPrefix(r.TagName, "v")
}

// Checker queries a release feed
type Checker struct {
	URL        string
	HTTPClient *http.Client
}

// NewChecker returns a checker for the default feed
func NewChecker() *Checker {
	return &Checker{URL: ReleasesURL, HTTPClient: &http.Client{Timeout: checkTimeout}}
}

// Check fetches the latest release and reports whether it is newer than current
func (c *Checker) Check(ctx context.Context, current string) (Release, bool, error) {
	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: checkTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return Release{}, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "workbench/"+current)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return Release{}, false, fmt.Errorf("failed to fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Release{}, false, fmt.Errorf("release feed returned %d", resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return Release{}, false, fmt.Errorf("failed to decode release: %w", err)
	}

	latest := release.Version()
	return release, latest != "" && isNewerVersion(latest, strings.TrimPrefix(current, "v")), nil
}

// isNewerVersion compares dotted versions numerically. Pre-release and build
// suffixes are ignored, so "0.2.0-rc1" equals "0.2.0".
func isNewerVersion(latest, current string) bool {
	l, c := parseVersion(latest), parseVersion(current)
	for len(l) < len(c) {
		l = append(l, 0)
	}
	for len(c) < len(l) {
		c = append(c, 0)
	}

	for i := range l {
		if l[i] != c[i] {
			return l[i] > c[i]
		}
	}
	return false
}

func parseVersion(version string) []int {
	if idx := strings.IndexAny(version, "-+"); idx != -1 {
		version = version[:idx]
	}

	parts := strings.Split(version, ".")
	result := make([]int, 0, len(parts))
	for _, part := range parts {
		num, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		result = append(result, num)
	}
	return result
}
