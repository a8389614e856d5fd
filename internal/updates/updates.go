// Package updates checks GitHub for a newer release. The check is best
// effort: failures are logged and otherwise invisible.
package updates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	releasesURL    = "https://api.github.com/repos/s2-streamstore/s2-tui/releases/latest"
	requestTimeout = 5 * time.Second
)

type release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// LatestVersion returns the tag of the most recent published release,
// without the leading "v".
func LatestVersion(ctx context.Context) (string, error) {
	return latestFrom(ctx, releasesURL)
}

func latestFrom(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release lookup failed with status %d", resp.StatusCode)
	}
	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", err
	}
	tag := strings.TrimPrefix(strings.TrimSpace(rel.TagName), "v")
	if tag == "" {
		return "", fmt.Errorf("release has no tag")
	}
	return tag, nil
}

// Newer reports whether latest is a strictly newer semantic version than
// current. Non-release builds ("dev") never prompt an update.
func Newer(current, latest string) bool {
	current = strings.TrimPrefix(strings.TrimSpace(current), "v")
	latest = strings.TrimPrefix(strings.TrimSpace(latest), "v")
	if current == "" || current == "dev" || latest == "" {
		return false
	}
	cur := splitVersion(current)
	lat := splitVersion(latest)
	for i := 0; i < 3; i++ {
		if lat[i] != cur[i] {
			return lat[i] > cur[i]
		}
	}
	return false
}

func splitVersion(v string) [3]int {
	var out [3]int
	parts := strings.SplitN(v, ".", 3)
	for i := 0; i < len(parts) && i < 3; i++ {
		numeric := parts[i]
		if idx := strings.IndexFunc(numeric, func(r rune) bool { return r < '0' || r > '9' }); idx >= 0 {
			numeric = numeric[:idx]
		}
		n := 0
		for _, r := range numeric {
			n = n*10 + int(r-'0')
		}
		out[i] = n
	}
	return out
}
