package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
)

// ErrInvalidURL is returned when a URL does not point at a team page
var ErrInvalidURL = errors.New("not a team page URL")

var teamURLPattern = regexp.MustCompile(`^(https://soccer\.yahoo\.co\.jp/.+/teams?/\d+)`)

// ScheduleURL resolves url, following redirects, and returns the schedule
// page of the team it points at. Short team links redirect to the canonical
// category URL, so the final location is what gets normalized.
func (s *Scraper) ScheduleURL(ctx context.Context, url string) (string, error) {
	resp, err := s.do(ctx, url)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", url, err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	final := url
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}
	return ScheduleURLFrom(final)
}

// ScheduleURLFrom normalizes a canonical team URL without network access
func ScheduleURLFrom(url string) (string, error) {
	m := teamURLPattern.FindStringSubmatch(url)
	if m == nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, url)
	}
	return m[1] + "/schedule", nil
}
