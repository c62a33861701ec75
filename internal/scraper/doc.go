// Package scraper provides HTTP fetching and HTML parsing for team schedule pages.
//
// Extract reads one schedule table and returns the team name and the fixtures
// that have not been played yet. Dates on the page carry no year, so rows are
// folded through an event.YearCursor in table order; rows that cannot be dated
// are skipped with a SkipReason rather than failing the page. Scraper fetches
// pages with retries and an optional cache, and resolves team links to their
// schedule page.
package scraper
