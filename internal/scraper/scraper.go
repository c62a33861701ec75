package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/pfrederiksen/football-ical/internal/cache"
)

const (
	UserAgent  = "football-ical/1.0 (github.com/pfrederiksen/football-ical)"
	Timeout    = 30 * time.Second
	MaxRetries = 3
	// DefaultCacheTTL applies when WithCache is given a non-positive TTL
	DefaultCacheTTL = 10 * time.Minute
)

// FetchError is returned when the source answers with a non-200 status
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: unexpected status code: %d", e.URL, e.StatusCode)
}

// Temporary reports whether retrying the request may succeed
func (e *FetchError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Scraper fetches schedule pages over HTTP
type Scraper struct {
	client          *http.Client
	userAgent       string
	cache           cache.Store
	cacheTTL        time.Duration
	maxRetries      uint64
	initialInterval time.Duration
}

// Option configures a Scraper
type Option func(*Scraper)

// WithClient replaces the default HTTP client
func WithClient(client *http.Client) Option {
	return func(s *Scraper) {
		s.client = client
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithCache stores fetched page bodies in store for ttl
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(s *Scraper) {
		if ttl <= 0 {
			ttl = DefaultCacheTTL
		}
		s.cache = store
		s.cacheTTL = ttl
	}
}

// WithMaxRetries sets how many times a failed request is retried
func WithMaxRetries(n uint64) Option {
	return func(s *Scraper) {
		s.maxRetries = n
	}
}

// WithRetryInterval sets the first backoff delay
func WithRetryInterval(d time.Duration) Option {
	return func(s *Scraper) {
		if d > 0 {
			s.initialInterval = d
		}
	}
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		userAgent:       UserAgent,
		maxRetries:      MaxRetries,
		initialInterval: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch returns the body of url. Network errors and 5xx responses are retried
// with exponential backoff; other non-200 responses fail immediately.
func (s *Scraper) Fetch(ctx context.Context, url string) (string, error) {
	key := "page:" + url
	if s.cache != nil {
		if cached, found, err := s.cache.Get(ctx, key); err == nil && found {
			return string(cached), nil
		}
	}

	var body []byte
	operation := func() error {
		b, err := s.get(ctx, url)
		if err != nil {
			if fe, ok := err.(*FetchError); ok && !fe.Temporary() {
				return backoff.Permanent(fe)
			}
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		body = b
		return nil
	}

	if err := backoff.Retry(operation, s.backoff(ctx)); err != nil {
		return "", err
	}

	if s.cache != nil {
		// A cache write failure only costs a refetch later
		_ = s.cache.Set(ctx, key, body, s.cacheTTL)
	}

	return string(body), nil
}

func (s *Scraper) backoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.initialInterval
	b.MaxInterval = 10 * s.initialInterval
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, s.maxRetries), ctx)
}

func (s *Scraper) get(ctx context.Context, url string) ([]byte, error) {
	resp, err := s.do(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return body, nil
}

func (s *Scraper) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	return resp, nil
}

// FetchTeam fetches url and extracts it
func (s *Scraper) FetchTeam(ctx context.Context, url string, now time.Time) (*Result, error) {
	body, err := s.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	result, err := ExtractString(body, now)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", url, err)
	}
	return result, nil
}
