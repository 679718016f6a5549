// Package probe checks whether a company's guessed website answers HTTP
// requests. It derives candidate URLs straight from the company name and
// reports the first variant that responds; this is a standalone utility
// with no shared state with the matching engine.
package probe

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/codeGROOVE-dev/webmatch/pkg/httpcache"
)

// suffixPatterns match corporate suffixes stripped from the end of a name.
var suffixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s+Inc\.?$`),
	regexp.MustCompile(`(?i)\s+Corp\.?$`),
	regexp.MustCompile(`(?i)\s+Incorporated$`),
	regexp.MustCompile(`(?i)\s+Corporation$`),
	regexp.MustCompile(`(?i)\s+Limited$`),
	regexp.MustCompile(`(?i)\s+Ltd\.?$`),
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9\s]`)

// CleanName strips BOMs, quotes, corporate suffixes, and special
// characters from a raw company name and collapses whitespace.
func CleanName(name string) string {
	name = strings.Trim(name, "\ufeff\"'")
	for _, pat := range suffixPatterns {
		name = pat.ReplaceAllString(name, "")
	}
	name = nonAlnum.ReplaceAllString(name, "")
	return strings.Join(strings.Fields(name), " ")
}

// CandidateURLs generates the website URL variants tried for a company
// name, most likely first.
func CandidateURLs(name string) []string {
	slug := strings.ReplaceAll(strings.ToLower(CleanName(name)), " ", "")
	return []string{
		fmt.Sprintf("https://www.%s.com", slug),
		fmt.Sprintf("https://%s.com", slug),
		fmt.Sprintf("http://www.%s.com", slug),
		fmt.Sprintf("http://%s.com", slug),
		fmt.Sprintf("https://%s.net", slug),
		fmt.Sprintf("https://www.%s.org", slug),
	}
}

// Result reports the outcome of probing one company name. StatusCode is
// 0 and URL empty when no variant answered.
type Result struct {
	Name       string        `json:"name"`
	Cleaned    string        `json:"cleaned"`
	URL        string        `json:"url,omitempty"`
	StatusCode int           `json:"status_code"`
	Elapsed    time.Duration `json:"elapsed"`
}

// Checker probes candidate websites with bounded concurrency.
type Checker struct {
	httpClient    *http.Client
	logger        *slog.Logger
	candidates    func(string) []string
	maxConcurrent int
}

// Option configures a Checker.
type Option func(*config)

type config struct {
	logger        *slog.Logger
	timeout       time.Duration
	maxConcurrent int
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithMaxConcurrent caps how many names are probed at once.
func WithMaxConcurrent(n int) Option {
	return func(c *config) { c.maxConcurrent = n }
}

// New creates a Checker.
func New(opts ...Option) *Checker {
	cfg := &config{
		logger:        slog.Default(),
		timeout:       5 * time.Second,
		maxConcurrent: 10,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Checker{
		httpClient:    &http.Client{Timeout: cfg.timeout},
		logger:        cfg.logger,
		candidates:    CandidateURLs,
		maxConcurrent: cfg.maxConcurrent,
	}
}

// Check probes the URL variants for one name and returns the first that
// answers. Any HTTP status counts as an answer; only transport failures
// move on to the next variant.
func (c *Checker) Check(ctx context.Context, name string) Result {
	start := time.Now()
	result := Result{Name: name, Cleaned: CleanName(name)}

	for _, candidate := range c.candidates(name) {
		status, err := c.fetchStatus(ctx, candidate)
		if err != nil {
			c.logger.DebugContext(ctx, "probe failed", "url", candidate, "error", err)
			continue
		}
		result.URL = candidate
		result.StatusCode = status
		break
	}

	result.Elapsed = time.Since(start)
	return result
}

func (c *Checker) fetchStatus(ctx context.Context, rawURL string) (int, error) {
	return retry.DoWithData(
		func() (int, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
			if err != nil {
				return 0, err
			}
			req.Header.Set("User-Agent", httpcache.UserAgent)

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return 0, err
			}
			resp.Body.Close() //nolint:errcheck // body unused, status is enough
			return resp.StatusCode, nil
		},
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(200*time.Millisecond),
		retry.MaxJitter(100*time.Millisecond),
		retry.OnRetry(func(n uint, err error) {
			c.logger.DebugContext(ctx, "retrying probe", "attempt", n+1, "url", rawURL, "error", err)
		}),
	)
}

// CheckAll probes many names concurrently, capped at the configured
// limit. Output order matches input order.
func (c *Checker) CheckAll(ctx context.Context, names []string) []Result {
	results := make([]Result, len(names))
	sem := make(chan struct{}, c.maxConcurrent)
	var wg sync.WaitGroup

	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = c.Check(ctx, name)
		}(i, name)
	}

	wg.Wait()
	return results
}
