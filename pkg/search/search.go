// Package search supplies candidate website URLs for an organization
// name. It queries the Google Custom Search JSON API when credentials
// are available and falls back to scraping the regular results page
// otherwise. Result order is preserved verbatim: downstream ranking
// treats position as relevance.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/webmatch/pkg/auth"
	"github.com/codeGROOVE-dev/webmatch/pkg/httpcache"
)

const (
	defaultAPIBase    = "https://customsearch.googleapis.com/customsearch/v1"
	defaultScrapeBase = "https://www.google.com/search"
)

// Client fetches search results for organization-name queries.
type Client struct {
	httpClient *http.Client
	cache      httpcache.Cacher
	logger     *slog.Logger
	apiKey     string
	engineID   string
	apiBase    string
	scrapeBase string
}

// Option configures a Client.
type Option func(*config)

type config struct {
	cache          httpcache.Cacher
	logger         *slog.Logger
	apiKey         string
	engineID       string
	cookies        map[string]string
	browserCookies bool
}

// WithHTTPCache sets the HTTP cache.
func WithHTTPCache(httpCache httpcache.Cacher) Option {
	return func(c *config) { c.cache = httpCache }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithAPIKey sets the Custom Search API key. Overrides GOOGLE_SEARCH_API_KEY.
func WithAPIKey(key string) Option {
	return func(c *config) { c.apiKey = key }
}

// WithSearchEngineID sets the Custom Search engine ID. Overrides GOOGLE_SEARCH_CX.
func WithSearchEngineID(cx string) Option {
	return func(c *config) { c.engineID = cx }
}

// WithCookies sets explicit Google cookies for the scrape fallback.
func WithCookies(cookies map[string]string) Option {
	return func(c *config) { c.cookies = cookies }
}

// WithBrowserCookies enables reading Google consent cookies from the
// user's browser for the scrape fallback.
func WithBrowserCookies() Option {
	return func(c *config) { c.browserCookies = true }
}

// New creates a search client. Credentials fall back to the
// GOOGLE_SEARCH_API_KEY and GOOGLE_SEARCH_CX environment variables; with
// neither set the client scrapes the results page instead.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.apiKey == "" {
		cfg.apiKey = os.Getenv("GOOGLE_SEARCH_API_KEY")
	}
	if cfg.engineID == "" {
		cfg.engineID = os.Getenv("GOOGLE_SEARCH_CX")
	}

	client := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cfg.cache,
		logger:     cfg.logger,
		apiKey:     cfg.apiKey,
		engineID:   cfg.engineID,
		apiBase:    defaultAPIBase,
		scrapeBase: defaultScrapeBase,
	}

	cookies := cfg.cookies
	if len(cookies) == 0 && cfg.browserCookies {
		var err error
		sources := []auth.Source{auth.EnvSource{}, auth.NewBrowserSource(cfg.logger)}
		cookies, err = auth.ChainSources(ctx, sources...)
		if err != nil {
			cfg.logger.WarnContext(ctx, "browser cookie lookup failed", "error", err)
		}
	}
	if len(cookies) > 0 {
		jar, err := auth.NewCookieJar(cookies)
		if err != nil {
			return nil, fmt.Errorf("build cookie jar: %w", err)
		}
		client.httpClient.Jar = jar
	}

	return client, nil
}

// URLs returns the result URLs for query, in result order.
func (c *Client) URLs(ctx context.Context, query string) ([]string, error) {
	if c.apiKey != "" && c.engineID != "" {
		return c.apiURLs(ctx, query)
	}
	return c.scrapeURLs(ctx, query)
}

func (c *Client) apiURLs(ctx context.Context, query string) ([]string, error) {
	c.logger.DebugContext(ctx, "custom search query", "query", query)

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := httpcache.FetchURL(ctx, c.cache, c.httpClient, req, c.logger)
	if err != nil {
		return nil, fmt.Errorf("fetching search results for %q: %w", query, err)
	}

	urls, err := parseAPIResponse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing search results for %q: %w", query, err)
	}
	c.logger.DebugContext(ctx, "custom search results", "query", query, "count", len(urls))
	return urls, nil
}

// apiResponse mirrors the fields of a customsearch/v1 response we use.
type apiResponse struct {
	Items []struct {
		Link string `json:"link"`
	} `json:"items"`
}

func parseAPIResponse(body []byte) ([]string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	var urls []string
	for _, item := range resp.Items {
		if item.Link != "" {
			urls = append(urls, item.Link)
		}
	}
	return urls, nil
}

func (c *Client) scrapeURLs(ctx context.Context, query string) ([]string, error) {
	c.logger.DebugContext(ctx, "scraping search results", "query", query)

	params := url.Values{}
	params.Set("q", query)
	params.Set("num", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.scrapeBase+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating scrape request: %w", err)
	}
	req.Header.Set("User-Agent", httpcache.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	body, err := httpcache.FetchURL(ctx, c.cache, c.httpClient, req, c.logger)
	if err != nil {
		return nil, fmt.Errorf("scraping search results for %q: %w", query, err)
	}

	urls := parseScrapeLinks(string(body))
	c.logger.DebugContext(ctx, "scraped search results", "query", query, "count", len(urls))
	return urls, nil
}

// parseScrapeLinks extracts result URLs from a results page. Google
// wraps organic results in /url?q=<target> redirect hrefs; order of
// appearance is result order.
func parseScrapeLinks(html string) []string {
	var urls []string
	seen := make(map[string]bool)

	rest := html
	for {
		idx := strings.Index(rest, `/url?q=`)
		if idx < 0 {
			break
		}
		rest = rest[idx+len(`/url?q=`):]

		end := strings.IndexAny(rest, `&"'`)
		if end < 0 {
			end = len(rest)
		}
		target, err := url.QueryUnescape(rest[:end])
		if err != nil || !strings.HasPrefix(target, "http") {
			continue
		}
		if isGoogleInternal(target) || seen[target] {
			continue
		}
		seen[target] = true
		urls = append(urls, target)
	}
	return urls
}

func isGoogleInternal(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return true
	}
	host := strings.ToLower(u.Hostname())
	return host == "google.com" || strings.HasSuffix(host, ".google.com") ||
		host == "googleusercontent.com" || strings.HasSuffix(host, ".googleusercontent.com")
}
