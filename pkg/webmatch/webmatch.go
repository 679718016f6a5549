// Package webmatch guesses which website belongs to an organization name.
//
// The pure engine entry points work on candidate URLs the caller already
// has:
//
//	result := webmatch.Resolve("Microsoft", urls)
//	if result != nil {
//	    fmt.Println(result.Domain, result.Confidence, result.Reason)
//	}
//
// Discover also fetches the candidates from a search provider:
//
//	result, err := webmatch.Discover(ctx, "Microsoft",
//	    webmatch.WithHTTPCache(cache))
package webmatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/codeGROOVE-dev/webmatch/pkg/httpcache"
	"github.com/codeGROOVE-dev/webmatch/pkg/match"
	"github.com/codeGROOVE-dev/webmatch/pkg/search"
	"github.com/codeGROOVE-dev/webmatch/pkg/words"
)

type (
	// Result re-exports match.Result for convenience.
	Result = match.Result
	// HTTPCache re-exports httpcache.Cache for convenience.
	HTTPCache = httpcache.Cache
	// Dictionary re-exports words.Dictionary for convenience.
	Dictionary = words.Dictionary
)

// Searcher supplies candidate URLs for a query, in relevance order.
type Searcher interface {
	URLs(ctx context.Context, query string) ([]string, error)
}

// Option configures engine calls.
type Option func(*config)

type config struct {
	cache          httpcache.Cacher
	logger         *slog.Logger
	dict           words.Dictionary
	searcher       Searcher
	cookies        map[string]string
	apiKey         string
	engineID       string
	browserCookies bool
	maxConcurrent  int
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		logger:        slog.Default(),
		dict:          words.Default(),
		maxConcurrent: 5,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithHTTPCache sets the HTTP cache for search requests.
func WithHTTPCache(httpCache httpcache.Cacher) Option {
	return func(c *config) { c.cache = httpCache }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithDictionary substitutes the reference English dictionary.
func WithDictionary(dict words.Dictionary) Option {
	return func(c *config) { c.dict = dict }
}

// WithSearcher substitutes the search provider.
func WithSearcher(s Searcher) Option {
	return func(c *config) { c.searcher = s }
}

// WithCookies sets explicit Google cookies for the scrape fallback.
func WithCookies(cookies map[string]string) Option {
	return func(c *config) { c.cookies = cookies }
}

// WithBrowserCookies enables reading Google cookies from browser stores.
func WithBrowserCookies() Option {
	return func(c *config) { c.browserCookies = true }
}

// WithAPIKey sets the Custom Search API key.
func WithAPIKey(key string) Option {
	return func(c *config) { c.apiKey = key }
}

// WithSearchEngineID sets the Custom Search engine ID.
func WithSearchEngineID(cx string) Option {
	return func(c *config) { c.engineID = cx }
}

// WithMaxConcurrent caps concurrent search queries in DiscoverAll.
func WithMaxConcurrent(n int) Option {
	return func(c *config) { c.maxConcurrent = n }
}

// Resolve matches a name against candidate URLs the caller already has.
// Returns nil when no rule matches. Pure function, no I/O.
func Resolve(name string, urls []string, opts ...Option) *Result {
	cfg := newConfig(opts...)
	return match.Best(name, urls, cfg.dict)
}

// ResolveAll matches every name in nameToURLs against its candidates and
// returns the matches plus the names nothing matched for. Pure function,
// no I/O.
func ResolveAll(nameToURLs map[string][]string, opts ...Option) (map[string]Result, []string) {
	cfg := newConfig(opts...)
	return match.ResolveAll(nameToURLs, cfg.dict)
}

// Discover searches for candidate URLs and matches the name against
// them. A nil result with nil error means the search succeeded but no
// rule matched.
func Discover(ctx context.Context, name string, opts ...Option) (*Result, error) {
	cfg := newConfig(opts...)

	searcher, err := cfg.buildSearcher(ctx)
	if err != nil {
		return nil, err
	}

	urls, err := searcher.URLs(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("searching for %q: %w", name, err)
	}
	cfg.logger.InfoContext(ctx, "search complete", "name", name, "candidates", len(urls))

	return match.Best(name, urls, cfg.dict), nil
}

// DiscoverAll searches for every name with bounded concurrency, then
// matches each against its own results. Names whose search failed are
// reported as unmatched alongside names no rule matched.
func DiscoverAll(ctx context.Context, names []string, opts ...Option) (map[string]Result, []string, error) {
	cfg := newConfig(opts...)

	searcher, err := cfg.buildSearcher(ctx)
	if err != nil {
		return nil, nil, err
	}

	nameToURLs := make(map[string][]string, len(names))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, cfg.maxConcurrent)

	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			urls, err := searcher.URLs(ctx, name)
			if err != nil {
				cfg.logger.WarnContext(ctx, "search failed", "name", name, "error", err)
				urls = nil
			}
			mu.Lock()
			nameToURLs[name] = urls
			mu.Unlock()
		}(name)
	}
	wg.Wait()

	matches, unmatched := match.ResolveAll(nameToURLs, cfg.dict)
	return matches, unmatched, nil
}

func (c *config) buildSearcher(ctx context.Context) (Searcher, error) {
	if c.searcher != nil {
		return c.searcher, nil
	}

	searchOpts := []search.Option{
		search.WithLogger(c.logger),
		search.WithHTTPCache(c.cache),
	}
	if c.apiKey != "" {
		searchOpts = append(searchOpts, search.WithAPIKey(c.apiKey))
	}
	if c.engineID != "" {
		searchOpts = append(searchOpts, search.WithSearchEngineID(c.engineID))
	}
	if len(c.cookies) > 0 {
		searchOpts = append(searchOpts, search.WithCookies(c.cookies))
	}
	if c.browserCookies {
		searchOpts = append(searchOpts, search.WithBrowserCookies())
	}

	client, err := search.New(ctx, searchOpts...)
	if err != nil {
		return nil, fmt.Errorf("building search client: %w", err)
	}
	return client, nil
}
