// Command webmatch guesses which website belongs to an organization name.
//
// Usage:
//
//	webmatch Microsoft "Blue Jeans Network"
//	webmatch -dataset dataset.csv -sample 20   # evaluate against known answers
//	webmatch -probe "National Pen Company"     # liveness-check guessed URLs
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/codeGROOVE-dev/webmatch/pkg/dataset"
	"github.com/codeGROOVE-dev/webmatch/pkg/httpcache"
	"github.com/codeGROOVE-dev/webmatch/pkg/probe"
	"github.com/codeGROOVE-dev/webmatch/pkg/webmatch"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	verbose := flag.Bool("v", false, "verbose logging (same as -debug)")
	noBrowser := flag.Bool("no-browser", false, "disable reading Google cookies from browser stores (enabled by default)")
	noCache := flag.Bool("no-cache", false, "disable HTTP caching (enabled by default with 75-day TTL)")
	cacheTTL := flag.Duration("cache-ttl", 75*24*time.Hour, "cache time-to-live (default: 75 days, use 24h for testing)")
	datasetPath := flag.String("dataset", "", "evaluate accuracy against a name,website CSV")
	sampleSize := flag.Int("sample", 20, "how many names to sample in -dataset mode")
	probeMode := flag.Bool("probe", false, "liveness-check URL variants guessed from each name instead of searching")
	flag.Parse()

	if flag.NArg() < 1 && *datasetPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: webmatch [options] <organization name> [...]")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
		fmt.Fprintln(os.Stderr, "\nSearch credentials:")
		fmt.Fprintln(os.Stderr, "  GOOGLE_SEARCH_API_KEY / GOOGLE_SEARCH_CX select the Custom Search API;")
		fmt.Fprintln(os.Stderr, "  without them results are scraped from the regular results page.")
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if *debug || *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	var httpCache *httpcache.Cache
	if !*noCache {
		var err error
		httpCache, err = httpcache.New(*cacheTTL)
		if err != nil {
			logger.Warn("failed to initialize cache, continuing without cache", "error", err)
		} else {
			defer func() {
				if err := httpCache.Close(); err != nil {
					logger.Warn("failed to close cache", "error", err)
				}
			}()
			logger.Debug("HTTP cache initialized", "ttl", cacheTTL.String())
		}
	}

	ctx := context.Background()
	names := flag.Args()

	if *probeMode {
		checker := probe.New(probe.WithLogger(logger))
		results := checker.CheckAll(ctx, names)
		if err := outputJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Output error: %v\n", err)
			os.Exit(1) //nolint:gocritic // exitAfterDefer is acceptable in main
		}
		return
	}

	opts := []webmatch.Option{webmatch.WithLogger(logger)}
	if !*noBrowser {
		opts = append(opts, webmatch.WithBrowserCookies())
	}
	if httpCache != nil {
		opts = append(opts, webmatch.WithHTTPCache(httpCache))
	}

	if *datasetPath != "" {
		if err := evaluate(ctx, *datasetPath, *sampleSize, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	matches, unmatched, err := webmatch.DiscoverAll(ctx, names, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	stats := httpcache.CacheStats()
	logger.Debug("cache statistics", "hits", stats.Hits, "misses", stats.Misses)

	if err := outputJSON(struct {
		Matches   map[string]webmatch.Result `json:"matches"`
		Unmatched []string                   `json:"unmatched,omitempty"`
	}{matches, unmatched}); err != nil {
		fmt.Fprintf(os.Stderr, "Output error: %v\n", err)
		os.Exit(1)
	}
}

// evaluate samples names from a known name→website dataset, runs
// discovery on them, and reports accuracy.
func evaluate(ctx context.Context, path string, sampleSize int, opts []webmatch.Option) error {
	pairs, err := dataset.Load(path)
	if err != nil {
		return err
	}

	all := make([]string, 0, len(pairs))
	for name := range pairs {
		all = append(all, name)
	}
	names := dataset.Sample(all, sampleSize, nil)

	matches, unmatched, err := webmatch.DiscoverAll(ctx, names, opts...)
	if err != nil {
		return err
	}

	report := dataset.Evaluate(matches, pairs)
	return outputJSON(struct {
		dataset.Report
		Unmatched []string `json:"unmatched,omitempty"`
	}{report, unmatched})
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
