// Package dataset loads name→website evaluation data and scores match
// results against it.
package dataset

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"sort"
	"strings"

	"github.com/codeGROOVE-dev/webmatch/pkg/match"
)

// Load reads a CSV of company-name,website rows into a map. Blank lines
// and rows without both columns are skipped; a UTF-8 BOM on the first
// cell is tolerated.
func Load(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	pairs := make(map[string]string, len(records))
	for _, rec := range records {
		if len(rec) < 2 {
			continue
		}
		name := cleanCell(rec[0])
		site := cleanCell(rec[1])
		if name == "" || site == "" {
			continue
		}
		pairs[name] = site
	}
	return pairs, nil
}

// Names reads one company name per line, stripping BOMs, NUL bytes, and
// surrounding quotes. Blank lines are skipped.
func Names(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read names: %w", err)
	}

	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		name := cleanCell(strings.ReplaceAll(line, "\x00", ""))
		if name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func cleanCell(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.TrimSpace(s)
	return strings.Trim(s, `"'`)
}

// Sample picks n distinct names at random, skipping any in exclude.
// Fewer than n are returned when the pool runs out.
func Sample(names []string, n int, exclude map[string]bool) []string {
	pool := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if exclude[name] || seen[name] {
			continue
		}
		seen[name] = true
		pool = append(pool, name)
	}

	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if n > len(pool) {
		n = len(pool)
	}
	if n < 0 {
		n = 0
	}
	return pool[:n]
}

// Detail reports one name's evaluation outcome.
type Detail struct {
	Name    string `json:"name"`
	Got     string `json:"got"`
	Want    string `json:"want"`
	Reason  string `json:"reason,omitempty"`
	Correct bool   `json:"correct"`
}

// Report summarizes an evaluation run.
type Report struct {
	Details   []Detail `json:"details"`
	Correct   int      `json:"correct"`
	Incorrect int      `json:"incorrect"`
}

// Evaluate compares match results against the expected name→website
// pairs. Only names present in got are scored; details are sorted by
// name for stable output.
func Evaluate(got map[string]match.Result, want map[string]string) Report {
	var report Report
	for name, result := range got {
		d := Detail{
			Name:    name,
			Got:     result.Domain,
			Want:    want[name],
			Reason:  result.Reason,
			Correct: result.Domain == want[name],
		}
		if d.Correct {
			report.Correct++
		} else {
			report.Incorrect++
		}
		report.Details = append(report.Details, d)
	}
	sort.Slice(report.Details, func(i, j int) bool {
		return report.Details[i].Name < report.Details[j].Name
	})
	return report
}
