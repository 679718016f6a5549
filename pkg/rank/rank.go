// Package rank scores candidate URLs for an organization by how likely
// their domain is to be the organization's own website. Earlier search
// positions, shorter domain labels, and repeated appearances of the same
// domain all raise its score.
package rank

import (
	"net/url"
	"slices"
	"strings"
)

// Scoring weights: a domain earns weightCount per appearance, is
// penalized weightOrder per position down the result list, and
// weightLength per character of its distinguishing label.
const (
	weightCount  = 0.25
	weightOrder  = -0.25
	weightLength = -0.1
)

// Domain is a simplified candidate domain with its normalized score.
type Domain struct {
	Name  string
	Score float64
}

// Simplify reduces a URL to its host component, verbatim, or "" when no
// host can be parsed. Subdomain labels are kept: both scoring and
// matching depend on the label structure of the full host.
func Simplify(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Host
}

// Rank scores the candidate URLs and returns their simplified domains
// sorted by descending score. Raw per-URL scores accumulate into a
// per-domain total, which is then min-max normalized across all domains
// with the denominator floored at 1. Ties keep first-appearance order.
// URLs without a parseable host are dropped; their position still counts
// against later candidates.
func Rank(urls []string) []Domain {
	totals := make(map[string]float64, len(urls))
	var order []string

	for i, raw := range urls {
		domain := Simplify(raw)
		if domain == "" {
			continue
		}
		if _, seen := totals[domain]; !seen {
			order = append(order, domain)
		}
		totals[domain] += weightCount + weightOrder*float64(i+1) + weightLength*float64(labelLen(domain))
	}
	if len(order) == 0 {
		return nil
	}

	lo, hi := totals[order[0]], totals[order[0]]
	for _, domain := range order[1:] {
		total := totals[domain]
		if total < lo {
			lo = total
		}
		if total > hi {
			hi = total
		}
	}
	span := hi - lo
	if span < 1 {
		span = 1
	}

	ranked := make([]Domain, 0, len(order))
	for _, domain := range order {
		ranked = append(ranked, Domain{Name: domain, Score: (totals[domain] - lo) / span})
	}
	slices.SortStableFunc(ranked, func(a, b Domain) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	return ranked
}

// labelLen measures the distinguishing label of a host: the second
// dot-part when the host has exactly three (www.example.com -> "example"),
// otherwise the first.
func labelLen(domain string) int {
	parts := strings.Split(domain, ".")
	if len(parts) == 3 {
		return len(parts[1])
	}
	return len(parts[0])
}

// NormalizeLabel extracts the label used for name matching: the second
// dot-part when the host has three or more parts, otherwise the first.
// The part-count threshold deliberately differs from the one used for
// score penalties.
func NormalizeLabel(domain string) string {
	parts := strings.Split(domain, ".")
	if len(parts) >= 3 {
		return parts[1]
	}
	return parts[0]
}
