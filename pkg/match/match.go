// Package match picks the website that best fits an organization name
// from a list of candidate URLs. Candidates are ranked, then walked
// through an ordered cascade of heuristics; the first rule satisfied by
// the highest-ranked domain wins and no cross-domain comparison happens.
package match

import (
	"maps"
	"slices"
	"strings"

	"github.com/codeGROOVE-dev/webmatch/pkg/rank"
	"github.com/codeGROOVE-dev/webmatch/pkg/words"
)

// Reason labels identifying which rule produced a match.
const (
	ReasonNameOverlap   = "domain in companyName or vice versa"
	ReasonAcronym       = "domain in company acronyms"
	ReasonNonword       = "nonword match"
	ReasonSmallDomain   = "small domain match"
	ReasonPartialDomain = "partial domain match"
)

// Result is a matched domain with the confidence of the match and the
// rule that produced it.
type Result struct {
	Domain     string  `json:"domain"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Best returns the best-matching candidate domain for the organization
// name, or nil when no rule matches any candidate. Rules run strongest
// to weakest per domain, in rank order, so a weak rule on a top-ranked
// domain beats a strong rule on a lower one. Pure function: identical
// inputs always produce identical results.
func Best(name string, urls []string, dict words.Dictionary) *Result {
	name = strings.Map(func(r rune) rune {
		if r == '.' || r == ',' {
			return -1
		}
		return r
	}, name)

	ranked := rank.Rank(urls)
	nonwords, others := words.Tokenize(name, dict)
	acronyms := words.Acronyms(name)
	simplifiedName := strings.ToLower(strings.ReplaceAll(name, " ", ""))

	for _, candidate := range ranked {
		label := rank.NormalizeLabel(candidate.Name)
		if label == "" {
			continue
		}

		if strings.Contains(simplifiedName, label) || strings.Contains(label, simplifiedName) {
			return &Result{Domain: candidate.Name, Confidence: candidate.Score, Reason: ReasonNameOverlap}
		}
		if acronyms[label] {
			return &Result{Domain: candidate.Name, Confidence: candidate.Score, Reason: ReasonAcronym}
		}
		if containsAny(label, nonwords) {
			return &Result{Domain: candidate.Name, Confidence: candidate.Score * 0.5, Reason: ReasonNonword}
		}

		// Erode known dictionary words out of the label, longest token
		// first. Each removal operates on the already-reduced string, so
		// removal order matters for overlapping tokens.
		reduced := label
		for _, word := range others {
			reduced = strings.ReplaceAll(reduced, word, "")
		}
		switch {
		case len(label) <= 4 && len(reduced) <= 1:
			return &Result{Domain: candidate.Name, Confidence: candidate.Score * 0.4, Reason: ReasonSmallDomain}
		case len(reduced) <= 4:
			return &Result{Domain: candidate.Name, Confidence: candidate.Score * 0.4, Reason: ReasonPartialDomain}
		}
	}
	return nil
}

func containsAny(label string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(label, tok) {
			return true
		}
	}
	return false
}

// ResolveAll matches every name against its candidate URLs and buckets
// the outcomes. Names are processed independently; iteration is in
// sorted-name order so the unmatched list is deterministic.
func ResolveAll(nameToURLs map[string][]string, dict words.Dictionary) (map[string]Result, []string) {
	matches := make(map[string]Result, len(nameToURLs))
	var unmatched []string
	for _, name := range slices.Sorted(maps.Keys(nameToURLs)) {
		if result := Best(name, nameToURLs[name], dict); result != nil {
			matches[name] = *result
		} else {
			unmatched = append(unmatched, name)
		}
	}
	return matches, unmatched
}
