// Package words provides the reference vocabulary used to decompose
// organization names: a stoplist of trivial corporate words and a
// dictionary oracle that classifies tokens as English words or
// brand-specific inventions.
package words

import (
	_ "embed"
	"slices"
	"strings"
	"unicode"
)

// stoplist contains trivial organizational words that carry no brand
// signal. Membership is checked case-insensitively against whole tokens.
var stoplist = map[string]bool{
	"company": true, "inc": true, "group": true, "corporation": true,
	"co": true, "corp": true, "university": true, "college": true,
	"&": true, "llc": true, "the": true, "of": true, "a": true, "an": true,
}

// Trivial reports whether word is a stoplist entry.
func Trivial(word string) bool {
	return stoplist[strings.ToLower(word)]
}

// Dictionary is a read-only word-membership oracle. Implementations must
// be safe for concurrent use.
type Dictionary interface {
	Contains(word string) bool
}

//go:embed words.txt
var wordData string

var defaultDict = newSetDictionary(wordData)

// Default returns the embedded English dictionary.
func Default() Dictionary { return defaultDict }

// setDictionary is a Dictionary backed by an in-memory set.
type setDictionary struct {
	words map[string]bool
}

func newSetDictionary(data string) *setDictionary {
	d := &setDictionary{words: make(map[string]bool)}
	for _, w := range strings.Fields(data) {
		d.words[strings.ToLower(w)] = true
	}
	return d
}

func (d *setDictionary) Contains(word string) bool {
	return d.words[strings.ToLower(word)]
}

// Set builds a Dictionary from an explicit vocabulary. Useful for tests
// and for substituting domain-specific word lists.
func Set(vocab ...string) Dictionary {
	d := &setDictionary{words: make(map[string]bool, len(vocab))}
	for _, w := range vocab {
		d.words[strings.ToLower(w)] = true
	}
	return d
}

// Tokenize splits an organization name into two token lists: nonwords
// (absent from dict, presumed brand-distinctive) and others (ordinary
// dictionary words). Both lists are lowercased, exclude stoplist entries,
// and are ordered longest-first; ties keep their original order. Longer
// tokens are considered more distinguishing, and downstream match rules
// rely on this ordering.
func Tokenize(name string, dict Dictionary) (nonwords, others []string) {
	tokens := strings.Fields(strings.ToLower(name))
	slices.SortStableFunc(tokens, func(a, b string) int { return len(b) - len(a) })

	for _, tok := range tokens {
		if stoplist[tok] {
			continue
		}
		if dict.Contains(tok) {
			others = append(others, tok)
		} else {
			nonwords = append(nonwords, tok)
		}
	}
	return nonwords, others
}

// Acronyms derives the acronym candidates for a name: the first letters
// of every word, and the first letters of the words outside the stoplist.
// Both are lowercased; the result has one entry when they coincide.
func Acronyms(name string) map[string]bool {
	var all, significant strings.Builder
	for _, word := range strings.Fields(name) {
		r := firstRune(word)
		all.WriteRune(r)
		if !stoplist[strings.ToLower(word)] {
			significant.WriteRune(r)
		}
	}
	return map[string]bool{
		strings.ToLower(all.String()):         true,
		strings.ToLower(significant.String()): true,
	}
}

func firstRune(s string) rune {
	for _, r := range s {
		return unicode.ToLower(r)
	}
	return 0
}
