package webmatch

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/codeGROOVE-dev/webmatch/pkg/match"
	"github.com/codeGROOVE-dev/webmatch/pkg/words"
)

// fakeSearcher serves canned results per query.
type fakeSearcher struct {
	results map[string][]string
	errs    map[string]error
}

func (f *fakeSearcher) URLs(_ context.Context, query string) ([]string, error) {
	if err := f.errs[query]; err != nil {
		return nil, err
	}
	return f.results[query], nil
}

func TestResolve(t *testing.T) {
	urls := []string{
		"https://www.microsoft.com/",
		"https://support.microsoft.com/",
		"https://en.wikipedia.org/wiki/Microsoft",
	}

	got := Resolve("Microsoft", urls)
	if got == nil {
		t.Fatal("Resolve returned nil, want a match")
	}
	if got.Domain != "www.microsoft.com" {
		t.Errorf("Domain = %q, want www.microsoft.com", got.Domain)
	}
	if got.Reason != match.ReasonNameOverlap {
		t.Errorf("Reason = %q, want %q", got.Reason, match.ReasonNameOverlap)
	}
}

func TestResolveNoMatch(t *testing.T) {
	if got := Resolve("Zq Qz", []string{"https://unrelateddomain.com/"}); got != nil {
		t.Errorf("Resolve = %+v, want nil", got)
	}
}

func TestResolveWithDictionary(t *testing.T) {
	// With "pens" treated as a dictionary word the erosion rule fires;
	// with an empty dictionary the nonword rule fires first.
	urls := []string{"https://pens.com/"}

	withDict := Resolve("Pen Co", urls, WithDictionary(words.Set("pen")))
	if withDict == nil || withDict.Reason != match.ReasonSmallDomain {
		t.Errorf("with dictionary: got %+v, want reason %q", withDict, match.ReasonSmallDomain)
	}

	withoutDict := Resolve("Pen Co", urls, WithDictionary(words.Set()))
	if withoutDict == nil || withoutDict.Reason != match.ReasonNonword {
		t.Errorf("without dictionary: got %+v, want reason %q", withoutDict, match.ReasonNonword)
	}
}

func TestResolveAll(t *testing.T) {
	input := map[string][]string{
		"Microsoft": {"https://www.microsoft.com/"},
		"Zq Qz":     {"https://unrelateddomain.com/"},
	}

	matches, unmatched := ResolveAll(input)
	if _, ok := matches["Microsoft"]; !ok {
		t.Error("Microsoft missing from matches")
	}
	if diff := cmp.Diff([]string{"Zq Qz"}, unmatched); diff != "" {
		t.Errorf("unmatched mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscover(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]string{
		"Flynn": {
			"http://www.flynncenter.org/",
			"https://flynn.io/",
			"https://github.com/flynn/flynn",
		},
	}}

	got, err := Discover(context.Background(), "Flynn", WithSearcher(searcher))
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	want := &Result{Domain: "flynn.io", Confidence: 0.35, Reason: match.ReasonNameOverlap}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Discover mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverSearchError(t *testing.T) {
	searcher := &fakeSearcher{errs: map[string]error{"Flynn": errors.New("quota exceeded")}}

	if _, err := Discover(context.Background(), "Flynn", WithSearcher(searcher)); err == nil {
		t.Error("expected error when search fails")
	}
}

func TestDiscoverAll(t *testing.T) {
	searcher := &fakeSearcher{
		results: map[string][]string{
			"Microsoft": {"https://www.microsoft.com/"},
			"Zq Qz":     {"https://unrelateddomain.com/"},
		},
		errs: map[string]error{"Broken": errors.New("timeout")},
	}

	matches, unmatched, err := DiscoverAll(context.Background(),
		[]string{"Microsoft", "Zq Qz", "Broken"},
		WithSearcher(searcher), WithMaxConcurrent(2))
	if err != nil {
		t.Fatalf("DiscoverAll failed: %v", err)
	}

	if _, ok := matches["Microsoft"]; !ok {
		t.Error("Microsoft missing from matches")
	}
	// Failed searches surface as unmatched, not as a batch error.
	want := []string{"Broken", "Zq Qz"}
	if diff := cmp.Diff(want, unmatched); diff != "" {
		t.Errorf("unmatched mismatch (-want +got):\n%s", diff)
	}
}
