package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestCleanName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "quotes stripped", input: `"Acme Widgets"`, want: "Acme Widgets"},
		{name: "bom stripped", input: "\ufeffAcme Widgets", want: "Acme Widgets"},
		{name: "inc suffix", input: "Acme Widgets Inc.", want: "Acme Widgets"},
		{name: "corp suffix case-insensitive", input: "Acme Widgets CORP", want: "Acme Widgets"},
		{name: "limited suffix", input: "Acme Widgets Limited", want: "Acme Widgets"},
		{name: "special characters removed", input: "Acme & Widgets, Co!", want: "Acme Widgets Co"},
		{name: "whitespace collapsed", input: "Acme   Widgets \t Co", want: "Acme Widgets Co"},
		{name: "suffix only at end", input: "Incorporated Systems", want: "Incorporated Systems"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanName(tt.input); got != tt.want {
				t.Errorf("CleanName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCandidateURLs(t *testing.T) {
	got := CandidateURLs("Blue Jeans Network Inc.")
	want := []string{
		"https://www.bluejeansnetwork.com",
		"https://bluejeansnetwork.com",
		"http://www.bluejeansnetwork.com",
		"http://bluejeansnetwork.com",
		"https://bluejeansnetwork.net",
		"https://www.bluejeansnetwork.org",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CandidateURLs mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckFallsThroughToLiveVariant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	checker := New(WithTimeout(2 * time.Second))
	// First variant is unreachable; the checker should move on.
	checker.candidates = func(string) []string {
		return []string{"http://127.0.0.1:1/", srv.URL}
	}

	got := checker.Check(context.Background(), "Acme Inc.")
	if got.URL != srv.URL {
		t.Errorf("URL = %q, want %q", got.URL, srv.URL)
	}
	if got.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want %d", got.StatusCode, http.StatusOK)
	}
	if got.Cleaned != "Acme" {
		t.Errorf("Cleaned = %q, want %q", got.Cleaned, "Acme")
	}
	if got.Elapsed <= 0 {
		t.Error("Elapsed not recorded")
	}
}

func TestCheckReportsNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	checker := New()
	checker.candidates = func(string) []string { return []string{srv.URL} }

	got := checker.Check(context.Background(), "Acme")
	if got.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want %d", got.StatusCode, http.StatusNotFound)
	}
	if got.URL != srv.URL {
		t.Errorf("URL = %q, want %q", got.URL, srv.URL)
	}
}

func TestCheckNothingAnswers(t *testing.T) {
	checker := New(WithTimeout(500 * time.Millisecond))
	checker.candidates = func(string) []string {
		return []string{"http://127.0.0.1:1/"}
	}

	got := checker.Check(context.Background(), "Ghost Co")
	if got.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", got.StatusCode)
	}
	if got.URL != "" {
		t.Errorf("URL = %q, want empty", got.URL)
	}
}

func TestCheckAllPreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	checker := New(WithMaxConcurrent(2))
	checker.candidates = func(string) []string { return []string{srv.URL} }

	names := []string{"Alpha", "Beta", "Gamma", "Delta"}
	results := checker.CheckAll(context.Background(), names)

	if len(results) != len(names) {
		t.Fatalf("got %d results, want %d", len(results), len(names))
	}
	for i, r := range results {
		if r.Name != names[i] {
			t.Errorf("results[%d].Name = %q, want %q", i, r.Name, names[i])
		}
		if r.StatusCode != http.StatusOK {
			t.Errorf("results[%d].StatusCode = %d, want 200", i, r.StatusCode)
		}
	}
}
