package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseAPIResponse(t *testing.T) {
	body := []byte(`{
		"items": [
			{"link": "https://www.microsoft.com/"},
			{"link": "https://support.microsoft.com/"},
			{"link": ""},
			{"link": "https://en.wikipedia.org/wiki/Microsoft"}
		]
	}`)

	got, err := parseAPIResponse(body)
	if err != nil {
		t.Fatalf("parseAPIResponse failed: %v", err)
	}
	want := []string{
		"https://www.microsoft.com/",
		"https://support.microsoft.com/",
		"https://en.wikipedia.org/wiki/Microsoft",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("urls mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAPIResponseNoItems(t *testing.T) {
	got, err := parseAPIResponse([]byte(`{"queries": {}}`))
	if err != nil {
		t.Fatalf("parseAPIResponse failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d urls, want 0", len(got))
	}
}

func TestParseAPIResponseInvalidJSON(t *testing.T) {
	if _, err := parseAPIResponse([]byte(`<html>not json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestParseScrapeLinks(t *testing.T) {
	html := `<html><body>
		<a href="/url?q=https://flynn.io/&amp;sa=U">Flynn</a>
		<a href="/url?q=https%3A%2F%2Fwww.flynncenter.org%2F&amp;ved=x">Flynn Center</a>
		<a href="/url?q=https://accounts.google.com/signin&amp;sa=U">internal</a>
		<a href="/url?q=https://flynn.io/&amp;sa=U">duplicate</a>
		<a href="/search?q=related">not a result</a>
	</body></html>`

	got := parseScrapeLinks(html)
	want := []string{
		"https://flynn.io/",
		"https://www.flynncenter.org/",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
}

func TestURLsViaAPI(t *testing.T) {
	var gotQuery, gotKey, gotCX string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("key")
		gotCX = r.URL.Query().Get("cx")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"link":"https://acme.com/"},{"link":"https://acme.org/"}]}`)) //nolint:errcheck // test handler
	}))
	defer srv.Close()

	ctx := context.Background()
	client, err := New(ctx, WithAPIKey("test-key"), WithSearchEngineID("test-cx"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	client.apiBase = srv.URL

	urls, err := client.URLs(ctx, "Acme Corp")
	if err != nil {
		t.Fatalf("URLs failed: %v", err)
	}

	want := []string{"https://acme.com/", "https://acme.org/"}
	if diff := cmp.Diff(want, urls); diff != "" {
		t.Errorf("urls mismatch (-want +got):\n%s", diff)
	}
	if gotQuery != "Acme Corp" {
		t.Errorf("query = %q, want %q", gotQuery, "Acme Corp")
	}
	if gotKey != "test-key" || gotCX != "test-cx" {
		t.Errorf("credentials = (%q, %q), want (test-key, test-cx)", gotKey, gotCX)
	}
}

func TestURLsViaScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "Flynn" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`<a href="/url?q=https://flynn.io/&amp;sa=U">r</a>`)) //nolint:errcheck // test handler
	}))
	defer srv.Close()

	ctx := context.Background()
	// No credentials: force the scrape path.
	t.Setenv("GOOGLE_SEARCH_API_KEY", "")
	t.Setenv("GOOGLE_SEARCH_CX", "")
	client, err := New(ctx)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	client.scrapeBase = srv.URL

	urls, err := client.URLs(ctx, "Flynn")
	if err != nil {
		t.Fatalf("URLs failed: %v", err)
	}
	want := []string{"https://flynn.io/"}
	if diff := cmp.Diff(want, urls); diff != "" {
		t.Errorf("urls mismatch (-want +got):\n%s", diff)
	}
}

func TestNewUsesEnvCredentials(t *testing.T) {
	t.Setenv("GOOGLE_SEARCH_API_KEY", "env-key")
	t.Setenv("GOOGLE_SEARCH_CX", "env-cx")

	client, err := New(context.Background())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if client.apiKey != "env-key" || client.engineID != "env-cx" {
		t.Errorf("credentials = (%q, %q), want env values", client.apiKey, client.engineID)
	}
}

func TestNewWithCookiesSetsJar(t *testing.T) {
	client, err := New(context.Background(), WithCookies(map[string]string{"SOCS": "abc"}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if client.httpClient.Jar == nil {
		t.Error("cookie jar not set")
	}
}
