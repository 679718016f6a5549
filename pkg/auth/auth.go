// Package auth provides Google consent/session cookies for search scraping.
//
// Google serves a consent interstitial instead of results to cookie-less
// clients in many regions. Reusing the user's own browser cookies makes
// the scrape fallback behave like their browser.
package auth

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
)

// Domain is the cookie domain all sources read from.
const Domain = "google.com"

// essentialCookies are the cookie names that matter for search requests.
var essentialCookies = []string{"SOCS", "CONSENT", "NID", "AEC"}

// NewCookieJar creates an http.CookieJar populated with the given cookies
// for the Google domain.
func NewCookieJar(cookies map[string]string) (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse("https://" + Domain)
	if err != nil {
		return nil, err
	}

	var httpCookies []*http.Cookie
	for name, value := range cookies {
		if value != "" {
			httpCookies = append(httpCookies, &http.Cookie{
				Name:   name,
				Value:  value,
				Domain: "." + Domain,
				Path:   "/",
			})
		}
	}

	jar.SetCookies(u, httpCookies)
	return jar, nil
}

// Source represents a source of Google cookies.
type Source interface {
	// Cookies returns Google cookies, or nil if unavailable.
	Cookies(ctx context.Context) (map[string]string, error)
}

// ChainSources returns cookies from the first source that provides them.
func ChainSources(ctx context.Context, sources ...Source) (map[string]string, error) {
	for _, src := range sources {
		cookies, err := src.Cookies(ctx)
		if err != nil {
			return nil, err
		}
		if len(cookies) > 0 {
			return cookies, nil
		}
	}
	return nil, nil //nolint:nilnil // no source had cookies, but this is not an error
}

// StaticSource provides cookies from a static map.
// This is useful for testing or when cookies are provided via options.
type StaticSource struct {
	cookies map[string]string
}

// NewStaticSource creates a cookie source from a static map.
func NewStaticSource(cookies map[string]string) *StaticSource {
	return &StaticSource{cookies: cookies}
}

// Cookies returns the static cookies.
func (s *StaticSource) Cookies(_ context.Context) (map[string]string, error) {
	if len(s.cookies) == 0 {
		return nil, nil //nolint:nilnil // empty static source is not an error
	}
	// Return a copy to prevent mutation
	result := make(map[string]string, len(s.cookies))
	for k, v := range s.cookies {
		result[k] = v
	}
	return result, nil
}

// envVars maps environment variable names to cookie names.
var envVars = map[string]string{
	"GOOGLE_SOCS":    "SOCS",
	"GOOGLE_CONSENT": "CONSENT",
	"GOOGLE_NID":     "NID",
	"GOOGLE_AEC":     "AEC",
}

// EnvSource reads Google cookies from environment variables.
type EnvSource struct{}

// Cookies returns Google cookies from environment variables.
func (EnvSource) Cookies(_ context.Context) (map[string]string, error) {
	cookies := make(map[string]string)
	for envVar, cookieName := range envVars {
		if value := os.Getenv(envVar); value != "" {
			cookies[cookieName] = value
		}
	}
	if len(cookies) == 0 {
		return nil, nil //nolint:nilnil // no env cookies is not an error
	}
	return cookies, nil
}
