package tiktokurl

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// validDomains is the allow-list for TikTok links, including the short-link hosts.
// Matching is substring-based on the host: any host that merely contains one of
// these entries is accepted. That is deliberately permissive and mirrors the
// behavior the browser extension has always relied on; tightening it to exact
// host matching would reject some regional TikTok domains.
var validDomains = []string{
	"tiktok.com",
	"www.tiktok.com",
	"vm.tiktok.com",
	"vt.tiktok.com",
}

// shortLinkHosts are the redirect hosts TikTok uses for shared links.
// Only these trigger a live redirect resolution.
var shortLinkHosts = map[string]bool{
	"vm.tiktok.com": true,
	"vt.tiktok.com": true,
}

// Clean trims the raw link and validates that it points at TikTok.
// The returned URL is unmodified apart from whitespace trimming.
func Clean(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid TikTok URL: %s", raw)
	}

	for _, domain := range validDomains {
		if strings.Contains(parsed.Host, domain) {
			return trimmed, nil
		}
	}
	return "", fmt.Errorf("invalid TikTok URL: %s", raw)
}

// IsShortLink reports whether the URL uses one of TikTok's redirect hosts.
func IsShortLink(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return shortLinkHosts[parsed.Host]
}

// Resolver expands shortened TikTok links (vm.tiktok.com, vt.tiktok.com) to
// their canonical destination by following redirects.
type Resolver struct {
	client *http.Client
}

// NewResolver creates a Resolver with the given per-request timeout.
func NewResolver(timeout time.Duration) *Resolver {
	return &Resolver{
		client: &http.Client{Timeout: timeout},
	}
}

// NewResolverWithClient creates a Resolver backed by a custom HTTP client.
func NewResolverWithClient(client *http.Client) *Resolver {
	return &Resolver{client: client}
}

// Resolve expands a short link to its final destination URL. Non-short-link
// URLs pass through unchanged without any network call. A failure to complete
// the redirect chain is a resolution error, not an upstream API error.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (string, error) {
	if !IsShortLink(rawURL) {
		return rawURL, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to resolve shortened URL: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to resolve shortened URL: %w", err)
	}
	defer resp.Body.Close()

	// The client has followed all redirects; the request URL on the final
	// response is the canonical destination.
	return resp.Request.URL.String(), nil
}

// ExtractVideoID parses the numeric video ID from a /video/<id> path segment.
// Returns an empty string when the pattern is absent — short links and profile
// URLs legitimately lack it, so this is not an error.
func ExtractVideoID(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	path := parsed.Path
	idx := strings.Index(path, "/video/")
	if idx < 0 {
		return ""
	}

	id := path[idx+len("/video/"):]
	if slash := strings.Index(id, "/"); slash >= 0 {
		id = id[:slash]
	}
	return id
}
