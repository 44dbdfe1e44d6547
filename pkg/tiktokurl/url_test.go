package tiktokurl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClean_ValidURLs(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"standard www url", "https://www.tiktok.com/@user/video/123456789"},
		{"without www", "https://tiktok.com/@user/video/123456789"},
		{"vm short link", "https://vm.tiktok.com/abc123"},
		{"vt short link", "https://vt.tiktok.com/xyz789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Clean(tt.url)
			if err != nil {
				t.Fatalf("Clean(%q) error: %v", tt.url, err)
			}
			if got != tt.url {
				t.Errorf("Clean(%q) = %q, want unchanged", tt.url, got)
			}
		})
	}
}

func TestClean_StripsWhitespace(t *testing.T) {
	got, err := Clean("  https://www.tiktok.com/@user/video/123  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://www.tiktok.com/@user/video/123" {
		t.Errorf("got %q, want trimmed URL", got)
	}
}

func TestClean_RejectsOtherDomains(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"youtube", "https://youtube.com/watch?v=abc123"},
		{"random domain", "https://example.com/video/123"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Clean(tt.url); err == nil {
				t.Errorf("Clean(%q) should fail", tt.url)
			}
		})
	}
}

func TestClean_SubstringMatchIsPermissive(t *testing.T) {
	// Documented behavior: the host check is substring-based, so a host that
	// contains an allowed domain passes even if it is not TikTok itself.
	got, err := Clean("https://m.tiktok.com/@user/video/1")
	if err != nil {
		t.Fatalf("substring host should pass: %v", err)
	}
	if got == "" {
		t.Error("expected URL back")
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"plain video url", "https://www.tiktok.com/@a/video/987", "987"},
		{"with query params", "https://www.tiktok.com/@a/video/987?x=1", "987"},
		{"trailing segment", "https://www.tiktok.com/@a/video/987/extra", "987"},
		{"profile url", "https://www.tiktok.com/@a", ""},
		{"short link", "https://vm.tiktok.com/abc123", ""},
		{"unparseable", "://bad", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractVideoID(tt.url); got != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsShortLink(t *testing.T) {
	if !IsShortLink("https://vm.tiktok.com/abc") {
		t.Error("vm.tiktok.com should be a short link")
	}
	if !IsShortLink("https://vt.tiktok.com/abc") {
		t.Error("vt.tiktok.com should be a short link")
	}
	if IsShortLink("https://www.tiktok.com/@a/video/1") {
		t.Error("www.tiktok.com should not be a short link")
	}
}

func TestResolve_PassesThroughFullURLs(t *testing.T) {
	r := NewResolver(time.Second)
	url := "https://www.tiktok.com/@user/video/123"

	got, err := r.Resolve(context.Background(), url)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != url {
		t.Errorf("full URL should pass through unchanged, got %q", got)
	}
}

func TestResolve_FollowsRedirects(t *testing.T) {
	var destination string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/short" {
			http.Redirect(w, r, destination, http.StatusMovedPermanently)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	destination = srv.URL + "/@user/video/456"

	// Route the short-link host at the test server so the resolver makes a
	// real (local) redirect round trip.
	transport := &http.Transport{}
	client := &http.Client{
		Timeout: time.Second,
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.URL.Host == "vm.tiktok.com" {
				redirected := *req.URL
				redirected.Scheme = "http"
				redirected.Host = srv.Listener.Addr().String()
				req.URL = &redirected
			}
			return transport.RoundTrip(req)
		}),
	}

	r := NewResolverWithClient(client)
	got, err := r.Resolve(context.Background(), "https://vm.tiktok.com/short")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != destination {
		t.Errorf("resolved URL = %q, want %q", got, destination)
	}
}

func TestResolve_NetworkFailureIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately closed: connections will be refused

	transport := &http.Transport{}
	client := &http.Client{
		Timeout: time.Second,
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			redirected := *req.URL
			redirected.Scheme = "http"
			redirected.Host = srv.Listener.Addr().String()
			req.URL = &redirected
			return transport.RoundTrip(req)
		}),
	}

	r := NewResolverWithClient(client)
	if _, err := r.Resolve(context.Background(), "https://vt.tiktok.com/dead"); err == nil {
		t.Fatal("expected resolution error for unreachable short link")
	}
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
