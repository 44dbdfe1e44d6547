package supadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/lukajvnic/Avocado/internal/cache"
	"github.com/lukajvnic/Avocado/internal/model"
	"github.com/lukajvnic/Avocado/pkg/hash"
)

// Config holds the upstream API settings for a Client.
type Config struct {
	BaseURL        string
	MetadataPath   string
	TranscriptPath string
	APIKey         string
	Timeout        time.Duration
	Retry          RetryPolicy
}

// Client fetches TikTok video metadata and transcripts from the Supadata API.
// Both fetch paths are cache-aware: results (including a confirmed missing
// transcript) are stored in the shared fingerprint cache, and a hit skips the
// network entirely. Each network call is wrapped in the rate-limit retry loop.
type Client struct {
	cfg   Config
	http  *http.Client
	cache *cache.Store
	log   zerolog.Logger
}

// NewClient creates a Client. The fingerprint cache is injected so the same
// store is shared across all requests served by the process.
func NewClient(cfg Config, store *cache.Store, log zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("supadata: API key is not configured")
	}
	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.Timeout},
		cache: store,
		log:   log.With().Str("component", "supadata").Logger(),
	}, nil
}

// Metadata fetches video metadata for the canonical URL.
func (c *Client) Metadata(ctx context.Context, videoURL string) (*model.TikTokMetadata, error) {
	if v, ok := c.cache.Get(cache.KindMetadata, videoURL); ok {
		fingerprintCacheHits.WithLabelValues(cache.KindMetadata).Inc()
		c.log.Info().Str("url_hash", hash.ShortHex(videoURL, 12)).Msg("cache hit for metadata")
		meta, _ := v.(*model.TikTokMetadata)
		return meta, nil
	}
	fingerprintCacheMisses.WithLabelValues(cache.KindMetadata).Inc()

	meta, err := WithRetry(ctx, c.cfg.Retry, c.log, func() (*model.TikTokMetadata, error) {
		return c.fetchMetadata(ctx, videoURL)
	})
	if err != nil {
		return nil, err
	}

	c.cache.Put(cache.KindMetadata, videoURL, meta)
	return meta, nil
}

// Transcript fetches the video transcript for the canonical URL. A video with
// no transcript (upstream 404, or an empty transcript body) returns (nil, nil)
// and the absence itself is cached so it is not re-fetched within the TTL.
func (c *Client) Transcript(ctx context.Context, videoURL string) (*model.TikTokTranscript, error) {
	if v, ok := c.cache.Get(cache.KindTranscript, videoURL); ok {
		fingerprintCacheHits.WithLabelValues(cache.KindTranscript).Inc()
		c.log.Info().Str("url_hash", hash.ShortHex(videoURL, 12)).Msg("cache hit for transcript")
		if v == nil {
			return nil, nil
		}
		tr, _ := v.(*model.TikTokTranscript)
		return tr, nil
	}
	fingerprintCacheMisses.WithLabelValues(cache.KindTranscript).Inc()

	tr, err := WithRetry(ctx, c.cfg.Retry, c.log, func() (*model.TikTokTranscript, error) {
		return c.fetchTranscript(ctx, videoURL)
	})
	if err != nil {
		return nil, err
	}

	if tr == nil {
		c.cache.Put(cache.KindTranscript, videoURL, nil)
	} else {
		c.cache.Put(cache.KindTranscript, videoURL, tr)
	}
	return tr, nil
}

// metadataResponse mirrors the Supadata unified metadata format: author info
// and engagement stats are nested sub-objects.
type metadataResponse struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Author      struct {
		Username    *string `json:"username"`
		DisplayName *string `json:"displayName"`
	} `json:"author"`
	Stats struct {
		Likes    *int64 `json:"likes"`
		Views    *int64 `json:"views"`
		Shares   *int64 `json:"shares"`
		Comments *int64 `json:"comments"`
	} `json:"stats"`
}

type transcriptResponse struct {
	Content string  `json:"content"`
	Lang    *string `json:"lang"`
}

func (c *Client) fetchMetadata(ctx context.Context, videoURL string) (*model.TikTokMetadata, error) {
	params := url.Values{"url": {videoURL}}

	resp, err := c.get(ctx, c.cfg.MetadataPath, params)
	if err != nil {
		return nil, &Error{Kind: KindUpstream, Message: fmt.Sprintf("failed to fetch metadata: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindUpstream, Message: fmt.Sprintf("failed to fetch metadata: %v", err)}
	}
	upstreamRequests.WithLabelValues("metadata", strconv.Itoa(resp.StatusCode)).Inc()

	if apiErr := statusError(resp.StatusCode, "metadata", body); apiErr != nil {
		return nil, apiErr
	}

	var data metadataResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &Error{Kind: KindUpstream, Message: fmt.Sprintf("invalid metadata response: %v", err)}
	}
	c.log.Info().Str("url_hash", hash.ShortHex(videoURL, 12)).Msg("metadata fetched")

	author := data.Author.Username
	if author == nil || *author == "" {
		author = data.Author.DisplayName
	}

	return &model.TikTokMetadata{
		Title:       data.Title,
		Description: data.Description,
		AudioURL:    nil, // Supadata does not return an audio URL in metadata
		Author:      author,
		Likes:       data.Stats.Likes,
		Views:       data.Stats.Views,
		Shares:      data.Stats.Shares,
		Comments:    data.Stats.Comments,
	}, nil
}

func (c *Client) fetchTranscript(ctx context.Context, videoURL string) (*model.TikTokTranscript, error) {
	params := url.Values{
		"url":  {videoURL},
		"text": {"true"}, // plain text instead of timestamped chunks
		"lang": {"en"},
		"mode": {"auto"}, // native transcript first, AI generation as fallback
	}

	resp, err := c.get(ctx, c.cfg.TranscriptPath, params)
	if err != nil {
		return nil, &Error{Kind: KindUpstream, Message: fmt.Sprintf("failed to fetch transcript: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindUpstream, Message: fmt.Sprintf("failed to fetch transcript: %v", err)}
	}
	upstreamRequests.WithLabelValues("transcript", strconv.Itoa(resp.StatusCode)).Inc()

	// 404 means the video has no transcript. That is a normal outcome, not an
	// error, and it is cached by the caller like any other result.
	if resp.StatusCode == http.StatusNotFound {
		c.log.Info().Str("url_hash", hash.ShortHex(videoURL, 12)).Msg("no transcript available")
		return nil, nil
	}

	if apiErr := statusError(resp.StatusCode, "transcript", body); apiErr != nil {
		return nil, apiErr
	}

	var data transcriptResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &Error{Kind: KindUpstream, Message: fmt.Sprintf("invalid transcript response: %v", err)}
	}
	c.log.Info().Str("url_hash", hash.ShortHex(videoURL, 12)).Msg("transcript fetched")

	if data.Content == "" {
		return nil, nil
	}
	return &model.TikTokTranscript{Text: data.Content, Language: data.Lang}, nil
}

// statusError maps a non-2xx upstream status to its typed error, or nil for 2xx.
func statusError(status int, endpoint string, body []byte) *Error {
	switch {
	case status == http.StatusUnauthorized:
		return newAuthError()
	case status == http.StatusPaymentRequired:
		return newQuotaError()
	case status == http.StatusTooManyRequests:
		return newRateLimitError(string(body))
	case status >= 400:
		return &Error{
			Kind:       KindUpstream,
			StatusCode: status,
			Message:    fmt.Sprintf("%s API error: %d - %s", endpoint, status, string(body)),
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	return c.http.Do(req)
}
