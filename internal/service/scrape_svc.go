package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lukajvnic/Avocado/internal/model"
	"github.com/lukajvnic/Avocado/internal/supadata"
	"github.com/lukajvnic/Avocado/pkg/hash"
	"github.com/lukajvnic/Avocado/pkg/tiktokurl"
)

// InvalidURLError means the submitted link failed validation or its short-link
// redirect could not be resolved. Callers treat it as a client-side input
// problem; the normalizer's internals stay behind this one error type.
type InvalidURLError struct {
	URL string
	Err error
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid TikTok URL: %s", e.URL)
}

func (e *InvalidURLError) Unwrap() error { return e.Err }

// ScrapeService runs the data-acquisition pipeline: URL normalization,
// concurrent metadata+transcript fetch, and combination into one record.
type ScrapeService struct {
	resolver *tiktokurl.Resolver
	client   *supadata.Client
	log      zerolog.Logger
}

func NewScrapeService(resolver *tiktokurl.Resolver, client *supadata.Client, log zerolog.Logger) *ScrapeService {
	return &ScrapeService{
		resolver: resolver,
		client:   client,
		log:      log.With().Str("component", "scraper").Logger(),
	}
}

// FetchVideoData fetches the complete record for a raw TikTok link.
//
// The metadata and transcript fetches run concurrently against the same
// canonical URL with no ordering guarantee between them; the first failure
// from either cancels the pair and propagates — no partial record is
// returned.
func (s *ScrapeService) FetchVideoData(ctx context.Context, rawURL string) (*model.TikTokData, error) {
	cleaned, err := tiktokurl.Clean(rawURL)
	if err != nil {
		return nil, &InvalidURLError{URL: rawURL, Err: err}
	}

	resolved, err := s.resolver.Resolve(ctx, cleaned)
	if err != nil {
		return nil, &InvalidURLError{URL: rawURL, Err: err}
	}

	videoID := tiktokurl.ExtractVideoID(resolved)
	s.log.Info().
		Str("url_hash", hash.ShortHex(resolved, 12)).
		Str("video_id", videoID).
		Msg("processing TikTok URL")

	start := time.Now()

	var (
		meta       *model.TikTokMetadata
		transcript *model.TikTokTranscript
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.client.Metadata(gctx, resolved)
		meta = m
		return err
	})
	g.Go(func() error {
		t, err := s.client.Transcript(gctx, resolved)
		transcript = t
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scrapeDuration.Observe(time.Since(start).Seconds())

	data := &model.TikTokData{
		URL:         resolved,
		VideoID:     videoID,
		Title:       meta.Title,
		Description: meta.Description,
		AudioURL:    meta.AudioURL,
		Author:      meta.Author,
		Likes:       meta.Likes,
		Views:       meta.Views,
		Shares:      meta.Shares,
		Comments:    meta.Comments,
	}
	if transcript != nil && transcript.Text != "" {
		data.Transcript = &transcript.Text
		data.TranscriptLanguage = transcript.Language
		data.HasTranscript = true
	}
	return data, nil
}
