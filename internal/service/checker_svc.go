package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lukajvnic/Avocado/internal/llm"
	"github.com/lukajvnic/Avocado/internal/model"
)

const checkerSystemPrompt = `You are a meticulous fact checker reviewing short-form video content.
Given a video's metadata and transcript, identify the specific factual claims it makes, assess each one,
and rate the overall credibility of the video.

Respond with JSON only, no prose, using exactly this shape:
{
  "credibility_score": <float 0.0-1.0, 1.0 = fully credible>,
  "summary": "<one or two sentence overview of your findings>",
  "claims": [
    {
      "claim": "<the claim as stated in the video>",
      "is_factual": <true|false|null if unverifiable>,
      "verification": "<why the claim is true, false, or misleading>",
      "importance": <float 0.0-1.0, how central the claim is to the video>,
      "sources": [{"title": "<article title>", "source": "<publication name>"}]
    }
  ]
}`

// llmVerdict is the JSON structure expected back from the model.
type llmVerdict struct {
	CredibilityScore float64 `json:"credibility_score"`
	Summary          string  `json:"summary"`
	Claims           []struct {
		Claim        string  `json:"claim"`
		IsFactual    *bool   `json:"is_factual"`
		Verification string  `json:"verification"`
		Importance   float64 `json:"importance"`
		Sources      []struct {
			Title  string `json:"title"`
			Source string `json:"source"`
		} `json:"sources"`
	} `json:"claims"`
}

// FactCheckService turns a scraped video record into a structured credibility
// assessment via one LLM call.
type FactCheckService struct {
	llm *llm.Client
	log zerolog.Logger
}

func NewFactCheckService(client *llm.Client, log zerolog.Logger) *FactCheckService {
	return &FactCheckService{
		llm: client,
		log: log.With().Str("component", "checker").Logger(),
	}
}

// AnalyzeCredibility runs the credibility analysis for a scraped record.
// The record passes through unchanged; video URL, transcript status, analyzed
// text and processing time are stitched onto the parsed model output.
func (s *FactCheckService) AnalyzeCredibility(ctx context.Context, data *model.TikTokData) (*model.FactCheckResult, error) {
	start := time.Now()

	raw, err := s.llm.Complete(ctx, checkerSystemPrompt, buildAnalysisPrompt(data))
	if err != nil {
		return nil, err
	}
	analysisDuration.Observe(time.Since(start).Seconds())

	var verdict llmVerdict
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		return nil, &llm.Error{Kind: llm.KindAPI, Message: fmt.Sprintf("analysis parse failed: %v", err)}
	}

	score := clamp01(verdict.CredibilityScore)

	claims := make([]model.ClaimCheck, 0, len(verdict.Claims))
	for _, c := range verdict.Claims {
		sources := make([]model.ReliableSource, 0, len(c.Sources))
		for _, src := range c.Sources {
			sources = append(sources, model.ReliableSource{
				Title:  src.Title,
				Source: src.Source,
				URL:    model.SearchURL(src.Title, src.Source),
			})
		}
		claims = append(claims, model.ClaimCheck{
			Claim:        c.Claim,
			IsFactual:    c.IsFactual,
			Verification: c.Verification,
			Importance:   clamp01(c.Importance),
			Sources:      sources,
		})
	}

	result := &model.FactCheckResult{
		VideoURL:         data.URL,
		CredibilityScore: score,
		CredibilityLevel: model.LevelForScore(score),
		Summary:          verdict.Summary,
		Claims:           claims,
		HasTranscript:    data.HasTranscript,
		AnalyzedText:     analyzedText(data),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}

	s.log.Info().
		Str("video_id", data.VideoID).
		Float64("score", score).
		Str("level", string(result.CredibilityLevel)).
		Int("claims", len(claims)).
		Msg("credibility analysis finished")

	return result, nil
}

// buildAnalysisPrompt lays out everything known about the video. Missing
// fields are skipped rather than sent as empty placeholders.
func buildAnalysisPrompt(data *model.TikTokData) string {
	var b strings.Builder
	b.WriteString("Video under review:\n")
	writeField(&b, "URL", data.URL)
	if data.Author != nil {
		writeField(&b, "Author", "@"+*data.Author)
	}
	if data.Title != nil {
		writeField(&b, "Title", *data.Title)
	}
	if data.Description != nil {
		writeField(&b, "Description", *data.Description)
	}

	var stats []string
	appendStat(&stats, "views", data.Views)
	appendStat(&stats, "likes", data.Likes)
	appendStat(&stats, "shares", data.Shares)
	appendStat(&stats, "comments", data.Comments)
	if len(stats) > 0 {
		writeField(&b, "Engagement", strings.Join(stats, ", "))
	}

	if data.HasTranscript {
		lang := "unknown"
		if data.TranscriptLanguage != nil {
			lang = *data.TranscriptLanguage
		}
		b.WriteString(fmt.Sprintf("\nTranscript (%s):\n%s\n", lang, *data.Transcript))
	} else {
		b.WriteString("\nNo transcript is available; assess only the metadata above and say so in the summary.\n")
	}
	return b.String()
}

func writeField(b *strings.Builder, name, value string) {
	b.WriteString(name)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}

func appendStat(stats *[]string, name string, value *int64) {
	if value != nil {
		*stats = append(*stats, fmt.Sprintf("%d %s", *value, name))
	}
}

// analyzedText is the text the assessment was based on: the transcript when
// one exists, otherwise the description.
func analyzedText(data *model.TikTokData) *string {
	if data.HasTranscript {
		return data.Transcript
	}
	return data.Description
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
