package model

import (
	"net/url"
	"time"
)

// CredibilityLevel is the categorical credibility assessment.
type CredibilityLevel string

const (
	CredibilityHigh    CredibilityLevel = "high"
	CredibilityMedium  CredibilityLevel = "medium"
	CredibilityLow     CredibilityLevel = "low"
	CredibilityUnknown CredibilityLevel = "unknown"
)

// LevelForScore maps a 0–1 credibility score onto a categorical level.
func LevelForScore(score float64) CredibilityLevel {
	switch {
	case score >= 0.7:
		return CredibilityHigh
	case score >= 0.4:
		return CredibilityMedium
	case score >= 0:
		return CredibilityLow
	default:
		return CredibilityUnknown
	}
}

// ReliableSource is a news source backing a claim verification. URL is derived
// from the title and publication rather than trusted from the model output.
type ReliableSource struct {
	Title  string `json:"title"`
	Source string `json:"source"`
	URL    string `json:"url"`
}

// SearchURL builds a Google "I'm Feeling Lucky" search link for a source so
// the extension can open the article without us trusting model-generated URLs.
func SearchURL(title, source string) string {
	q := url.QueryEscape(title + " " + source)
	return "https://www.google.com/search?q=" + q + "&btnI=1"
}

// ClaimCheck is the analysis of one specific claim made in the video.
type ClaimCheck struct {
	Claim        string           `json:"claim"`
	IsFactual    *bool            `json:"is_factual"`
	Verification string           `json:"verification"`
	Importance   float64          `json:"importance"`
	Sources      []ReliableSource `json:"sources"`
}

// FactCheckResult is the final response for a check request.
type FactCheckResult struct {
	VideoURL         string           `json:"video_url"`
	CredibilityScore float64          `json:"credibility_score"`
	CredibilityLevel CredibilityLevel `json:"credibility_level"`
	Summary          string           `json:"summary,omitempty"`
	Claims           []ClaimCheck     `json:"claims"`
	HasTranscript    bool             `json:"has_transcript"`
	AnalyzedText     *string          `json:"analyzed_text,omitempty"`
	ProcessingTimeMs int64            `json:"processing_time_ms"`
}

// CheckRequest is the body of POST /api/v1/check.
type CheckRequest struct {
	URL string `json:"url"`
}

// CheckRecord is a persisted row of check history.
type CheckRecord struct {
	ID               int64            `json:"id"`
	VideoID          string           `json:"video_id"`
	VideoURL         string           `json:"video_url"`
	CredibilityScore float64          `json:"credibility_score"`
	CredibilityLevel CredibilityLevel `json:"credibility_level"`
	HasTranscript    bool             `json:"has_transcript"`
	ProcessingTimeMs int64            `json:"processing_time_ms"`
	CreatedAt        time.Time        `json:"created_at"`
}
