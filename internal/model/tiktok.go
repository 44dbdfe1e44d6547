package model

// TikTokMetadata holds the metadata half of a video record as returned by the
// Supadata metadata endpoint. Every field is optional — upstream may omit any
// of them depending on the video.
type TikTokMetadata struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	AudioURL    *string `json:"audio_url,omitempty"`
	Author      *string `json:"author,omitempty"`
	Likes       *int64  `json:"likes,omitempty"`
	Views       *int64  `json:"views,omitempty"`
	Shares      *int64  `json:"shares,omitempty"`
	Comments    *int64  `json:"comments,omitempty"`
}

// TikTokTranscript is a video transcript. Text is always non-empty: a video
// whose transcript is missing or empty is represented by a nil *TikTokTranscript,
// never by an empty struct.
type TikTokTranscript struct {
	Text     string  `json:"text"`
	Language *string `json:"language,omitempty"`
}

// TikTokData is the unified record produced by the scrape pipeline: the
// canonical URL, the derived video ID, the metadata fields flattened in, and
// the transcript if one exists. It is the sole input to credibility analysis.
type TikTokData struct {
	URL     string `json:"url"`
	VideoID string `json:"video_id"`

	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	AudioURL    *string `json:"audio_url,omitempty"`
	Author      *string `json:"author,omitempty"`
	Likes       *int64  `json:"likes,omitempty"`
	Views       *int64  `json:"views,omitempty"`
	Shares      *int64  `json:"shares,omitempty"`
	Comments    *int64  `json:"comments,omitempty"`

	Transcript         *string `json:"transcript,omitempty"`
	TranscriptLanguage *string `json:"transcript_language,omitempty"`
	HasTranscript      bool    `json:"has_transcript"`
}
