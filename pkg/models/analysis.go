// Package models defines the shared data types that flow through the
// NewsLens analysis pipeline: requests, fetched source documents, and the
// structured analysis result rendered by the dashboard.
package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// MaxSources is the maximum number of article URLs per analysis request.
const MaxSources = 5

// LengthTier represents the target verbosity of the generated summary.
type LengthTier string

const (
	TierBrief    LengthTier = "brief"
	TierStandard LengthTier = "standard"
	TierDetailed LengthTier = "detailed"
)

// ParseLengthTier normalizes a user-supplied tier string. Unknown or empty
// values fall back to TierStandard.
func ParseLengthTier(s string) LengthTier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "brief":
		return TierBrief
	case "detailed":
		return TierDetailed
	default:
		return TierStandard
	}
}

// AnalysisRequest represents one user submission: up to MaxSources article
// URLs (order-significant, duplicates allowed) and a summary length tier.
type AnalysisRequest struct {
	URLs   []string   `json:"urls"`
	Length LengthTier `json:"length"`
}

// Validate checks URL count and scheme. It does not dedupe: submitting the
// same URL twice is allowed and produces two source entries.
func (r *AnalysisRequest) Validate() error {
	if len(r.URLs) == 0 {
		return fmt.Errorf("at least one URL is required")
	}
	if len(r.URLs) > MaxSources {
		return fmt.Errorf("too many URLs: got %d, maximum is %d", len(r.URLs), MaxSources)
	}
	for _, raw := range r.URLs {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid URL %q: %w", raw, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid URL %q: scheme must be http or https", raw)
		}
		if u.Host == "" {
			return fmt.Errorf("invalid URL %q: missing host", raw)
		}
	}
	return nil
}

// FetchStatus indicates whether a source document was retrieved successfully.
type FetchStatus string

const (
	FetchOK     FetchStatus = "ok"
	FetchFailed FetchStatus = "failed"
)

// SourceDocument holds the extracted content of one input URL. A failed
// fetch produces a document with Status FetchFailed and empty Text; it is
// never dropped from the batch so the caller can report per-source errors.
type SourceDocument struct {
	URL           string      `json:"url"`
	Domain        string      `json:"domain"`
	Title         string      `json:"title,omitempty"`
	Text          string      `json:"-"` // article body; excluded from API payloads
	ContentLength int         `json:"content_length"`
	Status        FetchStatus `json:"status"`
	Error         string      `json:"error,omitempty"`
	LoadedAt      time.Time   `json:"loaded_at"`
}

// Succeeded reports whether the document carries usable text.
func (d *SourceDocument) Succeeded() bool {
	return d.Status == FetchOK && d.Text != ""
}

// Sentiment holds the model's overall emotional-tone assessment.
type Sentiment struct {
	Label      string  `json:"label"`      // "Positive", "Negative", "Neutral", "Mixed"
	Score      float64 `json:"score"`      // -1.0 (very negative) to +1.0 (very positive)
	Confidence float64 `json:"confidence"` // 0.0 to 1.0
	Intensity  float64 `json:"intensity"`  // emotional intensity, 0.0 to 1.0
}

// Bias holds the model's political-bias and content-quality assessment.
type Bias struct {
	Label             string  `json:"label"`      // "Left", "Center-Left", "Center", "Center-Right", "Right", "Unknown"
	Confidence        float64 `json:"confidence"` // 0.0 to 1.0
	FactualDensity    float64 `json:"factual_density"`
	OpinionRatio      float64 `json:"opinion_ratio"`
	EmotionalLanguage bool    `json:"emotional_language"`
}

// EntityType categorizes an extracted entity.
type EntityType string

const (
	EntityPerson       EntityType = "person"
	EntityOrganization EntityType = "organization"
	EntityLocation     EntityType = "location"
	EntityEvent        EntityType = "event"
)

// Entity is a named entity the model extracted from the articles.
type Entity struct {
	Name string     `json:"name"`
	Type EntityType `json:"type"`
}

// SourceScore is the per-source credibility entry. The pipeline guarantees
// one entry per successfully fetched document; failed fetches appear in
// SourceReport.Sources with an Error and are excluded from scoring.
type SourceScore struct {
	URL           string  `json:"url"`
	Domain        string  `json:"domain"`
	Credibility   float64 `json:"credibility"` // 0 to 10
	ContentLength int     `json:"content_length"`
	Error         string  `json:"error,omitempty"`
}

// SourceReport aggregates per-source metadata for the dashboard.
type SourceReport struct {
	Sources         []SourceScore `json:"sources"`
	AvgCredibility  float64       `json:"avg_credibility"`
	TotalSources    int           `json:"total_sources"`
	SuccessfulLoads int           `json:"successful_loads"`
}

// Scored returns only the entries that carry a credibility score,
// i.e. the successfully fetched sources.
func (r *SourceReport) Scored() []SourceScore {
	scored := make([]SourceScore, 0, len(r.Sources))
	for _, s := range r.Sources {
		if s.Error == "" {
			scored = append(scored, s)
		}
	}
	return scored
}

// TopicWeight is one slice of the topic distribution.
type TopicWeight struct {
	Topic   string  `json:"topic"`
	Percent float64 `json:"percent"` // 0 to 100
}

// Similarity holds the locally computed pairwise source-similarity data.
type Similarity struct {
	Matrix             [][]float64 `json:"matrix,omitempty"` // N×N, 1.0 on the diagonal
	UniqueContentRatio float64     `json:"unique_content_ratio"`
	DuplicatesFound    bool        `json:"duplicates_found"`
}

// AnalysisResult is the complete output of one pipeline run. It is built
// once from the parsed model response, read-only thereafter, and lives only
// for the session — nothing is persisted across requests.
type AnalysisResult struct {
	Summary     string        `json:"summary"`
	Keywords    []string      `json:"keywords,omitempty"`
	Sentiment   Sentiment     `json:"sentiment"`
	Bias        Bias          `json:"bias"`
	Tone        string        `json:"tone"`
	Entities    []Entity      `json:"entities,omitempty"`
	Sources     SourceReport  `json:"sources"`
	Topics      []TopicWeight `json:"topics,omitempty"`
	Similarity  Similarity    `json:"similarity"`
	RawResponse string        `json:"raw_response,omitempty"`
	GeneratedAt time.Time     `json:"generated_at"`
}
