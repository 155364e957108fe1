package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// ── LengthTier Tests ──

func TestParseLengthTier(t *testing.T) {
	cases := []struct {
		in   string
		want LengthTier
	}{
		{"brief", TierBrief},
		{"Brief", TierBrief},
		{"  DETAILED ", TierDetailed},
		{"standard", TierStandard},
		{"", TierStandard},
		{"bogus", TierStandard},
	}
	for _, c := range cases {
		if got := ParseLengthTier(c.in); got != c.want {
			t.Errorf("ParseLengthTier(%q): got %q, want %q", c.in, got, c.want)
		}
	}
}

// ── AnalysisRequest Tests ──

func TestAnalysisRequestValidate(t *testing.T) {
	valid := AnalysisRequest{
		URLs:   []string{"https://example.com/a", "http://example.org/b"},
		Length: TierStandard,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid request: unexpected error: %v", err)
	}

	empty := AnalysisRequest{}
	if err := empty.Validate(); err == nil {
		t.Fatal("empty request should fail validation")
	}

	tooMany := AnalysisRequest{URLs: make([]string, MaxSources+1)}
	for i := range tooMany.URLs {
		tooMany.URLs[i] = "https://example.com/"
	}
	if err := tooMany.Validate(); err == nil {
		t.Fatal("request with more than MaxSources URLs should fail")
	}

	badScheme := AnalysisRequest{URLs: []string{"ftp://example.com/file"}}
	if err := badScheme.Validate(); err == nil {
		t.Fatal("non-http scheme should fail validation")
	}

	noHost := AnalysisRequest{URLs: []string{"https:///path-only"}}
	if err := noHost.Validate(); err == nil {
		t.Fatal("URL without host should fail validation")
	}
}

func TestAnalysisRequestAllowsDuplicates(t *testing.T) {
	req := AnalysisRequest{
		URLs: []string{"https://example.com/a", "https://example.com/a"},
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("duplicate URLs must be allowed: %v", err)
	}
}

// ── SourceDocument Tests ──

func TestSourceDocumentSucceeded(t *testing.T) {
	ok := SourceDocument{Status: FetchOK, Text: "article body"}
	if !ok.Succeeded() {
		t.Error("document with text and FetchOK should succeed")
	}

	failed := SourceDocument{Status: FetchFailed, Error: "timeout"}
	if failed.Succeeded() {
		t.Error("failed fetch should not succeed")
	}

	// A 200 response with no extractable text still counts as a failure.
	emptyText := SourceDocument{Status: FetchOK, Text: ""}
	if emptyText.Succeeded() {
		t.Error("empty extracted text should not succeed")
	}
}

func TestSourceDocumentTextExcludedFromJSON(t *testing.T) {
	doc := SourceDocument{
		URL:      "https://example.com/a",
		Text:     "full article body that should stay out of API payloads",
		Status:   FetchOK,
		LoadedAt: time.Now(),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "full article body") {
		t.Error("document text must not be serialized")
	}
}

// ── SourceReport Tests ──

func TestSourceReportScored(t *testing.T) {
	report := SourceReport{
		Sources: []SourceScore{
			{Domain: "reuters.com", Credibility: 9.5},
			{Domain: "bad.example", Error: "connection refused"},
			{Domain: "bbc.com", Credibility: 9.2},
		},
	}
	scored := report.Scored()
	if len(scored) != 2 {
		t.Fatalf("Scored: got %d entries, want 2", len(scored))
	}
	for _, s := range scored {
		if s.Error != "" {
			t.Errorf("scored entry %q should have no error", s.Domain)
		}
	}
}

// ── AnalysisResult Tests ──

func TestAnalysisResultJSONRoundtrip(t *testing.T) {
	result := AnalysisResult{
		Summary:  "Two sources report the same development.",
		Keywords: []string{"economy", "policy"},
		Sentiment: Sentiment{
			Label: "Negative", Score: -0.4, Confidence: 0.8, Intensity: 0.6,
		},
		Bias: Bias{
			Label: "Center", Confidence: 0.7, FactualDensity: 0.8, OpinionRatio: 0.2,
		},
		Tone: "Objective",
		Entities: []Entity{
			{Name: "Jane Doe", Type: EntityPerson},
			{Name: "Acme Corp", Type: EntityOrganization},
		},
		Sources: SourceReport{
			Sources:         []SourceScore{{Domain: "reuters.com", Credibility: 9.5}},
			AvgCredibility:  9.5,
			TotalSources:    1,
			SuccessfulLoads: 1,
		},
		Topics: []TopicWeight{{Topic: "economy", Percent: 60}, {Topic: "politics", Percent: 40}},
		Similarity: Similarity{
			Matrix:             [][]float64{{1.0}},
			UniqueContentRatio: 1.0,
		},
		GeneratedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded AnalysisResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Sentiment.Score != result.Sentiment.Score {
		t.Errorf("sentiment score: got %v, want %v", decoded.Sentiment.Score, result.Sentiment.Score)
	}
	if len(decoded.Entities) != 2 || decoded.Entities[0].Type != EntityPerson {
		t.Errorf("entities not preserved: %+v", decoded.Entities)
	}
	if len(decoded.Topics) != 2 {
		t.Errorf("topics not preserved: %+v", decoded.Topics)
	}
}
