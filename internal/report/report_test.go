package report

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/seenimoa/newslens/pkg/models"
)

func sampleResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		Summary:  "Leaders met at the summit.\n\nA trade deal was announced.",
		Keywords: []string{"summit", "trade"},
		Sentiment: models.Sentiment{
			Label: "Positive", Score: 0.6, Confidence: 0.9, Intensity: 0.3,
		},
		Bias: models.Bias{
			Label: "Center", Confidence: 0.7, FactualDensity: 0.8, OpinionRatio: 0.2,
		},
		Tone: "Objective",
		Entities: []models.Entity{
			{Name: "G20", Type: models.EntityOrganization},
		},
		Sources: models.SourceReport{
			Sources: []models.SourceScore{
				{URL: "https://reuters.com/a", Domain: "reuters.com", Credibility: 9.5, ContentLength: 3000},
				{URL: "https://bbc.com/b", Domain: "bbc.com", Credibility: 9.2, ContentLength: 2500},
				{URL: "https://dead.example/c", Domain: "dead.example", Error: "timeout"},
			},
			AvgCredibility:  9.4,
			TotalSources:    3,
			SuccessfulLoads: 2,
		},
		Topics: []models.TopicWeight{
			{Topic: "Trade", Percent: 70},
			{Topic: "Diplomacy", Percent: 30},
		},
		Similarity: models.Similarity{
			Matrix:             [][]float64{{1, 0.3}, {0.3, 1}},
			UniqueContentRatio: 0.7,
		},
		GeneratedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

// ════════════════════════════════════════════════════════════════════
// Charts
// ════════════════════════════════════════════════════════════════════

func TestSentimentGauge(t *testing.T) {
	svg := SentimentGauge(models.Sentiment{Label: "Positive", Score: 0.6, Confidence: 0.9}, 240)

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not a complete SVG document")
	}
	if !strings.Contains(svg, "0.60") {
		t.Error("score not rendered")
	}
	if !strings.Contains(svg, "Positive") {
		t.Error("label not rendered")
	}
	if !strings.Contains(svg, "#4caf50") {
		t.Error("positive score should render green")
	}

	negative := SentimentGauge(models.Sentiment{Label: "Negative", Score: -0.8}, 240)
	if !strings.Contains(negative, "#ef5350") {
		t.Error("negative score should render red")
	}
}

func TestSentimentGaugeClampsScore(t *testing.T) {
	svg := SentimentGauge(models.Sentiment{Label: "Mixed", Score: 5}, 0)
	if !strings.Contains(svg, "1.00") {
		t.Error("score not clamped to 1.0")
	}
}

func TestBiasRadar(t *testing.T) {
	svg := BiasRadar(models.Bias{
		Label: "Center", Confidence: 0.7, FactualDensity: 0.8, OpinionRatio: 0.2,
	}, 8.5, ChartConfig{})

	if !strings.Contains(svg, "Content Quality Metrics") {
		t.Error("missing title")
	}
	for _, axis := range radarAxes {
		if !strings.Contains(svg, axis) {
			t.Errorf("missing axis %q", axis)
		}
	}
	if !strings.Contains(svg, "<polygon") {
		t.Error("no polygon rendered")
	}
}

func TestCredibilityBarChart(t *testing.T) {
	svg := CredibilityBarChart(sampleResult().Sources, ChartConfig{})

	if !strings.Contains(svg, "reuters.com") || !strings.Contains(svg, "bbc.com") {
		t.Error("domains missing")
	}
	// Failed source has no bar.
	if strings.Contains(svg, "dead.example") {
		t.Error("unscored source rendered")
	}
	// Both scores are 8+, so bars are green.
	if !strings.Contains(svg, "#4caf50") {
		t.Error("high scores should render green")
	}

	empty := CredibilityBarChart(models.SourceReport{}, ChartConfig{})
	if !strings.Contains(empty, "No source data") {
		t.Error("empty report should render placeholder")
	}
}

func TestCredibilityColor(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{9.5, "#4caf50"},
		{7.0, "#ff9800"},
		{4.0, "#ef5350"},
	}
	for _, c := range cases {
		if got := credibilityColor(c.score); got != c.want {
			t.Errorf("credibilityColor(%v) = %q, want %q", c.score, got, c.want)
		}
	}
}

func TestTopicPieChart(t *testing.T) {
	svg := TopicPieChart([]models.TopicWeight{
		{Topic: "Trade", Percent: 70},
		{Topic: "Diplomacy", Percent: 30},
	}, ChartConfig{})

	if !strings.Contains(svg, "Trade (70%)") || !strings.Contains(svg, "Diplomacy (30%)") {
		t.Errorf("slice labels missing: %.200s", svg)
	}

	empty := TopicPieChart(nil, ChartConfig{})
	if !strings.Contains(empty, "No topics identified") {
		t.Error("empty topics should render placeholder")
	}
}

func TestNormalizeWeights(t *testing.T) {
	weights := normalizeWeights([]models.TopicWeight{
		{Topic: "a", Percent: 60},
		{Topic: "b", Percent: 0},
		{Topic: "c", Percent: 0},
	})

	var sum float64
	for _, w := range weights {
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("weights sum to %v", sum)
	}
	if weights[1] != weights[2] {
		t.Errorf("unassigned topics should share equally: %v", weights)
	}
	if weights[0] <= weights[1] {
		t.Errorf("assigned topic should dominate: %v", weights)
	}
}

func TestSimilarityHeatmap(t *testing.T) {
	sim := models.Similarity{
		Matrix: [][]float64{{1, 0.75}, {0.75, 1}},
	}
	svg := SimilarityHeatmap(sim, []string{"reuters.com", "bbc.com"}, ChartConfig{})

	if !strings.Contains(svg, "0.75") {
		t.Error("cell value missing")
	}
	if !strings.Contains(svg, "reuters.com") {
		t.Error("domain label missing")
	}

	empty := SimilarityHeatmap(models.Similarity{}, nil, ChartConfig{})
	if !strings.Contains(empty, "at least 2 sources") {
		t.Error("empty matrix should render placeholder")
	}
}

func TestEscapeXML(t *testing.T) {
	got := escapeXML(`<b>"A & B"</b>`)
	want := "&lt;b&gt;&quot;A &amp; B&quot;&lt;/b&gt;"
	if got != want {
		t.Errorf("escapeXML: %q", got)
	}
}

// ════════════════════════════════════════════════════════════════════
// HTML report
// ════════════════════════════════════════════════════════════════════

func TestGenerateHTML(t *testing.T) {
	html, err := GenerateHTML(sampleResult(), DefaultReportConfig())
	if err != nil {
		t.Fatalf("GenerateHTML: %v", err)
	}

	for _, want := range []string{
		"<!DOCTYPE html>",
		"News Analysis Report",
		"Leaders met at the summit.",
		"reuters.com",
		"9.5/10",
		"timeout",
		"2 of 3 sources analyzed",
		"<svg",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestGenerateHTMLEscapesSummary(t *testing.T) {
	r := sampleResult()
	r.Summary = `<script>alert("x")</script>`

	html, err := GenerateHTML(r, DefaultReportConfig())
	if err != nil {
		t.Fatalf("GenerateHTML: %v", err)
	}
	if strings.Contains(html, "<script>alert") {
		t.Fatal("summary not escaped")
	}
}

// ════════════════════════════════════════════════════════════════════
// Markdown export
// ════════════════════════════════════════════════════════════════════

func TestGenerateMarkdown(t *testing.T) {
	md := GenerateMarkdown(sampleResult())

	for _, want := range []string{
		"# News Analysis Summary",
		"Leaders met at the summit.",
		"**Sentiment**: Positive",
		"**Average credibility**: 9.4/10",
		"[reuters.com](https://reuters.com/a)",
		"failed: timeout",
		"summit, trade",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}
