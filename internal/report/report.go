package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/seenimoa/newslens/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Report Generator — Orchestrates chart + template rendering
// ════════════════════════════════════════════════════════════════════

// ReportConfig controls report generation behaviour.
type ReportConfig struct {
	Title    string      // custom report title (optional)
	Author   string      // author name (optional, default: "NewsLens")
	ChartCfg ChartConfig // chart rendering config
}

// DefaultReportConfig returns sensible defaults.
func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		Author:   "NewsLens",
		ChartCfg: DefaultChartConfig(),
	}
}

// ════════════════════════════════════════════════════════════════════
// Report Data — Flattened for template rendering
// ════════════════════════════════════════════════════════════════════

// SourceRow is one source line in the report table.
type SourceRow struct {
	Domain      string
	URL         string
	Credibility string
	ScoreClass  string // CSS class: score-high, score-mid, score-low
	Length      string
	Error       string
}

// ReportData is the template model passed to the HTML template.
type ReportData struct {
	Title       string
	Author      string
	GeneratedAt string

	Summary  template.HTML
	Keywords []string

	SentimentLabel string
	Tone           string
	BiasLabel      string

	AvgCredibility  string
	TotalSources    int
	SuccessfulLoads int
	UniqueContent   string
	DuplicatesNote  string

	Sources  []SourceRow
	Entities []models.Entity

	// Pre-rendered SVG charts
	SentimentGaugeSVG  template.HTML
	BiasRadarSVG       template.HTML
	CredibilitySVG     template.HTML
	TopicPieSVG        template.HTML
	SimilarityHeatSVG  template.HTML
	HasSimilarityChart bool
}

// GenerateHTML renders the full HTML report for an analysis result.
func GenerateHTML(result *models.AnalysisResult, cfg ReportConfig) (string, error) {
	data := buildReportData(result, cfg)

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

// GenerateMarkdown renders the summary as a downloadable markdown document.
func GenerateMarkdown(result *models.AnalysisResult) string {
	var sb strings.Builder

	sb.WriteString("# News Analysis Summary\n\n")
	fmt.Fprintf(&sb, "*Generated: %s*\n\n", result.GeneratedAt.Format("2006-01-02 15:04 MST"))
	sb.WriteString(result.Summary)
	sb.WriteString("\n\n## Analysis\n\n")
	fmt.Fprintf(&sb, "- **Sentiment**: %s (score %.2f, confidence %.0f%%)\n",
		result.Sentiment.Label, result.Sentiment.Score, result.Sentiment.Confidence*100)
	fmt.Fprintf(&sb, "- **Bias**: %s\n", result.Bias.Label)
	fmt.Fprintf(&sb, "- **Tone**: %s\n", result.Tone)
	fmt.Fprintf(&sb, "- **Average credibility**: %.1f/10\n", result.Sources.AvgCredibility)
	fmt.Fprintf(&sb, "- **Unique content**: %.0f%%\n", result.Similarity.UniqueContentRatio*100)

	if len(result.Keywords) > 0 {
		fmt.Fprintf(&sb, "\n**Keywords**: %s\n", strings.Join(result.Keywords, ", "))
	}

	sb.WriteString("\n## Sources\n\n")
	for _, s := range result.Sources.Sources {
		if s.Error != "" {
			fmt.Fprintf(&sb, "- %s — failed: %s\n", s.URL, s.Error)
			continue
		}
		fmt.Fprintf(&sb, "- [%s](%s) — credibility %.1f/10\n", s.Domain, s.URL, s.Credibility)
	}

	return sb.String()
}

// buildReportData flattens an AnalysisResult into the template model and
// pre-renders all charts.
func buildReportData(r *models.AnalysisResult, cfg ReportConfig) ReportData {
	title := cfg.Title
	if title == "" {
		title = "News Analysis Report"
	}
	author := cfg.Author
	if author == "" {
		author = "NewsLens"
	}

	d := ReportData{
		Title:           title,
		Author:          author,
		GeneratedAt:     r.GeneratedAt.Format("02 Jan 2006 15:04 MST"),
		Summary:         summaryHTML(r.Summary),
		Keywords:        r.Keywords,
		SentimentLabel:  r.Sentiment.Label,
		Tone:            r.Tone,
		BiasLabel:       r.Bias.Label,
		AvgCredibility:  fmt.Sprintf("%.1f", r.Sources.AvgCredibility),
		TotalSources:    r.Sources.TotalSources,
		SuccessfulLoads: r.Sources.SuccessfulLoads,
		UniqueContent:   fmt.Sprintf("%.0f%%", r.Similarity.UniqueContentRatio*100),
		Entities:        r.Entities,
	}

	if r.Similarity.DuplicatesFound {
		d.DuplicatesNote = "Near-duplicate content detected across sources."
	}

	for _, s := range r.Sources.Sources {
		row := SourceRow{
			Domain: s.Domain,
			URL:    s.URL,
			Error:  s.Error,
			Length: fmt.Sprintf("%d chars", s.ContentLength),
		}
		if s.Error == "" {
			row.Credibility = fmt.Sprintf("%.1f/10", s.Credibility)
			row.ScoreClass = scoreClass(s.Credibility)
		}
		d.Sources = append(d.Sources, row)
	}

	// Charts
	d.SentimentGaugeSVG = template.HTML(SentimentGauge(r.Sentiment, 240))
	d.BiasRadarSVG = template.HTML(BiasRadar(r.Bias, r.Sources.AvgCredibility, ChartConfig{}))
	d.CredibilitySVG = template.HTML(CredibilityBarChart(r.Sources, ChartConfig{}))
	d.TopicPieSVG = template.HTML(TopicPieChart(r.Topics, ChartConfig{}))
	if len(r.Similarity.Matrix) >= 2 {
		d.HasSimilarityChart = true
		d.SimilarityHeatSVG = template.HTML(SimilarityHeatmap(r.Similarity, scoredDomains(r.Sources), ChartConfig{}))
	}

	return d
}

// summaryHTML converts the plain-text summary into paragraph-wrapped HTML,
// escaping the content first.
func summaryHTML(s string) template.HTML {
	var sb strings.Builder
	for _, para := range strings.Split(s, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		sb.WriteString("<p>")
		sb.WriteString(template.HTMLEscapeString(para))
		sb.WriteString("</p>\n")
	}
	return template.HTML(sb.String())
}

func scoreClass(score float64) string {
	switch {
	case score >= 8:
		return "score-high"
	case score >= 6:
		return "score-mid"
	default:
		return "score-low"
	}
}

func scoredDomains(report models.SourceReport) []string {
	scored := report.Scored()
	domains := make([]string, len(scored))
	for i, s := range scored {
		domains[i] = s.Domain
	}
	return domains
}

// ReportTimestamp returns the current time formatted for report filenames.
func ReportTimestamp() string {
	return time.Now().Format("20060102-150405")
}
