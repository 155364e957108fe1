// Package report renders analysis results as SVG charts, an HTML report,
// and markdown/JSON exports.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/seenimoa/newslens/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// SVG Chart Generator — Pure Go, Zero Dependencies
// ════════════════════════════════════════════════════════════════════

// ChartConfig holds rendering parameters for SVG charts.
type ChartConfig struct {
	Width        int    // SVG width in pixels (default: 800)
	Height       int    // SVG height in pixels (default: 400)
	MarginTop    int    // top margin (default: 40)
	MarginRight  int    // right margin (default: 60)
	MarginBottom int    // bottom margin (default: 50)
	MarginLeft   int    // left margin (default: 70)
	BgColor      string // background color (default: "#ffffff")
	GridColor    string // grid line color (default: "#e8e8e8")
	TextColor    string // axis label color (default: "#333333")
	FontSize     int    // axis label font size (default: 11)
	Title        string // chart title
}

// DefaultChartConfig returns sensible defaults for chart rendering.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:        800,
		Height:       400,
		MarginTop:    40,
		MarginRight:  60,
		MarginBottom: 50,
		MarginLeft:   70,
		BgColor:      "#ffffff",
		GridColor:    "#e8e8e8",
		TextColor:    "#333333",
		FontSize:     11,
	}
}

// plotArea returns the usable drawing area dimensions.
func (c ChartConfig) plotArea() (x, y, w, h int) {
	return c.MarginLeft, c.MarginTop,
		c.Width - c.MarginLeft - c.MarginRight,
		c.Height - c.MarginTop - c.MarginBottom
}

// ════════════════════════════════════════════════════════════════════
// Sentiment Gauge
// ════════════════════════════════════════════════════════════════════

// SentimentGauge generates an SVG semicircular gauge for the sentiment
// score. The -1..1 score maps onto the dial left to right; the needle color
// tracks the polarity.
func SentimentGauge(s models.Sentiment, width int) string {
	if width == 0 {
		width = 240
	}
	height := width/2 + 40

	cx := float64(width) / 2
	cy := float64(width)/2 - 10
	radius := float64(width)/2 - 20

	score := s.Score
	if score < -1 {
		score = -1
	}
	if score > 1 {
		score = 1
	}
	// -1..1 → 0..100 dial position
	value := (score + 1) * 50

	angle := math.Pi - (value/100)*math.Pi
	needleX := cx + radius*0.85*math.Cos(angle)
	needleY := cy - radius*0.85*math.Sin(angle)

	var color string
	switch {
	case score < -0.3:
		color = "#ef5350" // negative
	case score > 0.3:
		color = "#4caf50" // positive
	default:
		color = "#ffc107" // neutral zone
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, width, height, width, height))
	sb.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>`, width, height))

	// Background arc
	sb.WriteString(fmt.Sprintf(`<path d="M%.1f,%.1f A%.1f,%.1f 0 0,1 %.1f,%.1f" fill="none" stroke="#e0e0e0" stroke-width="12" stroke-linecap="round"/>`,
		cx-radius, cy, radius, radius, cx+radius, cy))

	// Colored arc up to the needle
	endX := cx + radius*math.Cos(angle)
	endY := cy - radius*math.Sin(angle)
	largeArc := 0
	if value > 50 {
		largeArc = 1
	}
	sb.WriteString(fmt.Sprintf(`<path d="M%.1f,%.1f A%.1f,%.1f 0 %d,1 %.1f,%.1f" fill="none" stroke="%s" stroke-width="12" stroke-linecap="round"/>`,
		cx-radius, cy, radius, radius, largeArc, endX, endY, color))

	// Needle
	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#333" stroke-width="2"/>`,
		cx, cy, needleX, needleY))
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="5" fill="#333"/>`, cx, cy))

	// Score and label
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="22" font-weight="bold" fill="%s" text-anchor="middle">%.2f</text>`,
		cx, cy+25, color, score))
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="11" fill="#666" text-anchor="middle">%s (confidence %.0f%%)</text>`,
		cx, height-5, escapeXML(s.Label), s.Confidence*100))

	sb.WriteString("</svg>")
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// Bias Radar
// ════════════════════════════════════════════════════════════════════

// radarAxes are the content-quality metrics plotted on the bias radar.
var radarAxes = []string{"Factual Density", "Objectivity", "Emotional Neutrality", "Balance", "Credibility"}

// BiasRadar generates a pentagon radar chart of content-quality metrics
// derived from the bias analysis. avgCredibility is on the 0-10 scale.
func BiasRadar(b models.Bias, avgCredibility float64, cfg ChartConfig) string {
	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
		cfg.Width = 400
		cfg.Height = 400
	}
	if cfg.Title == "" {
		cfg.Title = "Content Quality Metrics"
	}

	neutrality := 1.0
	if b.EmotionalLanguage {
		neutrality = 0
	}
	values := []float64{
		clamp01(b.FactualDensity),
		clamp01(1 - b.OpinionRatio),
		neutrality,
		clamp01(b.Confidence),
		clamp01(avgCredibility / 10),
	}

	cx := float64(cfg.Width) / 2
	cy := float64(cfg.Height)/2 + 10
	radius := math.Min(float64(cfg.Width), float64(cfg.Height))/2 - 60

	// axisPoint converts (axis index, 0-1 value) to SVG coordinates.
	// Axis 0 points up; the rest follow clockwise.
	axisPoint := func(i int, v float64) (float64, float64) {
		angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(len(radarAxes))
		return cx + v*radius*math.Cos(angle), cy + v*radius*math.Sin(angle)
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	// Grid rings at 25% steps
	for ring := 1; ring <= 4; ring++ {
		frac := float64(ring) / 4
		var pts []string
		for i := range radarAxes {
			x, y := axisPoint(i, frac)
			pts = append(pts, fmt.Sprintf("%.1f,%.1f", x, y))
		}
		sb.WriteString(fmt.Sprintf(`<polygon points="%s" fill="none" stroke="%s"/>`,
			strings.Join(pts, " "), cfg.GridColor))
	}

	// Spokes and axis labels
	for i, name := range radarAxes {
		x, y := axisPoint(i, 1)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`,
			cx, cy, x, y, cfg.GridColor))
		lx, ly := axisPoint(i, 1.18)
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%d" fill="%s" text-anchor="middle">%s</text>`,
			lx, ly, cfg.FontSize, cfg.TextColor, escapeXML(name)))
	}

	// Value polygon
	var pts []string
	for i, v := range values {
		x, y := axisPoint(i, v)
		pts = append(pts, fmt.Sprintf("%.1f,%.1f", x, y))
	}
	sb.WriteString(fmt.Sprintf(`<polygon points="%s" fill="#2196f3" fill-opacity="0.25" stroke="#2196f3" stroke-width="2"/>`,
		strings.Join(pts, " ")))
	for i, v := range values {
		x, y := axisPoint(i, v)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="#2196f3"/>`, x, y))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// Credibility Bar Chart
// ════════════════════════════════════════════════════════════════════

// CredibilityBarChart generates a horizontal bar chart of per-source
// credibility scores. Bars are green at 8+, orange at 6+, red below.
func CredibilityBarChart(report models.SourceReport, cfg ChartConfig) string {
	scored := report.Scored()
	if len(scored) == 0 {
		return emptySVG(cfg, "No source data available")
	}

	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	cfg.MarginLeft = 150 // wider for domain labels
	if cfg.Title == "" {
		cfg.Title = "Source Credibility Scores"
	}

	px, py, pw, ph := cfg.plotArea()

	barH := float64(ph) / float64(len(scored)) * 0.7
	if barH > 30 {
		barH = 30
	}
	gap := (float64(ph) - barH*float64(len(scored))) / float64(len(scored)+1)

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	// Scale grid 0-10
	for i := 0; i <= 10; i += 2 {
		x := px + pw*i/10
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-dasharray="3,3"/>`,
			x, py, x, py+ph, cfg.GridColor))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="middle">%d</text>`,
			x, py+ph+18, cfg.FontSize, cfg.TextColor, i))
	}

	for i, s := range scored {
		by := float64(py) + gap + float64(i)*(barH+gap)
		color := credibilityColor(s.Credibility)
		bw := s.Credibility / 10 * float64(pw)

		sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%.1f" width="%.1f" height="%.1f" fill="%s" rx="2"/>`,
			px, by, bw, barH, color))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" font-size="%d" fill="%s" text-anchor="end">%s</text>`,
			px-5, by+barH/2+4, cfg.FontSize, cfg.TextColor, escapeXML(s.Domain)))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%d" fill="%s">%.1f</text>`,
			float64(px)+bw+5, by+barH/2+4, cfg.FontSize, cfg.TextColor, s.Credibility))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func credibilityColor(score float64) string {
	switch {
	case score >= 8:
		return "#4caf50"
	case score >= 6:
		return "#ff9800"
	default:
		return "#ef5350"
	}
}

// ════════════════════════════════════════════════════════════════════
// Topic Pie Chart
// ════════════════════════════════════════════════════════════════════

var pieColors = []string{"#2196f3", "#ff9800", "#4caf50", "#e91e63", "#9c27b0", "#00bcd4", "#795548", "#607d8b"}

// TopicPieChart generates a donut chart of the topic distribution. Topics
// without model-assigned percentages share the remainder equally; at most
// eight topics are drawn.
func TopicPieChart(topics []models.TopicWeight, cfg ChartConfig) string {
	if len(topics) == 0 {
		return emptySVG(cfg, "No topics identified")
	}

	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
		cfg.Width = 420
		cfg.Height = 400
	}
	if cfg.Title == "" {
		cfg.Title = "Topic Distribution"
	}
	if len(topics) > 8 {
		topics = topics[:8]
	}

	weights := normalizeWeights(topics)

	cx := float64(cfg.Width) / 2
	cy := float64(cfg.Height)/2 + 10
	outer := math.Min(float64(cfg.Width), float64(cfg.Height))/2 - 70
	inner := outer * 0.45

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	start := -math.Pi / 2
	for i, t := range topics {
		frac := weights[i]
		if frac <= 0 {
			continue
		}
		end := start + 2*math.Pi*frac
		color := pieColors[i%len(pieColors)]
		sb.WriteString(donutSlice(cx, cy, inner, outer, start, end, color))

		// Label at the slice midpoint
		mid := (start + end) / 2
		lx := cx + (outer+18)*math.Cos(mid)
		ly := cy + (outer+18)*math.Sin(mid)
		anchor := "start"
		if math.Cos(mid) < -0.1 {
			anchor = "end"
		} else if math.Abs(math.Cos(mid)) <= 0.1 {
			anchor = "middle"
		}
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%d" fill="%s" text-anchor="%s">%s (%.0f%%)</text>`,
			lx, ly, cfg.FontSize, cfg.TextColor, anchor, escapeXML(t.Topic), frac*100))
		start = end
	}

	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="14" fill="#666" text-anchor="middle">Topics</text>`,
		cx, cy+5))
	sb.WriteString("</svg>")
	return sb.String()
}

// normalizeWeights converts topic percentages to fractions summing to 1.
// Topics with no percentage split the remainder evenly.
func normalizeWeights(topics []models.TopicWeight) []float64 {
	weights := make([]float64, len(topics))
	var assigned float64
	unassigned := 0
	for i, t := range topics {
		if t.Percent > 0 {
			weights[i] = t.Percent
			assigned += t.Percent
		} else {
			unassigned++
		}
	}

	if unassigned > 0 {
		remainder := 100 - assigned
		if remainder < 0 {
			remainder = 0
		}
		share := remainder / float64(unassigned)
		if share <= 0 {
			share = 1
		}
		for i := range weights {
			if weights[i] == 0 {
				weights[i] = share
			}
		}
	}

	var total float64
	for _, w := range weights {
		total += w
	}
	for i := range weights {
		weights[i] /= total
	}
	return weights
}

// donutSlice builds the SVG path for one annular sector.
func donutSlice(cx, cy, inner, outer, start, end float64, color string) string {
	largeArc := 0
	if end-start > math.Pi {
		largeArc = 1
	}
	x1 := cx + outer*math.Cos(start)
	y1 := cy + outer*math.Sin(start)
	x2 := cx + outer*math.Cos(end)
	y2 := cy + outer*math.Sin(end)
	x3 := cx + inner*math.Cos(end)
	y3 := cy + inner*math.Sin(end)
	x4 := cx + inner*math.Cos(start)
	y4 := cy + inner*math.Sin(start)

	return fmt.Sprintf(`<path d="M%.1f,%.1f A%.1f,%.1f 0 %d,1 %.1f,%.1f L%.1f,%.1f A%.1f,%.1f 0 %d,0 %.1f,%.1f Z" fill="%s" stroke="white"/>`,
		x1, y1, outer, outer, largeArc, x2, y2, x3, y3, inner, inner, largeArc, x4, y4, color)
}

// ════════════════════════════════════════════════════════════════════
// Similarity Heatmap
// ════════════════════════════════════════════════════════════════════

// SimilarityHeatmap generates an SVG heatmap of the pairwise source
// similarity matrix. Cell color runs white (0.0) to deep blue (1.0).
func SimilarityHeatmap(sim models.Similarity, domains []string, cfg ChartConfig) string {
	n := len(sim.Matrix)
	if n == 0 {
		return emptySVG(cfg, "Need at least 2 sources for similarity")
	}

	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
		cfg.Width = 460
		cfg.Height = 420
	}
	cfg.MarginLeft = 120
	cfg.MarginBottom = 90
	if cfg.Title == "" {
		cfg.Title = "Content Similarity Matrix"
	}

	px, py, pw, ph := cfg.plotArea()
	cellW := float64(pw) / float64(n)
	cellH := float64(ph) / float64(n)

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := sim.Matrix[i][j]
			x := float64(px) + float64(j)*cellW
			y := float64(py) + float64(i)*cellH

			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="white"/>`,
				x, y, cellW, cellH, heatColor(v)))

			textColor := "#333"
			if v > 0.5 {
				textColor = "#fff"
			}
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%d" fill="%s" text-anchor="middle">%.2f</text>`,
				x+cellW/2, y+cellH/2+4, cfg.FontSize, textColor, v))
		}
	}

	// Row and column labels
	for i := 0; i < n; i++ {
		label := fmt.Sprintf("Source %d", i+1)
		if i < len(domains) && domains[i] != "" {
			label = domains[i]
		}
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" font-size="%d" fill="%s" text-anchor="end">%s</text>`,
			px-5, float64(py)+float64(i)*cellH+cellH/2+4, cfg.FontSize, cfg.TextColor, escapeXML(label)))
		cx := float64(px) + float64(i)*cellW + cellW/2
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="end" transform="rotate(-45,%.1f,%d)">%s</text>`,
			cx, py+ph+15, cfg.FontSize, cfg.TextColor, cx, py+ph+15, escapeXML(label)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// heatColor interpolates white → deep blue for a 0..1 value.
func heatColor(v float64) string {
	v = clamp01(v)
	r := int(255 - v*(255-25))
	g := int(255 - v*(255-118))
	b := int(255 - v*(255-210))
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// ════════════════════════════════════════════════════════════════════
// SVG Helpers
// ════════════════════════════════════════════════════════════════════

func svgHeader(cfg ChartConfig) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)
}

func emptySVG(cfg ChartConfig, msg string) string {
	if cfg.Width == 0 {
		cfg.Width = 400
	}
	if cfg.Height == 0 {
		cfg.Height = 200
	}
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><rect width="%d" height="%d" fill="#f5f5f5"/><text x="%d" y="%d" text-anchor="middle" fill="#999" font-size="14">%s</text></svg>`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height, cfg.Width/2, cfg.Height/2, escapeXML(msg))
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
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
