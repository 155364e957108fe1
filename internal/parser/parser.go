// Package parser extracts the structured analysis fields out of a raw model
// response. Extraction is marker-based: each field lives under a fixed
// section label the prompt asked for. A field the model did not produce
// gets its documented default; the parse never fails as a whole.
package parser

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/seenimoa/newslens/pkg/models"
)

// Result holds the fields recovered from one model response. Credibility is
// indexed by prompt source number (SOURCE 1 at index 0); a missing score is
// recorded as -1 so callers can fall back to the domain prior.
type Result struct {
	Summary     string
	Keywords    []string
	Sentiment   models.Sentiment
	Bias        models.Bias
	Tone        string
	Entities    []models.Entity
	Credibility []float64
	Topics      []models.TopicWeight
}

// Section labels the prompt contract uses. Matched at line starts, with or
// without markdown decoration.
var knownLabels = []string{
	"SUMMARY", "KEYWORDS", "SENTIMENT", "BIAS", "TONE",
	"ENTITIES", "CREDIBILITY", "TOPICS",
}

var (
	labelRe    = regexp.MustCompile(`(?mi)^[#*\s]*(` + strings.Join(knownLabels, "|") + `)[*\s]*:\s*`)
	numberRe   = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	sourceRe   = regexp.MustCompile(`(?mi)^[-*\s]*SOURCE\s+(\d+)\s*:?(.*)$`)
	entityRe   = regexp.MustCompile(`^(.*?)\s*\((person|organization|location|event)s?\)$`)
	topicRe    = regexp.MustCompile(`^(.*?)\s*\(\s*(\d+(?:\.\d+)?)\s*%\s*\)$`)
	fenceRe    = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	boolTrueRe = regexp.MustCompile(`(?i)emotional_language\s*=\s*(true|yes)`)
)

// Parse recovers an analysis Result from raw model output. sources is the
// number of documents the prompt embedded; it sizes the credibility slice.
func Parse(raw string, sources int) *Result {
	r := defaults(sources)

	sections := splitSections(raw)

	if s, ok := sections["SUMMARY"]; ok && strings.TrimSpace(s) != "" {
		r.Summary = strings.TrimSpace(s)
	}
	if s, ok := sections["KEYWORDS"]; ok {
		r.Keywords = parseList(s, 15)
	}
	if s, ok := sections["SENTIMENT"]; ok {
		parseSentiment(s, &r.Sentiment)
	}
	if s, ok := sections["BIAS"]; ok {
		parseBias(s, &r.Bias)
	}
	if s, ok := sections["TONE"]; ok {
		if tone := firstToken(s); tone != "" {
			r.Tone = tone
		}
	}
	if s, ok := sections["ENTITIES"]; ok {
		r.Entities = parseEntities(s)
	}
	if s, ok := sections["CREDIBILITY"]; ok {
		parseCredibility(s, r.Credibility)
	}
	if s, ok := sections["TOPICS"]; ok {
		r.Topics = parseTopics(s)
	}

	// Some models wrap their answer in a JSON object instead of, or on top
	// of, the labeled sections. Merge whatever it carries into the gaps.
	mergeJSON(raw, r)

	// Last resort: the whole response stands in for the summary.
	if r.Summary == "" {
		r.Summary = strings.TrimSpace(raw)
	}
	return r
}

// defaults returns the documented per-field defaults.
func defaults(sources int) *Result {
	cred := make([]float64, sources)
	for i := range cred {
		cred[i] = -1
	}
	return &Result{
		Sentiment: models.Sentiment{Label: "Neutral", Score: 0, Confidence: 0, Intensity: 0},
		Bias: models.Bias{
			Label:          "Unknown",
			Confidence:     0,
			FactualDensity: 0.5,
			OpinionRatio:   0.5,
		},
		Tone:        "Neutral",
		Credibility: cred,
	}
}

// splitSections carves the response into label → body chunks.
func splitSections(raw string) map[string]string {
	sections := make(map[string]string)

	matches := labelRe.FindAllStringSubmatchIndex(raw, -1)
	for i, m := range matches {
		label := strings.ToUpper(raw[m[2]:m[3]])
		start := m[1]
		end := len(raw)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		if _, seen := sections[label]; !seen {
			sections[label] = raw[start:end]
		}
	}
	return sections
}

// ── Field extraction ──

func parseSentiment(s string, out *models.Sentiment) {
	if label := firstToken(s); label != "" {
		out.Label = label
	}
	if v, ok := keyedFloat(s, "score"); ok {
		out.Score = clamp(v, -1, 1)
	}
	if v, ok := keyedFloat(s, "confidence"); ok {
		out.Confidence = clamp(v, 0, 1)
	}
	if v, ok := keyedFloat(s, "intensity"); ok {
		out.Intensity = clamp(v, 0, 1)
	}
}

func parseBias(s string, out *models.Bias) {
	if label := firstToken(s); label != "" {
		out.Label = label
	}
	if v, ok := keyedFloat(s, "confidence"); ok {
		out.Confidence = clamp(v, 0, 1)
	}
	if v, ok := keyedFloat(s, "factual_density"); ok {
		out.FactualDensity = clamp(v, 0, 1)
	}
	if v, ok := keyedFloat(s, "opinion_ratio"); ok {
		out.OpinionRatio = clamp(v, 0, 1)
	}
	out.EmotionalLanguage = boolTrueRe.MatchString(s)
}

// parseCredibility reads "SOURCE n: x" lines. The first numeric token after
// each marker becomes the score, clamped to 0-10. Out-of-range source
// numbers are ignored.
func parseCredibility(s string, scores []float64) {
	for _, m := range sourceRe.FindAllStringSubmatch(s, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 || n > len(scores) {
			continue
		}
		if numStr := numberRe.FindString(m[2]); numStr != "" {
			if v, err := strconv.ParseFloat(numStr, 64); err == nil {
				scores[n-1] = clamp(v, 0, 10)
			}
		}
	}
}

func parseEntities(s string) []models.Entity {
	var entities []models.Entity
	for _, item := range parseList(s, 0) {
		if m := entityRe.FindStringSubmatch(item); m != nil {
			name := strings.TrimSpace(m[1])
			if name != "" {
				entities = append(entities, models.Entity{
					Name: name,
					Type: models.EntityType(strings.ToLower(m[2])),
				})
			}
			continue
		}
		// Untyped entities default to organization, the most common case
		// in news copy.
		entities = append(entities, models.Entity{Name: item, Type: models.EntityOrganization})
	}
	return entities
}

func parseTopics(s string) []models.TopicWeight {
	var topics []models.TopicWeight
	for _, item := range parseList(s, 0) {
		if m := topicRe.FindStringSubmatch(item); m != nil {
			pct, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			topic := strings.TrimSpace(m[1])
			if topic != "" {
				topics = append(topics, models.TopicWeight{
					Topic:   topic,
					Percent: clamp(pct, 0, 100),
				})
			}
			continue
		}
		topics = append(topics, models.TopicWeight{Topic: item})
	}
	return topics
}

// ── JSON fallback ──

// jsonEnvelope mirrors the loose JSON shape some models emit instead of the
// labeled sections. Field names follow what those models actually produce.
type jsonEnvelope struct {
	Summary            string   `json:"summary"`
	OverallSentiment   string   `json:"overall_sentiment"`
	SentimentScore     *float64 `json:"sentiment_score"`
	Confidence         *float64 `json:"confidence"`
	EmotionalIntensity *float64 `json:"emotional_intensity"`
	PoliticalBias      string   `json:"political_bias"`
	BiasConfidence     *float64 `json:"bias_confidence"`
	Tone               string   `json:"tone"`
	EmotionalLanguage  bool     `json:"emotional_language"`
	FactualDensity     *float64 `json:"factual_density"`
	OpinionRatio       *float64 `json:"opinion_ratio"`
	Keywords           []string `json:"keywords"`
	Topics             []string `json:"topics"`
}

// mergeJSON fills gaps in r from a JSON object embedded in the response.
func mergeJSON(raw string, r *Result) {
	blob := extractJSONBlock(raw)
	if blob == "" {
		return
	}
	var env jsonEnvelope
	if err := json.Unmarshal([]byte(blob), &env); err != nil {
		return
	}

	if r.Summary == "" && env.Summary != "" {
		r.Summary = strings.TrimSpace(env.Summary)
	}
	if r.Sentiment.Label == "Neutral" && env.OverallSentiment != "" {
		r.Sentiment.Label = env.OverallSentiment
	}
	if env.SentimentScore != nil && r.Sentiment.Score == 0 {
		r.Sentiment.Score = clamp(*env.SentimentScore, -1, 1)
	}
	if env.Confidence != nil && r.Sentiment.Confidence == 0 {
		r.Sentiment.Confidence = clamp(*env.Confidence, 0, 1)
	}
	if env.EmotionalIntensity != nil && r.Sentiment.Intensity == 0 {
		r.Sentiment.Intensity = clamp(*env.EmotionalIntensity, 0, 1)
	}
	if r.Bias.Label == "Unknown" && env.PoliticalBias != "" {
		r.Bias.Label = env.PoliticalBias
	}
	if env.BiasConfidence != nil && r.Bias.Confidence == 0 {
		r.Bias.Confidence = clamp(*env.BiasConfidence, 0, 1)
	}
	if env.FactualDensity != nil {
		r.Bias.FactualDensity = clamp(*env.FactualDensity, 0, 1)
	}
	if env.OpinionRatio != nil {
		r.Bias.OpinionRatio = clamp(*env.OpinionRatio, 0, 1)
	}
	if env.EmotionalLanguage {
		r.Bias.EmotionalLanguage = true
	}
	if r.Tone == "Neutral" && env.Tone != "" {
		r.Tone = env.Tone
	}
	if len(r.Keywords) == 0 && len(env.Keywords) > 0 {
		r.Keywords = env.Keywords
		if len(r.Keywords) > 15 {
			r.Keywords = r.Keywords[:15]
		}
	}
	if len(r.Topics) == 0 {
		for _, t := range env.Topics {
			r.Topics = append(r.Topics, models.TopicWeight{Topic: t})
		}
	}
}

// extractJSONBlock pulls the first JSON object out of the response, from a
// fenced code block when present, otherwise the outermost brace pair.
func extractJSONBlock(raw string) string {
	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return ""
}

// ── Helpers ──

// parseList splits comma- or newline-separated items. limit 0 means no cap.
func parseList(s string, limit int) []string {
	s = strings.TrimSpace(s)
	var items []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' }) {
		item := strings.Trim(strings.TrimSpace(part), "-*• \t")
		if item == "" {
			continue
		}
		items = append(items, item)
		if limit > 0 && len(items) == limit {
			break
		}
	}
	return items
}

// firstToken returns the leading word of a section body, stripped of
// punctuation. Used for single-label fields like TONE.
func firstToken(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexAny(s, "|\n"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), ".*"))
}

// keyedFloat finds "key=<number>" in a section body.
func keyedFloat(s, key string) (float64, bool) {
	re := regexp.MustCompile(`(?i)` + key + `\s*=\s*(-?\d+(?:\.\d+)?)`)
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
