// Package prompt assembles the analysis prompt sent to the language model.
//
// Assembly is deterministic: identical documents and tier always produce an
// identical prompt. The response contract below is shared with the parser
// package, which locates each field by its section label.
package prompt

import (
	"fmt"
	"strings"

	"github.com/seenimoa/newslens/pkg/models"
)

// ErrNoDocuments is returned when no successfully loaded document is available.
var ErrNoDocuments = fmt.Errorf("prompt: no successfully loaded documents")

// lengthInstruction maps a tier to its word-count target.
func lengthInstruction(tier models.LengthTier) string {
	switch tier {
	case models.TierBrief:
		return "Keep the summary concise and to the point, focusing only on the most critical information. Aim for around 150-200 words total."
	case models.TierDetailed:
		return "Provide a comprehensive and detailed summary, including all relevant nuances and background information. Aim for at least 500 words total."
	default:
		return "Provide a standard length summary, covering key aspects of each news item. Aim for around 300-400 words total."
	}
}

// Assemble builds the single analysis prompt from the successfully loaded
// documents, in input order. Documents that did not load are skipped.
func Assemble(docs []models.SourceDocument, tier models.LengthTier) (string, error) {
	var loaded []models.SourceDocument
	for _, d := range docs {
		if d.Succeeded() {
			loaded = append(loaded, d)
		}
	}
	if len(loaded) == 0 {
		return "", ErrNoDocuments
	}

	var b strings.Builder

	b.WriteString("You are a professional news editor and media analyst. Analyze the news articles below and produce a structured report. ")
	b.WriteString(lengthInstruction(tier))
	b.WriteString("\n\nSOURCES:\n")

	for i, d := range loaded {
		fmt.Fprintf(&b, "\n--- SOURCE %d: %s ---\n", i+1, d.Domain)
		if d.Title != "" {
			fmt.Fprintf(&b, "Title: %s\n", d.Title)
		}
		b.WriteString(d.Text)
		b.WriteString("\n")
	}

	b.WriteString(responseContract(len(loaded)))
	return b.String(), nil
}

// responseContract spells out the labeled sections the model must emit.
// The parser depends on these exact labels.
func responseContract(sources int) string {
	var b strings.Builder

	b.WriteString(`
Respond with exactly the following labeled sections, in this order.

SUMMARY:
The news summary at the requested length, incorporating all sources and
noting where they agree or differ.

KEYWORDS:
Up to 15 keywords and key phrases as a comma-separated list, ordered by
importance. Focus on names, organizations, locations, events and concepts.

SENTIMENT: <Positive|Negative|Neutral|Mixed> | score=<-1.0 to 1.0> | confidence=<0.0 to 1.0> | intensity=<0.0 to 1.0>

BIAS: <Left|Center-Left|Center|Center-Right|Right|Unknown> | confidence=<0.0 to 1.0> | factual_density=<0.0 to 1.0> | opinion_ratio=<0.0 to 1.0> | emotional_language=<true|false>

TONE: <Objective|Sensational|Alarmist|Optimistic|Pessimistic|Neutral>

ENTITIES:
A comma-separated list of the key entities mentioned, each as
Name (person|organization|location|event).

CREDIBILITY:
`)

	for i := 1; i <= sources; i++ {
		fmt.Fprintf(&b, "SOURCE %d: <credibility score from 0.0 to 10.0 for source %d>\n", i, i)
	}

	b.WriteString(`
TOPICS:
The main topics as a comma-separated list with approximate coverage
percentages, each as Topic (NN%). Percentages should sum to roughly 100.

Do not add sections beyond these. Base every judgement only on the source
texts above.
`)
	return b.String()
}
