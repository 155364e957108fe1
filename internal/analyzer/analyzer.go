// Package analyzer orchestrates the analysis pipeline: load documents,
// assemble the prompt, call the model, parse the response, and attach the
// locally computed source metrics.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/seenimoa/newslens/internal/parser"
	"github.com/seenimoa/newslens/internal/prompt"
	"github.com/seenimoa/newslens/pkg/models"
)

// ErrNoSources is returned when none of the requested URLs loaded. The
// model is never called in that case.
var ErrNoSources = errors.New("analyzer: no sources could be loaded")

// NoSourcesError carries the per-URL diagnostics alongside ErrNoSources.
type NoSourcesError struct {
	Docs []models.SourceDocument
}

func (e *NoSourcesError) Error() string {
	return fmt.Sprintf("analyzer: no sources could be loaded (%d attempted)", len(e.Docs))
}

func (e *NoSourcesError) Unwrap() error { return ErrNoSources }

// DocumentLoader fetches the requested URLs into source documents.
type DocumentLoader interface {
	LoadAll(ctx context.Context, urls []string) []models.SourceDocument
}

// ModelClient submits one assembled prompt and returns the raw response.
type ModelClient interface {
	Submit(ctx context.Context, prompt string) (string, error)
}

// ProgressFunc receives pipeline stage updates. Stage is one of
// "loading", "analyzing", "parsing", "done", "failed".
type ProgressFunc func(stage, detail string)

// Analyzer runs the full pipeline for one request at a time. It holds no
// state between requests.
type Analyzer struct {
	loader   DocumentLoader
	client   ModelClient
	progress ProgressFunc
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithProgress registers a stage callback, used by the API layer to stream
// progress to the dashboard.
func WithProgress(fn ProgressFunc) Option {
	return func(a *Analyzer) { a.progress = fn }
}

// New creates an Analyzer.
func New(loader DocumentLoader, client ModelClient, opts ...Option) *Analyzer {
	a := &Analyzer{loader: loader, client: client}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Analyzer) report(stage, detail string) {
	if a.progress != nil {
		a.progress(stage, detail)
	}
}

// Analyze runs the pipeline for one request. Per-source fetch failures are
// recorded in the result; a model call failure is terminal.
func (a *Analyzer) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a.report("loading", fmt.Sprintf("fetching %d sources", len(req.URLs)))
	docs := a.loader.LoadAll(ctx, req.URLs)

	var loaded []models.SourceDocument
	for _, d := range docs {
		if d.Succeeded() {
			loaded = append(loaded, d)
		} else {
			log.Printf("analyzer: source %s failed: %s", d.URL, d.Error)
		}
	}
	if len(loaded) == 0 {
		a.report("failed", "no sources loaded")
		return nil, &NoSourcesError{Docs: docs}
	}

	p, err := prompt.Assemble(docs, req.Length)
	if err != nil {
		return nil, err
	}

	a.report("analyzing", fmt.Sprintf("submitting %d sources to the model", len(loaded)))
	raw, err := a.client.Submit(ctx, p)
	if err != nil {
		a.report("failed", err.Error())
		return nil, fmt.Errorf("model call: %w", err)
	}

	a.report("parsing", "extracting analysis fields")
	parsed := parser.Parse(raw, len(loaded))

	result := &models.AnalysisResult{
		Summary:     parsed.Summary,
		Keywords:    parsed.Keywords,
		Sentiment:   parsed.Sentiment,
		Bias:        parsed.Bias,
		Tone:        parsed.Tone,
		Entities:    parsed.Entities,
		Sources:     buildSourceReport(docs, loaded, parsed.Credibility),
		Topics:      parsed.Topics,
		Similarity:  computeSimilarity(texts(loaded)),
		RawResponse: raw,
		GeneratedAt: time.Now(),
	}

	a.report("done", "analysis complete")
	return result, nil
}

// buildSourceReport rolls up per-source scores and diagnostics. Every
// successfully loaded document gets exactly one credibility entry; model
// scores win, the domain prior fills in when the model skipped a source.
// Failed documents appear with their error and no score.
func buildSourceReport(all, loaded []models.SourceDocument, credibility []float64) models.SourceReport {
	report := models.SourceReport{
		Sources:         make([]models.SourceScore, 0, len(all)),
		TotalSources:    len(all),
		SuccessfulLoads: len(loaded),
	}

	// Successful documents keep the order the prompt numbered them in, so
	// credibility[i] belongs to the i-th successful document.
	var sum float64
	li := 0
	for _, d := range all {
		s := models.SourceScore{
			URL:           d.URL,
			Domain:        d.Domain,
			ContentLength: d.ContentLength,
			Error:         d.Error,
		}
		if d.Succeeded() {
			score := parser.DomainCredibility(d.Domain)
			if li < len(credibility) && credibility[li] >= 0 {
				score = credibility[li]
			}
			li++
			s.Credibility = score
			sum += score
		}
		report.Sources = append(report.Sources, s)
	}

	if len(loaded) > 0 {
		report.AvgCredibility = math.Round(sum/float64(len(loaded))*10) / 10
	}
	return report
}

func texts(docs []models.SourceDocument) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Text
	}
	return out
}
