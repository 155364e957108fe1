package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/seenimoa/newslens/internal/analyzer"
	"github.com/seenimoa/newslens/internal/config"
	"github.com/seenimoa/newslens/pkg/models"
)

// fakePipeline returns a canned result or error.
type fakePipeline struct {
	result *models.AnalysisResult
	err    error
}

func (f *fakePipeline) Analyze(_ context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func testResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		Summary:   "Two sources agree on the outcome.",
		Sentiment: models.Sentiment{Label: "Positive", Score: 0.4, Confidence: 0.8},
		Bias:      models.Bias{Label: "Center"},
		Tone:      "Objective",
		Sources: models.SourceReport{
			Sources: []models.SourceScore{
				{URL: "https://reuters.com/a", Domain: "reuters.com", Credibility: 9.5},
			},
			AvgCredibility:  9.5,
			TotalSources:    1,
			SuccessfulLoads: 1,
		},
		Similarity:  models.Similarity{UniqueContentRatio: 1.0},
		GeneratedAt: time.Now(),
	}
}

func newTestServer(t *testing.T, p Pipeline) *Server {
	t.Helper()
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	srv, err := NewServer(cfg, WithPipeline(p))
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

// ════════════════════════════════════════════════════════════════════
// Health
// ════════════════════════════════════════════════════════════════════

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, &fakePipeline{result: testResult()})

	for _, path := range []string{"/health", "/api/v1/health"} {
		rec := doJSON(t, srv, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d", path, rec.Code)
		}
		resp := decodeResponse(t, rec)
		if !resp.Success {
			t.Errorf("%s: success=false", path)
		}
	}
}

// ════════════════════════════════════════════════════════════════════
// Analyze
// ════════════════════════════════════════════════════════════════════

func TestHandleAnalyze(t *testing.T) {
	srv := newTestServer(t, &fakePipeline{result: testResult()})

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/analyze", AnalyzeRequest{
		URLs: []string{"https://reuters.com/a"}, Length: "Standard",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	body := rec.Body.String()
	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Fatalf("success=false: %s", resp.Error)
	}
	if !strings.Contains(body, "Two sources agree") {
		t.Error("result data missing from response")
	}
}

func TestHandleAnalyzeInvalidBody(t *testing.T) {
	srv := newTestServer(t, &fakePipeline{result: testResult()})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestHandleAnalyzeValidation(t *testing.T) {
	srv := newTestServer(t, &fakePipeline{result: testResult()})

	cases := []AnalyzeRequest{
		{URLs: nil},
		{URLs: []string{"ftp://bad.scheme/x"}},
		{URLs: []string{"https://a.example/1", "https://a.example/2", "https://a.example/3",
			"https://a.example/4", "https://a.example/5", "https://a.example/6"}},
	}
	for i, c := range cases {
		rec := doJSON(t, srv, http.MethodPost, "/api/v1/analyze", c)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("case %d: status %d", i, rec.Code)
		}
	}
}

func TestHandleAnalyzeNoSources(t *testing.T) {
	srv := newTestServer(t, &fakePipeline{err: &analyzer.NoSourcesError{
		Docs: []models.SourceDocument{
			{URL: "https://dead.example/x", Status: models.FetchFailed, Error: "connection refused"},
		},
	}})

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/analyze", AnalyzeRequest{
		URLs: []string{"https://dead.example/x"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", rec.Code)
	}
	// Per-source diagnostics ride along.
	if !strings.Contains(rec.Body.String(), "connection refused") {
		t.Error("diagnostics missing from 422 payload")
	}
}

func TestHandleAnalyzeModelFailure(t *testing.T) {
	srv := newTestServer(t, &fakePipeline{err: errors.New("model call: rate limited")})

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/analyze", AnalyzeRequest{
		URLs: []string{"https://reuters.com/a"},
	})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Success || resp.Error == "" {
		t.Errorf("unexpected envelope: %+v", resp)
	}
}

// ════════════════════════════════════════════════════════════════════
// Report endpoints
// ════════════════════════════════════════════════════════════════════

func TestHandleReportBeforeAnyAnalysis(t *testing.T) {
	srv := newTestServer(t, &fakePipeline{result: testResult()})

	for _, path := range []string{
		"/api/v1/report",
		"/api/v1/report/summary.md",
		"/api/v1/report/analysis.json",
	} {
		rec := doJSON(t, srv, http.MethodGet, path, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: status %d", path, rec.Code)
		}
	}
}

func TestHandleReportAfterAnalysis(t *testing.T) {
	srv := newTestServer(t, &fakePipeline{result: testResult()})

	if rec := doJSON(t, srv, http.MethodPost, "/api/v1/analyze", AnalyzeRequest{
		URLs: []string{"https://reuters.com/a"},
	}); rec.Code != http.StatusOK {
		t.Fatalf("analyze: status %d", rec.Code)
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/report", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("report: status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("content type: %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "Two sources agree") {
		t.Error("report missing summary")
	}
}

func TestHandleReportDownloads(t *testing.T) {
	srv := newTestServer(t, &fakePipeline{result: testResult()})
	doJSON(t, srv, http.MethodPost, "/api/v1/analyze", AnalyzeRequest{
		URLs: []string{"https://reuters.com/a"},
	})

	md := doJSON(t, srv, http.MethodGet, "/api/v1/report/summary.md", nil)
	if md.Code != http.StatusOK {
		t.Fatalf("summary.md: status %d", md.Code)
	}
	if !strings.Contains(md.Header().Get("Content-Disposition"), "attachment") {
		t.Error("summary.md missing attachment disposition")
	}
	if !strings.Contains(md.Body.String(), "# News Analysis Summary") {
		t.Error("markdown content missing")
	}

	js := doJSON(t, srv, http.MethodGet, "/api/v1/report/analysis.json", nil)
	if js.Code != http.StatusOK {
		t.Fatalf("analysis.json: status %d", js.Code)
	}
	var result models.AnalysisResult
	if err := json.NewDecoder(js.Body).Decode(&result); err != nil {
		t.Fatalf("decode analysis.json: %v", err)
	}
	if result.Summary != "Two sources agree on the outcome." {
		t.Errorf("summary: %q", result.Summary)
	}
}

// ════════════════════════════════════════════════════════════════════
// Config keys
// ════════════════════════════════════════════════════════════════════

func TestHandleConfigKeys(t *testing.T) {
	srv := newTestServer(t, &fakePipeline{result: testResult()})

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/config/keys", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Gemini") || !strings.Contains(body, "OpenAI") {
		t.Errorf("key status missing providers: %s", body)
	}
}

// ════════════════════════════════════════════════════════════════════
// WebSocket hub
// ════════════════════════════════════════════════════════════════════

func TestWSHubBroadcast(t *testing.T) {
	hub := NewWSHub()
	go hub.Run()

	client := &WSClient{hub: hub, send: make(chan WSMessage, 4)}
	hub.Register(client)

	hub.Broadcast(WSMessage{Type: "progress", Data: "loading"})

	select {
	case msg := <-client.send:
		if msg.Type != "progress" {
			t.Errorf("message type: %q", msg.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("broadcast not delivered")
	}

	hub.Unregister(client)
	if _, ok := <-client.send; ok {
		// Channel may have buffered messages; drain until closed.
		for range client.send {
		}
	}
	if hub.ClientCount() != 0 {
		t.Errorf("client count: %d", hub.ClientCount())
	}
}
