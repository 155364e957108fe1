package infra

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != DefaultUserAgent {
			t.Errorf("unexpected User-Agent: %q", ua)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, "<html><body>hello</body></html>")
	}))
	defer srv.Close()

	body, ctype, err := Get(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer body.Close()

	data, _ := io.ReadAll(body)
	if string(data) != "<html><body>hello</body></html>" {
		t.Errorf("unexpected body: %q", data)
	}
	if ctype != "text/html; charset=utf-8" {
		t.Errorf("unexpected content type: %q", ctype)
	}
}

func TestGetHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, _, err := Get(context.Background(), srv.Client(), srv.URL)
	if err == nil {
		t.Fatal("expected error for 404")
	}
	var httpErr *ErrHTTP
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *ErrHTTP, got %T: %v", err, err)
	}
	if httpErr.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", httpErr.StatusCode)
	}
}

func TestGetConnectionRefused(t *testing.T) {
	// Port 1 should refuse connections.
	client := NewHTTPClient(2 * time.Second)
	_, _, err := Get(context.Background(), client, "http://127.0.0.1:1/")
	if err == nil {
		t.Fatal("expected connection error")
	}
}

func TestRateLimiterAllowsBurst(t *testing.T) {
	rl := NewRateLimiter(3, time.Second)
	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := rl.Wait(ctx); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Errorf("burst of 3 should not block, took %v", elapsed)
	}
}

func TestRateLimiterCancellation(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	ctx := context.Background()
	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	cancelled, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
	defer cancel()
	if err := rl.Wait(cancelled); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
}
