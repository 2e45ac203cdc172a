package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"staffing/internal/domain/intent"
)

func geminiReply(t *testing.T, text string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
		},
	})
	if err != nil {
		t.Fatalf("marshal reply: %v", err)
	}
	return body
}

func TestGeminiClientParsesFencedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-2.5-flash:generateContent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "k" {
			t.Errorf("missing api key header")
		}
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || !strings.Contains(req.Contents[0].Parts[0].Text, "who has AWS?") {
			t.Errorf("prompt does not carry the query")
		}
		_, _ = w.Write(geminiReply(t, "```json\n{\"intent\":\"search_candidate\",\"entities\":{\"designation\":\"DevOps Engineer\",\"skills\":[\"AWS\"]}}\n```"))
	}))
	defer srv.Close()

	c := NewGeminiClient(Options{APIKey: "k", BaseURL: srv.URL, Designations: []string{"DevOps Engineer"}})
	parsed, err := c.Parse(context.Background(), "who has AWS?")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Intent != intent.SearchCandidate || parsed.Entities["designation"] != "DevOps Engineer" {
		t.Fatalf("unexpected parsed value: %+v", parsed)
	}
}

func TestGeminiClientReportsAPIError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`))
	}))
	defer srv.Close()

	c := NewGeminiClient(Options{APIKey: "k", BaseURL: srv.URL})
	_, err := c.Parse(context.Background(), "hello")
	var pe *intent.ParseError
	if !errors.As(err, &pe) || !strings.Contains(pe.Reason, "overloaded") {
		t.Fatalf("expected parse error with api message, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected no retry, got %d calls", calls)
	}
}

func TestGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(Options{}).Parse(context.Background(), "hello")
	var pe *intent.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestDecodeParsedRejectsProse(t *testing.T) {
	if _, err := DecodeParsed("Sure! The intent is other."); err == nil {
		t.Fatalf("expected error for non-JSON output")
	}
	if _, err := DecodeParsed(`{"entities":{}}`); err == nil {
		t.Fatalf("expected error for missing intent")
	}
	parsed, err := DecodeParsed(`{"intent":"other"}`)
	if err != nil || parsed.Entities == nil {
		t.Fatalf("expected empty entities map, got %+v, %v", parsed, err)
	}
}
