package deepseek

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"baby-namer/config"
)

func env(key string) func(string) string {
	return func(name string) string {
		if name == "DEEPSEEK_API_KEY" {
			return key
		}
		return ""
	}
}

func TestComplete_SendsRequestAndReturnsContent(t *testing.T) {
	var got ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("unexpected authorization %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  {\"boyNames\":[]}\n"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(config.UpstreamConfig{BaseURL: srv.URL + "/", Timeout: 5000}, WithEnvLookup(env("sk-test")))
	content, err := c.Complete(context.Background(), ChatRequest{
		Messages:    []Message{{Role: "user", Content: "hi"}},
		Temperature: 0.8,
		MaxTokens:   4000,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if content != `{"boyNames":[]}` {
		t.Fatalf("unexpected content %q", content)
	}
	if got.Model != "deepseek-chat" || got.MaxTokens != 4000 || len(got.Messages) != 1 {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestComplete_MissingAPIKey(t *testing.T) {
	c := NewClient(config.UpstreamConfig{BaseURL: "http://127.0.0.1:1"}, WithEnvLookup(env("")))
	if _, err := c.Complete(context.Background(), ChatRequest{}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestComplete_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "insufficient balance", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	c := NewClient(config.UpstreamConfig{BaseURL: srv.URL}, WithEnvLookup(env("k")))
	_, err := c.Complete(context.Background(), ChatRequest{})
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusPaymentRequired {
		t.Fatalf("expected StatusError 402, got %v", err)
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient(config.UpstreamConfig{BaseURL: srv.URL}, WithEnvLookup(env("k")))
	if _, err := c.Complete(context.Background(), ChatRequest{}); !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
}

func TestComplete_CanceledWhileWaitingForSlot(t *testing.T) {
	c := NewClient(config.UpstreamConfig{BaseURL: "http://127.0.0.1:1", MaxRPS: 0.001, Burst: 1}, WithEnvLookup(env("k")))
	// 消耗掉唯一的令牌
	c.limiter.Allow()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Complete(ctx, ChatRequest{}); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}

func TestComplete_StatusErrorBodyKeepsValidUTF8(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("x" + strings.Repeat("错", 400)))
	}))
	defer srv.Close()

	c := NewClient(config.UpstreamConfig{BaseURL: srv.URL}, WithEnvLookup(env("k")))
	_, err := c.Complete(context.Background(), ChatRequest{})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if len(se.Body) > 512 || !utf8.ValidString(se.Body) {
		t.Fatalf("expected valid utf8 within 512 bytes, got len=%d", len(se.Body))
	}
}
