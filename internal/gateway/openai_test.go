package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// completionsStub returns an httptest server answering /chat/completions
// with the given content string wrapped in a completions envelope.
func completionsStub(t *testing.T, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAICompleteJSON(t *testing.T) {
	srv := completionsStub(t, `{"interviewer_message":"Welcome","next_best_action":"await_reply"}`)
	c := NewOpenAIClient(srv.URL, "key", "gpt-test", 0.2, 900)

	payload, err := c.CompleteJSON(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("CompleteJSON: %v", err)
	}
	if payload["interviewer_message"] != "Welcome" {
		t.Errorf("interviewer_message = %v, want Welcome", payload["interviewer_message"])
	}
}

func TestOpenAIRequestShape(t *testing.T) {
	var got completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer secret" {
			t.Errorf("Authorization = %q", auth)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "{}"}}},
		})
	}))
	defer srv.Close()

	c := NewOpenAIClient(srv.URL, "secret", "gpt-test", 0.2, 900)
	if _, err := c.CompleteJSON(context.Background(), []Message{{Role: RoleSystem, Content: "persona"}}); err != nil {
		t.Fatalf("CompleteJSON: %v", err)
	}

	if got.Model != "gpt-test" {
		t.Errorf("model = %q", got.Model)
	}
	if got.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format.type = %q", got.ResponseFormat.Type)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != RoleSystem {
		t.Errorf("messages not forwarded: %+v", got.Messages)
	}
}

func TestOpenAIMalformedContent(t *testing.T) {
	srv := completionsStub(t, `I refuse to speak JSON`)
	c := NewOpenAIClient(srv.URL, "key", "gpt-test", 0.2, 900)

	_, err := c.CompleteJSON(context.Background(), nil)
	if !errors.Is(err, ErrBadPayload) {
		t.Fatalf("err = %v, want ErrBadPayload", err)
	}
	if errors.Is(err, ErrUnavailable) {
		t.Error("parse failure must not be classified as transport failure")
	}
}

func TestOpenAIEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c := NewOpenAIClient(srv.URL, "key", "gpt-test", 0.2, 900)
	if _, err := c.CompleteJSON(context.Background(), nil); !errors.Is(err, ErrBadPayload) {
		t.Fatalf("err = %v, want ErrBadPayload", err)
	}
}

func TestOpenAIServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewOpenAIClient(srv.URL, "key", "gpt-test", 0.2, 900)
	_, err := c.CompleteJSON(context.Background(), nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if errors.Is(err, ErrBadPayload) {
		t.Error("transport failure must not be classified as parse failure")
	}
}

func TestOpenAIConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewOpenAIClient(srv.URL, "key", "gpt-test", 0.2, 900)
	if _, err := c.CompleteJSON(context.Background(), nil); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestOpenAIRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": `{"ok":true}`}}},
		})
	}))
	defer srv.Close()

	c := NewOpenAIClient(srv.URL, "key", "gpt-test", 0.2, 900)
	payload, err := c.CompleteJSON(context.Background(), nil)
	if err != nil {
		t.Fatalf("CompleteJSON after retry: %v", err)
	}
	if payload["ok"] != true {
		t.Errorf("payload = %v", payload)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server called %d times, want 2", got)
	}
}

func TestIsGatewayError(t *testing.T) {
	if !IsGatewayError(ErrUnavailable) || !IsGatewayError(ErrBadPayload) {
		t.Error("sentinels not recognized as gateway errors")
	}
	if IsGatewayError(errors.New("other")) {
		t.Error("unrelated error recognized as gateway error")
	}
}
