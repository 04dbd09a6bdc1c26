package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

type testServer struct {
	server   *httptest.Server
	requests []recordedRequest
}

func newTestServer(t *testing.T, responses map[string]string) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		body.ReadFrom(r.Body)

		ts.requests = append(ts.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.RequestURI(),
			Body:   body.String(),
		})

		key := r.Method + " " + r.URL.Path
		if resp, ok := responses[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(resp))
			return
		}

		w.WriteHeader(404)
		w.Write([]byte(`{"error":{"message":"not found","type":"not_found"}}`))
	}))

	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) client() *apiClient {
	return &apiClient{
		baseURL:    ts.server.URL,
		httpClient: ts.server.Client(),
	}
}

var ctx = context.Background()

func TestAPIClient_Rubric(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /rubric": `{"skills":{"excel_functions":"Formula fluency","automation":"Macros and scripting"}}`,
	})

	resp, err := ts.client().get(ctx, "/rubric")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var body struct {
		Skills map[string]string `json:"skills"`
	}
	if err := decodeJSON(resp, &body); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if len(body.Skills) != 2 {
		t.Errorf("skills = %d, want 2", len(body.Skills))
	}
	if body.Skills["excel_functions"] != "Formula fluency" {
		t.Errorf("excel_functions = %q", body.Skills["excel_functions"])
	}

	if len(ts.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(ts.requests))
	}
	if ts.requests[0].Path != "/rubric" {
		t.Errorf("path = %q, want /rubric", ts.requests[0].Path)
	}
}

func TestAPIClient_ErrorStatusSurfaced(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := ts.client().get(ctx, "/session/ghost/artifacts")
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}

	var out map[string]any
	err = decodeJSON(resp, &out)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error = %v, want mention of 404", err)
	}
}

func TestAPIClient_ServerUnreachable(t *testing.T) {
	client := &apiClient{
		baseURL:    "http://127.0.0.1:1",
		httpClient: &http.Client{},
	}

	_, err := client.get(ctx, "/rubric")
	if err == nil {
		t.Fatal("expected error for unreachable server")
	}
	if !strings.Contains(err.Error(), "is apexcoach running") {
		t.Errorf("error = %v, want hint about server not running", err)
	}
}

func TestColorize(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()

	noColor = true
	result := colorize(colorGreen, "hello")
	if strings.Contains(result, "\033") {
		t.Errorf("colorize with noColor=true should not contain ANSI codes, got %q", result)
	}

	noColor = false
	result = colorize(colorGreen, "hello")
	if !strings.Contains(result, "\033") {
		t.Errorf("colorize with noColor=false should contain ANSI codes, got %q", result)
	}
}
