// Package api exposes the interview service over HTTP and MCP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/strelkov/apexcoach/internal/gateway"
	"github.com/strelkov/apexcoach/internal/interview"
)

const maxRequestBodySize = 1 << 20 // 1MB, JSON endpoints only

// multipartOverhead pads the upload body limit so boundary markers and
// form fields don't push a maximum-size workbook over the line.
const multipartOverhead = 64 << 10

// Deps holds dependencies for the HTTP API.
type Deps struct {
	Service        *interview.Service
	MaxUploadBytes int64
}

// NewHandler returns an http.Handler implementing the interview REST API.
// All routes are relative; the caller mounts this under /api.
func NewHandler(deps Deps) http.Handler {
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = interview.DefaultMaxUploadBytes
	}

	r := chi.NewRouter()

	r.Get("/health", handleHealth)
	r.Get("/rubric", handleRubric(deps))
	r.Post("/session", handleCreateSession(deps))
	r.Post("/session/{sessionID}/chat", handleChat(deps))
	r.Get("/session/{sessionID}/summary", handleSummary(deps))
	r.Get("/session/{sessionID}/artifacts", handleListArtifacts(deps))
	r.Post("/session/{sessionID}/artifacts/upload", handleUploadArtifact(deps))
	r.Post("/session/{sessionID}/artifacts/link", handleLinkArtifact(deps))
	r.Get("/session/{sessionID}/artifacts/{artifactID}", handleDownloadArtifact(deps))

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func handleRubric(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"skills": deps.Service.Rubric()})
	}
}

// CreateSessionRequest starts an interview.
type CreateSessionRequest struct {
	Candidate        interview.CandidateProfile `json:"candidate"`
	Scenario         string                     `json:"scenario"`
	WorkbookPlatform string                     `json:"workbook_platform"`
}

func handleCreateSession(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req CreateSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		sessionID, firstTurn, err := deps.Service.CreateSession(
			r.Context(), req.Candidate, req.Scenario,
			interview.WorkbookPlatform(req.WorkbookPlatform),
		)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, map[string]any{
			"session_id": sessionID,
			"first_turn": firstTurn,
		})
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

func handleChat(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "message is required and must not be empty")
			return
		}

		turn, running, total, err := deps.Service.Chat(r.Context(), chi.URLParam(r, "sessionID"), req.Message)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, map[string]any{
			"turn":           turn,
			"running_scores": running,
			"total_turns":    total,
		})
	}
}

func handleSummary(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := deps.Service.Summarize(r.Context(), chi.URLParam(r, "sessionID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, result)
	}
}

func handleListArtifacts(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		artifacts, err := deps.Service.ListArtifacts(chi.URLParam(r, "sessionID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if artifacts == nil {
			artifacts = []interview.Artifact{}
		}
		writeJSON(w, map[string]any{"artifacts": artifacts})
	}
}

func handleUploadArtifact(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, deps.MaxUploadBytes+multipartOverhead)
		defer r.Body.Close()

		if err := r.ParseMultipartForm(deps.MaxUploadBytes + multipartOverhead); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid multipart form: %v", err)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "file is required")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "reading upload: %v", err)
			return
		}

		artifact, err := deps.Service.StoreFileArtifact(
			chi.URLParam(r, "sessionID"),
			header.Filename,
			formContentType(header),
			data,
			r.FormValue("description"),
		)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, map[string]any{"artifact": artifact})
	}
}

type linkRequest struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

func handleLinkArtifact(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req linkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		artifact, err := deps.Service.StoreLinkArtifact(chi.URLParam(r, "sessionID"), req.URL, req.Description)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, map[string]any{"artifact": artifact})
	}
}

func handleDownloadArtifact(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		artifact, data, err := deps.Service.OpenArtifact(
			chi.URLParam(r, "sessionID"), chi.URLParam(r, "artifactID"),
		)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		contentType := artifact.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
		w.Write(data)
	}
}

func formContentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// writeServiceError maps interview and gateway errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, interview.ErrSessionNotFound):
		httpError(w, http.StatusNotFound, "not_found", "%v", err)
	case errors.Is(err, interview.ErrArtifactNotFound):
		httpError(w, http.StatusNotFound, "not_found", "%v", err)
	case errors.Is(err, interview.ErrValidation):
		httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
	case gateway.IsGatewayError(err):
		httpError(w, http.StatusBadGateway, "api_error", "%v", err)
	default:
		httpError(w, http.StatusInternalServerError, "api_error", "%v", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
