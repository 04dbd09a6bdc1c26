// Package interview owns the session state machine and score-aggregation
// engine: session lifecycle, turn recording, running-average computation,
// and artifact bookkeeping.
package interview

import (
	"errors"
	"time"
)

// Sentinel errors surfaced to callers. The HTTP layer maps these onto
// status codes with errors.Is.
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrArtifactNotFound = errors.New("artifact not found")
	ErrValidation       = errors.New("invalid input")
)

// FocusArea is an interview emphasis declared by the candidate.
type FocusArea string

const (
	FocusFormulas     FocusArea = "advanced_formulas"
	FocusDataAnalysis FocusArea = "data_analysis"
	FocusAutomation   FocusArea = "automation"
	FocusDashboards   FocusArea = "dashboards"
	FocusDataModeling FocusArea = "data_modeling"
)

// Valid reports whether f is a known focus area.
func (f FocusArea) Valid() bool {
	switch f {
	case FocusFormulas, FocusDataAnalysis, FocusAutomation, FocusDashboards, FocusDataModeling:
		return true
	}
	return false
}

// WorkbookPlatform is the spreadsheet environment used for exercises.
type WorkbookPlatform string

const (
	PlatformMicrosoftExcel WorkbookPlatform = "microsoft_excel"
	PlatformGoogleSheets   WorkbookPlatform = "google_sheets"
)

// Valid reports whether p is a supported platform.
func (p WorkbookPlatform) Valid() bool {
	return p == PlatformMicrosoftExcel || p == PlatformGoogleSheets
}

// CandidateProfile describes the candidate starting an interview.
type CandidateProfile struct {
	Name            string      `json:"name"`
	CurrentRole     string      `json:"current_role"`
	YearsExperience float64     `json:"years_experience"`
	TargetRole      string      `json:"target_role"`
	FocusAreas      []FocusArea `json:"focus_areas"`
}

// ChatMessage is a single message in the transcript.
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// EvaluationSnapshot is the interviewer's per-turn assessment. It is built
// by a permissive parser: missing sub-fields default to empty values and
// non-numeric rubric scores are dropped.
type EvaluationSnapshot struct {
	Summary        string             `json:"summary"`
	Strengths      []string           `json:"strengths"`
	Gaps           []string           `json:"gaps"`
	RubricScores   map[string]float64 `json:"rubric_scores"`
	Recommendation string             `json:"recommendation"`
}

// Turn is one request/response exchange. The candidate message is absent
// only for the bootstrap turn. Turns are immutable once appended; optional
// fields serialize as null when absent.
type Turn struct {
	CandidateMessage   *ChatMessage        `json:"candidate_message"`
	InterviewerMessage ChatMessage         `json:"interviewer_message"`
	Evaluation         *EvaluationSnapshot `json:"evaluation"`
	NextBestAction     *string             `json:"next_best_action"`
}

// ArtifactSource discriminates uploaded files from external links.
type ArtifactSource string

const (
	ArtifactFile ArtifactSource = "file"
	ArtifactLink ArtifactSource = "link"
)

// Artifact is a candidate-submitted workbook reference. File artifacts
// carry a storage location (never serialized); link artifacts carry a URL.
// Immutable after creation.
type Artifact struct {
	ID          string         `json:"id"`
	Source      ArtifactSource `json:"source"`
	Filename    string         `json:"filename,omitempty"`
	ContentType string         `json:"content_type,omitempty"`
	SizeBytes   int64          `json:"size_bytes,omitempty"`
	UploadedAt  time.Time      `json:"uploaded_at"`
	Description string         `json:"description"`
	URL         string         `json:"url,omitempty"`

	storageLocation string
	seq             uint64
}

// SummaryResult is the wrap-up produced by Summarize.
type SummaryResult struct {
	SessionID            string             `json:"session_id"`
	Transcript           []Turn             `json:"transcript"`
	FinalSummary         string             `json:"final_summary"`
	RecommendedNextSteps []string           `json:"recommended_next_steps"`
	OverallScores        map[string]float64 `json:"overall_scores"`
}
