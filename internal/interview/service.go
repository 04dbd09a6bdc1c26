package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/strelkov/apexcoach/internal/composer"
	"github.com/strelkov/apexcoach/internal/gateway"
	"github.com/strelkov/apexcoach/internal/rubric"
)

// DefaultScenario frames the interview when the caller does not pick one.
const DefaultScenario = "finance_analyst"

// DefaultMaxUploadBytes caps workbook uploads at 10 MiB.
const DefaultMaxUploadBytes = 10 << 20

// allowedExtensions lists the workbook file types accepted for upload.
var allowedExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xlsb": true,
	".xls":  true,
	".csv":  true,
	".tsv":  true,
	".ods":  true,
}

// Gateway is the LLM collaborator. Implemented by gateway.OpenAIClient and
// gateway.OllamaClient.
type Gateway interface {
	CompleteJSON(ctx context.Context, messages []gateway.Message) (map[string]any, error)
}

// BlobStore is the durable byte storage for file artifacts. Implemented by
// blob.FSStore.
type BlobStore interface {
	Put(key string, data []byte) (string, error)
	Get(location string) ([]byte, error)
	Exists(location string) bool
}

// AuditLog records interview events for offline inspection. Implemented by
// storage.Store. Recording is best-effort; failures never surface to callers.
type AuditLog interface {
	AppendEvent(sessionID, kind string, payload []byte) error
}

// Options tune optional Service behavior.
type Options struct {
	MaxUploadBytes int64        // 0 means DefaultMaxUploadBytes
	Audit          AuditLog     // nil disables audit logging
	Logger         *slog.Logger // nil means slog.Default()
}

// Service coordinates gateway calls and aggregates interview analytics.
// Sessions live in memory for the life of the process.
type Service struct {
	gateway        Gateway
	blobs          BlobStore
	audit          AuditLog
	log            *slog.Logger
	maxUploadBytes int64

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService creates a Service using the given gateway and blob store.
func NewService(gw Gateway, blobs BlobStore, opts Options) *Service {
	maxBytes := opts.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		gateway:        gw,
		blobs:          blobs,
		audit:          opts.Audit,
		log:            logger,
		maxUploadBytes: maxBytes,
		sessions:       make(map[string]*Session),
	}
}

// Rubric returns the static skill catalog.
func (s *Service) Rubric() map[string]string {
	return rubric.Catalog()
}

// CreateSession starts a new interview: it seeds the persona and bootstrap
// messages, asks the gateway for the opening question, and registers the
// session. Nothing is registered if the gateway call fails.
func (s *Service) CreateSession(ctx context.Context, candidate CandidateProfile, scenario string, platform WorkbookPlatform) (string, Turn, error) {
	if scenario == "" {
		scenario = DefaultScenario
	}
	if platform == "" {
		platform = PlatformMicrosoftExcel
	}
	if err := validateCandidate(candidate, platform); err != nil {
		return "", Turn{}, err
	}

	s.log.Info("creating interview session",
		"candidate", candidate.Name,
		"target_role", candidate.TargetRole,
		"scenario", scenario,
	)

	focus := make([]string, len(candidate.FocusAreas))
	for i, f := range candidate.FocusAreas {
		focus[i] = string(f)
	}
	messages := []gateway.Message{
		{Role: gateway.RoleSystem, Content: composer.SystemPrompt()},
		{Role: gateway.RoleUser, Content: composer.BootstrapPrompt(composer.BootstrapInput{
			Name:            candidate.Name,
			CurrentRole:     candidate.CurrentRole,
			YearsExperience: candidate.YearsExperience,
			TargetRole:      candidate.TargetRole,
			FocusAreas:      focus,
			Scenario:        scenario,
			Platform:        string(platform),
		})},
	}

	payload, err := s.gateway.CompleteJSON(ctx, messages)
	if err != nil {
		return "", Turn{}, fmt.Errorf("creating session: %w", err)
	}
	rawAssistant, err := json.Marshal(payload)
	if err != nil {
		return "", Turn{}, fmt.Errorf("serializing assistant payload: %w", err)
	}

	now := time.Now().UTC()
	id := uuid.NewString()
	sess := newSession(id, candidate, scenario, platform, now)
	turn := parseTurnPayload(payload).turn(nil, now)
	sess.commitTurn(messages, string(rawAssistant), turn, now)

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.recordEvent(id, "session_created", map[string]any{
		"candidate":   candidate.Name,
		"target_role": candidate.TargetRole,
		"scenario":    scenario,
		"platform":    platform,
	})
	s.log.Info("session created", "session_id", id, "focus_areas", len(candidate.FocusAreas))
	return id, turn, nil
}

// Chat processes one candidate reply. The candidate message, assistant
// context entry, transcript turn, and score aggregates are committed
// together after the gateway call succeeds; a failed or canceled call
// leaves the session untouched.
func (s *Service) Chat(ctx context.Context, sessionID, message string) (Turn, map[string]float64, int, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return Turn{}, nil, 0, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	s.log.Info("processing candidate reply", "session_id", sessionID, "message_len", len(message))

	sent := append(cloneMessages(sess.messages), gateway.Message{Role: gateway.RoleUser, Content: message})

	payload, err := s.gateway.CompleteJSON(ctx, sent)
	if err != nil {
		return Turn{}, nil, 0, fmt.Errorf("chat turn: %w", err)
	}
	rawAssistant, err := json.Marshal(payload)
	if err != nil {
		return Turn{}, nil, 0, fmt.Errorf("serializing assistant payload: %w", err)
	}

	now := time.Now().UTC()
	candidateMsg := &ChatMessage{Role: "candidate", Content: message, CreatedAt: now}
	turn := parseTurnPayload(payload).turn(candidateMsg, now)
	sess.commitTurn(sent, string(rawAssistant), turn, now)

	running := sess.runningScores()
	total := len(sess.transcript)

	s.recordEvent(sessionID, "turn_recorded", map[string]any{
		"turn":           total,
		"has_evaluation": turn.Evaluation != nil,
	})
	s.log.Info("candidate reply processed", "session_id", sessionID, "turns", total, "scores_tracked", len(running))
	return turn, running, total, nil
}

// Summarize replays the transcript through the gateway with a wrap-up
// prompt. It is a read/compute operation: no turn is appended and the
// conversation context is left unchanged, so further chats remain valid.
func (s *Service) Summarize(ctx context.Context, sessionID string) (SummaryResult, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return SummaryResult{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	s.log.Info("generating summary", "session_id", sessionID, "turns", len(sess.transcript))

	transcript := make([]Turn, len(sess.transcript))
	copy(transcript, sess.transcript)
	transcriptJSON, err := json.Marshal(transcript)
	if err != nil {
		return SummaryResult{}, fmt.Errorf("serializing transcript: %w", err)
	}

	messages := append(cloneMessages(sess.messages), gateway.Message{
		Role:    gateway.RoleUser,
		Content: composer.SummaryPrompt(sess.Candidate.Name, sess.Candidate.TargetRole, string(transcriptJSON)),
	})

	payload, err := s.gateway.CompleteJSON(ctx, messages)
	if err != nil {
		return SummaryResult{}, fmt.Errorf("summarizing session: %w", err)
	}

	sp := parseSummaryPayload(payload)
	s.recordEvent(sessionID, "summary_generated", map[string]any{"turns": len(transcript)})
	return SummaryResult{
		SessionID:            sessionID,
		Transcript:           transcript,
		FinalSummary:         sp.overallSummary,
		RecommendedNextSteps: sp.nextSteps,
		OverallScores:        sp.scorecard,
	}, nil
}

// Scorecard returns the current running averages and transcript length
// without touching the gateway. Used by the MCP tool surface.
func (s *Service) Scorecard(sessionID string) (map[string]float64, int, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, 0, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.runningScores(), len(sess.transcript), nil
}

func (s *Service) getSession(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		s.log.Warn("unknown session id", "session_id", id)
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

func (s *Service) recordEvent(sessionID, kind string, payload map[string]any) {
	if s.audit == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		s.log.Warn("marshaling audit event", "kind", kind, "error", err)
		return
	}
	if err := s.audit.AppendEvent(sessionID, kind, body); err != nil {
		s.log.Warn("recording audit event", "kind", kind, "error", err)
	}
}

func validateCandidate(candidate CandidateProfile, platform WorkbookPlatform) error {
	if strings.TrimSpace(candidate.Name) == "" {
		return fmt.Errorf("%w: candidate name is required", ErrValidation)
	}
	if candidate.YearsExperience < 0 {
		return fmt.Errorf("%w: years_experience must be >= 0", ErrValidation)
	}
	if !platform.Valid() {
		return fmt.Errorf("%w: unsupported workbook platform %q", ErrValidation, platform)
	}
	for _, f := range candidate.FocusAreas {
		if !f.Valid() {
			return fmt.Errorf("%w: unknown focus area %q", ErrValidation, f)
		}
	}
	return nil
}

func cloneMessages(msgs []gateway.Message) []gateway.Message {
	out := make([]gateway.Message, len(msgs))
	copy(out, msgs)
	return out
}

// sanitizeFilename strips any path components from a client-supplied name.
func sanitizeFilename(name string) string {
	return filepath.Base(filepath.Clean(strings.ReplaceAll(name, "\\", "/")))
}
