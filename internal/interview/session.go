package interview

import (
	"sort"
	"sync"
	"time"

	"github.com/strelkov/apexcoach/internal/gateway"
	"github.com/strelkov/apexcoach/internal/rubric"
)

// Session is the in-memory state of one interview. All fields below mu are
// mutated only while mu is held; operations on different sessions never
// block each other.
type Session struct {
	ID        string
	Candidate CandidateProfile
	Scenario  string
	Platform  WorkbookPlatform
	CreatedAt time.Time

	mu          sync.Mutex
	updatedAt   time.Time
	messages    []gateway.Message // append-only LLM conversation context
	transcript  []Turn
	scoreTotals map[string]float64
	scoreCounts map[string]int
	artifacts   map[string]Artifact
	artifactSeq uint64
}

func newSession(id string, candidate CandidateProfile, scenario string, platform WorkbookPlatform, now time.Time) *Session {
	return &Session{
		ID:          id,
		Candidate:   candidate,
		Scenario:    scenario,
		Platform:    platform,
		CreatedAt:   now,
		updatedAt:   now,
		scoreTotals: make(map[string]float64),
		scoreCounts: make(map[string]int),
		artifacts:   make(map[string]Artifact),
	}
}

// recordScores folds a new evaluation's rubric scores into the running
// totals. Callers pass only numeric values; the parser has already dropped
// everything else. Must be called with mu held.
func (s *Session) recordScores(scores map[string]float64) {
	for skill, value := range scores {
		s.scoreTotals[skill] += value
		s.scoreCounts[skill]++
	}
}

// runningScores returns the current running averages for every skill with
// at least one recorded observation. Must be called with mu held.
func (s *Session) runningScores() map[string]float64 {
	out := make(map[string]float64)
	for skill, total := range s.scoreTotals {
		if count := s.scoreCounts[skill]; count > 0 {
			out[skill] = total / float64(count)
		}
	}
	return out
}

// seedRubricSkills ensures every catalog skill exists in the totals/counts
// maps (at zero) so summary operations can enumerate a stable skill set.
// Must be called with mu held.
func (s *Session) seedRubricSkills() {
	for _, skill := range rubric.Skills() {
		if _, ok := s.scoreTotals[skill]; !ok {
			s.scoreTotals[skill] = 0
		}
		if _, ok := s.scoreCounts[skill]; !ok {
			s.scoreCounts[skill] = 0
		}
	}
}

// commitTurn applies a successfully parsed gateway exchange to the session
// in one step: conversation context, transcript, and score aggregates all
// move together. Must be called with mu held.
//
// sent is the message list that produced the reply (the existing history
// plus the candidate message, if any); rawAssistant is the serialized
// assistant payload threaded back into the context for subsequent calls.
func (s *Session) commitTurn(sent []gateway.Message, rawAssistant string, turn Turn, now time.Time) {
	s.messages = append(sent, gateway.Message{Role: gateway.RoleAssistant, Content: rawAssistant})
	s.transcript = append(s.transcript, turn)
	if turn.Evaluation != nil {
		s.recordScores(turn.Evaluation.RubricScores)
	}
	s.seedRubricSkills()
	s.updatedAt = now
}

// sortedArtifacts returns the session's artifacts most-recently-uploaded
// first. Ties on the timestamp fall back to insertion order, newest first.
// Must be called with mu held.
func (s *Session) sortedArtifacts() []Artifact {
	out := make([]Artifact, 0, len(s.artifacts))
	for _, a := range s.artifacts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].UploadedAt.After(out[j].UploadedAt)
		}
		return out[i].seq > out[j].seq
	})
	return out
}
