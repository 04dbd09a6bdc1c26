package interview

import "time"

// The gateway guarantees only that the payload is a JSON object. Field
// extraction is permissive at this boundary: every optional field gets an
// explicit default, malformed sub-fields are dropped rather than escalated.

// turnPayload is the typed result of parsing one interviewer reply.
type turnPayload struct {
	interviewerMessage string
	evaluation         *EvaluationSnapshot
	nextBestAction     *string
}

func parseTurnPayload(payload map[string]any) turnPayload {
	tp := turnPayload{
		interviewerMessage: asString(payload["interviewer_message"]),
	}

	if eval, ok := payload["evaluation"].(map[string]any); ok && len(eval) > 0 {
		tp.evaluation = &EvaluationSnapshot{
			Summary:        asString(eval["summary"]),
			Strengths:      asStringSlice(eval["strengths"]),
			Gaps:           asStringSlice(eval["gaps"]),
			RubricScores:   asScoreMap(eval["rubric_scores"]),
			Recommendation: asString(eval["recommendation"]),
		}
	}

	if action, ok := payload["next_best_action"].(string); ok {
		tp.nextBestAction = &action
	}

	return tp
}

// turn assembles an immutable Turn from the parsed payload.
func (tp turnPayload) turn(candidateMessage *ChatMessage, now time.Time) Turn {
	return Turn{
		CandidateMessage: candidateMessage,
		InterviewerMessage: ChatMessage{
			Role:      "interviewer",
			Content:   tp.interviewerMessage,
			CreatedAt: now,
		},
		Evaluation:     tp.evaluation,
		NextBestAction: tp.nextBestAction,
	}
}

// summaryPayload is the typed result of parsing a wrap-up reply.
type summaryPayload struct {
	overallSummary string
	scorecard      map[string]float64
	nextSteps      []string
}

func parseSummaryPayload(payload map[string]any) summaryPayload {
	return summaryPayload{
		overallSummary: asString(payload["overall_summary"]),
		scorecard:      asScoreMap(payload["scorecard"]),
		nextSteps:      asStringSlice(payload["next_steps"]),
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asStringSlice keeps only string entries; anything else is dropped.
func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// asScoreMap keeps only numeric values. encoding/json decodes every JSON
// number into float64, so a single type assertion covers them all.
func asScoreMap(v any) map[string]float64 {
	raw, ok := v.(map[string]any)
	if !ok {
		return map[string]float64{}
	}
	out := make(map[string]float64, len(raw))
	for skill, value := range raw {
		if n, ok := value.(float64); ok {
			out[skill] = n
		}
	}
	return out
}
