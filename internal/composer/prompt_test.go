package composer

import (
	"strings"
	"testing"

	"github.com/strelkov/apexcoach/internal/rubric"
)

func TestSystemPromptIncludesRubricAndContract(t *testing.T) {
	prompt := SystemPrompt()

	for _, skill := range rubric.Skills() {
		if !strings.Contains(prompt, skill) {
			t.Errorf("system prompt missing rubric skill %q", skill)
		}
	}

	for _, key := range []string{`"interviewer_message"`, `"evaluation"`, `"next_best_action"`, `"rubric_scores"`} {
		if !strings.Contains(prompt, key) {
			t.Errorf("system prompt missing contract key %s", key)
		}
	}
}

func TestBootstrapPromptCandidateFacts(t *testing.T) {
	prompt := BootstrapPrompt(BootstrapInput{
		Name:            "Jordan",
		CurrentRole:     "Analyst",
		YearsExperience: 4,
		TargetRole:      "Senior Analyst",
		FocusAreas:      []string{"data_analysis", "automation"},
		Scenario:        "finance_analyst",
		Platform:        PlatformMicrosoftExcel,
	})

	for _, want := range []string{"Jordan", "Senior Analyst", "finance_analyst", "data analysis, automation", "Microsoft Excel"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("bootstrap prompt missing %q", want)
		}
	}
}

func TestBootstrapPromptDefaults(t *testing.T) {
	prompt := BootstrapPrompt(BootstrapInput{Name: "Sam", Platform: "unknown_platform"})

	if !strings.Contains(prompt, "balanced coverage") {
		t.Error("empty focus areas should read as balanced coverage")
	}
	// Unknown platforms fall back to Excel guidance.
	if !strings.Contains(prompt, "Microsoft Excel") {
		t.Error("unknown platform did not fall back to Excel guidance")
	}
}

func TestBootstrapPromptGoogleSheets(t *testing.T) {
	prompt := BootstrapPrompt(BootstrapInput{Name: "Sam", Platform: PlatformGoogleSheets})

	if !strings.Contains(prompt, "Google Sheets") {
		t.Error("google_sheets platform missing Sheets guidance")
	}
	if !strings.Contains(prompt, "Apps Script") {
		t.Error("google_sheets guidance bullets missing")
	}
}

func TestSummaryPromptEmbedsTranscript(t *testing.T) {
	prompt := SummaryPrompt("Jordan", "Senior Analyst", `[{"interviewer_message":"hi"}]`)

	for _, want := range []string{"Jordan", "Senior Analyst", `[{"interviewer_message":"hi"}]`, `"overall_summary"`, `"scorecard"`, `"next_steps"`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("summary prompt missing %q", want)
		}
	}
}
