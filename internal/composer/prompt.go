// Package composer builds the prompt strings that drive the interviewer
// persona. It is a pure string-assembly layer: no I/O, no session state.
package composer

import (
	"fmt"
	"strings"

	"github.com/strelkov/apexcoach/internal/rubric"
)

// Platform identifiers accepted by BootstrapPrompt. They mirror the
// workbook_platform enum of the session API.
const (
	PlatformMicrosoftExcel = "microsoft_excel"
	PlatformGoogleSheets   = "google_sheets"
)

// BootstrapInput carries the candidate and session facts the opening
// prompt is tailored to.
type BootstrapInput struct {
	Name            string
	CurrentRole     string
	YearsExperience float64
	TargetRole      string
	FocusAreas      []string
	Scenario        string
	Platform        string
}

type platformGuidance struct {
	label   string
	bullets []string
}

var platformGuidanceByID = map[string]platformGuidance{
	PlatformMicrosoftExcel: {
		label: "Microsoft Excel (desktop or web)",
		bullets: []string{
			"Provide .xlsx-style directions with sheet names, tables, and pivot layouts.",
			"Encourage Power Query, Power Pivot, VBA, or Office Scripts when automation adds value.",
			"Reference keyboard shortcuts or formula auditing tools where appropriate.",
			"Explain how to package the workbook for upload (clean tabs, highlight assumptions, include notes).",
		},
	},
	PlatformGoogleSheets: {
		label: "Google Sheets (browser-based)",
		bullets: []string{
			"Deliver tasks that leverage collaborative features, FILTER/ARRAYFORMULA functions, and connected Sheets data.",
			"Mention how to access Apps Script or Connected Sheets where automation or BigQuery data is useful.",
			"Highlight browser-friendly steps such as sharing the sheet, protecting ranges, or using Explore insights.",
			"Remind the candidate to grant view access and paste the share link via the submission panel when ready.",
		},
	},
}

// SystemPrompt returns the interviewer persona instructions, including the
// scoring rubric and the JSON response contract. The contract keys here
// must match what internal/interview parses.
func SystemPrompt() string {
	var rubricLines strings.Builder
	for _, skill := range rubric.Skills() {
		desc, _ := rubric.Describe(skill)
		fmt.Fprintf(&rubricLines, "- %s: %s\n", skill, desc)
	}

	return strings.TrimSpace(fmt.Sprintf(`You are "Apex Excel Interviewer", an experienced hiring panel lead for enterprise Finance, Strategy, and
Analytics roles. Your objective is to run a rigorous, conversation-style mock interview that measures advanced
Microsoft Excel mastery, problem-solving depth, and business reasoning. Always operate with a calm, structured,
and professional tone that mirrors a top-tier consulting firm.

Interview playbook:
1. Tailor the opening to the candidate's background, target role, and declared focus areas.
2. Present scenario-driven exercises with crystal-clear deliverables. List the data sources, sheet names, key
   columns, and expected outputs before asking the candidate to begin.
3. Ask one question at a time and pause for the candidate's reply. Escalate difficulty gradually while keeping
   the storyline grounded in enterprise-scale operations.
4. When referencing datasets, describe how to navigate the workbook (tabs, named ranges, filters) and call out
   any formulas, pivot tables, or automations they should attempt. Suggest verification steps the candidate can
   perform inside the workbook.
5. Remind the candidate they can upload their workbook (Excel/CSV) or share a Google Sheets link through the
   submission panel whenever they finish an exercise. Provide guidance on what to include in the upload (e.g.,
   labeled tabs, summary notes).
6. After each response, provide a concise evaluation grounded in the rubric below. Highlight exemplary elements
   that a top-performing answer would showcase and propose the next investigative step.

Scoring rubric (1-5 scale where 1 = novice and 5 = expert):
%s
Response formatting rules:
- Always respond with strictly valid JSON.
- The JSON must contain the keys: "interviewer_message" (string), "evaluation" (object), and "next_best_action" (string).
- The "evaluation" object must include: "summary" (string), "strengths" (array of strings), "gaps" (array of strings),
  "rubric_scores" (object of skill -> float between 1 and 5), "recommendation" (string).
- When the candidate has not yet responded (e.g., first question), set "strengths" and "gaps" to empty arrays,
  "rubric_scores" to an empty object, and "recommendation" to "awaiting_candidate".
- Never include markdown, code fences, or explanatory text outside of the JSON structure.

Communication guidelines:
- Use precise, instructional language. Break complex requests into numbered steps or checklists.
- Reinforce how the candidate should document assumptions, intermediate calculations, and quality checks in the
  workbook before submitting it.
- Offer fallback hints, quick formula reminders, or troubleshooting ideas when the candidate appears unsure.
- Balance technical depth with business storytelling so the candidate practices presenting insights.`,
		rubricLines.String()))
}

// BootstrapPrompt composes the initial user message that seeds the
// interview context for a freshly created session.
func BootstrapPrompt(in BootstrapInput) string {
	focus := "balanced coverage"
	if len(in.FocusAreas) > 0 {
		readable := make([]string, len(in.FocusAreas))
		for i, area := range in.FocusAreas {
			readable[i] = strings.ReplaceAll(area, "_", " ")
		}
		focus = strings.Join(readable, ", ")
	}

	guidance, ok := platformGuidanceByID[in.Platform]
	if !ok {
		guidance = platformGuidanceByID[PlatformMicrosoftExcel]
	}
	var bullets strings.Builder
	for _, line := range guidance.bullets {
		fmt.Fprintf(&bullets, "- %s\n", line)
	}

	return strings.TrimSpace(fmt.Sprintf(`Candidate profile:
- Name: %s
- Current role: %s
- Years of experience: %g
- Target role: %s

Interview scenario: %s
Priority focus areas: %s
Workbook environment: %s

Instructions:
1. Greet the candidate succinctly and set expectations for a 30-minute technical Excel interview.
2. Introduce a scenario-aligned challenge that spells out the business problem, expected analyses, and the
   stakeholders awaiting the deliverable.
3. Summarize the dataset they will work with: sheet names, critical columns, row volumes, and any calculated
   fields they should create. Call out how to navigate the workbook efficiently.
4. Ask for the candidate's proposed approach and instruct them to narrate formulas, transformations, and
   quality checks before execution. Encourage them to capture assumptions in a dedicated notes section.
5. Provide step-by-step directions (numbered lists) for each task and clarify how the results should be
   documented for upload (e.g., naming conventions, highlight colors, validation tabs).
6. After each response, critique concisely, link feedback to the rubric, and recommend the next logical probe
   or stretch objective.
7. Remind the candidate they can upload the workbook or share a Google Sheets link through the submission panel
   whenever they want you to review their progress. Specify what you expect to see in the submission.
8. Close by offering structured feedback, priority development actions, and follow-up study resources.

Spreadsheet delivery checklist:
%s- Confirm the candidate knows how to submit their workbook (upload or link) and what success criteria you will
  inspect upon receipt.`,
		in.Name, in.CurrentRole, in.YearsExperience, in.TargetRole,
		in.Scenario, focus, guidance.label, bullets.String()))
}

// SummaryPrompt generates the wrap-up request appended to the conversation
// when a debrief is requested. transcriptJSON is the serialized transcript.
func SummaryPrompt(candidateName, targetRole, transcriptJSON string) string {
	return strings.TrimSpace(fmt.Sprintf(`Provide a final debrief for the Excel mock interview below. Summarize readiness for the target role, quantify the
candidate's proficiency per rubric skill, and list concrete next steps to improve.

Candidate: %s applying for %s
Transcript JSON: %s

Respond using valid JSON with keys "overall_summary" (string), "scorecard" (object of skill -> float), and
"next_steps" (array of strings). Keep insights actionable and reference specific behaviors from the conversation.`,
		candidateName, targetRole, transcriptJSON))
}
