// Package rubric defines the static skill catalog used to instruct the
// interviewer persona and to key score aggregation.
package rubric

// Skill identifiers. These are the keys the LLM is instructed to use in
// rubric_scores, so they must stay in sync with the composer prompts.
const (
	ExcelFunctions = "excel_functions"
	DataAnalysis   = "data_analysis"
	Automation     = "automation"
	BusinessAcumen = "business_acumen"
	Storytelling   = "storytelling"
)

// skillOrder fixes the iteration order for prompts and API responses.
var skillOrder = []string{
	ExcelFunctions,
	DataAnalysis,
	Automation,
	BusinessAcumen,
	Storytelling,
}

var descriptions = map[string]string{
	ExcelFunctions: "Ability to apply advanced formulas (INDEX/MATCH, XLOOKUP, array formulas).",
	DataAnalysis:   "Skill in manipulating, cleaning, and analyzing datasets using tables, pivot tables, and Power Query.",
	Automation:     "Proficiency with macros, VBA, Office Scripts, and process automation within Excel.",
	BusinessAcumen: "Ability to translate business problems into analytical Excel solutions and communicate insights.",
	Storytelling:   "Clarity and structure when presenting findings, including dashboards and executive-ready narratives.",
}

// Skills returns all skill identifiers in stable order.
func Skills() []string {
	out := make([]string, len(skillOrder))
	copy(out, skillOrder)
	return out
}

// Describe returns the human-readable description for a skill identifier.
// The second return value is false for unknown skills.
func Describe(skill string) (string, bool) {
	d, ok := descriptions[skill]
	return d, ok
}

// Catalog returns the full skill -> description mapping. The returned map
// is a copy; callers may mutate it freely.
func Catalog() map[string]string {
	out := make(map[string]string, len(descriptions))
	for k, v := range descriptions {
		out[k] = v
	}
	return out
}
