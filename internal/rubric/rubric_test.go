package rubric

import "testing"

func TestSkillsStableOrder(t *testing.T) {
	first := Skills()
	second := Skills()

	if len(first) != 5 {
		t.Fatalf("expected 5 skills, got %d", len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("skill order not stable at %d: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestEverySkillHasDescription(t *testing.T) {
	for _, skill := range Skills() {
		desc, ok := Describe(skill)
		if !ok {
			t.Errorf("skill %q missing from descriptions", skill)
		}
		if desc == "" {
			t.Errorf("skill %q has empty description", skill)
		}
	}
}

func TestDescribeUnknown(t *testing.T) {
	if _, ok := Describe("juggling"); ok {
		t.Error("Describe returned ok for unknown skill")
	}
}

func TestCatalogIsCopy(t *testing.T) {
	c := Catalog()
	c[DataAnalysis] = "mutated"

	desc, _ := Describe(DataAnalysis)
	if desc == "mutated" {
		t.Error("mutating Catalog() result leaked into the package state")
	}
}
