package search

import (
	"strings"
	"testing"
)

func TestExpand_DataEngineerFamily(t *testing.T) {
	plan := Expand("Senior Data Engineer")

	if len(plan.Queries) == 0 || plan.Queries[0] != "Senior Data Engineer" {
		t.Fatalf("expected base query first, got %v", plan.Queries)
	}
	if len(plan.Queries) > 5 {
		t.Fatalf("plan too large: %d", len(plan.Queries))
	}

	want := map[string]bool{
		"spark developer":      false,
		"big data engineer":    false,
		"python data engineer": false,
		"etl developer":        false,
	}
	found := 0
	for _, q := range plan.Queries[1:] {
		if _, ok := want[strings.ToLower(q)]; ok {
			found++
		}
	}
	if found == 0 {
		t.Fatalf("expected at least one data-engineer synonym, got %v", plan.Queries)
	}
}

func TestExpand_NoFamilyMatch(t *testing.T) {
	plan := Expand("Unrelated Title")
	if len(plan.Queries) != 1 {
		t.Fatalf("expected exactly the base query, got %v", plan.Queries)
	}
	if plan.Queries[0] != "Unrelated Title" {
		t.Fatalf("unexpected base: %q", plan.Queries[0])
	}
}

func TestExpand_FirstFamilyWins(t *testing.T) {
	// Query matches both the data-engineer and backend families; only
	// the first in priority order may be applied.
	plan := Expand("python data engineer")
	for _, q := range plan.Queries {
		if strings.EqualFold(q, "Django Developer") {
			t.Fatalf("second family leaked into plan: %v", plan.Queries)
		}
	}
	if len(plan.Queries) > 5 {
		t.Fatalf("plan too large: %d", len(plan.Queries))
	}
}

func TestExpand_DeduplicatesCaseInsensitive(t *testing.T) {
	plan := Expand("ETL Developer data engineer")
	seen := map[string]int{}
	for _, q := range plan.Queries {
		seen[strings.ToLower(q)]++
	}
	for q, n := range seen {
		if n > 1 {
			t.Fatalf("duplicate query %q in plan %v", q, plan.Queries)
		}
	}
}

func TestExpand_EmptyQuery(t *testing.T) {
	plan := Expand("   ")
	if len(plan.Queries) != 0 {
		t.Fatalf("expected empty plan, got %v", plan.Queries)
	}
}
