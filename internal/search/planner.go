package search

import "strings"

// QueryPlan is the bounded set of query variants for one aggregation
// run. The base query is always the first element; insertion order is
// preserved and duplicates are removed.
type QueryPlan struct {
	Base    string
	Queries []string
}

const maxPlanSize = 5

type roleFamily struct {
	triggers []string
	synonyms []string
}

// roleFamilies is matched in order; the first family whose trigger is
// contained in the base query wins, which keeps the fan-out bounded no
// matter how large the vocabulary grows.
var roleFamilies = []roleFamily{
	{
		triggers: []string{"data engineer"},
		synonyms: []string{"Spark Developer", "Big Data Engineer", "Python Data Engineer", "ETL Developer"},
	},
	{
		triggers: []string{"data scientist"},
		synonyms: []string{"Machine Learning Engineer", "AI Engineer", "Data Analyst"},
	},
	{
		triggers: []string{"frontend", "react"},
		synonyms: []string{"React Developer", "UI Engineer", "Javascript Developer"},
	},
	{
		triggers: []string{"backend", "python"},
		synonyms: []string{"Python Developer", "Django Developer", "Backend Engineer"},
	},
	{
		triggers: []string{"full stack"},
		synonyms: []string{"Full Stack Developer", "Software Engineer"},
	},
}

// Expand derives the query plan for a base query. At most one role
// family is applied, so the plan length is a small constant (≤5).
func Expand(baseQuery string) QueryPlan {
	base := strings.TrimSpace(baseQuery)
	plan := QueryPlan{Base: base}
	if base == "" {
		return plan
	}

	seen := make(map[string]struct{}, maxPlanSize)
	add := func(q string) {
		q = strings.TrimSpace(q)
		if q == "" {
			return
		}
		key := strings.ToLower(q)
		if _, ok := seen[key]; ok {
			return
		}
		if len(plan.Queries) >= maxPlanSize {
			return
		}
		seen[key] = struct{}{}
		plan.Queries = append(plan.Queries, q)
	}

	add(base)

	lower := strings.ToLower(base)
	for _, fam := range roleFamilies {
		if !famMatches(fam, lower) {
			continue
		}
		for _, syn := range fam.synonyms {
			add(syn)
		}
		break
	}

	return plan
}

func famMatches(fam roleFamily, lowerQuery string) bool {
	for _, t := range fam.triggers {
		if strings.Contains(lowerQuery, t) {
			return true
		}
	}
	return false
}
