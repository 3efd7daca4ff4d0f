package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

type searchCacheKeyInput struct {
	TenantID string   `json:"tenant_id"`
	Query    string   `json:"query"`
	Location string   `json:"location"`
	Skills   []string `json:"skills"`
	Matcher  string   `json:"matcher"`
	Limit    int      `json:"limit"`
}

func normalizeSearchValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

func SearchResultCacheKey(tenantID string, p SearchParams) string {
	skills := make([]string, 0, len(p.Profile.Skills))
	for _, s := range p.Profile.Skills {
		s = normalizeSearchValue(s)
		if s == "" {
			continue
		}
		skills = append(skills, s)
	}

	in := searchCacheKeyInput{
		TenantID: tenantID,
		Query:    normalizeSearchValue(p.Query),
		Location: normalizeSearchValue(p.Location),
		Skills:   skills,
		Matcher:  p.Matcher,
		Limit:    p.Limit,
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "search:result:" + hex.EncodeToString(sum[:])
}

func SearchLockKey(resultKey string) string {
	resultKey = strings.TrimSpace(resultKey)
	if strings.HasPrefix(resultKey, "search:result:") {
		return "search:lock:" + strings.TrimPrefix(resultKey, "search:result:")
	}
	return "search:lock:" + resultKey
}
