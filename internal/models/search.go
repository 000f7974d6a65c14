package models

import "strings"

// SearchParams captures the inputs every source adapter receives.
type SearchParams struct {
	Skills   string
	Location string
	Limit    int
}

// SkillList splits the comma-separated skills string and drops empty entries.
func (p SearchParams) SkillList() []string {
	parts := strings.Split(p.Skills, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
