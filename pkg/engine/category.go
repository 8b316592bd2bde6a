// pkg/engine/category.go
package engine

import (
	"strings"

	"dailyworker/pkg/model"
)

// 已知栏目
var knownCategories = map[string]bool{
	"labor":       true,
	"politics":    true,
	"housing":     true,
	"environment": true,
	"economy":     true,
	"health":      true,
}

// categoryKeywords 栏目关键词，按顺序匹配，先命中先得
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"labor", []string{"strike", "union", "layoff", "wage", "workers", "labor", "picket", "overtime"}},
	{"housing", []string{"rent", "eviction", "housing", "tenant", "landlord", "homeless"}},
	{"environment", []string{"pollution", "climate", "toxic", "spill", "emissions", "water"}},
	{"health", []string{"hospital", "insurance", "medicaid", "clinic", "health"}},
	{"economy", []string{"inflation", "prices", "economy", "recession", "jobs report"}},
	{"politics", []string{"election", "bill", "senate", "council", "legislation", "vote"}},
}

// InferCategory 推断选题栏目：优先用采集器建议的slug，否则按关键词匹配
func InferCategory(event *model.EventCandidate) string {
	slug := strings.ToLower(strings.TrimSpace(event.SuggestedSlug))
	if knownCategories[slug] {
		return slug
	}

	text := strings.ToLower(event.Title + " " + event.Description)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				return entry.category
			}
		}
	}

	return "general"
}
