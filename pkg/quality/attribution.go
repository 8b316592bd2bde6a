// pkg/quality/attribution.go
package quality

import (
	"fmt"
	"net/url"
	"strings"

	"dailyworker/pkg/model"
)

// AttributionResult 引用覆盖率校验结果
type AttributionResult struct {
	Coverage float64  `json:"coverage"` // 被引用的一手来源比例
	Cited    []string `json:"cited"`
	Missing  []string `json:"missing"`
	Passed   bool     `json:"passed"`
}

// BuildCitationInstructions 根据来源计划生成提示词中的引用要求
func BuildCitationInstructions(plan []model.SourceCitation) string {
	if len(plan) == 0 {
		return "No source plan available. Do not invent sources; attribute every factual claim."
	}

	var b strings.Builder
	b.WriteString("Cite the following sources by name. Primary sources are mandatory:\n")
	for _, citation := range plan {
		marker := "secondary"
		if citation.Primary {
			marker = "PRIMARY"
		}
		fmt.Fprintf(&b, "- [%s] %s (%s): %s\n", marker, citation.Title, citation.URL, citation.Snippet)
	}
	b.WriteString("Attribute each fact to its source using phrases like \"according to\".\n")
	return b.String()
}

// ValidateAttribution 事后校验：一手来源被实际引用的比例须达到 minCoverage
func ValidateAttribution(body string, plan []model.SourceCitation, minCoverage float64) AttributionResult {
	bodyLower := strings.ToLower(body)

	var result AttributionResult
	primaryTotal := 0
	primaryCited := 0

	for _, citation := range plan {
		cited := citationMentioned(bodyLower, citation)
		if cited {
			result.Cited = append(result.Cited, citation.Title)
		} else {
			result.Missing = append(result.Missing, citation.Title)
		}
		if citation.Primary {
			primaryTotal++
			if cited {
				primaryCited++
			}
		}
	}

	if primaryTotal == 0 {
		// 没有一手来源时不设覆盖率要求
		result.Coverage = 1.0
	} else {
		result.Coverage = float64(primaryCited) / float64(primaryTotal)
	}
	result.Passed = result.Coverage >= minCoverage

	return result
}

// citationMentioned 来源标题、域名或URL在正文中出现即视为已引用
func citationMentioned(bodyLower string, citation model.SourceCitation) bool {
	if citation.Title != "" && strings.Contains(bodyLower, strings.ToLower(citation.Title)) {
		return true
	}
	if citation.URL == "" {
		return false
	}
	if strings.Contains(bodyLower, strings.ToLower(citation.URL)) {
		return true
	}
	if u, err := url.Parse(citation.URL); err == nil && u.Host != "" {
		host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
		if host != "" && strings.Contains(bodyLower, host) {
			return true
		}
	}
	return false
}
