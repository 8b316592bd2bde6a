// pkg/quality/bias.go
package quality

import (
	"regexp"
	"strings"
)

// BiasReport 偏见与幻觉扫描结果
type BiasReport struct {
	HallucinatedClaims []string `json:"hallucinated_claims"`
	PropagandaPatterns []string `json:"propaganda_patterns"`
	BiasIndicators     []string `json:"bias_indicators"`
	OverallScore       string   `json:"overall_score"` // PASS / FAIL
}

// Flags 汇总所有问题项，供生成反馈
func (r BiasReport) Flags() []string {
	var flags []string
	for _, c := range r.HallucinatedClaims {
		flags = append(flags, "hallucinated claim: "+c)
	}
	for _, p := range r.PropagandaPatterns {
		flags = append(flags, "propaganda pattern: "+p)
	}
	for _, b := range r.BiasIndicators {
		flags = append(flags, "bias indicator: "+b)
	}
	return flags
}

// propagandaPhrases 宣传话术
var propagandaPhrases = []string{
	"everyone knows",
	"the only solution",
	"wake up",
	"they don't want you to know",
	"the truth they hide",
	"real americans",
	"the elites",
	"sheep",
}

// loadedWords 带立场的用词，未经引述直接使用视为偏见信号
var loadedWords = []string{
	"disastrous",
	"heroic",
	"evil",
	"corrupt",
	"outrageous",
	"shameful",
	"glorious",
	"radical",
	"extremist",
}

var (
	claimMarkerRE = regexp.MustCompile(`\d`)
	sentenceSplit = regexp.MustCompile(`[.!?]+\s+`)
)

// DetectBias 扫描草稿：幻觉声明、宣传话术、偏见用词
// 有任一幻觉声明、或宣传话术≥2、或偏见用词≥3 即判 FAIL
func DetectBias(body string, verifiedFacts []string) BiasReport {
	report := BiasReport{OverallScore: "PASS"}

	// 幻觉检查：含具体数字的句子必须能追溯到核实事实
	factTokens := make(map[string]bool)
	for _, fact := range verifiedFacts {
		for _, w := range wordRE.FindAllString(strings.ToLower(fact), -1) {
			if len(w) > 3 {
				factTokens[w] = true
			}
		}
	}

	for _, sentence := range sentenceSplit.Split(body, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" || !claimMarkerRE.MatchString(sentence) {
			continue
		}
		if !traceable(sentence, factTokens) {
			report.HallucinatedClaims = append(report.HallucinatedClaims, truncate(sentence, 120))
		}
	}

	bodyLower := strings.ToLower(body)
	for _, phrase := range propagandaPhrases {
		if strings.Contains(bodyLower, phrase) {
			report.PropagandaPatterns = append(report.PropagandaPatterns, phrase)
		}
	}

	for _, word := range loadedWords {
		for _, para := range strings.Split(bodyLower, "\n\n") {
			// 引语里出现的立场用词属于受访者表态，不算偏见
			if strings.Contains(para, word) && !quotedRE.MatchString(para) {
				report.BiasIndicators = append(report.BiasIndicators, word)
				break
			}
		}
	}

	if len(report.HallucinatedClaims) > 0 ||
		len(report.PropagandaPatterns) >= 2 ||
		len(report.BiasIndicators) >= 3 {
		report.OverallScore = "FAIL"
	}

	return report
}

// traceable 句子与核实事实有足够词汇重叠
func traceable(sentence string, factTokens map[string]bool) bool {
	if len(factTokens) == 0 {
		return false
	}
	words := wordRE.FindAllString(strings.ToLower(sentence), -1)
	matched := 0
	total := 0
	for _, w := range words {
		if len(w) <= 3 {
			continue
		}
		total++
		if factTokens[w] {
			matched++
		}
	}
	if total == 0 {
		return true
	}
	return float64(matched)/float64(total) >= 0.3
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
