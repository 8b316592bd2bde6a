// pkg/quality/self_audit.go
package quality

import (
	"fmt"
	"regexp"
	"strings"

	"dailyworker/pkg/model"
)

// AuditInput 自查输入
type AuditInput struct {
	Title           string
	Body            string
	ReadingLevel    float64
	ReadingLevelMin float64
	ReadingLevelMax float64
	SourcePlan      []model.SourceCitation
	VerifiedFacts   []string
	Attribution     AttributionResult
}

// AuditResult 十项编辑自查结果
type AuditResult struct {
	Checklist map[string]bool   `json:"checklist"`
	Details   map[string]string `json:"details"`
	Score     float64           `json:"score"` // 通过项百分比
	Passed    bool              `json:"passed"`
}

// FailedCriteria 未通过的检查项及说明，供下一次生成反馈
func (r AuditResult) FailedCriteria() []string {
	var failed []string
	for criterion, ok := range r.Checklist {
		if !ok {
			failed = append(failed, fmt.Sprintf("%s: %s", criterion, r.Details[criterion]))
		}
	}
	return failed
}

var (
	opinionRE      = regexp.MustCompile(`(?i)\b(i think|i believe|clearly|obviously|undoubtedly|everyone agrees)\b`)
	allCapsRE      = regexp.MustCompile(`\b[A-Z]{4,}\b`)
	quotedRE       = regexp.MustCompile(`"[^"]{10,}"`)
	attributionCue = regexp.MustCompile(`(?i)\b(said|says|told|according to|stated|announced)\b`)
)

// SelfAudit 十项编辑检查清单
// passFraction 为通过所需的最低通过项比例（策略常量，默认0.8）
func SelfAudit(input AuditInput, passFraction float64) AuditResult {
	checklist := make(map[string]bool, 10)
	details := make(map[string]string, 10)

	body := input.Body
	check := func(criterion string, ok bool, detail string) {
		checklist[criterion] = ok
		details[criterion] = detail
	}

	// 1. 引用了来源计划中的来源
	citedAny := len(input.Attribution.Cited) > 0
	check("sources_cited", citedAny,
		fmt.Sprintf("cited %d of %d planned sources", len(input.Attribution.Cited), len(input.SourcePlan)))

	// 2. 一手来源引用覆盖率达标
	check("attribution_coverage", input.Attribution.Passed,
		fmt.Sprintf("primary source coverage %.0f%%", input.Attribution.Coverage*100))

	// 3. 阅读水平在目标区间内
	check("reading_level_in_range",
		InBand(input.ReadingLevel, input.ReadingLevelMin, input.ReadingLevelMax),
		fmt.Sprintf("grade level %.1f, target %.1f-%.1f",
			input.ReadingLevel, input.ReadingLevelMin, input.ReadingLevelMax))

	// 4. 无未标注的观点表达
	opinions := opinionRE.FindAllString(body, -1)
	check("no_unlabeled_opinion", len(opinions) == 0,
		fmt.Sprintf("found %d opinion markers: %s", len(opinions), strings.Join(opinions, ", ")))

	// 5. 标题规范
	titleOK := input.Title != "" && len(input.Title) <= 120
	check("headline_ok", titleOK, fmt.Sprintf("title length %d", len(input.Title)))

	// 6. 篇幅达标
	words := WordCount(body)
	check("adequate_length", words >= 300, fmt.Sprintf("%d words, minimum 300", words))

	// 7. 导语完整
	firstPara := body
	if idx := strings.Index(body, "\n\n"); idx > 0 {
		firstPara = body[:idx]
	}
	check("lede_present", WordCount(firstPara) >= 20,
		fmt.Sprintf("first paragraph has %d words", WordCount(firstPara)))

	// 8. 核实事实有落实到正文
	grounded := factsGrounded(body, input.VerifiedFacts)
	check("facts_grounded", grounded >= 0.5,
		fmt.Sprintf("%.0f%% of verified facts reflected", grounded*100))

	// 9. 无煽动式表达
	caps := allCapsRE.FindAllString(body, -1)
	check("no_sensationalism", len(caps) == 0,
		fmt.Sprintf("found %d all-caps words", len(caps)))

	// 10. 直接引语有出处
	check("quotes_attributed", quotesAttributed(body),
		"every direct quote needs said/told/according to nearby")

	passed := 0
	for _, ok := range checklist {
		if ok {
			passed++
		}
	}
	score := float64(passed) / float64(len(checklist)) * 100

	return AuditResult{
		Checklist: checklist,
		Details:   details,
		Score:     score,
		Passed:    float64(passed)/float64(len(checklist)) >= passFraction,
	}
}

// factsGrounded 统计核实事实在正文中的落实比例（词集重叠）
func factsGrounded(body string, facts []string) float64 {
	if len(facts) == 0 {
		return 1.0
	}
	bodyLower := strings.ToLower(body)
	hit := 0
	for _, fact := range facts {
		words := wordRE.FindAllString(strings.ToLower(fact), -1)
		matched := 0
		for _, w := range words {
			if len(w) > 3 && strings.Contains(bodyLower, w) {
				matched++
			}
		}
		if len(words) > 0 && float64(matched)/float64(len(words)) >= 0.5 {
			hit++
		}
	}
	return float64(hit) / float64(len(facts))
}

// quotesAttributed 每段含直接引语的文字附近须有表述动词
func quotesAttributed(body string) bool {
	for _, para := range strings.Split(body, "\n\n") {
		if quotedRE.MatchString(para) && !attributionCue.MatchString(para) {
			return false
		}
	}
	return true
}
