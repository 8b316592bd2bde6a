// pkg/scoring/scorers.go
package scoring

import (
	"math"
	"regexp"
	"strings"
	"time"

	"dailyworker/pkg/model"
)

// 各维度评分均为纯函数，输入相同结果相同，返回值落在 [0,10]

// workerImpactKeywords 劳工影响关键词及权重
var workerImpactKeywords = map[string]float64{
	"strike":       3.0,
	"layoff":       3.0,
	"layoffs":      3.0,
	"union":        2.5,
	"wage":         2.5,
	"wages":        2.5,
	"workers":      2.0,
	"labor":        2.0,
	"unemployment": 2.0,
	"pension":      1.5,
	"benefits":     1.5,
	"safety":       1.5,
	"organizing":   1.5,
	"contract":     1.0,
	"picket":       1.0,
	"overtime":     1.0,
}

// conflictKeywords 冲突张力关键词及权重
var conflictKeywords = map[string]float64{
	"dispute":     2.5,
	"lawsuit":     2.5,
	"protest":     2.5,
	"strike":      2.0,
	"walkout":     2.0,
	"standoff":    2.0,
	"clash":       2.0,
	"refuses":     1.5,
	"rejected":    1.5,
	"accuses":     1.5,
	"violation":   1.5,
	"fired":       1.5,
	"retaliation": 1.5,
	"crackdown":   1.5,
}

// verifiabilityCues 可核实性线索：具名信源、官方材料等
var verifiabilityCues = []string{
	"according to",
	"statement",
	"report",
	"filing",
	"records",
	"data",
	"announced",
	"confirmed",
	"documents",
	"testimony",
}

var (
	tokenRE  = regexp.MustCompile(`[a-z0-9]+(?:'[a-z0-9]+)?`)
	numberRE = regexp.MustCompile(`\d+(?:[.,]\d+)?%?`)
	quoteRE  = regexp.MustCompile(`"[^"]{10,}"`)
)

// clamp 把得分限制在 [0,10]
func clamp(score float64) float64 {
	return math.Max(0, math.Min(10, score))
}

// keywordScore 按关键词权重累计标题和描述的命中得分，标题权重翻倍
func keywordScore(event *model.EventCandidate, keywords map[string]float64) float64 {
	title := strings.ToLower(event.Title)
	desc := strings.ToLower(event.Description)

	var score float64
	for kw, weight := range keywords {
		if strings.Contains(title, kw) {
			score += weight * 2
		}
		if strings.Contains(desc, kw) {
			score += weight
		}
	}
	return score
}

// WorkerImpact 劳工影响度评分
func WorkerImpact(event *model.EventCandidate) float64 {
	return clamp(keywordScore(event, workerImpactKeywords))
}

// Timeliness 时效性评分：6小时内满分，72小时线性衰减到0
func Timeliness(event *model.EventCandidate, now time.Time) float64 {
	age := now.Sub(event.DiscoveredAt)
	if age <= 0 {
		return 10
	}
	hours := age.Hours()
	if hours <= 6 {
		return 10
	}
	if hours >= 72 {
		return 0
	}
	return clamp(10 * (72 - hours) / 66)
}

// Verifiability 可核实性评分：具名来源、引语、数字、官方材料线索
func Verifiability(event *model.EventCandidate) float64 {
	var score float64

	if event.SourceName != "" {
		score += 2.5
	}
	if event.SourceURL != "" {
		score += 1.5
	}

	text := strings.ToLower(event.Title + " " + event.Description)
	for _, cue := range verifiabilityCues {
		if strings.Contains(text, cue) {
			score += 1.0
		}
	}

	// 描述中的具体数字和直接引语提升可核实性
	if numberRE.MatchString(event.Description) {
		score += 1.5
	}
	if quoteRE.MatchString(event.Description) {
		score += 1.5
	}

	return clamp(score)
}

// RegionalRelevance 地域相关性评分：与配置的目标地区比对
func RegionalRelevance(event *model.EventCandidate, targetRegions []string) float64 {
	if len(targetRegions) == 0 {
		// 未配置目标地区时一律视为中等相关
		return 5.0
	}
	if len(event.Regions) == 0 {
		// 未标注地区按全国性新闻给基准分
		return 4.0
	}

	targets := make(map[string]bool, len(targetRegions))
	for _, r := range targetRegions {
		targets[strings.ToLower(strings.TrimSpace(r))] = true
	}

	matched := 0
	for _, r := range event.Regions {
		if targets[strings.ToLower(strings.TrimSpace(r))] {
			matched++
		}
	}
	if matched == 0 {
		return 2.0
	}

	// 命中一个目标地区给8分，全部命中给满分
	fraction := float64(matched) / float64(len(event.Regions))
	return clamp(8 + 2*fraction)
}

// Conflict 冲突性评分
func Conflict(event *model.EventCandidate) float64 {
	return clamp(keywordScore(event, conflictKeywords))
}

// Novelty 新颖度评分：与近7天已通过事件标题比对，重复则扣分
func Novelty(event *model.EventCandidate, recentApprovedTitles []string) float64 {
	score := 10.0
	eventTokens := tokenSet(event.Title)

	for _, title := range recentApprovedTitles {
		sim := jaccard(eventTokens, tokenSet(title))
		switch {
		case sim >= 0.8:
			score -= 6.0
		case sim >= 0.5:
			score -= 3.0
		case sim >= 0.3:
			score -= 1.0
		}
	}
	return clamp(score)
}

// tokenSet 标题分词为小写词集
func tokenSet(s string) map[string]bool {
	tokens := tokenRE.FindAllString(strings.ToLower(s), -1)
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}

// jaccard 词集相似度
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if b[t] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
