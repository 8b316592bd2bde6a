// pkg/verify/verifier.go
package verify

import (
	"fmt"
	"log"
	"net/url"
	"strings"

	"dailyworker/pkg/model"
)

// SearchResult 搜索协作方返回的一条结果
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// SearchService 外部检索协作方
type SearchService interface {
	Search(query string) ([]SearchResult, error)
}

// TopicStore 核实阶段依赖的选题存储
type TopicStore interface {
	GetPendingVerification(limit int) ([]*model.Topic, error)
	Save(topic *model.Topic) error
}

// credibleDomains 已知可信域名及其权重
// 这里是关键词式的启发规则，不是真正的多源事实核查
var credibleDomains = map[string]float64{
	"apnews.com":  0.9,
	"reuters.com": 0.9,
	"bls.gov":     1.0,
	"dol.gov":     1.0,
	"nlrb.gov":    1.0,
	"osha.gov":    1.0,
	"census.gov":  1.0,
	"courts.gov":  0.9,
}

// Verifier 来源核实阶段
type Verifier struct {
	search SearchService
	topics TopicStore
}

// NewVerifier 创建核实器
func NewVerifier(search SearchService, topics TopicStore) *Verifier {
	return &Verifier{search: search, topics: topics}
}

// ProcessPending 批量核实待处理选题，单个失败跳过本轮不标记永久失败
func (v *Verifier) ProcessPending(limit int) int {
	topics, err := v.topics.GetPendingVerification(limit)
	if err != nil {
		log.Printf("查询待核实选题失败: %v", err)
		return 0
	}

	done := 0
	for _, topic := range topics {
		if err := v.VerifyTopic(topic); err != nil {
			log.Printf("核实选题 %s 失败，本轮跳过: %v", topic.ID, err)
			continue
		}
		done++
	}
	return done
}

// VerifyTopic 为选题收集来源引用并评定核实级别
func (v *Verifier) VerifyTopic(topic *model.Topic) error {
	results, err := v.search.Search(topic.Title)
	if err != nil {
		return fmt.Errorf("%w: 检索失败: %v", model.ErrExternalService, err)
	}

	plan := make([]model.SourceCitation, 0, len(results))
	facts := make([]string, 0, len(results))
	credibleCount := 0

	for _, result := range results {
		credibility, primary := classifySource(result.URL)
		if credibility >= 0.9 {
			credibleCount++
		}
		plan = append(plan, model.SourceCitation{
			Title:       result.Title,
			URL:         result.URL,
			Snippet:     result.Snippet,
			Primary:     primary,
			Credibility: credibility,
		})
		if snippet := strings.TrimSpace(result.Snippet); snippet != "" {
			facts = append(facts, snippet)
		}
	}

	topic.SourcePlan = plan
	topic.VerifiedFacts = facts
	topic.SourceCount = len(plan)
	topic.VerificationStatus = classifyLevel(len(plan), credibleCount)

	if err := v.topics.Save(topic); err != nil {
		return fmt.Errorf("保存核实结果失败: %w", err)
	}

	log.Printf("选题核实完成: %s 来源数=%d 级别=%s", topic.Title, topic.SourceCount, topic.VerificationStatus)
	return nil
}

// classifyLevel 按来源数量与可信来源数评定核实级别
func classifyLevel(sourceCount, credibleCount int) model.VerificationLevel {
	switch {
	case sourceCount >= 5 && credibleCount >= 2:
		return model.VerificationCertified
	case sourceCount >= 3:
		return model.VerificationVerified
	default:
		return model.VerificationUnverified
	}
}

// classifySource 按域名评定来源可信度，政府域名视为一手来源
func classifySource(rawURL string) (credibility float64, primary bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return 0.3, false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")

	if weight, ok := credibleDomains[host]; ok {
		return weight, strings.HasSuffix(host, ".gov")
	}
	if strings.HasSuffix(host, ".gov") {
		return 1.0, true
	}
	if strings.HasSuffix(host, ".edu") {
		return 0.8, false
	}
	return 0.5, false
}
