// pkg/monitor/monitor.go
package monitor

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"dailyworker/pkg/config"
	"dailyworker/pkg/model"
)

// FoundMention 协作方发现的一条文章提及
type FoundMention struct {
	Platform   string    `json:"platform"`
	URL        string    `json:"url"`
	Engagement int       `json:"engagement"`
	FoundAt    time.Time `json:"found_at"`
}

// MentionService 外部提及检索协作方
type MentionService interface {
	FindMentions(article *model.Article) ([]FoundMention, error)
}

// ArticleStore 监控阶段依赖的文章存储
type ArticleStore interface {
	GetPublishedSince(since time.Time, limit int) ([]*model.Article, error)
}

// TopicStore 取文章对应选题的来源计划
type TopicStore interface {
	GetByID(id string) (*model.Topic, error)
}

// MentionStore 提及存储
type MentionStore interface {
	Save(mention *model.Mention) error
	ExistsByURL(url string) (bool, error)
}

// SourceStore 来源可信度存储
type SourceStore interface {
	GetByDomain(domain string) (*model.Source, error)
	Save(source *model.Source) error
	AdjustScore(source *model.Source, log *model.SourceReliabilityLog) error
	HasArticleLog(articleID string, eventType model.ReliabilityEventType) (bool, error)
}

// CycleStats 一轮监控的汇总
type CycleStats struct {
	ArticlesChecked int
	NewMentions     int
	SourcesCredited int
}

// Monitor 发布后监控：扫描窗口内的文章提及并给来源记可信度
type Monitor struct {
	mentions   MentionService
	articles   ArticleStore
	topics     TopicStore
	mentionDB  MentionStore
	sources    SourceStore
	windowDays int
	batchLimit int
	now        func() time.Time
}

// NewMonitor 创建监控器
func NewMonitor(mentions MentionService, articles ArticleStore, topics TopicStore,
	mentionDB MentionStore, sources SourceStore, cfg *config.Config) *Monitor {

	windowDays := cfg.Monitoring.WindowDays
	if windowDays == 0 {
		windowDays = 7
	}
	batchLimit := cfg.Monitoring.BatchLimit
	if batchLimit == 0 {
		batchLimit = 100
	}
	return &Monitor{
		mentions:   mentions,
		articles:   articles,
		topics:     topics,
		mentionDB:  mentionDB,
		sources:    sources,
		windowDays: windowDays,
		batchLimit: batchLimit,
		now:        time.Now,
	}
}

// RunCycle 执行一轮监控，单篇文章失败只记日志不中断
func (m *Monitor) RunCycle() CycleStats {
	since := m.now().AddDate(0, 0, -m.windowDays)

	articles, err := m.articles.GetPublishedSince(since, m.batchLimit)
	if err != nil {
		log.Printf("查询监控窗口文章失败: %v", err)
		return CycleStats{}
	}

	stats := CycleStats{ArticlesChecked: len(articles)}
	for _, article := range articles {
		found, err := m.trackMentions(article)
		if err != nil {
			log.Printf("监控文章 %s 提及失败: %v", article.ID, err)
		}
		stats.NewMentions += found

		credited, err := m.creditSources(article)
		if err != nil {
			log.Printf("文章 %s 来源记分失败: %v", article.ID, err)
		}
		stats.SourcesCredited += credited
	}

	log.Printf("监控完成: 检查%d篇 新提及%d条 来源记分%d次",
		stats.ArticlesChecked, stats.NewMentions, stats.SourcesCredited)
	return stats
}

// trackMentions 收集文章提及，按URL去重落盘
func (m *Monitor) trackMentions(article *model.Article) (int, error) {
	found, err := m.mentions.FindMentions(article)
	if err != nil {
		return 0, fmt.Errorf("%w: 提及检索失败: %v", model.ErrExternalService, err)
	}

	saved := 0
	for _, mention := range found {
		exists, err := m.mentionDB.ExistsByURL(mention.URL)
		if err != nil {
			log.Printf("查询提及去重失败: %v", err)
			continue
		}
		if exists {
			continue
		}

		foundAt := mention.FoundAt
		if foundAt.IsZero() {
			foundAt = m.now()
		}
		record := &model.Mention{
			ArticleID:  article.ID,
			Platform:   mention.Platform,
			URL:        mention.URL,
			Engagement: mention.Engagement,
			FoundAt:    foundAt,
		}
		if err := m.mentionDB.Save(record); err != nil {
			log.Printf("保存提及失败: %v", err)
			continue
		}
		saved++
	}
	return saved, nil
}

// creditSources 文章平稳发布后给引用来源各加一档可信度，上限5
// 每篇文章只记一次分，靠日志表做幂等保护
func (m *Monitor) creditSources(article *model.Article) (int, error) {
	already, err := m.sources.HasArticleLog(article.ID, model.ReliabilityEventArticlePublished)
	if err != nil {
		return 0, fmt.Errorf("查询记分日志失败: %w", err)
	}
	if already {
		return 0, nil
	}

	topic, err := m.topics.GetByID(article.TopicID)
	if err != nil {
		return 0, err
	}

	credited := 0
	for _, domain := range citationDomains(topic.SourcePlan) {
		source, err := m.ensureSource(domain)
		if err != nil {
			log.Printf("查询来源 %s 失败: %v", domain, err)
			continue
		}

		previous := source.CredibilityScore
		newScore := previous + 1
		if newScore > 5 {
			newScore = 5
		}

		source.CredibilityScore = newScore
		err = m.sources.AdjustScore(source, &model.SourceReliabilityLog{
			SourceID:      source.ID,
			ArticleID:     &article.ID,
			EventType:     model.ReliabilityEventArticlePublished,
			PreviousScore: previous,
			NewScore:      newScore,
		})
		if err != nil {
			log.Printf("保存来源记分失败: %v", err)
			continue
		}
		credited++
	}
	return credited, nil
}

// ensureSource 按域名取来源，没有则以默认可信度建档
func (m *Monitor) ensureSource(domain string) (*model.Source, error) {
	source, err := m.sources.GetByDomain(domain)
	if err == nil {
		return source, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	source = &model.Source{
		Name:             domain,
		Domain:           domain,
		CredibilityScore: 3,
	}
	if err := m.sources.Save(source); err != nil {
		return nil, fmt.Errorf("建档来源失败: %w", err)
	}
	return source, nil
}

// citationDomains 从来源计划提取去重后的域名
func citationDomains(plan []model.SourceCitation) []string {
	seen := make(map[string]bool)
	var domains []string
	for _, citation := range plan {
		u, err := url.Parse(citation.URL)
		if err != nil || u.Host == "" {
			continue
		}
		host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
		if seen[host] {
			continue
		}
		seen[host] = true
		domains = append(domains, host)
	}
	return domains
}
