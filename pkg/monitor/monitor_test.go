package monitor

import (
	"errors"
	"testing"
	"time"

	"dailyworker/pkg/config"
	"dailyworker/pkg/model"
)

type fakeMentionService struct {
	found map[string][]FoundMention
	err   error
}

func (f *fakeMentionService) FindMentions(article *model.Article) ([]FoundMention, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.found[article.ID], nil
}

type fakeArticleStore struct {
	published []*model.Article
}

func (f *fakeArticleStore) GetPublishedSince(since time.Time, limit int) ([]*model.Article, error) {
	return f.published, nil
}

type fakeTopicStore struct {
	topics map[string]*model.Topic
}

func (f *fakeTopicStore) GetByID(id string) (*model.Topic, error) {
	topic, ok := f.topics[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return topic, nil
}

type fakeMentionStore struct {
	saved []*model.Mention
	known map[string]bool
}

func (f *fakeMentionStore) Save(mention *model.Mention) error {
	f.saved = append(f.saved, mention)
	f.known[mention.URL] = true
	return nil
}

func (f *fakeMentionStore) ExistsByURL(url string) (bool, error) {
	return f.known[url], nil
}

type fakeSourceStore struct {
	sources map[string]*model.Source
	logs    []*model.SourceReliabilityLog
	logged  map[string]bool // articleID → 已记分
}

func (f *fakeSourceStore) GetByDomain(domain string) (*model.Source, error) {
	source, ok := f.sources[domain]
	if !ok {
		return nil, model.ErrNotFound
	}
	return source, nil
}

func (f *fakeSourceStore) Save(source *model.Source) error {
	source.ID = "src-" + source.Domain
	f.sources[source.Domain] = source
	return nil
}

func (f *fakeSourceStore) AdjustScore(source *model.Source, log *model.SourceReliabilityLog) error {
	f.sources[source.Domain] = source
	f.logs = append(f.logs, log)
	if log.ArticleID != nil {
		f.logged[*log.ArticleID] = true
	}
	return nil
}

func (f *fakeSourceStore) HasArticleLog(articleID string, eventType model.ReliabilityEventType) (bool, error) {
	return f.logged[articleID], nil
}

func monitorConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Monitoring.WindowDays = 7
	cfg.Monitoring.BatchLimit = 100
	return cfg
}

func publishedArticle() *model.Article {
	published := time.Now().Add(-24 * time.Hour)
	return &model.Article{
		ID:          "a1",
		TopicID:     "t1",
		Title:       "Riverside workers authorize strike",
		Status:      model.ArticleStatusPublished,
		PublishedAt: &published,
	}
}

func topicWithSources() *model.Topic {
	return &model.Topic{
		ID: "t1",
		SourcePlan: []model.SourceCitation{
			{Title: "Labor Board", URL: "https://laborboard.example.gov/filing", Primary: true},
			{Title: "Local Paper", URL: "https://www.localpaper.example/story"},
			{Title: "Labor Board again", URL: "https://laborboard.example.gov/other"},
		},
	}
}

func newTestMonitor(mentions MentionService) (*Monitor, *fakeMentionStore, *fakeSourceStore) {
	articles := &fakeArticleStore{published: []*model.Article{publishedArticle()}}
	topics := &fakeTopicStore{topics: map[string]*model.Topic{"t1": topicWithSources()}}
	mentionDB := &fakeMentionStore{known: make(map[string]bool)}
	sources := &fakeSourceStore{
		sources: make(map[string]*model.Source),
		logged:  make(map[string]bool),
	}
	m := NewMonitor(mentions, articles, topics, mentionDB, sources, monitorConfig())
	return m, mentionDB, sources
}

func TestRunCycleTracksMentions(t *testing.T) {
	t.Parallel()

	mentions := &fakeMentionService{found: map[string][]FoundMention{
		"a1": {
			{Platform: "twitter", URL: "https://social.example/post/1", Engagement: 40},
			{Platform: "reddit", URL: "https://social.example/post/2", Engagement: 12},
			{Platform: "twitter", URL: "https://social.example/post/1", Engagement: 40}, // 重复
		},
	}}
	m, mentionDB, _ := newTestMonitor(mentions)

	stats := m.RunCycle()
	if stats.ArticlesChecked != 1 {
		t.Fatalf("应检查1篇文章，实际 %d", stats.ArticlesChecked)
	}
	if stats.NewMentions != 2 {
		t.Fatalf("重复URL应去重，期望2条新提及，实际 %d", stats.NewMentions)
	}
	if len(mentionDB.saved) != 2 {
		t.Fatalf("期望落2条提及，实际 %d", len(mentionDB.saved))
	}
	if mentionDB.saved[0].ArticleID != "a1" {
		t.Fatalf("提及应挂到文章，实际 %s", mentionDB.saved[0].ArticleID)
	}

	// 第二轮不再重复落盘
	stats = m.RunCycle()
	if stats.NewMentions != 0 {
		t.Fatalf("已记录的提及不应重复落盘，实际新增 %d", stats.NewMentions)
	}
}

func TestRunCycleCreditsSourcesOnce(t *testing.T) {
	t.Parallel()

	m, _, sources := newTestMonitor(&fakeMentionService{})
	sources.sources["laborboard.example.gov"] = &model.Source{
		ID: "src-lb", Domain: "laborboard.example.gov", CredibilityScore: 3,
	}

	stats := m.RunCycle()

	// 来源计划含两个不同域名，各记一次分
	if stats.SourcesCredited != 2 {
		t.Fatalf("期望2个来源记分，实际 %d", stats.SourcesCredited)
	}
	if got := sources.sources["laborboard.example.gov"].CredibilityScore; got != 4 {
		t.Fatalf("已有来源应加到4，实际 %d", got)
	}
	// 未建档的域名以默认3分建档后加1
	if got := sources.sources["localpaper.example"].CredibilityScore; got != 4 {
		t.Fatalf("新来源应为4，实际 %d", got)
	}
	for _, log := range sources.logs {
		if log.EventType != model.ReliabilityEventArticlePublished {
			t.Fatalf("事件类型不符: %s", log.EventType)
		}
	}

	// 同一篇文章第二轮不再记分
	stats = m.RunCycle()
	if stats.SourcesCredited != 0 {
		t.Fatalf("同一文章只记一次分，实际又记了 %d", stats.SourcesCredited)
	}
	if len(sources.logs) != 2 {
		t.Fatalf("日志不应增长，实际 %d", len(sources.logs))
	}
}

func TestCreditCapsAtFive(t *testing.T) {
	t.Parallel()

	m, _, sources := newTestMonitor(&fakeMentionService{})
	sources.sources["laborboard.example.gov"] = &model.Source{
		ID: "src-lb", Domain: "laborboard.example.gov", CredibilityScore: 5,
	}

	m.RunCycle()

	if got := sources.sources["laborboard.example.gov"].CredibilityScore; got != 5 {
		t.Fatalf("可信度上限为5，实际 %d", got)
	}
}

func TestRunCycleSurvivesMentionServiceFailure(t *testing.T) {
	t.Parallel()

	m, _, sources := newTestMonitor(&fakeMentionService{err: errors.New("service down")})

	stats := m.RunCycle()
	if stats.ArticlesChecked != 1 {
		t.Fatalf("提及服务故障不应中断监控，实际检查 %d 篇", stats.ArticlesChecked)
	}
	// 来源记分不受提及服务影响
	if stats.SourcesCredited != 2 {
		t.Fatalf("来源记分应照常进行，实际 %d", stats.SourcesCredited)
	}
	_ = sources
}
