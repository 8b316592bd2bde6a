package engine

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"dailyworker/pkg/config"
	"dailyworker/pkg/model"
)

type fakeEventStore struct {
	events  []*model.EventCandidate
	recent  []string
	updated []*model.EventCandidate
	failID  string
}

func (f *fakeEventStore) GetByStatus(status model.EventStatus, limit int) ([]*model.EventCandidate, error) {
	return f.events, nil
}

func (f *fakeEventStore) UpdateEvaluated(event *model.EventCandidate) error {
	if event.ID == f.failID {
		return errors.New("db unavailable")
	}
	f.updated = append(f.updated, event)
	return nil
}

func (f *fakeEventStore) RecentApprovedTitles(since time.Time) ([]string, error) {
	return f.recent, nil
}

type fakeTopicStore struct {
	created []*model.Topic
	fail    bool
}

func (f *fakeTopicStore) Create(topic *model.Topic) error {
	if f.fail {
		return errors.New("db unavailable")
	}
	f.created = append(f.created, topic)
	return nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Evaluation.Weights.WorkerImpact = 0.30
	cfg.Evaluation.Weights.Timeliness = 0.20
	cfg.Evaluation.Weights.Verifiability = 0.20
	cfg.Evaluation.Weights.RegionalRelevance = 0.15
	cfg.Evaluation.Weights.Conflict = 0.10
	cfg.Evaluation.Weights.Novelty = 0.05
	cfg.Evaluation.MinApprovalScore = 65.0
	cfg.Evaluation.MinHoldScore = 30.0
	cfg.Evaluation.NoveltyWindow = 7
	cfg.Evaluation.TargetRegions = []string{"midwest", "rust-belt"}
	return cfg
}

// 高分事件：劳工冲突关键词密集、刚发现、来源齐全、命中目标地区
func strongEvent(now time.Time) *model.EventCandidate {
	return &model.EventCandidate{
		ID:    "evt-strong",
		Title: "Steelworkers strike over unpaid wages after mass layoffs",
		Description: `According to an official filing, 1,400 workers walked out in a dispute over safety violations. ` +
			`"We have not been paid in three weeks," a union steward said in a statement.`,
		SourceName:   "County Ledger",
		SourceURL:    "https://countyledger.example/steel-strike",
		Regions:      []string{"midwest"},
		Status:       model.EventStatusDiscovered,
		DiscoveredAt: now,
	}
}

// 中档事件：无劳工与冲突信号，但来源可查且时效新鲜
func mediumEvent(now time.Time) *model.EventCandidate {
	return &model.EventCandidate{
		ID:           "evt-medium",
		Title:        "City budget session moved to next week",
		Description:  "",
		SourceName:   "Town Gazette",
		SourceURL:    "https://towngazette.example/budget",
		Status:       model.EventStatusDiscovered,
		DiscoveredAt: now,
	}
}

// 低分事件：无任何信号且已过时效窗口
func weakEvent(now time.Time) *model.EventCandidate {
	return &model.EventCandidate{
		ID:           "evt-weak",
		Title:        "Old item",
		Description:  "",
		Status:       model.EventStatusDiscovered,
		DiscoveredAt: now.Add(-100 * time.Hour),
	}
}

func TestWeightsValidate(t *testing.T) {
	t.Parallel()

	valid := Weights{0.30, 0.20, 0.20, 0.15, 0.10, 0.05}
	if err := valid.Validate(); err != nil {
		t.Fatalf("合法权重报错: %v", err)
	}

	invalid := Weights{0.30, 0.20, 0.20, 0.15, 0.10, 0.10}
	if err := invalid.Validate(); err == nil {
		t.Fatal("权重总和1.05应报错")
	}
}

func TestNewEngineRejectsBadWeights(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Evaluation.Weights.Novelty = 0.5

	if _, err := NewEngine(&fakeEventStore{}, &fakeTopicStore{}, cfg); err == nil {
		t.Fatal("非法权重应拒绝创建引擎")
	}
}

func TestComposeFinal(t *testing.T) {
	t.Parallel()

	eng, err := NewEngine(&fakeEventStore{}, &fakeTopicStore{}, testConfig())
	if err != nil {
		t.Fatalf("创建引擎失败: %v", err)
	}

	all10 := Scores{10, 10, 10, 10, 10, 10, 0}
	if got := eng.ComposeFinal(all10); got != 100 {
		t.Fatalf("全满分应合成100，实际 %.1f", got)
	}

	zero := Scores{}
	if got := eng.ComposeFinal(zero); got != 0 {
		t.Fatalf("全零分应合成0，实际 %.1f", got)
	}

	// 只有劳工影响满分时，总分等于其权重占比
	onlyImpact := Scores{WorkerImpact: 10}
	if got := eng.ComposeFinal(onlyImpact); got != 30 {
		t.Fatalf("期望30，实际 %.1f", got)
	}
}

func TestComposeFinalWeightedScenarios(t *testing.T) {
	t.Parallel()

	eng, err := NewEngine(&fakeEventStore{}, &fakeTopicStore{}, testConfig())
	if err != nil {
		t.Fatalf("创建引擎失败: %v", err)
	}

	tests := []struct {
		name   string
		scores Scores
		want   float64
	}{
		// 9*.30 + 8*.20 + 7*.20 + 6*.15 + 5*.10 + 4*.05 = 7.3 → 73.0
		{"递减分档合成73", Scores{9, 8, 7, 6, 5, 4, 0}, 73.0},
		// 3*.30 + 3*.20 + 3*.20 + 4*.15 + 3*.10 + 4*.05 = 3.2 → 32.0
		{"低分档合成32", Scores{3, 3, 3, 4, 3, 4, 0}, 32.0},
	}
	for _, tt := range tests {
		got := eng.ComposeFinal(tt.scores)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("%s: 期望 %.1f，实际 %.10f", tt.name, tt.want, got)
		}
	}
}

func TestClassifyBoundaries(t *testing.T) {
	t.Parallel()

	eng, err := NewEngine(&fakeEventStore{}, &fakeTopicStore{}, testConfig())
	if err != nil {
		t.Fatalf("创建引擎失败: %v", err)
	}

	tests := []struct {
		final float64
		want  model.EventStatus
	}{
		{100.0, model.EventStatusApproved},
		{73.0, model.EventStatusApproved},
		{65.0, model.EventStatusApproved}, // 边界值归属高档
		{64.9, model.EventStatusEvaluated},
		{32.0, model.EventStatusEvaluated},
		{30.0, model.EventStatusEvaluated}, // 边界值归属高档
		{29.99, model.EventStatusRejected},
		{0.0, model.EventStatusRejected},
	}
	for _, tt := range tests {
		if got := eng.classify(tt.final); got != tt.want {
			t.Fatalf("classify(%.2f) = %s，期望 %s", tt.final, got, tt.want)
		}
	}
}

func TestProcessDiscoveredEventsClassification(t *testing.T) {
	t.Parallel()

	now := time.Now()
	events := &fakeEventStore{
		events: []*model.EventCandidate{strongEvent(now), mediumEvent(now), weakEvent(now)},
	}
	topics := &fakeTopicStore{}

	eng, err := NewEngine(events, topics, testConfig())
	if err != nil {
		t.Fatalf("创建引擎失败: %v", err)
	}

	outcomes := eng.ProcessDiscoveredEvents(10)
	if len(outcomes) != 3 {
		t.Fatalf("期望3条结果，实际 %d", len(outcomes))
	}

	byID := make(map[string]Outcome, len(outcomes))
	for _, o := range outcomes {
		byID[o.EventID] = o
	}

	if got := byID["evt-strong"]; got.Status != model.EventStatusApproved {
		t.Fatalf("高分事件应通过，实际 %s (%.1f)", got.Status, got.FinalScore)
	}
	if got := byID["evt-medium"]; got.Status != model.EventStatusEvaluated {
		t.Fatalf("中档事件应暂缓，实际 %s (%.1f)", got.Status, got.FinalScore)
	}
	if got := byID["evt-weak"]; got.Status != model.EventStatusRejected {
		t.Fatalf("低分事件应拒绝，实际 %s (%.1f)", got.Status, got.FinalScore)
	}

	// 只有通过的事件建选题
	if len(topics.created) != 1 {
		t.Fatalf("期望创建1个选题，实际 %d", len(topics.created))
	}
	if topics.created[0].EventID != "evt-strong" {
		t.Fatalf("选题应来自通过事件，实际 %s", topics.created[0].EventID)
	}
	if topics.created[0].VerificationStatus != model.VerificationPending {
		t.Fatalf("新选题应待核实，实际 %s", topics.created[0].VerificationStatus)
	}

	// 暂缓与拒绝都要有原因
	if byID["evt-medium"].Reason == "" || byID["evt-weak"].Reason == "" {
		t.Fatal("暂缓与拒绝必须携带原因")
	}
}

func TestProcessContinuesAfterFailure(t *testing.T) {
	t.Parallel()

	now := time.Now()
	events := &fakeEventStore{
		events: []*model.EventCandidate{weakEvent(now), mediumEvent(now)},
		failID: "evt-weak",
	}

	eng, err := NewEngine(events, &fakeTopicStore{}, testConfig())
	if err != nil {
		t.Fatalf("创建引擎失败: %v", err)
	}

	outcomes := eng.ProcessDiscoveredEvents(10)
	if len(outcomes) != 2 {
		t.Fatalf("失败事件不应中断整批，期望2条结果，实际 %d", len(outcomes))
	}
	if outcomes[0].Err == nil {
		t.Fatal("落盘失败的事件应携带错误")
	}
	if outcomes[1].Err != nil {
		t.Fatalf("后续事件应正常处理: %v", outcomes[1].Err)
	}
	if len(events.updated) != 1 {
		t.Fatalf("只有成功事件落盘，期望1条，实际 %d", len(events.updated))
	}
}

func TestTopicCreationFailureFallsBackToHold(t *testing.T) {
	t.Parallel()

	now := time.Now()
	events := &fakeEventStore{events: []*model.EventCandidate{strongEvent(now)}}
	topics := &fakeTopicStore{fail: true}

	eng, err := NewEngine(events, topics, testConfig())
	if err != nil {
		t.Fatalf("创建引擎失败: %v", err)
	}

	outcomes := eng.ProcessDiscoveredEvents(10)
	if len(outcomes) != 1 {
		t.Fatalf("期望1条结果，实际 %d", len(outcomes))
	}
	if outcomes[0].Status != model.EventStatusEvaluated {
		t.Fatalf("选题创建失败应回退为暂缓，实际 %s", outcomes[0].Status)
	}
	if !strings.Contains(outcomes[0].Reason, "topic creation failed") {
		t.Fatalf("原因应记录选题创建失败: %s", outcomes[0].Reason)
	}
}
