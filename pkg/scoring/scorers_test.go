package scoring

import (
	"testing"
	"time"

	"dailyworker/pkg/model"
)

func TestWorkerImpact(t *testing.T) {
	t.Parallel()

	strike := &model.EventCandidate{
		Title:       "Auto workers strike over wage cuts",
		Description: "Union members walked out after layoffs were announced.",
	}
	weather := &model.EventCandidate{
		Title:       "Sunny weekend expected across the region",
		Description: "Temperatures will stay mild through Monday.",
	}

	if got := WorkerImpact(strike); got <= WorkerImpact(weather) {
		t.Fatalf("劳工新闻得分应高于天气新闻: %.1f vs %.1f", got, WorkerImpact(weather))
	}
	if got := WorkerImpact(strike); got < 0 || got > 10 {
		t.Fatalf("得分越界: %.1f", got)
	}
	if got := WorkerImpact(weather); got != 0 {
		t.Fatalf("无关键词事件应得0分，实际 %.1f", got)
	}
}

func TestTimeliness(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	event := func(age time.Duration) *model.EventCandidate {
		return &model.EventCandidate{DiscoveredAt: now.Add(-age)}
	}

	tests := []struct {
		name string
		age  time.Duration
		want float64
	}{
		{"刚发现满分", 0, 10},
		{"6小时内满分", 5 * time.Hour, 10},
		{"72小时归零", 72 * time.Hour, 0},
		{"超过72小时归零", 100 * time.Hour, 0},
	}
	for _, tt := range tests {
		if got := Timeliness(event(tt.age), now); got != tt.want {
			t.Fatalf("%s: 期望 %.1f，实际 %.1f", tt.name, tt.want, got)
		}
	}

	// 中间段线性衰减
	mid := Timeliness(event(39*time.Hour), now)
	if mid <= 0 || mid >= 10 {
		t.Fatalf("39小时应在(0,10)之间: %.2f", mid)
	}
	later := Timeliness(event(48*time.Hour), now)
	if later >= mid {
		t.Fatalf("更旧的事件时效分应更低: %.2f >= %.2f", later, mid)
	}
}

func TestVerifiability(t *testing.T) {
	t.Parallel()

	rich := &model.EventCandidate{
		Title:       "Plant closure confirmed in official filing",
		Description: `According to records, 1,200 jobs will be cut. "We were given no warning at all," one worker said.`,
		SourceName:  "County Ledger",
		SourceURL:   "https://countyledger.example/plant-closure",
	}
	bare := &model.EventCandidate{
		Title:       "Something happened",
		Description: "People are talking about it.",
	}

	if got := Verifiability(rich); got <= Verifiability(bare) {
		t.Fatalf("线索丰富的事件可核实性应更高: %.1f vs %.1f", got, Verifiability(bare))
	}
	if got := Verifiability(rich); got > 10 {
		t.Fatalf("得分越界: %.1f", got)
	}
}

func TestRegionalRelevance(t *testing.T) {
	t.Parallel()

	targets := []string{"midwest", "rust-belt"}

	tests := []struct {
		name    string
		regions []string
		targets []string
		want    float64
	}{
		{"未配置目标地区", []string{"midwest"}, nil, 5.0},
		{"事件未标注地区", nil, targets, 4.0},
		{"无命中", []string{"coastal"}, targets, 2.0},
		{"全部命中", []string{"midwest"}, targets, 10.0},
	}
	for _, tt := range tests {
		event := &model.EventCandidate{Regions: tt.regions}
		if got := RegionalRelevance(event, tt.targets); got != tt.want {
			t.Fatalf("%s: 期望 %.1f，实际 %.1f", tt.name, tt.want, got)
		}
	}

	// 部分命中落在 (8,10)
	event := &model.EventCandidate{Regions: []string{"midwest", "coastal"}}
	if got := RegionalRelevance(event, targets); got != 9.0 {
		t.Fatalf("半数命中应为9.0，实际 %.1f", got)
	}
}

func TestNovelty(t *testing.T) {
	t.Parallel()

	event := &model.EventCandidate{Title: "Warehouse workers vote to form union in Ohio"}

	if got := Novelty(event, nil); got != 10 {
		t.Fatalf("无近期事件应满分，实际 %.1f", got)
	}

	// 近乎相同的标题重罚
	dup := Novelty(event, []string{"Warehouse workers vote to form union in Ohio today"})
	if dup > 4.0 {
		t.Fatalf("高度重复应重罚: %.1f", dup)
	}

	// 无关标题不扣分
	unrelated := Novelty(event, []string{"City council approves new park budget"})
	if unrelated != 10 {
		t.Fatalf("无关标题不应扣分，实际 %.1f", unrelated)
	}

	if got := Novelty(event, []string{
		"Warehouse workers vote to form union in Ohio",
		"Warehouse workers vote to form a union in Ohio",
	}); got < 0 {
		t.Fatalf("得分不能为负: %.1f", got)
	}
}
