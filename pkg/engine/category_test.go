package engine

import (
	"testing"

	"dailyworker/pkg/model"
)

func TestInferCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		event *model.EventCandidate
		want  string
	}{
		{
			"采集器建议的slug优先",
			&model.EventCandidate{SuggestedSlug: "housing", Title: "Workers strike at plant"},
			"housing",
		},
		{
			"slug大小写与空格归一化",
			&model.EventCandidate{SuggestedSlug: "  Labor ", Title: "anything"},
			"labor",
		},
		{
			"未知slug回退关键词匹配",
			&model.EventCandidate{SuggestedSlug: "breaking", Title: "Union files for election"},
			"labor",
		},
		{
			"描述里的关键词也参与匹配",
			&model.EventCandidate{Title: "City hall update", Description: "tenants face eviction next month"},
			"housing",
		},
		{
			"labor关键词先于politics命中",
			&model.EventCandidate{Title: "Senate bill would cut overtime pay"},
			"labor",
		},
		{
			"无命中归入general",
			&model.EventCandidate{Title: "Museum opens new exhibit"},
			"general",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := InferCategory(tt.event); got != tt.want {
				t.Fatalf("期望栏目 %s，实际 %s", tt.want, got)
			}
		})
	}
}
