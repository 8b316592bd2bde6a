package collector

import (
	"dailyworker/pkg/model"
)

// EventSource 线索来源获取接口
type EventSource interface {
	Name() string
	FetchCandidates() ([]*model.EventCandidate, error)
}
