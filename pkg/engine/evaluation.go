// pkg/engine/evaluation.go
package engine

import (
	"fmt"
	"log"
	"math"
	"time"

	"dailyworker/pkg/config"
	"dailyworker/pkg/model"
	"dailyworker/pkg/scoring"
)

// EventStore 评估引擎依赖的事件存储
type EventStore interface {
	GetByStatus(status model.EventStatus, limit int) ([]*model.EventCandidate, error)
	UpdateEvaluated(event *model.EventCandidate) error
	RecentApprovedTitles(since time.Time) ([]string, error)
}

// TopicStore 选题存储
type TopicStore interface {
	Create(topic *model.Topic) error
}

// Weights 六维度权重，总和必须为1.0
type Weights struct {
	WorkerImpact      float64
	Timeliness        float64
	Verifiability     float64
	RegionalRelevance float64
	Conflict          float64
	Novelty           float64
}

// Validate 校验权重总和
func (w Weights) Validate() error {
	sum := w.WorkerImpact + w.Timeliness + w.Verifiability +
		w.RegionalRelevance + w.Conflict + w.Novelty
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("维度权重总和必须为1.0，当前为 %.4f", sum)
	}
	return nil
}

// Scores 一次评估的各维度得分与总分
type Scores struct {
	WorkerImpact      float64 `json:"worker_impact"`
	Timeliness        float64 `json:"timeliness"`
	Verifiability     float64 `json:"verifiability"`
	RegionalRelevance float64 `json:"regional_relevance"`
	Conflict          float64 `json:"conflict"`
	Novelty           float64 `json:"novelty"`
	Final             float64 `json:"final"` // 0-100
}

// Outcome 批量评估中单个事件的处理结果
type Outcome struct {
	EventID    string            `json:"event_id"`
	Title      string            `json:"title"`
	Status     model.EventStatus `json:"status"`
	FinalScore float64           `json:"final_score"`
	Reason     string            `json:"reason,omitempty"`
	Err        error             `json:"-"`
}

// Engine 新闻价值评估引擎
type Engine struct {
	events        EventStore
	topics        TopicStore
	weights       Weights
	minApproval   float64
	minHold       float64
	noveltyWindow time.Duration
	targetRegions []string
	now           func() time.Time
}

// NewEngine 创建评估引擎，权重不合法时返回错误
func NewEngine(events EventStore, topics TopicStore, cfg *config.Config) (*Engine, error) {
	w := Weights{
		WorkerImpact:      cfg.Evaluation.Weights.WorkerImpact,
		Timeliness:        cfg.Evaluation.Weights.Timeliness,
		Verifiability:     cfg.Evaluation.Weights.Verifiability,
		RegionalRelevance: cfg.Evaluation.Weights.RegionalRelevance,
		Conflict:          cfg.Evaluation.Weights.Conflict,
		Novelty:           cfg.Evaluation.Weights.Novelty,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		events:        events,
		topics:        topics,
		weights:       w,
		minApproval:   cfg.Evaluation.MinApprovalScore,
		minHold:       cfg.Evaluation.MinHoldScore,
		noveltyWindow: time.Duration(cfg.Evaluation.NoveltyWindow) * 24 * time.Hour,
		targetRegions: cfg.Evaluation.TargetRegions,
		now:           time.Now,
	}, nil
}

// ComposeFinal 加权合成总分并放大到 0-100
func (e *Engine) ComposeFinal(s Scores) float64 {
	weighted := s.WorkerImpact*e.weights.WorkerImpact +
		s.Timeliness*e.weights.Timeliness +
		s.Verifiability*e.weights.Verifiability +
		s.RegionalRelevance*e.weights.RegionalRelevance +
		s.Conflict*e.weights.Conflict +
		s.Novelty*e.weights.Novelty
	return weighted * 10
}

// classify 按阈值分档，边界值归属高档
func (e *Engine) classify(final float64) model.EventStatus {
	switch {
	case final >= e.minApproval:
		return model.EventStatusApproved
	case final >= e.minHold:
		return model.EventStatusEvaluated
	default:
		return model.EventStatusRejected
	}
}

// Evaluate 计算单个事件的六维度得分与总分
func (e *Engine) Evaluate(event *model.EventCandidate, recentApprovedTitles []string) Scores {
	s := Scores{
		WorkerImpact:      scoring.WorkerImpact(event),
		Timeliness:        scoring.Timeliness(event, e.now()),
		Verifiability:     scoring.Verifiability(event),
		RegionalRelevance: scoring.RegionalRelevance(event, e.targetRegions),
		Conflict:          scoring.Conflict(event),
		Novelty:           scoring.Novelty(event, recentApprovedTitles),
	}
	s.Final = e.ComposeFinal(s)
	return s
}

// ProcessDiscoveredEvents 批量评估待处理事件
// 每个事件独立落盘，单个事件失败只记录结果，不中断整批
func (e *Engine) ProcessDiscoveredEvents(limit int) []Outcome {
	events, err := e.events.GetByStatus(model.EventStatusDiscovered, limit)
	if err != nil {
		log.Printf("查询待评估事件失败: %v", err)
		return nil
	}
	if len(events) == 0 {
		return nil
	}

	// 新颖度窗口只查一次
	recentTitles, err := e.events.RecentApprovedTitles(e.now().Add(-e.noveltyWindow))
	if err != nil {
		log.Printf("查询新颖度窗口失败，按空窗口处理: %v", err)
		recentTitles = nil
	}

	outcomes := make([]Outcome, 0, len(events))
	for _, event := range events {
		outcome := e.processOne(event, recentTitles)
		if outcome.Err != nil {
			log.Printf("评估事件 %s 失败: %v", event.ID, outcome.Err)
		} else {
			log.Printf("评估事件完成: %s 总分=%.1f 状态=%s", event.Title, outcome.FinalScore, outcome.Status)
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

// processOne 评估并落盘单个事件
func (e *Engine) processOne(event *model.EventCandidate, recentTitles []string) Outcome {
	scores := e.Evaluate(event, recentTitles)

	event.WorkerImpactScore = scores.WorkerImpact
	event.TimelinessScore = scores.Timeliness
	event.VerifiabilityScore = scores.Verifiability
	event.RegionalRelevanceScore = scores.RegionalRelevance
	event.ConflictScore = scores.Conflict
	event.NoveltyScore = scores.Novelty
	event.FinalScore = scores.Final

	now := e.now()
	event.EvaluatedAt = &now

	// 分类：>=65 通过，[30,65) 暂缓，<30 拒绝
	switch e.classify(scores.Final) {
	case model.EventStatusApproved:
		event.Status = model.EventStatusApproved
		event.RejectionReason = ""

		topic := e.buildTopic(event)
		if err := e.topics.Create(topic); err != nil {
			// 选题创建失败回退为暂缓并记录原因，不重试
			event.Status = model.EventStatusEvaluated
			event.RejectionReason = fmt.Sprintf(
				"approved at %.1f but topic creation failed: %v", scores.Final, err)
		}
	case model.EventStatusEvaluated:
		event.Status = model.EventStatusEvaluated
		event.RejectionReason = fmt.Sprintf(
			"score %.1f in hold band [%.1f, %.1f)", scores.Final, e.minHold, e.minApproval)
	default:
		event.Status = model.EventStatusRejected
		event.RejectionReason = fmt.Sprintf(
			"score %.1f below hold threshold %.1f", scores.Final, e.minHold)
	}

	if err := e.events.UpdateEvaluated(event); err != nil {
		return Outcome{
			EventID:    event.ID,
			Title:      event.Title,
			FinalScore: scores.Final,
			Err:        fmt.Errorf("落盘评估结果失败: %w", err),
		}
	}

	return Outcome{
		EventID:    event.ID,
		Title:      event.Title,
		Status:     event.Status,
		FinalScore: scores.Final,
		Reason:     event.RejectionReason,
	}
}

// buildTopic 由通过的事件构建选题
func (e *Engine) buildTopic(event *model.EventCandidate) *model.Topic {
	return &model.Topic{
		EventID:            event.ID,
		Title:              event.Title,
		Category:           InferCategory(event),
		Regions:            event.Regions,
		VerificationStatus: model.VerificationPending,
	}
}
