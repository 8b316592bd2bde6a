// pkg/model/event.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventStatus string

const (
	EventStatusDiscovered EventStatus = "discovered"
	EventStatusApproved   EventStatus = "approved"
	EventStatusEvaluated  EventStatus = "evaluated" // 暂缓（hold）
	EventStatusRejected   EventStatus = "rejected"
)

// EventCandidate 发现阶段产出的候选新闻事件
type EventCandidate struct {
	ID            string      `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string      `gorm:"not null" json:"title"`
	Description   string      `gorm:"type:text" json:"description"`
	SourceURL     string      `gorm:"uniqueIndex" json:"source_url"`
	SourceName    string      `json:"source_name"`
	SuggestedSlug string      `gorm:"type:varchar(100)" json:"suggested_slug"` // 采集器建议的分类slug
	Regions       []string    `gorm:"type:jsonb;serializer:json" json:"regions"`
	Status        EventStatus `gorm:"type:varchar(20);default:'discovered';index" json:"status"`
	DiscoveredAt  time.Time   `gorm:"not null;index" json:"discovered_at"`

	// 评估后回填的各维度得分（0-10）与总分（0-100）
	WorkerImpactScore      float64 `gorm:"type:decimal(4,2);default:0" json:"worker_impact_score"`
	TimelinessScore        float64 `gorm:"type:decimal(4,2);default:0" json:"timeliness_score"`
	VerifiabilityScore     float64 `gorm:"type:decimal(4,2);default:0" json:"verifiability_score"`
	RegionalRelevanceScore float64 `gorm:"type:decimal(4,2);default:0" json:"regional_relevance_score"`
	ConflictScore          float64 `gorm:"type:decimal(4,2);default:0" json:"conflict_score"`
	NoveltyScore           float64 `gorm:"type:decimal(4,2);default:0" json:"novelty_score"`
	FinalScore             float64 `gorm:"type:decimal(5,2);default:0;index" json:"final_score"`

	RejectionReason string    `gorm:"type:text" json:"rejection_reason"`
	EvaluatedAt     *time.Time `json:"evaluated_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (e *EventCandidate) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

func (EventCandidate) TableName() string {
	return "event_candidates"
}
