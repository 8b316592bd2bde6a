// pkg/model/source.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReliabilityEventType 来源可信度调整事件类型
type ReliabilityEventType string

const (
	ReliabilityEventArticlePublished    ReliabilityEventType = "article_published"
	ReliabilityEventCorrectionPublished ReliabilityEventType = "correction_published"
)

// Source 新闻来源，可信度1-5，随发布/更正事件调整
type Source struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string    `gorm:"not null" json:"name"`
	Domain           string    `gorm:"uniqueIndex" json:"domain"`
	CredibilityScore int       `gorm:"default:3" json:"credibility_score"` // 1-5
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// 调整历史
	ReliabilityLogs []SourceReliabilityLog `gorm:"foreignKey:SourceID" json:"reliability_logs,omitempty"`
}

func (s *Source) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// SourceReliabilityLog 可信度调整日志，只增不改
type SourceReliabilityLog struct {
	ID            string               `gorm:"type:uuid;primaryKey" json:"id"`
	SourceID      string               `gorm:"type:uuid;not null;index" json:"source_id"`
	ArticleID     *string              `gorm:"type:uuid;index" json:"article_id"`
	CorrectionID  *string              `gorm:"type:uuid" json:"correction_id"`
	EventType     ReliabilityEventType `gorm:"type:varchar(30);not null;index" json:"event_type"`
	PreviousScore int                  `gorm:"not null" json:"previous_score"`
	NewScore      int                  `gorm:"not null" json:"new_score"`
	CreatedAt     time.Time            `json:"created_at"`
}

func (l *SourceReliabilityLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}
