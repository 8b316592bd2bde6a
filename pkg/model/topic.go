// pkg/model/topic.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VerificationLevel 来源核实深度
type VerificationLevel string

const (
	VerificationPending    VerificationLevel = "pending"
	VerificationUnverified VerificationLevel = "unverified"
	VerificationVerified   VerificationLevel = "verified"
	VerificationCertified  VerificationLevel = "certified"
)

// SourceCitation 核实阶段整理的引用来源
type SourceCitation struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Snippet     string  `json:"snippet"`
	Primary     bool    `json:"primary"`     // 是否一手来源
	Credibility float64 `json:"credibility"` // 来源可信度权重 0-1
}

// Topic 审批通过的事件晋升为选题，一个选题最多对应一篇文章
type Topic struct {
	ID                 string            `gorm:"type:uuid;primaryKey" json:"id"`
	EventID            string            `gorm:"type:uuid;not null;uniqueIndex" json:"event_id"`
	Title              string            `gorm:"not null" json:"title"`
	Category           string            `gorm:"type:varchar(50);not null;index" json:"category"`
	Regions            []string          `gorm:"type:jsonb;serializer:json" json:"regions"`
	VerificationStatus VerificationLevel `gorm:"type:varchar(20);default:'pending';index" json:"verification_status"`
	SourceCount        int               `gorm:"default:0" json:"source_count"`
	SourcePlan         []SourceCitation  `gorm:"type:jsonb;serializer:json" json:"source_plan"`
	VerifiedFacts      []string          `gorm:"type:jsonb;serializer:json" json:"verified_facts"`
	ArticleID          *string           `gorm:"type:uuid" json:"article_id"` // 生成成功后回填
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`

	// 关联
	Event EventCandidate `gorm:"foreignKey:EventID" json:"event,omitempty"`
}

func (t *Topic) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
