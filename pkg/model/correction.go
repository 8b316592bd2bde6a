// pkg/model/correction.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CorrectionStatus string

const (
	CorrectionStatusPending   CorrectionStatus = "pending"
	CorrectionStatusVerified  CorrectionStatus = "verified"
	CorrectionStatusPublished CorrectionStatus = "published"
	CorrectionStatusRejected  CorrectionStatus = "rejected"
)

type CorrectionAction string

const (
	CorrectionActionVerify  CorrectionAction = "verify"
	CorrectionActionPublish CorrectionAction = "publish"
	CorrectionActionReject  CorrectionAction = "reject"
)

// correctionTransitions 更正只能前向流转：pending→verified→published 或 pending→rejected
var correctionTransitions = map[CorrectionStatus]map[CorrectionAction]CorrectionStatus{
	CorrectionStatusPending: {
		CorrectionActionVerify: CorrectionStatusVerified,
		CorrectionActionReject: CorrectionStatusRejected,
	},
	CorrectionStatusVerified: {
		CorrectionActionPublish: CorrectionStatusPublished,
	},
}

// NextCorrectionStatus 查更正流转表
func NextCorrectionStatus(current CorrectionStatus, action CorrectionAction) (CorrectionStatus, error) {
	actions, ok := correctionTransitions[current]
	if !ok {
		return "", fmt.Errorf("%w: 更正状态 %s 不允许任何操作", ErrInvalidTransition, current)
	}
	next, ok := actions[action]
	if !ok {
		return "", fmt.Errorf("%w: 更正状态 %s 不允许操作 %s", ErrInvalidTransition, current, action)
	}
	return next, nil
}

// Correction 发布后事实更正
type Correction struct {
	ID          string           `gorm:"type:uuid;primaryKey" json:"id"`
	ArticleID   string           `gorm:"type:uuid;not null;index" json:"article_id"`
	SourceID    *string          `gorm:"type:uuid" json:"source_id"` // 出错信息的来源，发布更正时据此扣可信度
	Description string           `gorm:"type:text;not null" json:"description"`
	FlaggedBy   string           `gorm:"type:varchar(100)" json:"flagged_by"`
	Status      CorrectionStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	IsPublished bool             `gorm:"default:false" json:"is_published"`
	PublishedAt *time.Time       `json:"published_at"` // 仅在发布流转时设置
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// 关联
	Article Article `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
}

func (c *Correction) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
