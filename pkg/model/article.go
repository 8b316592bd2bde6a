// pkg/model/article.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ArticleStatus string

const (
	ArticleStatusDraft             ArticleStatus = "draft"
	ArticleStatusUnderReview       ArticleStatus = "under_review"
	ArticleStatusRevisionRequested ArticleStatus = "revision_requested"
	ArticleStatusNeedsSeniorReview ArticleStatus = "needs_senior_review"
	ArticleStatusApproved          ArticleStatus = "approved"
	ArticleStatusPublished         ArticleStatus = "published"
	ArticleStatusArchived          ArticleStatus = "archived"
)

// ArticleAction 编辑流程动作
type ArticleAction string

const (
	ActionAssign          ArticleAction = "assign"
	ActionApprove         ArticleAction = "approve"
	ActionRequestRevision ArticleAction = "request_revision"
	ActionEscalate        ArticleAction = "escalate"
	ActionRework          ArticleAction = "rework"
	ActionReject          ArticleAction = "reject"
	ActionPublish         ArticleAction = "publish"
	ActionArchive         ArticleAction = "archive"
)

// articleTransitions 状态流转表：当前状态 × 动作 → 下一状态
// 不在表中的组合一律视为非法流转
var articleTransitions = map[ArticleStatus]map[ArticleAction]ArticleStatus{
	ArticleStatusDraft: {
		ActionAssign: ArticleStatusUnderReview,
	},
	ArticleStatusUnderReview: {
		ActionApprove:         ArticleStatusApproved,
		ActionRequestRevision: ArticleStatusRevisionRequested,
		ActionEscalate:        ArticleStatusNeedsSeniorReview,
		ActionReject:          ArticleStatusArchived,
	},
	ArticleStatusRevisionRequested: {
		ActionRework: ArticleStatusDraft,
	},
	ArticleStatusNeedsSeniorReview: {
		ActionApprove: ArticleStatusApproved,
		ActionReject:  ArticleStatusArchived,
	},
	ArticleStatusApproved: {
		ActionPublish: ArticleStatusPublished,
	},
	ArticleStatusPublished: {
		ActionArchive: ArticleStatusArchived,
	},
}

// NextArticleStatus 查流转表，非法组合返回 ErrInvalidTransition
func NextArticleStatus(current ArticleStatus, action ArticleAction) (ArticleStatus, error) {
	actions, ok := articleTransitions[current]
	if !ok {
		return "", fmt.Errorf("%w: 状态 %s 不允许任何操作", ErrInvalidTransition, current)
	}
	next, ok := actions[action]
	if !ok {
		return "", fmt.Errorf("%w: 状态 %s 不允许操作 %s", ErrInvalidTransition, current, action)
	}
	return next, nil
}

// Article 文章（草稿到发布的唯一单元）
type Article struct {
	ID              string        `gorm:"type:uuid;primaryKey" json:"id"`
	TopicID         string        `gorm:"type:uuid;not null;uniqueIndex" json:"topic_id"`
	Title           string        `gorm:"not null" json:"title"`
	Body            string        `gorm:"type:text" json:"body"`
	Category        string        `gorm:"type:varchar(50);index" json:"category"`
	Status          ArticleStatus `gorm:"type:varchar(30);default:'draft';index" json:"status"`
	ReadingLevel    float64       `gorm:"type:decimal(4,2);default:0" json:"reading_level"`
	SelfAuditPassed bool          `gorm:"default:false;index" json:"self_audit_passed"` // 为真才允许分配编辑
	SelfAuditScore  float64       `gorm:"type:decimal(5,2);default:0" json:"self_audit_score"`
	AssignedEditor  string        `gorm:"type:varchar(100)" json:"assigned_editor"`
	ReviewDeadline  *time.Time    `gorm:"index" json:"review_deadline"`
	RevisionCount   int           `gorm:"default:0" json:"revision_count"` // human_edit 修订次数
	PublishedAt     *time.Time    `gorm:"index" json:"published_at"`       // 仅在发布流转时设置一次
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	// 关联
	Topic     Topic             `gorm:"foreignKey:TopicID" json:"topic,omitempty"`
	Revisions []ArticleRevision `gorm:"foreignKey:ArticleID" json:"revisions,omitempty"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
