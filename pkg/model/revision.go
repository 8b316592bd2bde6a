// pkg/model/revision.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RevisionType string

const (
	RevisionTypeGeneration RevisionType = "generation" // 自动生成尝试
	RevisionTypeHumanEdit  RevisionType = "human_edit" // 编辑要求修订
)

// ArticleRevision 修订记录，只增不改
type ArticleRevision struct {
	ID                 string       `gorm:"type:uuid;primaryKey" json:"id"`
	ArticleID          string       `gorm:"type:uuid;not null;index" json:"article_id"`
	RevisionNumber     int          `gorm:"not null" json:"revision_number"`
	Type               RevisionType `gorm:"type:varchar(20);not null" json:"type"`
	ReadingLevelBefore float64      `gorm:"type:decimal(4,2);default:0" json:"reading_level_before"`
	ReadingLevelAfter  float64      `gorm:"type:decimal(4,2);default:0" json:"reading_level_after"`
	BodySnapshot       string       `gorm:"type:text" json:"body_snapshot"`
	Feedback           string       `gorm:"type:text" json:"feedback"` // 质量门禁或编辑的反馈
	CreatedAt          time.Time    `json:"created_at"`
}

func (r *ArticleRevision) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
