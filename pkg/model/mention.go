// pkg/model/mention.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Mention 发布后在社交平台发现的文章提及
type Mention struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	ArticleID  string    `gorm:"type:uuid;not null;index" json:"article_id"`
	Platform   string    `gorm:"type:varchar(30);not null" json:"platform"`
	URL        string    `gorm:"uniqueIndex" json:"url"`
	Engagement int       `gorm:"default:0" json:"engagement"`
	FoundAt    time.Time `json:"found_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (m *Mention) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
