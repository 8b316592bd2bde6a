// pkg/model/notification.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationRecord 编辑通知记录
type NotificationRecord struct {
	ID        string     `gorm:"type:uuid;primaryKey" json:"id"`
	ArticleID string     `gorm:"type:uuid;index" json:"article_id"`
	Recipient string     `gorm:"type:varchar(100);not null" json:"recipient"`
	Type      string     `gorm:"type:varchar(30);not null" json:"type"` // assignment, overdue, correction
	Title     string     `gorm:"not null" json:"title"`
	Content   string     `json:"content"`
	Status    string     `gorm:"type:varchar(20);default:'pending'" json:"status"` // pending, sent, failed
	SentAt    *time.Time `json:"sent_at"`
	Error     string     `json:"error"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (n *NotificationRecord) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}
