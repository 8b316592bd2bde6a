// pkg/database/notification.go
package database

import (
	"fmt"

	"gorm.io/gorm"

	"dailyworker/pkg/model"
)

type NotificationDB struct {
	db *gorm.DB
}

func (d *DB) Notifications() *NotificationDB {
	return &NotificationDB{db: d.db}
}

func (n *NotificationDB) Save(record *model.NotificationRecord) error {
	return n.db.Save(record).Error
}

func (n *NotificationDB) ListByRecipient(recipient string, limit int) ([]*model.NotificationRecord, error) {
	var records []*model.NotificationRecord
	err := n.db.Where("recipient = ?", recipient).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error

	if err != nil {
		return nil, fmt.Errorf("查询通知记录失败: %w", err)
	}
	return records, nil
}
