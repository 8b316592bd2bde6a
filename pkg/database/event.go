// pkg/database/event.go
package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"dailyworker/pkg/model"
)

type EventDB struct {
	db *gorm.DB
}

func (d *DB) Events() *EventDB {
	return &EventDB{db: d.db}
}

func (e *EventDB) Save(event *model.EventCandidate) error {
	return e.db.Save(event).Error
}

func (e *EventDB) GetByID(id string) (*model.EventCandidate, error) {
	var event model.EventCandidate
	err := e.db.First(&event, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: 事件 %s", model.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("查询事件失败: %w", err)
	}
	return &event, nil
}

func (e *EventDB) GetByStatus(status model.EventStatus, limit int) ([]*model.EventCandidate, error) {
	var events []*model.EventCandidate
	err := e.db.Where("status = ?", status).
		Order("discovered_at ASC").
		Limit(limit).
		Find(&events).Error

	if err != nil {
		return nil, fmt.Errorf("查询事件失败: %w", err)
	}
	return events, nil
}

// UpdateEvaluated 在单独事务中落盘一个事件的评估结果
// 批量评估时每个事件独立提交，单个失败不影响其他事件
func (e *EventDB) UpdateEvaluated(event *model.EventCandidate) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		return tx.Save(event).Error
	})
}

// RecentApprovedTitles 查询窗口期内已通过事件的标题，供新颖度评分去重
func (e *EventDB) RecentApprovedTitles(since time.Time) ([]string, error) {
	var titles []string
	err := e.db.Model(&model.EventCandidate{}).
		Where("status = ? AND evaluated_at >= ?", model.EventStatusApproved, since).
		Pluck("title", &titles).Error

	if err != nil {
		return nil, fmt.Errorf("查询近期通过事件失败: %w", err)
	}
	return titles, nil
}

// 检查事件是否已存在（根据URL去重）
func (e *EventDB) ExistsByURL(url string) (bool, error) {
	var count int64
	err := e.db.Model(&model.EventCandidate{}).Where("source_url = ?", url).Count(&count).Error
	return count > 0, err
}
