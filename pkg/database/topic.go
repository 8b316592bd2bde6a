// pkg/database/topic.go
package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"dailyworker/pkg/model"
)

type TopicDB struct {
	db *gorm.DB
}

func (d *DB) Topics() *TopicDB {
	return &TopicDB{db: d.db}
}

func (t *TopicDB) Create(topic *model.Topic) error {
	if err := t.db.Create(topic).Error; err != nil {
		return fmt.Errorf("创建选题失败: %w", err)
	}
	return nil
}

func (t *TopicDB) Save(topic *model.Topic) error {
	return t.db.Save(topic).Error
}

func (t *TopicDB) GetByID(id string) (*model.Topic, error) {
	var topic model.Topic
	err := t.db.First(&topic, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: 选题 %s", model.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("查询选题失败: %w", err)
	}
	return &topic, nil
}

// GetPendingVerification 查询待核实的选题
func (t *TopicDB) GetPendingVerification(limit int) ([]*model.Topic, error) {
	var topics []*model.Topic
	err := t.db.Where("verification_status = ?", model.VerificationPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&topics).Error

	if err != nil {
		return nil, fmt.Errorf("查询待核实选题失败: %w", err)
	}
	return topics, nil
}

// GetReadyForGeneration 查询已核实且尚未生成文章的选题
func (t *TopicDB) GetReadyForGeneration(limit int) ([]*model.Topic, error) {
	var topics []*model.Topic
	err := t.db.Where("verification_status IN ? AND article_id IS NULL",
		[]model.VerificationLevel{model.VerificationVerified, model.VerificationCertified}).
		Order("created_at ASC").
		Limit(limit).
		Find(&topics).Error

	if err != nil {
		return nil, fmt.Errorf("查询待生成选题失败: %w", err)
	}
	return topics, nil
}

func (t *TopicDB) List(limit int) ([]*model.Topic, error) {
	var topics []*model.Topic
	err := t.db.Order("created_at DESC").Limit(limit).Find(&topics).Error
	if err != nil {
		return nil, fmt.Errorf("查询选题列表失败: %w", err)
	}
	return topics, nil
}
