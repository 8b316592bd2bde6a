// pkg/database/source.go
package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"dailyworker/pkg/model"
)

type SourceDB struct {
	db *gorm.DB
}

func (d *DB) Sources() *SourceDB {
	return &SourceDB{db: d.db}
}

func (s *SourceDB) Save(source *model.Source) error {
	return s.db.Save(source).Error
}

func (s *SourceDB) GetByID(id string) (*model.Source, error) {
	var source model.Source
	err := s.db.First(&source, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: 来源 %s", model.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("查询来源失败: %w", err)
	}
	return &source, nil
}

func (s *SourceDB) GetByDomain(domain string) (*model.Source, error) {
	var source model.Source
	err := s.db.First(&source, "domain = ?", domain).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: 来源域名 %s", model.ErrNotFound, domain)
	}
	if err != nil {
		return nil, fmt.Errorf("查询来源失败: %w", err)
	}
	return &source, nil
}

// AdjustScore 在一个事务内更新可信度并追加调整日志
func (s *SourceDB) AdjustScore(source *model.Source, log *model.SourceReliabilityLog) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(source).Error; err != nil {
			return fmt.Errorf("更新来源可信度失败: %w", err)
		}
		if err := tx.Create(log).Error; err != nil {
			return fmt.Errorf("保存可信度日志失败: %w", err)
		}
		return nil
	})
}

// HasArticleLog 检查某篇文章是否已记过指定类型的可信度事件（幂等保护）
func (s *SourceDB) HasArticleLog(articleID string, eventType model.ReliabilityEventType) (bool, error) {
	var count int64
	err := s.db.Model(&model.SourceReliabilityLog{}).
		Where("article_id = ? AND event_type = ?", articleID, eventType).
		Count(&count).Error
	return count > 0, err
}

func (s *SourceDB) GetLogs(sourceID string) ([]*model.SourceReliabilityLog, error) {
	var logs []*model.SourceReliabilityLog
	err := s.db.Where("source_id = ?", sourceID).
		Order("created_at ASC").
		Find(&logs).Error

	if err != nil {
		return nil, fmt.Errorf("查询可信度日志失败: %w", err)
	}
	return logs, nil
}
