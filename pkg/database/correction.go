// pkg/database/correction.go
package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"dailyworker/pkg/model"
)

type CorrectionDB struct {
	db *gorm.DB
}

func (d *DB) Corrections() *CorrectionDB {
	return &CorrectionDB{db: d.db}
}

func (c *CorrectionDB) Create(correction *model.Correction) error {
	if err := c.db.Create(correction).Error; err != nil {
		return fmt.Errorf("创建更正失败: %w", err)
	}
	return nil
}

func (c *CorrectionDB) Save(correction *model.Correction) error {
	return c.db.Save(correction).Error
}

func (c *CorrectionDB) GetByID(id string) (*model.Correction, error) {
	var correction model.Correction
	err := c.db.First(&correction, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: 更正 %s", model.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("查询更正失败: %w", err)
	}
	return &correction, nil
}

func (c *CorrectionDB) ListByArticle(articleID string) ([]*model.Correction, error) {
	var corrections []*model.Correction
	err := c.db.Where("article_id = ?", articleID).
		Order("created_at DESC").
		Find(&corrections).Error

	if err != nil {
		return nil, fmt.Errorf("查询文章更正失败: %w", err)
	}
	return corrections, nil
}

func (c *CorrectionDB) ListByStatus(status model.CorrectionStatus, limit int) ([]*model.Correction, error) {
	var corrections []*model.Correction
	err := c.db.Where("status = ?", status).
		Order("created_at ASC").
		Limit(limit).
		Find(&corrections).Error

	if err != nil {
		return nil, fmt.Errorf("查询更正失败: %w", err)
	}
	return corrections, nil
}
