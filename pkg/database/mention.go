// pkg/database/mention.go
package database

import (
	"fmt"

	"gorm.io/gorm"

	"dailyworker/pkg/model"
)

type MentionDB struct {
	db *gorm.DB
}

func (d *DB) Mentions() *MentionDB {
	return &MentionDB{db: d.db}
}

func (m *MentionDB) Save(mention *model.Mention) error {
	return m.db.Save(mention).Error
}

// 检查提及是否已记录（根据URL去重）
func (m *MentionDB) ExistsByURL(url string) (bool, error) {
	var count int64
	err := m.db.Model(&model.Mention{}).Where("url = ?", url).Count(&count).Error
	return count > 0, err
}

func (m *MentionDB) ListByArticle(articleID string) ([]*model.Mention, error) {
	var mentions []*model.Mention
	err := m.db.Where("article_id = ?", articleID).
		Order("found_at DESC").
		Find(&mentions).Error

	if err != nil {
		return nil, fmt.Errorf("查询文章提及失败: %w", err)
	}
	return mentions, nil
}
