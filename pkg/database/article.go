// pkg/database/article.go
package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"dailyworker/pkg/model"
)

type ArticleDB struct {
	db *gorm.DB
}

func (d *DB) Articles() *ArticleDB {
	return &ArticleDB{db: d.db}
}

func (a *ArticleDB) Create(article *model.Article) error {
	if err := a.db.Create(article).Error; err != nil {
		return fmt.Errorf("创建文章失败: %w", err)
	}
	return nil
}

func (a *ArticleDB) Save(article *model.Article) error {
	return a.db.Save(article).Error
}

func (a *ArticleDB) GetByID(id string) (*model.Article, error) {
	var article model.Article
	err := a.db.First(&article, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: 文章 %s", model.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("查询文章失败: %w", err)
	}
	return &article, nil
}

func (a *ArticleDB) GetByStatus(status model.ArticleStatus, limit int) ([]*model.Article, error) {
	var articles []*model.Article
	err := a.db.Where("status = ?", status).
		Order("created_at DESC").
		Limit(limit).
		Find(&articles).Error

	if err != nil {
		return nil, fmt.Errorf("查询文章失败: %w", err)
	}
	return articles, nil
}

// GetOverdueReviews 查询超过审稿期限仍在审的文章
func (a *ArticleDB) GetOverdueReviews(now time.Time) ([]*model.Article, error) {
	var articles []*model.Article
	err := a.db.Where("status = ? AND review_deadline IS NOT NULL AND review_deadline < ?",
		model.ArticleStatusUnderReview, now).
		Find(&articles).Error

	if err != nil {
		return nil, fmt.Errorf("查询超期审稿失败: %w", err)
	}
	return articles, nil
}

// GetPublishedSince 查询监控窗口内发布的文章
func (a *ArticleDB) GetPublishedSince(since time.Time, limit int) ([]*model.Article, error) {
	var articles []*model.Article
	err := a.db.Where("status = ? AND published_at >= ?", model.ArticleStatusPublished, since).
		Order("published_at DESC").
		Limit(limit).
		Find(&articles).Error

	if err != nil {
		return nil, fmt.Errorf("查询近期发布文章失败: %w", err)
	}
	return articles, nil
}

// SaveRevision 追加修订记录
func (a *ArticleDB) SaveRevision(revision *model.ArticleRevision) error {
	if err := a.db.Create(revision).Error; err != nil {
		return fmt.Errorf("保存修订记录失败: %w", err)
	}
	return nil
}

func (a *ArticleDB) GetRevisions(articleID string) ([]*model.ArticleRevision, error) {
	var revisions []*model.ArticleRevision
	err := a.db.Where("article_id = ?", articleID).
		Order("revision_number ASC").
		Find(&revisions).Error

	if err != nil {
		return nil, fmt.Errorf("查询修订记录失败: %w", err)
	}
	return revisions, nil
}

// NextRevisionNumber 计算文章的下一个修订号
func (a *ArticleDB) NextRevisionNumber(articleID string) (int, error) {
	var max int64
	err := a.db.Model(&model.ArticleRevision{}).
		Where("article_id = ?", articleID).
		Count(&max).Error
	if err != nil {
		return 0, fmt.Errorf("统计修订记录失败: %w", err)
	}
	return int(max) + 1, nil
}
