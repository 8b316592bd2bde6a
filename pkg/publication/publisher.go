// pkg/publication/publisher.go
package publication

import (
	"fmt"
	"log"
	"time"

	"dailyworker/pkg/model"
)

// ArticleStore 发布流程依赖的文章存储
type ArticleStore interface {
	GetByID(id string) (*model.Article, error)
	Save(article *model.Article) error
}

// CorrectionStore 更正存储
type CorrectionStore interface {
	Create(correction *model.Correction) error
	GetByID(id string) (*model.Correction, error)
	Save(correction *model.Correction) error
}

// SourceStore 来源可信度存储
type SourceStore interface {
	GetByID(id string) (*model.Source, error)
	AdjustScore(source *model.Source, log *model.SourceReliabilityLog) error
}

// Publisher 发布与更正流程
type Publisher struct {
	articles    ArticleStore
	corrections CorrectionStore
	sources     SourceStore
	now         func() time.Time
}

// NewPublisher 创建发布流程
func NewPublisher(articles ArticleStore, corrections CorrectionStore, sources SourceStore) *Publisher {
	return &Publisher{
		articles:    articles,
		corrections: corrections,
		sources:     sources,
		now:         time.Now,
	}
}

// PublishArticle 发布文章：published_at 只设置一次，重复发布直接拒绝
func (p *Publisher) PublishArticle(articleID string) error {
	article, err := p.articles.GetByID(articleID)
	if err != nil {
		return err
	}

	// 幂等保护：已有发布时间的文章不允许再发布
	if article.PublishedAt != nil {
		return fmt.Errorf("%w: 文章 %s 已于 %s 发布",
			model.ErrInvalidTransition, articleID, article.PublishedAt.Format(time.RFC3339))
	}

	next, err := model.NextArticleStatus(article.Status, model.ActionPublish)
	if err != nil {
		return err
	}

	now := p.now()
	article.Status = next
	article.PublishedAt = &now

	if err := p.articles.Save(article); err != nil {
		return fmt.Errorf("保存发布结果失败: %w", err)
	}

	log.Printf("文章已发布: %s (%s)", article.Title, article.ID)
	return nil
}

// FlagCorrection 对已发布文章提出更正
func (p *Publisher) FlagCorrection(articleID, description, flaggedBy string, sourceID *string) (*model.Correction, error) {
	article, err := p.articles.GetByID(articleID)
	if err != nil {
		return nil, err
	}

	if article.Status != model.ArticleStatusPublished {
		return nil, fmt.Errorf("%w: 只能对已发布文章提出更正，文章 %s 当前状态 %s",
			model.ErrInvalidTransition, articleID, article.Status)
	}

	correction := &model.Correction{
		ArticleID:   articleID,
		SourceID:    sourceID,
		Description: description,
		FlaggedBy:   flaggedBy,
		Status:      model.CorrectionStatusPending,
	}
	if err := p.corrections.Create(correction); err != nil {
		return nil, err
	}

	log.Printf("文章 %s 收到更正标记: %s", articleID, description)
	return correction, nil
}

// VerifyCorrection 核实更正
func (p *Publisher) VerifyCorrection(correctionID string) error {
	return p.transitionCorrection(correctionID, model.CorrectionActionVerify)
}

// RejectCorrection 否决更正
func (p *Publisher) RejectCorrection(correctionID string) error {
	return p.transitionCorrection(correctionID, model.CorrectionActionReject)
}

// PublishCorrection 发布更正：必须先核实；携带来源时扣减该来源可信度
func (p *Publisher) PublishCorrection(correctionID string) error {
	correction, err := p.corrections.GetByID(correctionID)
	if err != nil {
		return err
	}

	next, err := model.NextCorrectionStatus(correction.Status, model.CorrectionActionPublish)
	if err != nil {
		return err
	}

	now := p.now()
	correction.Status = next
	correction.IsPublished = true
	correction.PublishedAt = &now

	if err := p.corrections.Save(correction); err != nil {
		return fmt.Errorf("保存更正发布失败: %w", err)
	}

	log.Printf("更正已发布: %s (文章 %s)", correction.ID, correction.ArticleID)

	// 来源可信度处罚
	if correction.SourceID != nil {
		if err := p.penalizeSource(correction); err != nil {
			log.Printf("扣减来源可信度失败: %v", err)
		}
	}

	return nil
}

// penalizeSource 更正发布后对出错来源扣一档可信度，下限1
func (p *Publisher) penalizeSource(correction *model.Correction) error {
	source, err := p.sources.GetByID(*correction.SourceID)
	if err != nil {
		return err
	}

	previous := source.CredibilityScore
	newScore := previous - 1
	if newScore < 1 {
		newScore = 1
	}
	if newScore == previous {
		return nil
	}

	source.CredibilityScore = newScore
	return p.sources.AdjustScore(source, &model.SourceReliabilityLog{
		SourceID:      source.ID,
		ArticleID:     &correction.ArticleID,
		CorrectionID:  &correction.ID,
		EventType:     model.ReliabilityEventCorrectionPublished,
		PreviousScore: previous,
		NewScore:      newScore,
	})
}

// transitionCorrection 执行一次更正状态流转并保存
func (p *Publisher) transitionCorrection(correctionID string, action model.CorrectionAction) error {
	correction, err := p.corrections.GetByID(correctionID)
	if err != nil {
		return err
	}

	next, err := model.NextCorrectionStatus(correction.Status, action)
	if err != nil {
		return err
	}

	correction.Status = next
	if err := p.corrections.Save(correction); err != nil {
		return fmt.Errorf("保存更正流转失败: %w", err)
	}

	log.Printf("更正 %s 执行 %s，状态变为 %s", correction.ID, action, next)
	return nil
}
