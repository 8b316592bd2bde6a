// pkg/editorial/workflow.go
package editorial

import (
	"fmt"
	"log"
	"time"

	"dailyworker/pkg/model"
)

// ArticleStore 编辑流程依赖的文章存储
type ArticleStore interface {
	GetByID(id string) (*model.Article, error)
	Save(article *model.Article) error
	SaveRevision(revision *model.ArticleRevision) error
	NextRevisionNumber(articleID string) (int, error)
	GetOverdueReviews(now time.Time) ([]*model.Article, error)
}

// Notifier 通知协作方
type Notifier interface {
	Notify(articleID, recipient, notifyType, subject, content string) error
}

// Policy 编辑流程策略，经构造函数注入而非包级常量，便于测试替换
type Policy struct {
	Editors         []string
	CategorySLA     map[string]int // 栏目 → 审稿时限（小时）
	DefaultSLAHours int
	MaxRevisions    int
}

// SLAHours 查某栏目的审稿时限
func (p Policy) SLAHours(category string) int {
	if hours, ok := p.CategorySLA[category]; ok {
		return hours
	}
	return p.DefaultSLAHours
}

// Workflow 编辑流程状态机
type Workflow struct {
	articles   ArticleStore
	notifier   Notifier
	policy     Policy
	nextEditor int
	now        func() time.Time
}

// NewWorkflow 创建编辑流程
func NewWorkflow(articles ArticleStore, notifier Notifier, policy Policy) *Workflow {
	if policy.DefaultSLAHours == 0 {
		policy.DefaultSLAHours = 48
	}
	if policy.MaxRevisions == 0 {
		policy.MaxRevisions = 2
	}
	return &Workflow{
		articles: articles,
		notifier: notifier,
		policy:   policy,
		now:      time.Now,
	}
}

// AssignEditor 把草稿分配给编辑进入审稿
// 自查未通过的文章不允许分配
func (w *Workflow) AssignEditor(articleID string) error {
	article, err := w.articles.GetByID(articleID)
	if err != nil {
		return err
	}

	if !article.SelfAuditPassed {
		return fmt.Errorf("%w: 文章 %s 自查未通过，不能分配编辑", model.ErrInvalidTransition, articleID)
	}

	next, err := model.NextArticleStatus(article.Status, model.ActionAssign)
	if err != nil {
		return err
	}

	editor := w.pickEditor()
	deadline := w.now().Add(time.Duration(w.policy.SLAHours(article.Category)) * time.Hour)

	article.Status = next
	article.AssignedEditor = editor
	article.ReviewDeadline = &deadline

	if err := w.articles.Save(article); err != nil {
		return fmt.Errorf("保存分配结果失败: %w", err)
	}

	if w.notifier != nil {
		subject := fmt.Sprintf("New review assignment: %s", article.Title)
		content := fmt.Sprintf("Article %q is assigned to you. Review deadline: %s.",
			article.Title, deadline.Format("2006-01-02 15:04"))
		if err := w.notifier.Notify(article.ID, editor, "assignment", subject, content); err != nil {
			log.Printf("发送分配通知失败: %v", err)
		}
	}

	log.Printf("文章 %s 分配给编辑 %s，审稿期限 %s", article.ID, editor, deadline.Format(time.RFC3339))
	return nil
}

// Approve 编辑通过文章
func (w *Workflow) Approve(articleID string) error {
	return w.transition(articleID, model.ActionApprove)
}

// Reject 编辑否决文章（归档）
func (w *Workflow) Reject(articleID string) error {
	return w.transition(articleID, model.ActionReject)
}

// Rework 写作方领回修订请求，文章回到草稿
func (w *Workflow) Rework(articleID string) error {
	return w.transition(articleID, model.ActionRework)
}

// RequestRevision 编辑要求修订
// 修订次数达到上限后转高级编辑审查，不再进入修订循环
func (w *Workflow) RequestRevision(articleID, feedback string) error {
	article, err := w.articles.GetByID(articleID)
	if err != nil {
		return err
	}

	if article.RevisionCount >= w.policy.MaxRevisions {
		next, err := model.NextArticleStatus(article.Status, model.ActionEscalate)
		if err != nil {
			return err
		}
		article.Status = next
		if err := w.articles.Save(article); err != nil {
			return fmt.Errorf("保存升级结果失败: %w", err)
		}
		log.Printf("文章 %s 修订次数已达上限%d，转高级编辑审查", article.ID, w.policy.MaxRevisions)
		return nil
	}

	next, err := model.NextArticleStatus(article.Status, model.ActionRequestRevision)
	if err != nil {
		return err
	}

	article.Status = next
	article.RevisionCount++

	if err := w.articles.Save(article); err != nil {
		return fmt.Errorf("保存修订请求失败: %w", err)
	}

	// 修订号接在生成修订之后，按文章统一递增
	if number, err := w.articles.NextRevisionNumber(article.ID); err != nil {
		log.Printf("计算修订号失败: %v", err)
	} else {
		revision := &model.ArticleRevision{
			ArticleID:          article.ID,
			RevisionNumber:     number,
			Type:               model.RevisionTypeHumanEdit,
			ReadingLevelBefore: article.ReadingLevel,
			ReadingLevelAfter:  article.ReadingLevel,
			BodySnapshot:       article.Body,
			Feedback:           feedback,
		}
		if err := w.articles.SaveRevision(revision); err != nil {
			log.Printf("保存修订记录失败: %v", err)
		}
	}

	log.Printf("文章 %s 第%d次修订请求", article.ID, article.RevisionCount)
	return nil
}

// CheckOverdue 检查超期审稿并通知对应编辑
func (w *Workflow) CheckOverdue() []*model.Article {
	overdue, err := w.articles.GetOverdueReviews(w.now())
	if err != nil {
		log.Printf("查询超期审稿失败: %v", err)
		return nil
	}

	for _, article := range overdue {
		if w.notifier == nil || article.AssignedEditor == "" {
			continue
		}
		subject := fmt.Sprintf("Review overdue: %s", article.Title)
		content := fmt.Sprintf("Article %q passed its review deadline (%s).",
			article.Title, article.ReviewDeadline.Format("2006-01-02 15:04"))
		if err := w.notifier.Notify(article.ID, article.AssignedEditor, "overdue", subject, content); err != nil {
			log.Printf("发送超期通知失败: %v", err)
		}
	}

	return overdue
}

// transition 执行一次状态流转并保存
func (w *Workflow) transition(articleID string, action model.ArticleAction) error {
	article, err := w.articles.GetByID(articleID)
	if err != nil {
		return err
	}

	next, err := model.NextArticleStatus(article.Status, action)
	if err != nil {
		return err
	}

	article.Status = next
	if err := w.articles.Save(article); err != nil {
		return fmt.Errorf("保存状态流转失败: %w", err)
	}

	log.Printf("文章 %s 执行 %s，状态变为 %s", article.ID, action, next)
	return nil
}

// pickEditor 轮询分配编辑
func (w *Workflow) pickEditor() string {
	if len(w.policy.Editors) == 0 {
		return "desk@dailyworker.local"
	}
	editor := w.policy.Editors[w.nextEditor%len(w.policy.Editors)]
	w.nextEditor++
	return editor
}
