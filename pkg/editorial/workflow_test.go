package editorial

import (
	"errors"
	"testing"
	"time"

	"dailyworker/pkg/model"
)

type fakeArticleStore struct {
	articles  map[string]*model.Article
	revisions []*model.ArticleRevision
	overdue   []*model.Article
}

func newFakeArticleStore(articles ...*model.Article) *fakeArticleStore {
	store := &fakeArticleStore{articles: make(map[string]*model.Article)}
	for _, a := range articles {
		store.articles[a.ID] = a
	}
	return store
}

func (f *fakeArticleStore) GetByID(id string) (*model.Article, error) {
	article, ok := f.articles[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return article, nil
}

func (f *fakeArticleStore) Save(article *model.Article) error {
	f.articles[article.ID] = article
	return nil
}

func (f *fakeArticleStore) SaveRevision(revision *model.ArticleRevision) error {
	f.revisions = append(f.revisions, revision)
	return nil
}

func (f *fakeArticleStore) NextRevisionNumber(articleID string) (int, error) {
	count := 0
	for _, r := range f.revisions {
		if r.ArticleID == articleID {
			count++
		}
	}
	return count + 1, nil
}

func (f *fakeArticleStore) GetOverdueReviews(now time.Time) ([]*model.Article, error) {
	return f.overdue, nil
}

type fakeNotifier struct {
	sent []string // "recipient/type"
}

func (f *fakeNotifier) Notify(articleID, recipient, notifyType, subject, content string) error {
	f.sent = append(f.sent, recipient+"/"+notifyType)
	return nil
}

func testPolicy() Policy {
	return Policy{
		Editors:         []string{"ed-1@desk", "ed-2@desk"},
		CategorySLA:     map[string]int{"labor": 24, "housing": 48},
		DefaultSLAHours: 48,
		MaxRevisions:    2,
	}
}

func draftArticle(id string) *model.Article {
	return &model.Article{
		ID:              id,
		Title:           "Test article",
		Category:        "labor",
		Status:          model.ArticleStatusDraft,
		SelfAuditPassed: true,
	}
}

func TestAssignEditor(t *testing.T) {
	t.Parallel()

	store := newFakeArticleStore(draftArticle("a1"))
	notifier := &fakeNotifier{}
	w := NewWorkflow(store, notifier, testPolicy())

	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return start }

	if err := w.AssignEditor("a1"); err != nil {
		t.Fatalf("分配失败: %v", err)
	}

	article := store.articles["a1"]
	if article.Status != model.ArticleStatusUnderReview {
		t.Fatalf("分配后应进入审稿，实际 %s", article.Status)
	}
	if article.AssignedEditor != "ed-1@desk" {
		t.Fatalf("轮询应从第一位编辑开始，实际 %s", article.AssignedEditor)
	}

	// labor栏目SLA为24小时
	wantDeadline := start.Add(24 * time.Hour)
	if article.ReviewDeadline == nil || !article.ReviewDeadline.Equal(wantDeadline) {
		t.Fatalf("审稿期限应为 %v，实际 %v", wantDeadline, article.ReviewDeadline)
	}

	if len(notifier.sent) != 1 || notifier.sent[0] != "ed-1@desk/assignment" {
		t.Fatalf("应通知被分配编辑: %v", notifier.sent)
	}
}

func TestAssignEditorRoundRobin(t *testing.T) {
	t.Parallel()

	store := newFakeArticleStore(draftArticle("a1"), draftArticle("a2"), draftArticle("a3"))
	w := NewWorkflow(store, nil, testPolicy())

	for _, id := range []string{"a1", "a2", "a3"} {
		if err := w.AssignEditor(id); err != nil {
			t.Fatalf("分配 %s 失败: %v", id, err)
		}
	}

	if store.articles["a1"].AssignedEditor != "ed-1@desk" ||
		store.articles["a2"].AssignedEditor != "ed-2@desk" ||
		store.articles["a3"].AssignedEditor != "ed-1@desk" {
		t.Fatalf("编辑应轮询分配: %s, %s, %s",
			store.articles["a1"].AssignedEditor,
			store.articles["a2"].AssignedEditor,
			store.articles["a3"].AssignedEditor)
	}
}

func TestAssignEditorRequiresSelfAudit(t *testing.T) {
	t.Parallel()

	article := draftArticle("a1")
	article.SelfAuditPassed = false
	store := newFakeArticleStore(article)
	w := NewWorkflow(store, nil, testPolicy())

	err := w.AssignEditor("a1")
	if !errors.Is(err, model.ErrInvalidTransition) {
		t.Fatalf("自查未通过应拒绝分配，实际 %v", err)
	}
	if store.articles["a1"].Status != model.ArticleStatusDraft {
		t.Fatal("拒绝分配时状态不应改变")
	}
}

func TestAssignEditorUsesDefaultSLA(t *testing.T) {
	t.Parallel()

	article := draftArticle("a1")
	article.Category = "economy" // 无专属SLA
	store := newFakeArticleStore(article)
	w := NewWorkflow(store, nil, testPolicy())

	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return start }

	if err := w.AssignEditor("a1"); err != nil {
		t.Fatalf("分配失败: %v", err)
	}

	wantDeadline := start.Add(48 * time.Hour)
	if !store.articles["a1"].ReviewDeadline.Equal(wantDeadline) {
		t.Fatalf("无专属SLA应用默认48小时，实际 %v", store.articles["a1"].ReviewDeadline)
	}
}

func TestRequestRevision(t *testing.T) {
	t.Parallel()

	article := draftArticle("a1")
	article.Status = model.ArticleStatusUnderReview
	store := newFakeArticleStore(article)
	w := NewWorkflow(store, nil, testPolicy())

	if err := w.RequestRevision("a1", "tighten the lede"); err != nil {
		t.Fatalf("修订请求失败: %v", err)
	}

	if article.Status != model.ArticleStatusRevisionRequested {
		t.Fatalf("应进入修订请求状态，实际 %s", article.Status)
	}
	if article.RevisionCount != 1 {
		t.Fatalf("修订计数应为1，实际 %d", article.RevisionCount)
	}
	if len(store.revisions) != 1 || store.revisions[0].Type != model.RevisionTypeHumanEdit {
		t.Fatalf("应落人工修订记录: %+v", store.revisions)
	}
	if store.revisions[0].Feedback != "tighten the lede" {
		t.Fatalf("修订记录应携带反馈: %s", store.revisions[0].Feedback)
	}
}

func TestRequestRevisionContinuesNumbering(t *testing.T) {
	t.Parallel()

	article := draftArticle("a1")
	article.Status = model.ArticleStatusUnderReview
	store := newFakeArticleStore(article)
	// 生成阶段已写入两条修订记录
	store.revisions = []*model.ArticleRevision{
		{ArticleID: "a1", RevisionNumber: 1, Type: model.RevisionTypeGeneration},
		{ArticleID: "a1", RevisionNumber: 2, Type: model.RevisionTypeGeneration},
	}
	w := NewWorkflow(store, nil, testPolicy())

	if err := w.RequestRevision("a1", "tighten the lede"); err != nil {
		t.Fatalf("修订请求失败: %v", err)
	}

	// 人工修订接在生成修订之后，不能重用修订号
	if len(store.revisions) != 3 {
		t.Fatalf("期望3条修订记录，实际 %d", len(store.revisions))
	}
	last := store.revisions[2]
	if last.RevisionNumber != 3 || last.Type != model.RevisionTypeHumanEdit {
		t.Fatalf("人工修订应编号为3: %+v", last)
	}
}

func TestRequestRevisionEscalatesAtCap(t *testing.T) {
	t.Parallel()

	article := draftArticle("a1")
	article.Status = model.ArticleStatusUnderReview
	article.RevisionCount = 2 // 已达上限
	store := newFakeArticleStore(article)
	w := NewWorkflow(store, nil, testPolicy())

	if err := w.RequestRevision("a1", "still not right"); err != nil {
		t.Fatalf("升级失败: %v", err)
	}

	if article.Status != model.ArticleStatusNeedsSeniorReview {
		t.Fatalf("达到修订上限应转高级编辑审查，实际 %s", article.Status)
	}
	if article.RevisionCount != 2 {
		t.Fatalf("升级不应增加修订计数，实际 %d", article.RevisionCount)
	}
	if len(store.revisions) != 0 {
		t.Fatal("升级不应落修订记录")
	}
}

func TestReviewCycle(t *testing.T) {
	t.Parallel()

	article := draftArticle("a1")
	store := newFakeArticleStore(article)
	w := NewWorkflow(store, nil, testPolicy())

	// 完整走一遍：分配 → 修订 → 领回 → 再分配 → 通过
	steps := []struct {
		name string
		fn   func() error
		want model.ArticleStatus
	}{
		{"分配", func() error { return w.AssignEditor("a1") }, model.ArticleStatusUnderReview},
		{"要求修订", func() error { return w.RequestRevision("a1", "fix sourcing") }, model.ArticleStatusRevisionRequested},
		{"领回", func() error { return w.Rework("a1") }, model.ArticleStatusDraft},
		{"再分配", func() error { return w.AssignEditor("a1") }, model.ArticleStatusUnderReview},
		{"通过", func() error { return w.Approve("a1") }, model.ArticleStatusApproved},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			t.Fatalf("%s失败: %v", step.name, err)
		}
		if article.Status != step.want {
			t.Fatalf("%s后应为 %s，实际 %s", step.name, step.want, article.Status)
		}
	}

	// 通过后不能再要求修订
	if err := w.RequestRevision("a1", "too late"); !errors.Is(err, model.ErrInvalidTransition) {
		t.Fatalf("通过后修订应报非法流转，实际 %v", err)
	}
}

func TestCheckOverdue(t *testing.T) {
	t.Parallel()

	deadline := time.Now().Add(-2 * time.Hour)
	overdue := &model.Article{
		ID:             "a1",
		Title:          "Late review",
		Status:         model.ArticleStatusUnderReview,
		AssignedEditor: "ed-1@desk",
		ReviewDeadline: &deadline,
	}
	store := newFakeArticleStore(overdue)
	store.overdue = []*model.Article{overdue}
	notifier := &fakeNotifier{}
	w := NewWorkflow(store, notifier, testPolicy())

	got := w.CheckOverdue()
	if len(got) != 1 {
		t.Fatalf("应返回1篇超期文章，实际 %d", len(got))
	}
	if len(notifier.sent) != 1 || notifier.sent[0] != "ed-1@desk/overdue" {
		t.Fatalf("应通知对应编辑: %v", notifier.sent)
	}
}
