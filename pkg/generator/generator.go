// pkg/generator/generator.go
package generator

import (
	"fmt"
	"log"
	"strings"

	"dailyworker/pkg/config"
	"dailyworker/pkg/model"
	"dailyworker/pkg/quality"
)

// State 生成循环状态
type State string

const (
	StateAttempting State = "attempting"
	StatePassed     State = "passed"
	StateExhausted  State = "exhausted"
)

// NeedsReviewPrefix 耗尽预算后落盘草稿的标题前缀，强制人工处理
const NeedsReviewPrefix = "[NEEDS REVIEW] "

// TextCompleter LLM文本补全协作方
type TextCompleter interface {
	Complete(prompt string, maxTokens int) (string, error)
}

// ArticleStore 文章存储
type ArticleStore interface {
	Create(article *model.Article) error
	SaveRevision(revision *model.ArticleRevision) error
	NextRevisionNumber(articleID string) (int, error)
}

// TopicStore 选题存储，生成成功后回填文章ID
type TopicStore interface {
	Save(topic *model.Topic) error
}

// Result 一次生成调用的结果
type Result struct {
	State    State
	Article  *model.Article
	Attempts int
	Audit    quality.AuditResult
	Bias     quality.BiasReport
}

// attemptRecord 单次尝试的留痕
type attemptRecord struct {
	body         string
	readingLevel float64
	auditScore   float64
	feedback     string
}

// Generator 文章生成循环
// 每轮：调LLM → 质量门禁 → 未通过则把诊断反馈进下一轮提示词
// 最多 maxAttempts 轮，全部失败则落盘待人工处理的草稿
type Generator struct {
	llm         TextCompleter
	articles    ArticleStore
	topics      TopicStore
	maxAttempts int
	levelMin    float64
	levelMax    float64
	auditPass   float64
	minCoverage float64
}

// NewGenerator 创建生成循环
func NewGenerator(llm TextCompleter, articles ArticleStore, topics TopicStore, cfg *config.Config) *Generator {
	return &Generator{
		llm:         llm,
		articles:    articles,
		topics:      topics,
		maxAttempts: cfg.Quality.MaxRegenAttempts,
		levelMin:    cfg.Quality.ReadingLevelMin,
		levelMax:    cfg.Quality.ReadingLevelMax,
		auditPass:   cfg.Quality.SelfAuditPass,
		minCoverage: cfg.Quality.MinAttribution,
	}
}

// GenerateArticle 为选题生成文章，返回最终状态
func (g *Generator) GenerateArticle(topic *model.Topic) (*Result, error) {
	var (
		feedback string
		records  []attemptRecord
		best     = -1 // 自查得分最高的尝试下标
	)

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		prompt := g.buildPrompt(topic, feedback)

		text, err := g.llm.Complete(prompt, 2000)
		if err != nil {
			// LLM失败计入尝试预算，继续下一轮
			log.Printf("选题 %s 第%d次生成失败: %v", topic.ID, attempt, err)
			records = append(records, attemptRecord{feedback: feedback})
			continue
		}

		body := strings.TrimSpace(text)
		level := quality.ReadingLevel(body)
		attribution := quality.ValidateAttribution(body, topic.SourcePlan, g.minCoverage)
		audit := quality.SelfAudit(quality.AuditInput{
			Title:           topic.Title,
			Body:            body,
			ReadingLevel:    level,
			ReadingLevelMin: g.levelMin,
			ReadingLevelMax: g.levelMax,
			SourcePlan:      topic.SourcePlan,
			VerifiedFacts:   topic.VerifiedFacts,
			Attribution:     attribution,
		}, g.auditPass)
		bias := quality.DetectBias(body, topic.VerifiedFacts)

		records = append(records, attemptRecord{
			body:         body,
			readingLevel: level,
			auditScore:   audit.Score,
			feedback:     feedback,
		})
		if best < 0 || audit.Score > records[best].auditScore {
			best = len(records) - 1
		}

		// 通过条件：自查通过且偏见扫描PASS
		if audit.Passed && bias.OverallScore == "PASS" {
			article, err := g.persist(topic, topic.Title, body, level, audit, records)
			if err != nil {
				return nil, err
			}
			log.Printf("选题 %s 第%d次生成通过质量门禁", topic.ID, attempt)
			return &Result{
				State:    StatePassed,
				Article:  article,
				Attempts: attempt,
				Audit:    audit,
				Bias:     bias,
			}, nil
		}

		feedback = formatFeedback(audit, bias, attribution)
		log.Printf("选题 %s 第%d次生成未通过质量门禁", topic.ID, attempt)
	}

	// 预算耗尽：有可用草稿则带标记落盘，交人工处理；一稿未出则报错
	if best < 0 {
		return nil, fmt.Errorf("%w: 选题 %s 共%d次尝试均未获得草稿",
			model.ErrExhausted, topic.ID, g.maxAttempts)
	}

	bestRecord := records[best]
	article, err := g.persist(topic, NeedsReviewPrefix+topic.Title,
		bestRecord.body, bestRecord.readingLevel, quality.AuditResult{}, records)
	if err != nil {
		return nil, err
	}

	log.Printf("选题 %s 耗尽%d次尝试，落盘待审草稿", topic.ID, g.maxAttempts)
	return &Result{
		State:    StateExhausted,
		Article:  article,
		Attempts: g.maxAttempts,
	}, nil
}

// persist 落盘文章与各次尝试的修订记录，并回填选题的文章ID
func (g *Generator) persist(topic *model.Topic, title, body string, level float64,
	audit quality.AuditResult, records []attemptRecord) (*model.Article, error) {

	article := &model.Article{
		TopicID:         topic.ID,
		Title:           title,
		Body:            body,
		Category:        topic.Category,
		Status:          model.ArticleStatusDraft,
		ReadingLevel:    level,
		SelfAuditPassed: audit.Passed,
		SelfAuditScore:  audit.Score,
	}
	if err := g.articles.Create(article); err != nil {
		return nil, err
	}

	var prevLevel float64
	for _, record := range records {
		if record.body == "" {
			continue // LLM失败的尝试没有快照
		}
		// 修订号按文章统一递增，和人工修订共用同一序列
		number, err := g.articles.NextRevisionNumber(article.ID)
		if err != nil {
			log.Printf("计算修订号失败: %v", err)
			break
		}
		revision := &model.ArticleRevision{
			ArticleID:          article.ID,
			RevisionNumber:     number,
			Type:               model.RevisionTypeGeneration,
			ReadingLevelBefore: prevLevel,
			ReadingLevelAfter:  record.readingLevel,
			BodySnapshot:       record.body,
			Feedback:           record.feedback,
		}
		if err := g.articles.SaveRevision(revision); err != nil {
			log.Printf("保存生成修订记录失败: %v", err)
		}
		prevLevel = record.readingLevel
	}

	topic.ArticleID = &article.ID
	if err := g.topics.Save(topic); err != nil {
		log.Printf("回填选题文章ID失败: %v", err)
	}

	return article, nil
}

// buildPrompt 组装生成提示词
func (g *Generator) buildPrompt(topic *model.Topic, feedback string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a news article about: %s\n", topic.Title)
	fmt.Fprintf(&b, "Category: %s\n", topic.Category)
	fmt.Fprintf(&b, "Target reading level: grade %.1f-%.1f (Flesch-Kincaid)\n\n", g.levelMin, g.levelMax)

	if len(topic.VerifiedFacts) > 0 {
		b.WriteString("Verified facts (use ONLY these facts, do not invent others):\n")
		for _, fact := range topic.VerifiedFacts {
			fmt.Fprintf(&b, "- %s\n", fact)
		}
		b.WriteString("\n")
	}

	b.WriteString(quality.BuildCitationInstructions(topic.SourcePlan))

	if feedback != "" {
		b.WriteString("\nThe previous draft failed editorial review. Fix ALL of the following:\n")
		b.WriteString(feedback)
	}

	return b.String()
}

// formatFeedback 把门禁诊断整理成下一轮提示词的反馈段
func formatFeedback(audit quality.AuditResult, bias quality.BiasReport, attribution quality.AttributionResult) string {
	var lines []string

	for _, criterion := range audit.FailedCriteria() {
		lines = append(lines, "- "+criterion)
	}
	for _, flag := range bias.Flags() {
		lines = append(lines, "- "+flag)
	}
	for _, missing := range attribution.Missing {
		lines = append(lines, "- missing citation for source: "+missing)
	}

	return strings.Join(lines, "\n")
}
