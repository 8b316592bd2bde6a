package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dailyworker/pkg/database"
	"dailyworker/pkg/editorial"
	"dailyworker/pkg/engine"
	"dailyworker/pkg/generator"
	"dailyworker/pkg/model"
	"dailyworker/pkg/publication"
	"dailyworker/pkg/verify"
)

// Handlers API处理程序
type Handlers struct {
	events      *database.EventDB
	topics      *database.TopicDB
	articles    *database.ArticleDB
	corrections *database.CorrectionDB
	sources     *database.SourceDB
	mentions    *database.MentionDB
	engine      *engine.Engine
	verifier    *verify.Verifier
	generator   *generator.Generator
	workflow    *editorial.Workflow
	publisher   *publication.Publisher
	batchLimit  int
}

// NewHandlers 创建新的API处理程序
func NewHandlers(
	db *database.DB,
	eng *engine.Engine,
	verifier *verify.Verifier,
	gen *generator.Generator,
	workflow *editorial.Workflow,
	publisher *publication.Publisher,
	batchLimit int,
) *Handlers {
	if batchLimit == 0 {
		batchLimit = 50
	}
	return &Handlers{
		events:      db.Events(),
		topics:      db.Topics(),
		articles:    db.Articles(),
		corrections: db.Corrections(),
		sources:     db.Sources(),
		mentions:    db.Mentions(),
		engine:      eng,
		verifier:    verifier,
		generator:   gen,
		workflow:    workflow,
		publisher:   publisher,
		batchLimit:  batchLimit,
	}
}

// HealthCheck 健康检查处理程序
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// ReadinessCheck 就绪检查处理程序
func (h *Handlers) ReadinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// writeError 按错误类别映射HTTP状态码
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrExhausted):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrExternalService):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// limitParam 解析limit查询参数
func (h *Handlers) limitParam(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		return h.batchLimit
	}
	return limit
}

// SubmitEventRequest 人工提交线索请求
type SubmitEventRequest struct {
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description"`
	SourceURL     string   `json:"source_url" binding:"required"`
	SourceName    string   `json:"source_name"`
	SuggestedSlug string   `json:"suggested_slug"`
	Regions       []string `json:"regions"`
}

// SubmitEvent 人工提交候选事件
func (h *Handlers) SubmitEvent(c *gin.Context) {
	var req SubmitEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "无效的请求参数: " + err.Error(),
		})
		return
	}

	exists, err := h.events.ExistsByURL(req.SourceURL)
	if err != nil {
		writeError(c, err)
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{
			"error": "该URL的事件已存在",
		})
		return
	}

	event := &model.EventCandidate{
		Title:         req.Title,
		Description:   req.Description,
		SourceURL:     req.SourceURL,
		SourceName:    req.SourceName,
		SuggestedSlug: req.SuggestedSlug,
		Regions:       req.Regions,
		Status:        model.EventStatusDiscovered,
		DiscoveredAt:  time.Now(),
	}
	if err := h.events.Save(event); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": event,
	})
}

// ListEvents 按状态查询候选事件
func (h *Handlers) ListEvents(c *gin.Context) {
	status := model.EventStatus(c.DefaultQuery("status", string(model.EventStatusDiscovered)))

	events, err := h.events.GetByStatus(status, h.limitParam(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": events,
	})
}

// GetEvent 查询单个候选事件
func (h *Handlers) GetEvent(c *gin.Context) {
	event, err := h.events.GetByID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": event,
	})
}

// EvaluateEvents 触发一轮批量评估
func (h *Handlers) EvaluateEvents(c *gin.Context) {
	outcomes := h.engine.ProcessDiscoveredEvents(h.limitParam(c))

	c.JSON(http.StatusOK, gin.H{
		"data": outcomes,
	})
}

// ListTopics 查询选题列表
func (h *Handlers) ListTopics(c *gin.Context) {
	topics, err := h.topics.List(h.limitParam(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": topics,
	})
}

// GetTopic 查询单个选题
func (h *Handlers) GetTopic(c *gin.Context) {
	topic, err := h.topics.GetByID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": topic,
	})
}

// VerifyTopic 触发单个选题核实
func (h *Handlers) VerifyTopic(c *gin.Context) {
	topic, err := h.topics.GetByID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.verifier.VerifyTopic(topic); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": topic,
	})
}

// GenerateArticle 触发单个选题的文章生成
func (h *Handlers) GenerateArticle(c *gin.Context) {
	topic, err := h.topics.GetByID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	if topic.VerificationStatus != model.VerificationVerified &&
		topic.VerificationStatus != model.VerificationCertified {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "选题尚未通过核实，不能生成文章",
		})
		return
	}
	if topic.ArticleID != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "选题已有对应文章",
		})
		return
	}

	result, err := h.generator.GenerateArticle(topic)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": result,
	})
}

// ListArticles 按状态查询文章
func (h *Handlers) ListArticles(c *gin.Context) {
	status := model.ArticleStatus(c.DefaultQuery("status", string(model.ArticleStatusDraft)))

	articles, err := h.articles.GetByStatus(status, h.limitParam(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": articles,
	})
}

// GetArticle 查询单篇文章
func (h *Handlers) GetArticle(c *gin.Context) {
	article, err := h.articles.GetByID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": article,
	})
}

// GetRevisions 查询文章修订历史
func (h *Handlers) GetRevisions(c *gin.Context) {
	revisions, err := h.articles.GetRevisions(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": revisions,
	})
}

// GetMentions 查询文章提及
func (h *Handlers) GetMentions(c *gin.Context) {
	mentions, err := h.mentions.ListByArticle(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": mentions,
	})
}

// AssignEditor 分配编辑
func (h *Handlers) AssignEditor(c *gin.Context) {
	if err := h.workflow.AssignEditor(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
	})
}

// ApproveArticle 编辑通过文章
func (h *Handlers) ApproveArticle(c *gin.Context) {
	if err := h.workflow.Approve(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
	})
}

// RevisionRequest 修订请求
type RevisionRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

// RequestRevision 编辑要求修订
func (h *Handlers) RequestRevision(c *gin.Context) {
	var req RevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "无效的请求参数: " + err.Error(),
		})
		return
	}

	if err := h.workflow.RequestRevision(c.Param("id"), req.Feedback); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
	})
}

// ReworkArticle 写作方领回修订请求
func (h *Handlers) ReworkArticle(c *gin.Context) {
	if err := h.workflow.Rework(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
	})
}

// RejectArticle 编辑否决文章
func (h *Handlers) RejectArticle(c *gin.Context) {
	if err := h.workflow.Reject(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
	})
}

// PublishArticle 发布文章
func (h *Handlers) PublishArticle(c *gin.Context) {
	if err := h.publisher.PublishArticle(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
	})
}

// CorrectionRequest 更正标记请求
type CorrectionRequest struct {
	Description string  `json:"description" binding:"required"`
	FlaggedBy   string  `json:"flagged_by" binding:"required"`
	SourceID    *string `json:"source_id"`
}

// FlagCorrection 标记更正
func (h *Handlers) FlagCorrection(c *gin.Context) {
	var req CorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "无效的请求参数: " + err.Error(),
		})
		return
	}

	correction, err := h.publisher.FlagCorrection(c.Param("id"), req.Description, req.FlaggedBy, req.SourceID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": correction,
	})
}

// ListCorrections 查询文章更正
func (h *Handlers) ListCorrections(c *gin.Context) {
	corrections, err := h.corrections.ListByArticle(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": corrections,
	})
}

// VerifyCorrection 核实更正
func (h *Handlers) VerifyCorrection(c *gin.Context) {
	if err := h.publisher.VerifyCorrection(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
	})
}

// RejectCorrection 否决更正
func (h *Handlers) RejectCorrection(c *gin.Context) {
	if err := h.publisher.RejectCorrection(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
	})
}

// PublishCorrection 发布更正
func (h *Handlers) PublishCorrection(c *gin.Context) {
	if err := h.publisher.PublishCorrection(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
	})
}

// GetSource 查询来源
func (h *Handlers) GetSource(c *gin.Context) {
	source, err := h.sources.GetByID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": source,
	})
}

// GetSourceLogs 查询来源可信度日志
func (h *Handlers) GetSourceLogs(c *gin.Context) {
	logs, err := h.sources.GetLogs(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": logs,
	})
}
