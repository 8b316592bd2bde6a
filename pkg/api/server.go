package api

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// Server API服务器
type Server struct {
	router *gin.Engine
	srv    *http.Server
}

// NewServer 创建新的API服务器
func NewServer(port string) *Server {
	router := gin.Default()

	// 设置中间件
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	return &Server{
		router: router,
		srv:    srv,
	}
}

// SetupRoutes 设置路由
func (s *Server) SetupRoutes(handlers *Handlers) {
	// 健康检查
	s.router.GET("/health", handlers.HealthCheck)
	s.router.GET("/ready", handlers.ReadinessCheck)

	// API v1 路由组
	v1 := s.router.Group("/api/v1")
	{
		// 候选事件接口
		v1.POST("/events", handlers.SubmitEvent)
		v1.GET("/events", handlers.ListEvents)
		v1.GET("/events/:id", handlers.GetEvent)
		v1.POST("/events/evaluate", handlers.EvaluateEvents)

		// 选题接口
		v1.GET("/topics", handlers.ListTopics)
		v1.GET("/topics/:id", handlers.GetTopic)
		v1.POST("/topics/:id/verify", handlers.VerifyTopic)
		v1.POST("/topics/:id/generate", handlers.GenerateArticle)

		// 文章与编辑流程接口
		v1.GET("/articles", handlers.ListArticles)
		v1.GET("/articles/:id", handlers.GetArticle)
		v1.GET("/articles/:id/revisions", handlers.GetRevisions)
		v1.GET("/articles/:id/mentions", handlers.GetMentions)
		v1.POST("/articles/:id/assign", handlers.AssignEditor)
		v1.POST("/articles/:id/approve", handlers.ApproveArticle)
		v1.POST("/articles/:id/request-revision", handlers.RequestRevision)
		v1.POST("/articles/:id/rework", handlers.ReworkArticle)
		v1.POST("/articles/:id/reject", handlers.RejectArticle)
		v1.POST("/articles/:id/publish", handlers.PublishArticle)

		// 更正接口
		v1.POST("/articles/:id/corrections", handlers.FlagCorrection)
		v1.GET("/articles/:id/corrections", handlers.ListCorrections)
		v1.POST("/corrections/:id/verify", handlers.VerifyCorrection)
		v1.POST("/corrections/:id/reject", handlers.RejectCorrection)
		v1.POST("/corrections/:id/publish", handlers.PublishCorrection)

		// 来源可信度接口
		v1.GET("/sources/:id", handlers.GetSource)
		v1.GET("/sources/:id/logs", handlers.GetSourceLogs)
	}
}

// Start 启动服务器
func (s *Server) Start() {
	// 在goroutine中启动服务器
	go func() {
		log.Printf("API服务器启动在 %s\n", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务器失败: %v\n", err)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在关闭服务器...")

	// 设置超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 优雅关闭
	if err := s.srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务器关闭失败: %v\n", err)
	}

	log.Println("服务器已关闭")
}
