package main

import (
	"log"
	"os"

	"dailyworker/pkg/api"
	"dailyworker/pkg/config"
	"dailyworker/pkg/database"
	"dailyworker/pkg/editorial"
	"dailyworker/pkg/engine"
	"dailyworker/pkg/generator"
	"dailyworker/pkg/llm"
	"dailyworker/pkg/notify"
	"dailyworker/pkg/publication"
	"dailyworker/pkg/verify"
)

func main() {
	log.Println("启动API服务...")

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v\n", err)
	}

	// 连接数据库
	db, err := database.NewDB(cfg)
	if err != nil {
		log.Fatalf("连接数据库失败: %v\n", err)
	}
	defer db.Close()

	// 创建评估引擎
	eng, err := engine.NewEngine(db.Events(), db.Topics(), cfg)
	if err != nil {
		log.Fatalf("创建评估引擎失败: %v\n", err)
	}

	// 创建核实器
	searchClient := verify.NewHTTPSearchClient(cfg.Search.APIURL, cfg.Search.APIKey, cfg.Search.Timeout)
	verifier := verify.NewVerifier(searchClient, db.Topics())

	// 创建生成循环
	llmClient := llm.NewClient(cfg.LLM.APIURL, cfg.LLM.APIKey, cfg.LLM.ModelName, cfg.LLM.Timeout)
	gen := generator.NewGenerator(llmClient, db.Articles(), db.Topics(), cfg)

	// 创建通知服务与编辑流程
	notifier := notify.NewService(cfg.Notify.WebhookURL, cfg.Notify.TestMode, db.Notifications())
	workflow := editorial.NewWorkflow(db.Articles(), notifier, editorial.Policy{
		Editors:         cfg.Editorial.Editors,
		CategorySLA:     cfg.Editorial.CategorySLA,
		DefaultSLAHours: cfg.Editorial.DefaultSLAHours,
		MaxRevisions:    cfg.Editorial.MaxRevisions,
	})

	// 创建发布流程
	publisher := publication.NewPublisher(db.Articles(), db.Corrections(), db.Sources())

	// 创建API处理程序
	handlers := api.NewHandlers(db, eng, verifier, gen, workflow, publisher, cfg.Evaluation.BatchLimit)

	// 创建并启动服务器
	port := cfg.API.Port
	if port == "" {
		port = "8080"
	}
	server := api.NewServer(port)
	server.SetupRoutes(handlers)
	server.Start()
}
