package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dailyworker/pkg/config"
	"dailyworker/pkg/database"
	"dailyworker/pkg/editorial"
	"dailyworker/pkg/generator"
	"dailyworker/pkg/llm"
	"dailyworker/pkg/messaging"
	"dailyworker/pkg/notify"
)

func main() {
	log.Println("启动新闻编辑部服务...")

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

	// 连接NATS
	natsClient, err := messaging.NewNATSClient(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("连接NATS失败: %v\n", err)
	}
	defer natsClient.Close()

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

	// generateReady 为已核实选题生成文章，通过自查的草稿直接进入审稿
	generateReady := func() {
		topics, err := db.Topics().GetReadyForGeneration(cfg.Evaluation.BatchLimit)
		if err != nil {
			log.Printf("查询待生成选题失败: %v", err)
			return
		}

		for _, topic := range topics {
			result, err := gen.GenerateArticle(topic)
			if err != nil {
				log.Printf("选题 %s 生成失败: %v", topic.ID, err)
				continue
			}

			if err := natsClient.Publish(messaging.SubjectArticleDrafted, result.Article); err != nil {
				log.Printf("广播新草稿失败: %v", err)
			}

			if result.State != generator.StatePassed {
				// 带 [NEEDS REVIEW] 标记的草稿等待人工处理，不自动分配
				continue
			}
			if err := workflow.AssignEditor(result.Article.ID); err != nil {
				log.Printf("分配编辑失败: %v", err)
			}
		}
	}

	// 选题核实完成时触发生成
	err = natsClient.Subscribe("TOPICS_STREAM", "newsroom", messaging.SubjectTopicVerified,
		func(data []byte) error {
			generateReady()
			return nil
		})
	if err != nil {
		log.Fatalf("订阅选题事件失败: %v\n", err)
	}

	// 兜底轮询：漏掉的选题和超期审稿
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			generateReady()
			workflow.CheckOverdue()
		case <-sigChan:
			log.Println("正在关闭新闻编辑部服务...")
			return
		}
	}
}
