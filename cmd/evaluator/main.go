package main

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"dailyworker/pkg/config"
	"dailyworker/pkg/database"
	"dailyworker/pkg/engine"
	"dailyworker/pkg/messaging"
	"dailyworker/pkg/model"
	"dailyworker/pkg/scheduler"
	"dailyworker/pkg/verify"
)

func main() {
	log.Println("启动评估与核实服务...")

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

	// 创建评估引擎
	eng, err := engine.NewEngine(db.Events(), db.Topics(), cfg)
	if err != nil {
		log.Fatalf("创建评估引擎失败: %v\n", err)
	}

	// 创建核实器
	searchClient := verify.NewHTTPSearchClient(cfg.Search.APIURL, cfg.Search.APIKey, cfg.Search.Timeout)
	verifier := verify.NewVerifier(searchClient, db.Topics())

	// 新线索到达时立即触发一轮批量评估
	err = natsClient.Subscribe("EVENTS_STREAM", "evaluator", messaging.SubjectEventDiscovered,
		func(data []byte) error {
			outcomes := eng.ProcessDiscoveredEvents(cfg.Evaluation.BatchLimit)
			for _, outcome := range outcomes {
				if outcome.Status == model.EventStatusApproved {
					if err := natsClient.Publish(messaging.SubjectEventApproved, outcome); err != nil {
						log.Printf("广播通过事件失败: %v", err)
					}
				}
			}
			return nil
		})
	if err != nil {
		log.Fatalf("订阅线索事件失败: %v\n", err)
	}

	// 事件通过后核实对应的待处理选题
	err = natsClient.Subscribe("EVENTS_STREAM", "verifier", messaging.SubjectEventApproved,
		func(data []byte) error {
			done := verifier.ProcessPending(cfg.Evaluation.BatchLimit)
			if done > 0 {
				// 广播已核实选题，交给新闻编辑部生成文章
				topics, err := db.Topics().GetReadyForGeneration(done)
				if err != nil {
					log.Printf("查询已核实选题失败: %v", err)
					return nil
				}
				for _, topic := range topics {
					payload, _ := json.Marshal(topic)
					if err := natsClient.Publish(messaging.SubjectTopicVerified, payload); err != nil {
						log.Printf("广播已核实选题失败: %v", err)
					}
				}
			}
			return nil
		})
	if err != nil {
		log.Fatalf("订阅通过事件失败: %v\n", err)
	}

	// 兜底定时批处理，补漏NATS触发之外的积压
	sched := scheduler.NewScheduler(nil, eng, verifier, nil, nil,
		cfg.Evaluation.BatchLimit, cfg.Discovery.IntervalMinutes)
	sched.Start()
	defer sched.Stop()

	// 等待中断信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("正在关闭评估与核实服务...")
}
