package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dailyworker/pkg/collector"
	"dailyworker/pkg/config"
	"dailyworker/pkg/database"
	"dailyworker/pkg/messaging"
)

func main() {
	log.Println("启动线索发现服务...")

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

	// 构建订阅源采集器
	sources := make([]collector.EventSource, 0, len(cfg.Discovery.FeedURLs))
	for i, feedURL := range cfg.Discovery.FeedURLs {
		name := fmt.Sprintf("feed-%d", i+1)
		sources = append(sources, collector.NewFeedSource(name, feedURL, 0))
	}
	if len(sources) == 0 {
		log.Println("警告: 未配置任何订阅源，服务只接收人工提交的线索")
	}

	// 创建发现服务
	discovery := collector.NewDiscovery(sources, db.Events(), natsClient)

	// 启动时先跑一轮
	discovery.RunOnce()

	// 定时轮询
	interval := time.Duration(cfg.Discovery.IntervalMinutes) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			discovery.RunOnce()
		case <-sigChan:
			log.Println("正在关闭线索发现服务...")
			return
		}
	}
}
