package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dailyworker/pkg/config"
	"dailyworker/pkg/database"
	"dailyworker/pkg/monitor"
)

func main() {
	log.Println("启动发布后监控服务...")

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

	// 每个配置的社交平台一个提及客户端，聚合后交给监控器
	var services []monitor.MentionService
	for _, api := range cfg.Monitoring.MentionAPIs {
		services = append(services, monitor.NewHTTPMentionClient(api.Platform, api.APIURL, api.APIKey, 0))
	}
	mon := monitor.NewMonitor(monitor.NewMultiMentionService(services...),
		db.Articles(), db.Topics(), db.Mentions(), db.Sources(), cfg)

	// 启动时先跑一轮
	mon.RunCycle()

	// 每小时跑一轮
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			mon.RunCycle()
		case <-sigChan:
			log.Println("正在关闭发布后监控服务...")
			return
		}
	}
}
