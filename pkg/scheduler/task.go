package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"dailyworker/pkg/collector"
	"dailyworker/pkg/editorial"
	"dailyworker/pkg/engine"
	"dailyworker/pkg/monitor"
	"dailyworker/pkg/verify"
)

// Scheduler 管线任务调度器
type Scheduler struct {
	cron       *cron.Cron
	discovery  *collector.Discovery
	engine     *engine.Engine
	verifier   *verify.Verifier
	workflow   *editorial.Workflow
	monitor    *monitor.Monitor
	batchLimit int
	feedEvery  int // 采集间隔（分钟）
}

// NewScheduler 创建任务调度器
func NewScheduler(discovery *collector.Discovery, eng *engine.Engine, verifier *verify.Verifier,
	workflow *editorial.Workflow, mon *monitor.Monitor, batchLimit, feedEveryMinutes int) *Scheduler {

	if feedEveryMinutes == 0 {
		feedEveryMinutes = 15
	}
	return &Scheduler{
		cron:       cron.New(),
		discovery:  discovery,
		engine:     eng,
		verifier:   verifier,
		workflow:   workflow,
		monitor:    mon,
		batchLimit: batchLimit,
		feedEvery:  feedEveryMinutes,
	}
}

// Start 启动调度器
func (s *Scheduler) Start() {
	if s.discovery != nil {
		s.cron.AddFunc(fmt.Sprintf("@every %dm", s.feedEvery), func() {
			log.Println("开始采集线索...")
			s.discovery.RunOnce()
		})
	}

	if s.engine != nil {
		// 每5分钟评估一批新发现的事件
		s.cron.AddFunc("@every 5m", func() {
			log.Println("开始批量评估候选事件...")
			outcomes := s.engine.ProcessDiscoveredEvents(s.batchLimit)
			log.Printf("本轮评估完成: %d条", len(outcomes))
		})
	}

	if s.verifier != nil {
		// 每10分钟核实一批待处理选题
		s.cron.AddFunc("@every 10m", func() {
			log.Println("开始核实待处理选题...")
			done := s.verifier.ProcessPending(s.batchLimit)
			log.Printf("本轮核实完成: %d条", done)
		})
	}

	if s.workflow != nil {
		// 每30分钟检查超期审稿
		s.cron.AddFunc("@every 30m", func() {
			log.Println("检查超期审稿...")
			overdue := s.workflow.CheckOverdue()
			if len(overdue) > 0 {
				log.Printf("发现%d篇超期审稿", len(overdue))
			}
		})
	}

	if s.monitor != nil {
		// 每小时跑一轮发布后监控
		s.cron.AddFunc("@every 1h", func() {
			log.Println("开始发布后监控...")
			s.monitor.RunCycle()
		})
	}

	s.cron.Start()
	log.Println("调度器已启动")
}

// Stop 停止调度器
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("调度器已停止")
}
