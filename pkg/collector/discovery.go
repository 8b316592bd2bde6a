// pkg/collector/discovery.go
package collector

import (
	"log"

	"dailyworker/pkg/messaging"
	"dailyworker/pkg/model"
)

// EventStore 发现阶段依赖的事件存储
type EventStore interface {
	Save(event *model.EventCandidate) error
	ExistsByURL(url string) (bool, error)
}

// Publisher 管线消息发布方
type Publisher interface {
	Publish(subject string, data interface{}) error
}

// Discovery 线索发现服务：轮询各来源，按URL去重后落盘并广播
type Discovery struct {
	sources   []EventSource
	events    EventStore
	publisher Publisher
}

// NewDiscovery 创建发现服务
func NewDiscovery(sources []EventSource, events EventStore, publisher Publisher) *Discovery {
	return &Discovery{
		sources:   sources,
		events:    events,
		publisher: publisher,
	}
}

// RunOnce 执行一轮采集，单个来源失败不影响其他来源
func (d *Discovery) RunOnce() int {
	total := 0
	for _, source := range d.sources {
		candidates, err := source.FetchCandidates()
		if err != nil {
			log.Printf("来源 %s 采集失败: %v", source.Name(), err)
			continue
		}

		saved := 0
		for _, candidate := range candidates {
			ok, err := d.ingest(candidate)
			if err != nil {
				log.Printf("落盘候选事件失败: %v", err)
				continue
			}
			if ok {
				saved++
			}
		}

		log.Printf("来源 %s 采集完成: 拉取%d条 新增%d条", source.Name(), len(candidates), saved)
		total += saved
	}
	return total
}

// ingest 落盘一条候选事件并广播，已存在的URL直接跳过
func (d *Discovery) ingest(candidate *model.EventCandidate) (bool, error) {
	exists, err := d.events.ExistsByURL(candidate.SourceURL)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if err := d.events.Save(candidate); err != nil {
		return false, err
	}

	if d.publisher != nil {
		if err := d.publisher.Publish(messaging.SubjectEventDiscovered, candidate); err != nil {
			log.Printf("广播候选事件失败: %v", err)
		}
	}
	return true, nil
}
