// pkg/collector/feed_source.go
package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dailyworker/pkg/model"
)

// FeedSource 基于HTTP JSON订阅源的线索来源
type FeedSource struct {
	name    string
	feedURL string
	client  *http.Client
}

// NewFeedSource 创建订阅源采集器
func NewFeedSource(name, feedURL string, timeout time.Duration) *FeedSource {
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return &FeedSource{
		name:    name,
		feedURL: feedURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name 来源名称
func (s *FeedSource) Name() string {
	return s.name
}

// feedItem 订阅源的一条原始数据
type feedItem struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Link        string   `json:"link"`
	Source      string   `json:"source"`
	Category    string   `json:"category"`
	Regions     []string `json:"regions"`
	PublishedAt string   `json:"published_at"`
}

// feedResponse 订阅源响应
type feedResponse struct {
	Items []feedItem `json:"items"`
}

// FetchCandidates 拉取订阅源并转换为候选事件
func (s *FeedSource) FetchCandidates() ([]*model.EventCandidate, error) {
	resp, err := s.client.Get(s.feedURL)
	if err != nil {
		return nil, fmt.Errorf("请求订阅源 %s 失败: %w", s.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取订阅源响应失败: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("订阅源 %s 返回错误: %s", s.name, string(body))
	}

	var feed feedResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("解析订阅源 %s 失败: %w", s.name, err)
	}

	candidates := make([]*model.EventCandidate, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Title == "" || item.Link == "" {
			continue
		}

		sourceName := item.Source
		if sourceName == "" {
			sourceName = s.name
		}

		// 解析发布时间，失败则按当前时间处理
		discoveredAt, err := time.Parse(time.RFC3339, item.PublishedAt)
		if err != nil {
			discoveredAt = time.Now()
		}

		candidates = append(candidates, &model.EventCandidate{
			Title:         item.Title,
			Description:   item.Description,
			SourceURL:     item.Link,
			SourceName:    sourceName,
			SuggestedSlug: item.Category,
			Regions:       item.Regions,
			Status:        model.EventStatusDiscovered,
			DiscoveredAt:  discoveredAt,
		})
	}

	return candidates, nil
}
