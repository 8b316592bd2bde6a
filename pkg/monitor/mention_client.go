// pkg/monitor/mention_client.go
package monitor

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"dailyworker/pkg/model"
)

// HTTPMentionClient 基于HTTP的单平台提及检索客户端
type HTTPMentionClient struct {
	platform string
	apiURL   string
	apiKey   string
	client   *http.Client
}

// NewHTTPMentionClient 创建提及检索客户端
func NewHTTPMentionClient(platform, apiURL, apiKey string, timeout time.Duration) *HTTPMentionClient {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &HTTPMentionClient{
		platform: platform,
		apiURL:   apiURL,
		apiKey:   apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// mentionResponse 提及接口响应
type mentionResponse struct {
	Mentions []FoundMention `json:"mentions"`
}

// FindMentions 按文章标题检索社交平台提及
func (c *HTTPMentionClient) FindMentions(article *model.Article) ([]FoundMention, error) {
	req, err := http.NewRequest("GET", c.apiURL+"?q="+url.QueryEscape(article.Title), nil)
	if err != nil {
		return nil, fmt.Errorf("创建提及请求失败: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("发送提及请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取提及响应失败: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("提及接口返回错误: %s", string(body))
	}

	var mentionResp mentionResponse
	if err := json.Unmarshal(body, &mentionResp); err != nil {
		return nil, fmt.Errorf("解析提及响应失败: %w", err)
	}

	// 平台专属接口通常不回传平台名，补上本客户端的平台
	for i := range mentionResp.Mentions {
		if mentionResp.Mentions[i].Platform == "" {
			mentionResp.Mentions[i].Platform = c.platform
		}
	}

	return mentionResp.Mentions, nil
}

// MultiMentionService 聚合多个平台的提及来源
// 单个来源失败只记录日志，全部失败才报错
type MultiMentionService struct {
	services []MentionService
}

// NewMultiMentionService 创建聚合提及服务
func NewMultiMentionService(services ...MentionService) *MultiMentionService {
	return &MultiMentionService{services: services}
}

// FindMentions 依次检索各平台并合并结果
func (m *MultiMentionService) FindMentions(article *model.Article) ([]FoundMention, error) {
	var all []FoundMention
	failed := 0

	for _, service := range m.services {
		mentions, err := service.FindMentions(article)
		if err != nil {
			log.Printf("提及来源检索失败: %v", err)
			failed++
			continue
		}
		all = append(all, mentions...)
	}

	if len(m.services) > 0 && failed == len(m.services) {
		return nil, fmt.Errorf("全部%d个提及来源检索失败", failed)
	}
	return all, nil
}
