// pkg/verify/search_client.go
package verify

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HTTPSearchClient 基于HTTP的检索客户端
type HTTPSearchClient struct {
	apiURL string
	apiKey string
	client *http.Client
}

// NewHTTPSearchClient 创建检索客户端
func NewHTTPSearchClient(apiURL, apiKey string, timeout time.Duration) *HTTPSearchClient {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &HTTPSearchClient{
		apiURL: apiURL,
		apiKey: apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// searchResponse 检索接口响应
type searchResponse struct {
	Results []SearchResult `json:"results"`
}

// Search 调用检索接口
func (c *HTTPSearchClient) Search(query string) ([]SearchResult, error) {
	// 构建请求
	req, err := http.NewRequest("GET", c.apiURL+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, fmt.Errorf("创建检索请求失败: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	// 发送请求
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("发送检索请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取检索响应失败: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("检索接口返回错误: %s", string(body))
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("解析检索响应失败: %w", err)
	}

	return searchResp.Results, nil
}
