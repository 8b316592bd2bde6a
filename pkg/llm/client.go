package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dailyworker/pkg/model"
)

// Client 大模型客户端（OpenAI兼容接口）
type Client struct {
	apiURL    string
	apiKey    string
	modelName string
	client    *http.Client
}

// Message 表示对话中的一条消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest 表示聊天请求
type ChatRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

// ChatResponse 表示聊天响应
type ChatResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewClient 创建新的大模型客户端
func NewClient(apiURL, apiKey, modelName string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiURL:    apiURL,
		apiKey:    apiKey,
		modelName: modelName,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Chat 发送聊天请求并获取响应
func (c *Client) Chat(messages []Message, maxTokens int) (string, error) {
	// 构建请求
	reqBody := ChatRequest{
		Model:     c.modelName,
		Messages:  messages,
		MaxTokens: maxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("序列化请求失败: %w", err)
	}

	// 创建HTTP请求
	req, err := http.NewRequest("POST", c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("创建HTTP请求失败: %w", err)
	}

	// 设置请求头
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	// 发送请求
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: 发送LLM请求失败: %v", model.ErrExternalService, err)
	}
	defer resp.Body.Close()

	// 读取响应
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: 读取LLM响应失败: %v", model.ErrExternalService, err)
	}

	// 检查状态码
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: LLM接口返回错误: %s", model.ErrExternalService, string(body))
	}

	// 解析响应
	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("解析LLM响应失败: %w", err)
	}

	// 检查是否有响应内容
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: LLM接口返回空响应", model.ErrExternalService)
	}

	// 返回响应内容
	return chatResp.Choices[0].Message.Content, nil
}

// Complete 单轮文本补全
func (c *Client) Complete(prompt string, maxTokens int) (string, error) {
	systemPrompt := "You are a staff writer for a labor-focused newsroom. " +
		"Write clear, factual news copy at an 8th-grade reading level. " +
		"Never invent facts. Attribute every claim to its source."

	messages := []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	}

	return c.Chat(messages, maxTokens)
}
