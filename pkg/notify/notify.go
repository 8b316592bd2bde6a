// pkg/notify/notify.go
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"dailyworker/pkg/model"
)

// RecordStore 通知记录存储
type RecordStore interface {
	Save(record *model.NotificationRecord) error
}

// Service 编辑通知服务
// 测试模式只打日志不外发，每次通知都落通知记录
type Service struct {
	webhookURL string
	testMode   bool
	records    RecordStore
	client     *http.Client
	now        func() time.Time
}

// NewService 创建通知服务
func NewService(webhookURL string, testMode bool, records RecordStore) *Service {
	return &Service{
		webhookURL: webhookURL,
		testMode:   testMode,
		records:    records,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
}

// webhookPayload 通知渠道的请求体
type webhookPayload struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Content   string `json:"content"`
	Type      string `json:"type"`
}

// Notify 发送一条编辑通知并落记录
func (s *Service) Notify(articleID, recipient, notifyType, subject, content string) error {
	record := &model.NotificationRecord{
		ArticleID: articleID,
		Recipient: recipient,
		Type:      notifyType,
		Title:     subject,
		Content:   content,
		Status:    "pending",
	}

	err := s.send(recipient, notifyType, subject, content)
	if err != nil {
		record.Status = "failed"
		record.Error = err.Error()
	} else {
		now := s.now()
		record.Status = "sent"
		record.SentAt = &now
	}

	if s.records != nil {
		if saveErr := s.records.Save(record); saveErr != nil {
			log.Printf("保存通知记录失败: %v", saveErr)
		}
	}

	return err
}

// send 实际外发，测试模式只打日志
func (s *Service) send(recipient, notifyType, subject, content string) error {
	if s.testMode || s.webhookURL == "" {
		log.Printf("[测试模式] 通知 %s (%s): %s", recipient, notifyType, subject)
		return nil
	}

	payload, err := json.Marshal(webhookPayload{
		Recipient: recipient,
		Subject:   subject,
		Content:   content,
		Type:      notifyType,
	})
	if err != nil {
		return fmt.Errorf("序列化通知失败: %w", err)
	}

	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: 发送通知失败: %v", model.ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: 通知渠道返回错误: %s", model.ErrExternalService, string(body))
	}

	log.Printf("已通知 %s (%s): %s", recipient, notifyType, subject)
	return nil
}
