package publish

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"seo-content-generator/internal/infrastructure/config"
	"seo-content-generator/internal/pkg/common"
	"seo-content-generator/internal/pkg/metrics"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	StatusDraft   = "draft"
	StatusPublish = "publish"
)

// Post 發佈內容
type Post struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status"`
}

// Result 發佈結果
type Result struct {
	ID   int    `json:"id"`
	Link string `json:"link"`
}

// Publisher 發佈目標
type Publisher interface {
	Publish(ctx context.Context, post Post) (*Result, error)
}

// WordPressClient WordPress REST API 客戶端，失敗不重試
type WordPressClient struct {
	config config.WordPressConfig
	client *resty.Client
}

type wpError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewWordPressClient 創建 WordPress 客戶端
func NewWordPressClient(cfg config.WordPressConfig) *WordPressClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetBasicAuth(cfg.Username, cfg.AppPassword)

	return &WordPressClient{
		config: cfg,
		client: client,
	}
}

// Publish 建立文章，回傳文章 ID 與連結
func (c *WordPressClient) Publish(ctx context.Context, post Post) (*Result, error) {
	status, err := c.resolveStatus(post.Status)
	if err != nil {
		return nil, err
	}
	post.Status = status

	var result Result
	var failure wpError
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(post).
		SetResult(&result).
		SetError(&failure).
		Post("/wp-json/wp/v2/posts")
	if err != nil {
		metrics.PublishTotal.WithLabelValues("error").Inc()
		return nil, common.NewError(common.ErrCodePublishFailed, "WordPress 發佈失敗", http.StatusBadGateway,
			fmt.Errorf("failed to send wordpress request: %w", err))
	}

	if resp.StatusCode() != http.StatusCreated && resp.StatusCode() != http.StatusOK {
		metrics.PublishTotal.WithLabelValues("error").Inc()
		message := failure.Message
		if message == "" {
			message = strings.TrimSpace(resp.String())
		}
		common.LogError("WordPress returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("wp_code", failure.Code),
		)
		return nil, common.NewError(common.ErrCodePublishFailed, "WordPress 發佈失敗", http.StatusBadGateway,
			fmt.Errorf("wordpress error (status %d): %s", resp.StatusCode(), message))
	}

	metrics.PublishTotal.WithLabelValues(post.Status).Inc()
	common.LogInfo("Post published",
		zap.Int("post_id", result.ID),
		zap.String("link", result.Link),
		zap.String("status", post.Status),
	)
	return &result, nil
}

func (c *WordPressClient) resolveStatus(status string) (string, error) {
	if status == "" {
		status = c.config.DefaultStatus
	}
	if status == "" {
		status = StatusDraft
	}
	if status != StatusDraft && status != StatusPublish {
		return "", common.NewValidationError(fmt.Sprintf("invalid post status %q", status))
	}
	return status, nil
}

// PublishArticle 先轉為區塊格式再發佈
func PublishArticle(ctx context.Context, p Publisher, title, content, status string) (*Result, error) {
	if p == nil {
		return nil, common.ErrPublisherMissing
	}
	return p.Publish(ctx, Post{
		Title:   title,
		Content: ToBlocks(content),
		Status:  status,
	})
}
