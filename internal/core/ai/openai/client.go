package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"seo-content-generator/internal/core/ai/provider"
	"seo-content-generator/internal/infrastructure/config"
	"seo-content-generator/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client OpenAI 相容的 Chat Completion 客戶端
type Client struct {
	config config.OpenAIConfig
	client *resty.Client
}

type chatRequest struct {
	Model       string             `json:"model"`
	Messages    []provider.Message `json:"messages"`
	Temperature float64            `json:"temperature"`
	MaxTokens   int                `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage provider.Usage `json:"usage"`
}

type apiError struct {
	Error struct {
		Message string      `json:"message"`
		Type    string      `json:"type"`
		Code    interface{} `json:"code"`
	} `json:"error"`
}

// NewClient 創建 Chat Completion 客戶端
func NewClient(cfg config.OpenAIConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(cfg.APIKey)

	return &Client{
		config: cfg,
		client: client,
	}
}

// Generate 發送 chat completion 請求，失敗不重試
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	model := req.Model
	if model == "" {
		model = c.config.Model
	}

	body := chatRequest{
		Model:       model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	common.LogDebug("Sending chat completion request",
		zap.String("model", model),
		zap.Int("messages", len(req.Messages)),
		zap.Int("max_tokens", req.MaxTokens),
	)

	var result chatResponse
	var failure apiError
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&failure).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("failed to send chat completion request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		message := failure.Error.Message
		if message == "" {
			message = strings.TrimSpace(resp.String())
		}
		common.LogError("Chat completion returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", model),
			zap.String("error_type", failure.Error.Type),
		)
		return nil, fmt.Errorf("chat completion error (status %d): %s", resp.StatusCode(), message)
	}

	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no choices in chat completion response")
	}

	content := result.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("empty content in chat completion response")
	}

	return &provider.Response{
		Content: content,
		Model:   result.Model,
		Usage:   result.Usage,
	}, nil
}

// GetModel 獲取當前使用的模型名稱
func (c *Client) GetModel() string {
	return c.config.Model
}

// GetTimeout 獲取請求超時時間
func (c *Client) GetTimeout() time.Duration {
	return c.config.Timeout
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
