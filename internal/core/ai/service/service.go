package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"seo-content-generator/internal/core/ai/provider"
	"seo-content-generator/internal/infrastructure/config"
	"seo-content-generator/internal/pkg/common"
	"seo-content-generator/internal/pkg/metrics"
)

// Service AI 服務，負責呼叫節流、日誌與指標
type Service struct {
	config      config.OpenAIConfig
	provider    provider.Provider
	mu          sync.Mutex
	lastRequest time.Time
}

// NewService 創建 AI 服務
func NewService(cfg config.OpenAIConfig, p provider.Provider) (*Service, error) {
	if p == nil {
		return nil, common.NewConfigError("ai provider is required")
	}
	return &Service{
		config:   cfg,
		provider: p,
	}, nil
}

// Complete 呼叫一次 chat completion 並回傳去除前後空白的內容
func (s *Service) Complete(ctx context.Context, stage string, req *provider.Request) (string, error) {
	if err := s.waitTurn(ctx); err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := s.provider.Generate(ctx, req)
	common.LogAICall(stage, time.Since(start), err)
	if err != nil {
		metrics.LLMCallsTotal.WithLabelValues(stage, "error").Inc()
		return "", err
	}
	metrics.LLMCallsTotal.WithLabelValues(stage, "success").Inc()
	metrics.LLMTokensTotal.WithLabelValues("prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.LLMTokensTotal.WithLabelValues("completion").Add(float64(resp.Usage.CompletionTokens))

	return strings.TrimSpace(resp.Content), nil
}

// MaxTokens 設定的單次呼叫上限
func (s *Service) MaxTokens() int {
	return s.config.MaxTokens
}

// Close 關閉底層提供者
func (s *Service) Close() error {
	return s.provider.Close()
}

// waitTurn 確保兩次呼叫之間至少間隔 MinInterval
func (s *Service) waitTurn(ctx context.Context) error {
	if s.config.MinInterval <= 0 {
		return nil
	}

	s.mu.Lock()
	now := time.Now()
	next := s.lastRequest.Add(s.config.MinInterval)
	if next.Before(now) {
		next = now
	}
	s.lastRequest = next
	s.mu.Unlock()

	wait := time.Until(next)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
