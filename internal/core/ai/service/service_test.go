package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"seo-content-generator/internal/core/ai/provider"
	"seo-content-generator/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	content string
	err     error
	calls   []time.Time
}

func (p *stubProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	p.calls = append(p.calls, time.Now())
	if p.err != nil {
		return nil, p.err
	}
	return &provider.Response{Content: p.content}, nil
}

func (p *stubProvider) GetModel() string           { return "stub" }
func (p *stubProvider) GetTimeout() time.Duration { return time.Second }
func (p *stubProvider) Close() error               { return nil }

func TestCompleteTrimsContent(t *testing.T) {
	svc, err := NewService(config.OpenAIConfig{MaxTokens: 4000}, &stubProvider{content: "  <p>hi</p>\n"})
	require.NoError(t, err)

	out, err := svc.Complete(context.Background(), "content", provider.NewChatRequest("", "x", 10, 0))
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", out)
	assert.Equal(t, 4000, svc.MaxTokens())
}

func TestCompletePropagatesProviderError(t *testing.T) {
	boom := errors.New("upstream down")
	svc, err := NewService(config.OpenAIConfig{}, &stubProvider{err: boom})
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), "title", provider.NewChatRequest("", "x", 10, 0))
	assert.ErrorIs(t, err, boom)
}

func TestCompletePacesCalls(t *testing.T) {
	stub := &stubProvider{content: "ok"}
	svc, err := NewService(config.OpenAIConfig{MinInterval: 40 * time.Millisecond}, stub)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.Complete(context.Background(), "content", provider.NewChatRequest("", "x", 10, 0))
		require.NoError(t, err)
	}
	require.Len(t, stub.calls, 3)
	assert.GreaterOrEqual(t, stub.calls[2].Sub(stub.calls[0]), 70*time.Millisecond)
}

func TestCompleteHonoursCancelledContextWhileWaiting(t *testing.T) {
	svc, err := NewService(config.OpenAIConfig{MinInterval: time.Hour}, &stubProvider{content: "ok"})
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), "content", provider.NewChatRequest("", "x", 10, 0))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Complete(ctx, "content", provider.NewChatRequest("", "x", 10, 0))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewServiceRequiresProvider(t *testing.T) {
	_, err := NewService(config.OpenAIConfig{}, nil)
	assert.Error(t, err)
}
