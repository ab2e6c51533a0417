package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"seo-content-generator/internal/core/content"
	"seo-content-generator/internal/pkg/common"

	"github.com/stretchr/testify/assert"
)

func TestErrorBody(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", common.NewValidationError("keyword is required"), http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"generation", common.NewGenerationError("title", errors.New("invalid api key")), http.StatusBadGateway, common.ErrCodeGenerationFailed},
		{"wrapped custom", fmt.Errorf("job: %w", common.ErrNotFound), http.StatusNotFound, common.ErrCodeNotFound},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, common.ErrCodeGatewayTimeout},
		{"generation deadline", common.NewGenerationError("body", fmt.Errorf("post: %w", context.DeadlineExceeded)), http.StatusGatewayTimeout, common.ErrCodeGatewayTimeout},
		{"canceled", context.Canceled, http.StatusRequestTimeout, common.ErrCodeRequestTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, common.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := errorBody(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestGenerationErrorKeepsUpstreamMessage(t *testing.T) {
	_, body := errorBody(common.NewGenerationError("full", errors.New("rate limit reached")))
	assert.Equal(t, "rate limit reached", body.Message)
}

func TestPromptSettingsApply(t *testing.T) {
	base := content.PromptSettings{ToneVoice: "friendly", UseArticleFormat: true, ThingsToAvoid: "delve"}

	var none *PromptSettingsRequest
	assert.Equal(t, base, none.Apply(base))

	off := false
	tone := "formal"
	got := (&PromptSettingsRequest{UseArticleFormat: &off, ToneVoice: &tone}).Apply(base)
	assert.False(t, got.UseArticleFormat)
	assert.Equal(t, "formal", got.ToneVoice)
	assert.Equal(t, "delve", got.ThingsToAvoid)
}
