package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseJSONRejectsTrailingData(t *testing.T) {
	var v []any
	require.NoError(t, ParseJSON(`["a", 1]`, &v))
	assert.Equal(t, []any{"a", json.Number("1")}, v)

	assert.Error(t, ParseJSON(`["a"] ["b"]`, &v))
	assert.Error(t, ParseJSON(`["a"`, &v))
}

func TestParseJSONBytesStrict(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	require.NoError(t, ParseJSONBytesStrict([]byte(`{"name":"x"}`), &v))
	assert.Error(t, ParseJSONBytesStrict([]byte(`{"name":"x","extra":1}`), &v))
}

func TestGenerationErrorKeepsUnderlyingMessage(t *testing.T) {
	err := NewGenerationError("title", assert.AnError)
	assert.Equal(t, assert.AnError.Error(), err.Error())
	assert.ErrorIs(t, err, assert.AnError)
	assert.True(t, IsGenerationError(err))
	assert.False(t, IsGenerationError(assert.AnError))
}

func TestFilterFieldsDropsSecrets(t *testing.T) {
	fields := filterFields([]zap.Field{
		zap.String("openai_api_key", "sk-123"),
		zap.String("app_password", "secret"),
		zap.String("Authorization", "Bearer x"),
		zap.String("model", "gpt-4o-mini"),
	})
	require.Len(t, fields, 1)
	assert.Equal(t, "model", fields[0].Key)
}
