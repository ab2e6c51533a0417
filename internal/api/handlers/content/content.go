package content

import (
	"context"
	"net/http"
	"strings"

	"seo-content-generator/internal/api/handlers"
	contentService "seo-content-generator/internal/core/content"
	"seo-content-generator/internal/core/publish"
	"seo-content-generator/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ArticleGenerator 文章生成
type ArticleGenerator interface {
	Generate(ctx context.Context, keyword string, minWords int, settings contentService.PromptSettings) (*contentService.Article, error)
}

// GenerateRequest 文章生成請求
type GenerateRequest struct {
	Keyword  string                          `json:"keyword" binding:"required"`
	MinWords int                             `json:"minWords"`
	Settings *handlers.PromptSettingsRequest `json:"settings"`
}

// PublishRequest 發佈請求
type PublishRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
	Status  string `json:"status"`
}

// FormatRequest 區塊格式轉換請求，content 可為任意 JSON 值
type FormatRequest struct {
	Content any `json:"content"`
}

// Handler 文章相關處理程序
type Handler struct {
	generator ArticleGenerator
	publisher publish.Publisher
	defaults  contentService.PromptSettings
}

// NewHandler 創建文章處理程序，publisher 可為 nil
func NewHandler(generator ArticleGenerator, publisher publish.Publisher, defaults contentService.PromptSettings) *Handler {
	return &Handler{
		generator: generator,
		publisher: publisher,
		defaults:  defaults,
	}
}

// HandleGenerate 生成文章
func (h *Handler) HandleGenerate(c *gin.Context) {
	var req GenerateRequest
	if !handlers.BindJSON(c, &req) {
		return
	}
	if req.MinWords < 0 {
		handlers.RespondError(c, common.NewValidationError("minWords must not be negative"))
		return
	}

	settings := req.Settings.Apply(h.defaults)
	article, err := h.generator.Generate(c.Request.Context(), req.Keyword, req.MinWords, settings)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, article)
}

// HandlePublish 轉換為區塊格式後發佈到 WordPress
func (h *Handler) HandlePublish(c *gin.Context) {
	if h.publisher == nil {
		handlers.RespondError(c, common.ErrPublisherMissing)
		return
	}

	var req PublishRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	result, err := publish.PublishArticle(c.Request.Context(), h.publisher, strings.TrimSpace(req.Title), req.Content, req.Status)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	common.LogInfo("Article published via API",
		zap.Int("post_id", result.ID),
		zap.String("link", result.Link),
	)
	c.JSON(http.StatusCreated, result)
}

// HandleFormat 回傳區塊格式的內容
func (h *Handler) HandleFormat(c *gin.Context) {
	var req FormatRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"content": publish.ToBlocks(req.Content),
	})
}
