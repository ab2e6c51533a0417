package keyword

import (
	"net/http"
	"strings"

	"seo-content-generator/internal/api/handlers"
	keywordService "seo-content-generator/internal/core/keyword"
	"seo-content-generator/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AddRequest 新增關鍵字，ownerId 只有管理員可指定
type AddRequest struct {
	Keyword string `json:"keyword" binding:"required"`
	OwnerID string `json:"ownerId"`
}

// Handler 關鍵字處理程序
type Handler struct {
	store keywordService.Store
}

// NewHandler 創建關鍵字處理程序
func NewHandler(store keywordService.Store) *Handler {
	return &Handler{store: store}
}

// HandleList 列出可見的關鍵字，?status=pending 只列出待發佈
func (h *Handler) HandleList(c *gin.Context) {
	viewer := handlers.ViewerOf(c)

	var rows []keywordService.Row
	switch strings.ToLower(c.Query("status")) {
	case "":
		rows = h.store.List(viewer)
	case "pending":
		rows = h.store.Pending(viewer)
	default:
		handlers.RespondError(c, common.NewValidationError("status must be pending or empty"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"keywords": rows,
		"count":    len(rows),
	})
}

// HandleAdd 新增關鍵字
func (h *Handler) HandleAdd(c *gin.Context) {
	var req AddRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	viewer := handlers.ViewerOf(c)
	row, err := h.store.Add(viewer, req.Keyword, strings.TrimSpace(req.OwnerID))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	common.LogInfo("Keyword added",
		zap.String("keyword", row.Keyword),
		zap.String("owner_id", row.OwnerID),
		zap.String("created_by", row.CreatedBy),
	)
	c.JSON(http.StatusCreated, row)
}

// HandleDelete 刪除關鍵字
func (h *Handler) HandleDelete(c *gin.Context) {
	if err := h.store.Delete(handlers.ViewerOf(c), c.Param("id")); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
