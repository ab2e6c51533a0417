package automation

import (
	"net/http"

	"seo-content-generator/internal/api/handlers"
	automationService "seo-content-generator/internal/core/automation"
	"seo-content-generator/internal/core/content"
	"seo-content-generator/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateJobRequest 建立自動化任務
type CreateJobRequest struct {
	MinWords int                             `json:"minWords"`
	Status   string                          `json:"status"`
	Settings *handlers.PromptSettingsRequest `json:"settings"`
}

// Handler 自動化任務處理程序
type Handler struct {
	store            *automationService.Store
	queue            *automationService.Queue
	defaults         content.PromptSettings
	publisherEnabled bool
}

// NewHandler 創建自動化任務處理程序
func NewHandler(store *automationService.Store, queue *automationService.Queue, defaults content.PromptSettings, publisherEnabled bool) *Handler {
	return &Handler{
		store:            store,
		queue:            queue,
		defaults:         defaults,
		publisherEnabled: publisherEnabled,
	}
}

// HandleCreate 建立任務並排入隊列
func (h *Handler) HandleCreate(c *gin.Context) {
	if !h.publisherEnabled {
		handlers.RespondError(c, common.ErrPublisherMissing)
		return
	}

	var req CreateJobRequest
	if c.Request.ContentLength != 0 && !handlers.BindJSON(c, &req) {
		return
	}
	if req.MinWords < 0 {
		handlers.RespondError(c, common.NewValidationError("minWords must not be negative"))
		return
	}
	switch req.Status {
	case "", "draft", "publish":
	default:
		handlers.RespondError(c, common.NewValidationError("status must be draft or publish"))
		return
	}

	viewer := handlers.ViewerOf(c)
	job, err := h.store.Create(viewer, automationService.Options{
		Settings:   req.Settings.Apply(h.defaults),
		MinWords:   req.MinWords,
		PostStatus: req.Status,
	})
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	if err := h.queue.Enqueue(job); err != nil {
		h.store.Remove(job.ID())
		handlers.RespondError(c, err)
		return
	}

	common.LogInfo("Automation job accepted",
		zap.String("job_id", job.ID()),
		zap.String("user_id", viewer.UserID),
	)
	c.JSON(http.StatusAccepted, job.Snapshot())
}

// HandleGet 取得任務快照
func (h *Handler) HandleGet(c *gin.Context) {
	snap, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	if !handlers.ViewerOf(c).CanAccess(snap.Viewer.UserID) {
		handlers.RespondError(c, common.ErrForbidden)
		return
	}
	c.JSON(http.StatusOK, snap)
}
