package handlers

import (
	"context"
	"errors"
	"net/http"

	"seo-content-generator/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError 依錯誤類型回傳對應狀態碼與 {code, message}
func RespondError(c *gin.Context, err error) {
	status, body := errorBody(err)
	if status >= http.StatusInternalServerError {
		common.LogError("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", requestIDOf(c)),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

func errorBody(err error) (int, common.ErrorResponse) {
	var ce *common.CustomError
	switch {
	case common.IsValidationError(err):
		return http.StatusBadRequest, common.ErrorResponse{Code: common.ErrCodeInvalidRequest, Message: err.Error()}
	// 逾時可能包在生成錯誤內，需先判斷
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, common.ErrorResponse{Code: common.ErrCodeGatewayTimeout, Message: "request timed out"}
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout, common.ErrorResponse{Code: common.ErrCodeRequestTimeout, Message: "request cancelled"}
	case errors.As(err, &ce):
		return ce.Status, common.ErrorResponse{Code: ce.Code, Message: ce.Error()}
	default:
		return http.StatusInternalServerError, common.ErrorResponse{Code: common.ErrCodeInternalError, Message: err.Error()}
	}
}

// BindJSON 解析請求體，失敗時直接回應 400
func BindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		common.LogWarn("Invalid request body",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", requestIDOf(c)),
			zap.Error(err),
		)
		RespondError(c, common.NewValidationError("invalid request body: "+err.Error()))
		return false
	}
	return true
}

func requestIDOf(c *gin.Context) string {
	if id := requestid.Get(c); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}
