package handlers

import (
	"strings"

	"seo-content-generator/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

const viewerKey = "viewer"

// ViewerFromHeaders 從 X-User-ID 與 X-User-Role 取得呼叫者身分
func ViewerFromHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader("X-User-ID"))
		if userID == "" {
			RespondError(c, common.NewValidationError("X-User-ID header is required"))
			return
		}

		role := common.Role(strings.ToLower(strings.TrimSpace(c.GetHeader("X-User-Role"))))
		switch role {
		case "":
			role = common.RoleEmployee
		case common.RoleAdmin, common.RoleEmployee:
		default:
			RespondError(c, common.NewValidationError("X-User-Role must be admin or employee"))
			return
		}

		c.Set(viewerKey, common.Viewer{UserID: userID, Role: role})
		c.Next()
	}
}

// ViewerOf 取得已驗證的呼叫者
func ViewerOf(c *gin.Context) common.Viewer {
	if v, ok := c.Get(viewerKey); ok {
		if viewer, ok := v.(common.Viewer); ok {
			return viewer
		}
	}
	return common.Viewer{}
}
