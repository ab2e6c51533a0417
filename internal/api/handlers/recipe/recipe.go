package recipe

import (
	"net/http"
	"strings"

	"seo-content-generator/internal/api/handlers"
	recipeService "seo-content-generator/internal/core/recipe"
	"seo-content-generator/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExtractRequest 從文章 HTML 萃取食譜
type ExtractRequest struct {
	Content string `json:"content" binding:"required"`
	Keyword string `json:"keyword"`
}

// ExtractResponse 萃取結果，非食譜時 recipeData 為 null
type ExtractResponse struct {
	IsRecipe   bool                `json:"isRecipe"`
	RecipeData *recipeService.Data `json:"recipeData"`
}

// HandleExtract 萃取食譜資料
func HandleExtract(c *gin.Context) {
	var req ExtractRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	data := recipeService.Extract(req.Content, strings.TrimSpace(req.Keyword))
	common.LogInfo("Recipe extraction request",
		zap.String("keyword", req.Keyword),
		zap.Bool("is_recipe", data != nil),
	)

	c.JSON(http.StatusOK, ExtractResponse{
		IsRecipe:   data != nil,
		RecipeData: data,
	})
}
