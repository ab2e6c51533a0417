package api

import (
	"fmt"
	"time"

	"seo-content-generator/internal/api/handlers"
	automationHandler "seo-content-generator/internal/api/handlers/automation"
	contentHandler "seo-content-generator/internal/api/handlers/content"
	"seo-content-generator/internal/api/handlers/health"
	keywordHandler "seo-content-generator/internal/api/handlers/keyword"
	recipeHandler "seo-content-generator/internal/api/handlers/recipe"
	"seo-content-generator/internal/api/middleware"
	"seo-content-generator/internal/core/automation"
	"seo-content-generator/internal/core/content"
	"seo-content-generator/internal/core/keyword"
	"seo-content-generator/internal/core/publish"
	"seo-content-generator/internal/infrastructure/config"
	"seo-content-generator/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies 路由所需的服務
type Dependencies struct {
	Generator   contentHandler.ArticleGenerator
	Publisher   publish.Publisher
	Keywords    keyword.Store
	Jobs        *automation.Store
	Queue       *automation.Queue
	ReadyChecks map[string]health.Check
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if deps.Generator == nil || deps.Keywords == nil || deps.Jobs == nil || deps.Queue == nil {
		return nil, fmt.Errorf("router dependencies are incomplete")
	}

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "X-User-ID", "X-User-Role"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))

	// 健康檢查與指標
	healthHandler := health.NewHandler(cfg, deps.Queue, deps.Jobs, deps.ReadyChecks)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	defaults := content.SettingsFromConfig(cfg.Prompt)
	articles := contentHandler.NewHandler(deps.Generator, deps.Publisher, defaults)
	keywords := keywordHandler.NewHandler(deps.Keywords)
	jobs := automationHandler.NewHandler(deps.Jobs, deps.Queue, defaults, deps.Publisher != nil)

	// API 路由組
	api := router.Group("/api/v1")
	api.Use(middleware.RateLimit(cfg.RateLimit))
	if cfg.DedupWindow > 0 {
		api.Use(middleware.Deduplication(middleware.NewDeduplicator(cfg.DedupWindow)))
	}
	api.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	{
		articleGroup := api.Group("/articles")
		{
			articleGroup.POST("/generate", articles.HandleGenerate)
			articleGroup.POST("/publish", articles.HandlePublish)
		}

		api.POST("/recipes/extract", recipeHandler.HandleExtract)
		api.POST("/format", articles.HandleFormat)

		keywordGroup := api.Group("/keywords", handlers.ViewerFromHeaders())
		{
			keywordGroup.GET("", keywords.HandleList)
			keywordGroup.POST("", keywords.HandleAdd)
			keywordGroup.DELETE("/:id", keywords.HandleDelete)
		}

		jobGroup := api.Group("/automation/jobs", handlers.ViewerFromHeaders())
		{
			jobGroup.POST("", jobs.HandleCreate)
			jobGroup.GET("/:id", jobs.HandleGet)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("wordpress_configured", deps.Publisher != nil),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}
