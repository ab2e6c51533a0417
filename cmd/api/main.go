package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seo-content-generator/internal/api"
	"seo-content-generator/internal/api/handlers/health"
	"seo-content-generator/internal/core/ai/openai"
	"seo-content-generator/internal/core/ai/service"
	"seo-content-generator/internal/core/automation"
	"seo-content-generator/internal/core/content"
	"seo-content-generator/internal/core/keyword"
	"seo-content-generator/internal/core/publish"
	"seo-content-generator/internal/infrastructure/config"
	"seo-content-generator/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("openai_model", cfg.OpenAI.Model),
		zap.String("openai_base_url", cfg.OpenAI.BaseURL),
		zap.Bool("wordpress_configured", cfg.WordPress.Enabled()),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
	)

	// 初始化 AI 服務
	aiService, err := service.NewService(cfg.OpenAI, openai.NewClient(cfg.OpenAI))
	if err != nil {
		common.LogFatal("Failed to initialize AI service", zap.Error(err))
	}
	defer aiService.Close()

	generator := content.NewGenerator(aiService, cfg.OpenAI, cfg.Generation)
	keywords := keyword.NewMemoryStore()

	// 未設定 WordPress 時仍可生成與轉換
	var publisher publish.Publisher
	if cfg.WordPress.Enabled() {
		publisher = publish.NewWordPressClient(cfg.WordPress)
	}

	// 任務快照
	checks := make(map[string]health.Check)
	var snapshotter automation.Snapshotter
	if cfg.Redis.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisSnapshotter, err := automation.NewRedisSnapshotter(ctx, cfg.Redis)
		cancel()
		if err != nil {
			common.LogFatal("Failed to connect job snapshot store", zap.Error(err))
		}
		snapshotter = redisSnapshotter
		checks["redis"] = redisSnapshotter.Ping
	}

	jobs := automation.NewStore(cfg.Job, snapshotter)
	runner := automation.NewRunner(generator, keywords, publisher, jobs)
	queue := automation.NewQueue(cfg.Queue, runner)

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()
	queue.Start(rootCtx)

	// 設置路由
	router, err := api.SetupRouter(cfg, api.Dependencies{
		Generator:   generator,
		Publisher:   publisher,
		Keywords:    keywords,
		Jobs:        jobs,
		Queue:       queue,
		ReadyChecks: checks,
	})
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
	}

	// 停止任務隊列，執行中的任務會被取消
	queue.Close()
	if err := jobs.Close(); err != nil {
		common.LogWarn("Failed to close job store", zap.Error(err))
	}

	common.LogInfo("Server exited")
}
