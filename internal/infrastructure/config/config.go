package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig        `mapstructure:"app"`
	Server      ServerConfig     `mapstructure:"server"`
	OpenAI      OpenAIConfig     `mapstructure:"openai"`
	Generation  GenerationConfig `mapstructure:"generation"`
	Prompt      PromptConfig     `mapstructure:"prompt"`
	WordPress   WordPressConfig  `mapstructure:"wordpress"`
	Job         JobConfig        `mapstructure:"job"`
	Redis       RedisConfig      `mapstructure:"redis"`
	Queue       QueueConfig      `mapstructure:"queue"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	DedupWindow time.Duration    `mapstructure:"dedup_window"`
	LogLevel    string           `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// OpenAIConfig Chat Completion 服務配置
type OpenAIConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MinInterval time.Duration `mapstructure:"min_interval"`
}

// GenerationConfig 文章生成配置
type GenerationConfig struct {
	DefaultMinWords int  `mapstructure:"default_min_words"`
	PartMaxTokens   int  `mapstructure:"part_max_tokens"`
	TitleMaxTokens  int  `mapstructure:"title_max_tokens"`
	ParallelParts   bool `mapstructure:"parallel_parts"`
}

// PromptConfig 提示詞預設值，請求可逐欄覆寫
type PromptConfig struct {
	UseMultiPartGeneration bool   `mapstructure:"use_multi_part_generation"`
	MainPrompt             string `mapstructure:"main_prompt"`
	Part1Prompt            string `mapstructure:"part1_prompt"`
	Part2Prompt            string `mapstructure:"part2_prompt"`
	Part3Prompt            string `mapstructure:"part3_prompt"`
	ToneVoice              string `mapstructure:"tone_voice"`
	SEOGuidelines          string `mapstructure:"seo_guidelines"`
	ThingsToAvoid          string `mapstructure:"things_to_avoid"`
	ArticleFormat          string `mapstructure:"article_format"`
	UseArticleFormat       bool   `mapstructure:"use_article_format"`
	EnableRecipeDetection  bool   `mapstructure:"enable_recipe_detection"`
	RecipeFormatPrompt     string `mapstructure:"recipe_format_prompt"`
}

// WordPressConfig 發佈目標配置
type WordPressConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Username      string        `mapstructure:"username"`
	AppPassword   string        `mapstructure:"app_password"`
	DefaultStatus string        `mapstructure:"default_status"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// Enabled 是否已設定發佈目標
func (w WordPressConfig) Enabled() bool {
	return w.BaseURL != ""
}

// JobConfig 自動化任務配置
type JobConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	MaxJobs         int           `mapstructure:"max_jobs"`
}

// RedisConfig 任務快照配置
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// QueueConfig 任務隊列設定
type QueueConfig struct {
	Workers int `mapstructure:"workers"`
	MaxSize int `mapstructure:"max_size"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 可有可無
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"openai.api_key":            "OPENAI_API_KEY",
		"openai.base_url":           "OPENAI_BASE_URL",
		"openai.model":              "OPENAI_MODEL",
		"openai.max_tokens":         "MODEL_MAX_TOKENS",
		"wordpress.base_url":        "WORDPRESS_URL",
		"wordpress.username":        "WORDPRESS_USERNAME",
		"wordpress.app_password":    "WORDPRESS_APP_PASSWORD",
		"wordpress.default_status":  "WORDPRESS_DEFAULT_STATUS",
		"redis.enabled":             "REDIS_ENABLED",
		"redis.addr":                "REDIS_ADDR",
		"redis.password":            "REDIS_PASSWORD",
		"rate_limit.enabled":        "RATE_LIMIT_ENABLED",
		"rate_limit.requests":       "RATE_LIMIT_REQUESTS",
		"rate_limit.window":         "RATE_LIMIT_WINDOW",
		"generation.parallel_parts": "PARALLEL_PARTS",
		"dedup_window":              "DEDUP_WINDOW",
		"log_level":                 "LOG_LEVEL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// logger 尚未初始化，改用 fmt.Println
	fmt.Println("Loading configuration", "openai_model:", v.GetString("openai.model"), "openai_key:", maskAPIKey(v.GetString("openai.api_key")))

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// maskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "seo-content-generator")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "180s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "170s")
	v.SetDefault("server.max_body_bytes", 2<<20)

	// Chat Completion 設定
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 4000)
	v.SetDefault("openai.temperature", 0.7)
	v.SetDefault("openai.timeout", "120s")
	v.SetDefault("openai.min_interval", "0s")

	// 生成設定
	v.SetDefault("generation.default_min_words", 1000)
	v.SetDefault("generation.part_max_tokens", 2000)
	v.SetDefault("generation.title_max_tokens", 100)
	v.SetDefault("generation.parallel_parts", false)

	// 提示詞預設
	v.SetDefault("prompt.use_multi_part_generation", false)
	v.SetDefault("prompt.use_article_format", false)
	v.SetDefault("prompt.enable_recipe_detection", false)

	// WordPress 設定
	v.SetDefault("wordpress.default_status", "draft")
	v.SetDefault("wordpress.timeout", "30s")

	// 任務設定
	v.SetDefault("job.ttl", "24h")
	v.SetDefault("job.cleanup_interval", "10m")
	v.SetDefault("job.max_jobs", 500)

	// Redis 設定
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "72h")

	// 隊列設定
	v.SetDefault("queue.workers", 2)
	v.SetDefault("queue.max_size", 100)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 60)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.OpenAI.APIKey == "" {
		return fmt.Errorf("openai api key is required")
	}
	if config.OpenAI.MaxTokens <= 0 {
		return fmt.Errorf("invalid openai max tokens")
	}

	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	if config.Generation.PartMaxTokens <= 0 {
		return fmt.Errorf("invalid generation part max tokens")
	}
	if config.Generation.DefaultMinWords <= 0 {
		return fmt.Errorf("invalid generation default min words")
	}

	switch config.WordPress.DefaultStatus {
	case "draft", "publish":
	default:
		return fmt.Errorf("invalid wordpress default status %q", config.WordPress.DefaultStatus)
	}

	if config.Job.TTL <= 0 || config.Job.CleanupInterval <= 0 {
		return fmt.Errorf("invalid job ttl or cleanup interval")
	}
	if config.Job.MaxJobs <= 0 {
		return fmt.Errorf("invalid job max jobs")
	}

	if config.Queue.Workers <= 0 {
		return fmt.Errorf("invalid queue workers")
	}
	if config.Queue.MaxSize <= 0 {
		return fmt.Errorf("invalid queue max size")
	}

	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit")
	}

	return nil
}
