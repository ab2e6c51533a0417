// Package metrics 提供 Prometheus 指標採集功能
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "seo_content"
)

var (
	// HTTP 請求指標
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 15, 30, 60, 120},
		},
		[]string{"method", "path"},
	)

	// 業務指標 - 文章生成
	ArticleGenerationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "article",
			Name:      "generation_total",
			Help:      "Total number of article generations",
		},
		[]string{"mode", "status"},
	)

	ArticleGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "article",
			Name:      "generation_duration_seconds",
			Help:      "Article generation duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"mode"},
	)

	ArticleWordCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "article",
			Name:      "word_count",
			Help:      "Word count of generated articles",
			Buckets:   []float64{100, 300, 500, 1000, 1500, 2000, 3000},
		},
	)

	// LLM 呼叫
	LLMCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "Total number of chat completion calls",
		},
		[]string{"stage", "status"},
	)

	LLMTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Total tokens reported by the chat completion API",
		},
		[]string{"kind"},
	)

	// 食譜擷取
	RecipeExtractionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recipe",
			Name:      "extraction_total",
			Help:      "Recipe extraction outcomes",
		},
		[]string{"result"},
	)

	// 發佈
	PublishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "publish",
			Name:      "posts_total",
			Help:      "WordPress publish attempts",
		},
		[]string{"status"},
	)

	// 自動化任務
	JobKeywordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "job",
			Name:      "keywords_total",
			Help:      "Keywords processed by automation jobs",
		},
		[]string{"result"},
	)

	JobQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "job",
			Name:      "queue_length",
			Help:      "Jobs waiting in the automation queue",
		},
	)
)
