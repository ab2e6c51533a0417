package automation

import (
	"context"
	"sync"
	"sync/atomic"

	"seo-content-generator/internal/infrastructure/config"
	"seo-content-generator/internal/pkg/common"
	"seo-content-generator/internal/pkg/metrics"

	"go.uber.org/zap"
)

// JobRunner 執行一個任務
type JobRunner interface {
	Run(ctx context.Context, job *Job) error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
}

// Queue 有界任務隊列，每個 worker 一次執行一個任務
type Queue struct {
	config    config.QueueConfig
	runner    JobRunner
	queue     chan *Job
	done      chan struct{}
	processed int64
	wg        sync.WaitGroup
	startOnce sync.Once
	closeOnce sync.Once
	cancel    context.CancelFunc
}

// NewQueue 創建任務隊列
func NewQueue(cfg config.QueueConfig, runner JobRunner) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 100
	}
	return &Queue{
		config: cfg,
		runner: runner,
		queue:  make(chan *Job, cfg.MaxSize),
		done:   make(chan struct{}),
	}
}

// Start 啟動 worker
func (q *Queue) Start(ctx context.Context) {
	q.startOnce.Do(func() {
		ctx, q.cancel = context.WithCancel(ctx)
		for i := 0; i < q.config.Workers; i++ {
			q.wg.Add(1)
			go q.worker(ctx, i)
		}
		common.LogInfo("Job queue started",
			zap.Int("workers", q.config.Workers),
			zap.Int("max_queue_size", q.config.MaxSize),
		)
	})
}

// Enqueue 將任務加入隊列，隊列滿時立即失敗
func (q *Queue) Enqueue(job *Job) error {
	select {
	case <-q.done:
		return common.ErrQueueClosed
	default:
	}

	select {
	case q.queue <- job:
		metrics.JobQueueLength.Set(float64(len(q.queue)))
		common.LogInfo("Job enqueued",
			zap.String("job_id", job.ID()),
			zap.Int("queue_length", len(q.queue)),
			zap.Int("max_queue_size", q.config.MaxSize),
		)
		return nil
	default:
		return common.ErrQueueFull
	}
}

func (q *Queue) worker(ctx context.Context, id int) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-q.done:
			return
		case job := <-q.queue:
			metrics.JobQueueLength.Set(float64(len(q.queue)))
			if err := q.runner.Run(ctx, job); err != nil {
				common.LogWarn("Job finished with error",
					zap.Int("worker", id),
					zap.String("job_id", job.ID()),
					zap.Error(err),
				)
			}
			atomic.AddInt64(&q.processed, 1)
		}
	}
}

// Status 取得隊列狀態
func (q *Queue) Status() *Status {
	return &Status{
		QueueLength:    len(q.queue),
		ProcessedCount: atomic.LoadInt64(&q.processed),
		MaxQueueSize:   q.config.MaxSize,
		Workers:        q.config.Workers,
	}
}

// Close 停止接收任務，取消執行中的任務並等待 worker 結束
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.done)
		if q.cancel != nil {
			q.cancel()
		}
	})
	q.wg.Wait()
	common.LogInfo("Job queue stopped", zap.Int64("processed", atomic.LoadInt64(&q.processed)))
}
