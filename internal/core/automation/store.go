package automation

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"seo-content-generator/internal/infrastructure/config"
	"seo-content-generator/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrStoreFull 任務數量達上限
var ErrStoreFull = common.NewError("JOB_STORE_FULL", "執行中的任務過多", http.StatusServiceUnavailable, nil)

// Snapshotter 任務快照的外部持久化
type Snapshotter interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context, id string) (*Snapshot, error)
	Close() error
}

// Store 任務儲存，結束的任務在 TTL 後淘汰
type Store struct {
	config      config.JobConfig
	snapshotter Snapshotter
	mu          sync.RWMutex
	jobs        map[string]*Job
	evictions   int64
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewStore 創建任務儲存並啟動清理協程
func NewStore(cfg config.JobConfig, snapshotter Snapshotter) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 10 * time.Minute
	}
	if cfg.MaxJobs <= 0 {
		cfg.MaxJobs = 500
	}

	s := &Store{
		config:      cfg,
		snapshotter: snapshotter,
		jobs:        make(map[string]*Job),
		stop:        make(chan struct{}),
	}

	go s.startCleanup()

	common.LogInfo("Job store initialized",
		zap.Int("max_jobs", cfg.MaxJobs),
		zap.Duration("ttl", cfg.TTL),
		zap.Duration("cleanup_interval", cfg.CleanupInterval),
		zap.Bool("snapshots", snapshotter != nil),
	)
	return s
}

// Create 建立新任務
func (s *Store) Create(viewer common.Viewer, opts Options) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.jobs) >= s.config.MaxJobs {
		if evicted := s.cleanup(time.Now()); evicted > 0 {
			common.LogInfo("Job store cleanup on create", zap.Int("evicted", evicted))
		}
		if len(s.jobs) >= s.config.MaxJobs {
			common.LogWarn("Job store full", zap.Int("size", len(s.jobs)))
			return nil, ErrStoreFull
		}
	}

	job := newJob(viewer, opts)
	s.jobs[job.id] = job
	return job, nil
}

// Get 取得任務快照，記憶體沒有時改查外部快照
func (s *Store) Get(ctx context.Context, id string) (*Snapshot, error) {
	s.mu.RLock()
	job, ok := s.jobs[id]
	s.mu.RUnlock()
	if ok {
		snap := job.Snapshot()
		return &snap, nil
	}

	if s.snapshotter == nil {
		return nil, common.ErrNotFound
	}
	snap, err := s.snapshotter.Load(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return snap, nil
}

// Save 將任務快照寫入外部儲存，失敗只記錄
func (s *Store) Save(ctx context.Context, job *Job) {
	if s.snapshotter == nil {
		return
	}
	if err := s.snapshotter.Save(ctx, job.Snapshot()); err != nil {
		common.LogWarn("Failed to save job snapshot",
			zap.String("job_id", job.id),
			zap.Error(err),
		)
	}
}

// Len 目前保存的任務數
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

func (s *Store) startCleanup() {
	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			s.mu.Lock()
			s.cleanup(now)
			s.mu.Unlock()
		case <-s.stop:
			return
		}
	}
}

// cleanup 需持有寫鎖
func (s *Store) cleanup(now time.Time) int {
	count := 0
	for id, job := range s.jobs {
		if job.expired(now, s.config.TTL) {
			delete(s.jobs, id)
			count++
			s.evictions++
		}
	}

	if count > 0 {
		common.LogInfo("Cleaned up finished jobs",
			zap.Int("count", count),
			zap.Int64("total_evictions", s.evictions),
			zap.Int("remaining_size", len(s.jobs)),
		)
	}
	return count
}

// Close 停止清理並關閉外部快照
func (s *Store) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })

	s.mu.Lock()
	s.jobs = make(map[string]*Job)
	s.mu.Unlock()

	common.LogInfo("Job store closed", zap.Int64("evictions", s.evictions))
	if s.snapshotter != nil {
		return s.snapshotter.Close()
	}
	return nil
}

// Remove 移除尚未執行的任務
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
}
