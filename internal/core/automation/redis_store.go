package automation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"seo-content-generator/internal/infrastructure/config"
	"seo-content-generator/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

const snapshotKeyPrefix = "seo:job:"

// RedisSnapshotter 以 Redis 保存任務快照
type RedisSnapshotter struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSnapshotter 連線 Redis 並測試連接
func NewRedisSnapshotter(ctx context.Context, cfg config.RedisConfig) (*RedisSnapshotter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &RedisSnapshotter{client: client, ttl: ttl}, nil
}

// Save 寫入快照
func (r *RedisSnapshotter) Save(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal job snapshot: %w", err)
	}
	if err := r.client.Set(ctx, snapshotKeyPrefix+snap.ID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save job snapshot: %w", err)
	}
	return nil
}

// Load 讀取快照
func (r *RedisSnapshotter) Load(ctx context.Context, id string) (*Snapshot, error) {
	data, err := r.client.Get(ctx, snapshotKeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load job snapshot: %w", err)
	}

	var snap Snapshot
	if err := common.ParseJSONBytes(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job snapshot: %w", err)
	}
	return &snap, nil
}

// Close 關閉連線
func (r *RedisSnapshotter) Close() error {
	return r.client.Close()
}

// Ping 檢查連線
func (r *RedisSnapshotter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
