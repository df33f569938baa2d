package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// AvailabilityCache は上映ごとの空席数キャッシュを管理する
// 座席マップのコミット成功後に必ず無効化される
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAvailabilityCache は新しいAvailabilityCacheインスタンスを作成する
func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &AvailabilityCache{client: client, ttl: ttl}
}

// GetAvailableCount は上映の空席数をキャッシュから取得する
func (c *AvailabilityCache) GetAvailableCount(ctx context.Context, screeningID string) (int, error) {
	val, err := c.client.Get(ctx, c.key(screeningID)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetAvailableCount は上映の空席数をキャッシュに保存する
func (c *AvailabilityCache) SetAvailableCount(ctx context.Context, screeningID string, count int) error {
	if err := c.client.Set(ctx, c.key(screeningID), count, c.ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は上映のキャッシュを無効化する
func (c *AvailabilityCache) Invalidate(ctx context.Context, screeningID string) error {
	if err := c.client.Del(ctx, c.key(screeningID)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) key(screeningID string) string {
	return fmt.Sprintf("seats:available:%s", screeningID)
}
