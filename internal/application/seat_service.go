package application

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mizti/movie-reserve-mcp/internal/domain/seatmap"
	redisinfra "github.com/mizti/movie-reserve-mcp/internal/infrastructure/redis"
	"github.com/mizti/movie-reserve-mcp/internal/pkg/logger"
)

// SeatService は座席マップの読み取り専用の照会を提供する
type SeatService struct {
	store seatmap.Store
	cache *redisinfra.AvailabilityCache // nil可
}

// NewSeatService は新しいSeatServiceを作成する
func NewSeatService(store seatmap.Store, cache *redisinfra.AvailabilityCache) *SeatService {
	return &SeatService{store: store, cache: cache}
}

// GetSeatAvailability は上映の座席状況ビューを返す
// 1回のスナップショット取得に対する純粋な射影であり、行ごとに
// ソート済みの空席・予約済み番号と集計を含む
func (s *SeatService) GetSeatAvailability(ctx context.Context, screeningID string) (*seatmap.View, error) {
	m, err := s.store.Get(ctx, screeningID)
	if err != nil {
		return nil, err
	}
	view := seatmap.NewView(m)

	if s.cache != nil {
		if err := s.cache.SetAvailableCount(ctx, screeningID, view.AvailableCount); err != nil {
			logger.Warn("空席数キャッシュの保存に失敗",
				zap.String("screening_id", screeningID), zap.Error(err))
		}
	}
	return view, nil
}

// CountAvailableSeats は上映の空席数を返す（キャッシュ優先）
func (s *SeatService) CountAvailableSeats(ctx context.Context, screeningID string) (int, error) {
	if s.cache != nil {
		if count, err := s.cache.GetAvailableCount(ctx, screeningID); err == nil {
			return count, nil
		} else if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("空席数キャッシュの取得に失敗",
				zap.String("screening_id", screeningID), zap.Error(err))
		}
	}

	view, err := s.GetSeatAvailability(ctx, screeningID)
	if err != nil {
		return 0, err
	}
	return view.AvailableCount, nil
}
