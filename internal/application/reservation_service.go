package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mizti/movie-reserve-mcp/internal/domain/catalog"
	"github.com/mizti/movie-reserve-mcp/internal/domain/reservation"
	"github.com/mizti/movie-reserve-mcp/internal/domain/seatmap"
	redisinfra "github.com/mizti/movie-reserve-mcp/internal/infrastructure/redis"
	"github.com/mizti/movie-reserve-mcp/internal/pkg/logger"
	"github.com/mizti/movie-reserve-mcp/internal/pkg/metrics"
)

// CompensationTask は部分コミット（座席は予約済み・予約ログ未追記）の
// 回復に必要な情報
// Reservation はID採番前に失敗した場合 nil となる
type CompensationTask struct {
	ScreeningID string
	SeatIDs     []seatmap.SeatID
	Reservation *reservation.Reservation
}

// Compensator は補償タスクを受け取るインターフェース
type Compensator interface {
	Enqueue(task CompensationTask)
}

// ReservationService は予約エンジン
// 座席マップの条件付きコミットと予約ログへの永続追記を1つの論理単位として
// 扱い、二重予約の不在を保証する
type ReservationService struct {
	seatMapStore seatmap.Store
	log          reservation.Log
	catalogRepo  catalog.Repository
	lockManager  *redisinfra.LockManager
	cache        *redisinfra.AvailabilityCache
	compensator  Compensator
	metrics      *metrics.Metrics
	maxAttempts  int
	lockTTL      time.Duration
}

// ReservationServiceOption はReservationServiceの任意依存を設定する
type ReservationServiceOption func(*ReservationService)

// WithLockManager は上映単位の分散ロックを有効にする
// ロックは同一上映への同時コミットの競合を減らすだけで、
// 正しさはバージョン検査のみに依存する
func WithLockManager(lm *redisinfra.LockManager, ttl time.Duration) ReservationServiceOption {
	return func(s *ReservationService) {
		s.lockManager = lm
		s.lockTTL = ttl
	}
}

// WithAvailabilityCache は空席数キャッシュを有効にする
func WithAvailabilityCache(c *redisinfra.AvailabilityCache) ReservationServiceOption {
	return func(s *ReservationService) { s.cache = c }
}

// WithCompensator は補償タスクの送り先を設定する
// 未設定の場合、エンジンは補償解放を同期的に実行する
func WithCompensator(c Compensator) ReservationServiceOption {
	return func(s *ReservationService) { s.compensator = c }
}

// WithMetrics は予約メトリクスの記録を有効にする
func WithMetrics(m *metrics.Metrics) ReservationServiceOption {
	return func(s *ReservationService) { s.metrics = m }
}

// WithMaxCommitAttempts は楽観的コミットの最大試行回数を設定する
func WithMaxCommitAttempts(n int) ReservationServiceOption {
	return func(s *ReservationService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// NewReservationService は予約エンジンを作成する
func NewReservationService(store seatmap.Store, log reservation.Log, cr catalog.Repository, opts ...ReservationServiceOption) *ReservationService {
	s := &ReservationService{
		seatMapStore: store,
		log:          log,
		catalogRepo:  cr,
		maxAttempts:  5,
		lockTTL:      10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reserve は指定上映の座席集合を予約し、確定済み予約を返す
//
// 手順:
//  1. 形式検証（文法・空・重複）。違反時はI/Oを行わない
//  2. カタログでの上映・作品の存在確認（読み取りのみ）
//  3. 楽観的コミットループ: 取得 → 未知座席検査 → バージョン条件付きコミット
//  4. 予約IDの生成とレコードの組み立て
//  5. 予約ログへの永続追記。失敗時は補償経路へ
func (s *ReservationService) Reserve(ctx context.Context, screeningID string, rawSeatIDs []string) (*reservation.Reservation, error) {
	seatIDs, err := seatmap.ParseSeatIDs(rawSeatIDs)
	if err != nil {
		s.countReservation("validation_error")
		return nil, err
	}

	scr, err := s.catalogRepo.GetScreening(ctx, screeningID)
	if err != nil {
		s.countReservation("not_found")
		return nil, err
	}
	if _, err := s.catalogRepo.GetMovie(ctx, scr.MovieID); err != nil {
		s.countReservation("not_found")
		return nil, err
	}

	if s.lockManager != nil {
		lock, lockErr := s.lockManager.AcquireLockWithRetry(ctx, screeningID, s.lockTTL, 3, 100*time.Millisecond)
		if lockErr == nil {
			defer lock.Release(context.WithoutCancel(ctx))
		} else if !errors.Is(lockErr, redisinfra.ErrLockNotAcquired) {
			logger.Warn("分散ロック取得に失敗（バージョン検査のみで続行）",
				zap.String("screening_id", screeningID), zap.Error(lockErr))
		}
	}

	committed, attempts, err := s.commitSeats(ctx, screeningID, seatIDs)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.CommitAttempts.Observe(float64(attempts))
	}

	// 座席マップのコミット後はキャンセル不可: 追記と補償は呼び出し元の
	// コンテキストが打ち切られても完走させる
	ctx = context.WithoutCancel(ctx)

	res, err := s.buildReservation(ctx, screeningID, seatIDs)
	if err != nil {
		s.compensate(ctx, res, screeningID, seatIDs)
		s.countReservation("persistence_error")
		return nil, err
	}

	if err := s.log.Append(ctx, res); err != nil {
		logger.Error("予約ログへの追記に失敗。再試行します",
			zap.String("reservation_id", res.ReservationID), zap.Error(err))
		if err2 := s.log.Append(ctx, res); err2 != nil {
			s.compensate(ctx, res, screeningID, seatIDs)
			s.countReservation("persistence_error")
			return nil, fmt.Errorf("%w: %v", ErrReservationNotPersisted, err2)
		}
	}

	s.invalidateCache(ctx, screeningID)
	s.countReservation("confirmed")
	logger.Info("予約を確定",
		zap.String("reservation_id", res.ReservationID),
		zap.String("screening_id", screeningID),
		zap.Strings("seat_ids", res.SeatIDs),
		zap.Int("version", committed.Version),
	)
	return res, nil
}

// commitSeats は楽観的コミットループを実行する
// バージョン競合のみ再試行し、座席確保済み・未知座席・不在は即座に失敗する
func (s *ReservationService) commitSeats(ctx context.Context, screeningID string, seatIDs []seatmap.SeatID) (*seatmap.SeatMap, int, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		snapshot, err := s.seatMapStore.Get(ctx, screeningID)
		if err != nil {
			s.countReservation("not_found")
			return nil, attempt, err
		}
		for _, id := range seatIDs {
			if !snapshot.Contains(id) {
				s.countReservation("validation_error")
				return nil, attempt, fmt.Errorf("%w: %s", seatmap.ErrUnknownSeat, id)
			}
		}

		committed, err := s.seatMapStore.CommitMove(ctx, screeningID, seatIDs, snapshot.Version)
		if err == nil {
			return committed, attempt, nil
		}
		if errors.Is(err, seatmap.ErrVersionConflict) {
			// 競合する予約が先にコミットした。新しい状態で再検証する
			if s.metrics != nil {
				s.metrics.CommitConflictsTotal.Inc()
			}
			continue
		}
		if errors.Is(err, seatmap.ErrSeatUnavailable) {
			s.countReservation("seat_unavailable")
		} else {
			s.countReservation("persistence_error")
		}
		return nil, attempt, err
	}

	s.countReservation("persistence_error")
	return nil, s.maxAttempts, ErrCommitContention
}

// buildReservation は衝突しない予約IDを採番し、レコードを組み立てる
func (s *ReservationService) buildReservation(ctx context.Context, screeningID string, seatIDs []seatmap.SeatID) (*reservation.Reservation, error) {
	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		id := newReservationID(now)
		_, err := s.log.GetByID(ctx, id)
		if errors.Is(err, reservation.ErrReservationNotFound) {
			return reservation.NewReservation(id, screeningID, seatmap.SeatIDStrings(seatIDs), now), nil
		}
		if err != nil {
			return nil, fmt.Errorf("予約IDの重複確認に失敗: %w", err)
		}
	}
	return nil, ErrIDGenerationFailed
}

// newReservationID はタイムスタンプとランダムな接尾辞を組み合わせたIDを生成する
// タイムスタンプのみでは同一刻内の複数コミットで衝突するため、uuid由来の
// 接尾辞を付与する
func newReservationID(now time.Time) string {
	return fmt.Sprintf("RES-%s-%s", now.Format("20060102150405"), uuid.NewString()[:8])
}

// compensate は部分コミット状態（座席のみ確保済み）の回復を行う
// コンペンセータ設定時はタスクを引き渡し、未設定時は補償解放を同期実行する
func (s *ReservationService) compensate(ctx context.Context, res *reservation.Reservation, screeningID string, seatIDs []seatmap.SeatID) {
	if s.compensator != nil {
		s.compensator.Enqueue(CompensationTask{ScreeningID: screeningID, SeatIDs: seatIDs, Reservation: res})
		return
	}

	if _, err := s.seatMapStore.CommitRelease(ctx, screeningID, seatIDs); err != nil {
		// 解放も失敗した場合は座席が確保されたまま残る。運用で回復できるよう
		// 対象を明示して記録する
		logger.Error("補償解放に失敗。座席が確保されたままです",
			zap.String("screening_id", screeningID),
			zap.Strings("seat_ids", seatmap.SeatIDStrings(seatIDs)),
			zap.Error(err),
		)
		if s.metrics != nil {
			s.metrics.CompensationsTotal.WithLabelValues("failed").Inc()
		}
		return
	}
	s.invalidateCache(ctx, screeningID)
	if s.metrics != nil {
		s.metrics.CompensationsTotal.WithLabelValues("release").Inc()
	}
	logger.Warn("補償解放を実行",
		zap.String("screening_id", screeningID),
		zap.Strings("seat_ids", seatmap.SeatIDStrings(seatIDs)),
	)
}

func (s *ReservationService) invalidateCache(ctx context.Context, screeningID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, screeningID); err != nil {
		logger.Warn("空席数キャッシュの無効化に失敗",
			zap.String("screening_id", screeningID), zap.Error(err))
	}
}

func (s *ReservationService) countReservation(status string) {
	if s.metrics != nil {
		s.metrics.ReservationsTotal.WithLabelValues(status).Inc()
	}
}

// GetReservation は予約IDからレコードを取得する
func (s *ReservationService) GetReservation(ctx context.Context, id string) (*reservation.Reservation, error) {
	return s.log.GetByID(ctx, id)
}

// ListReservationsByScreening は上映IDに紐づく予約一覧を返す（監査用）
func (s *ReservationService) ListReservationsByScreening(ctx context.Context, screeningID string) ([]*reservation.Reservation, error) {
	return s.log.ListByScreening(ctx, screeningID)
}
