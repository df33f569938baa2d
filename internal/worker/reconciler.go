package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mizti/movie-reserve-mcp/internal/application"
	"github.com/mizti/movie-reserve-mcp/internal/domain/reservation"
	"github.com/mizti/movie-reserve-mcp/internal/domain/seatmap"
	"github.com/mizti/movie-reserve-mcp/internal/pkg/logger"
	"github.com/mizti/movie-reserve-mcp/internal/pkg/metrics"
)

// CacheInvalidator は空席数キャッシュの無効化を行う
type CacheInvalidator interface {
	Invalidate(ctx context.Context, screeningID string) error
}

// Reconciler は部分コミット状態（座席は予約済み・予約ログ未追記）を回復する
// ワーカー。まず同じ予約IDでの冪等な再追記を試み、試行予算を使い切った
// 場合のみ座席を補償解放する
type Reconciler struct {
	store       seatmap.Store
	log         reservation.Log
	metrics     *metrics.Metrics
	cache       CacheInvalidator
	maxAttempts int
	retryDelay  time.Duration

	tasks  chan application.CompensationTask
	doneCh chan struct{}
}

// ReconcilerOption はReconcilerの挙動を調整する
type ReconcilerOption func(*Reconciler)

// WithCacheInvalidator は補償完了後に無効化するキャッシュを設定する
func WithCacheInvalidator(c CacheInvalidator) ReconcilerOption {
	return func(r *Reconciler) { r.cache = c }
}

// NewReconciler は新しいReconcilerを作成する
func NewReconciler(store seatmap.Store, log reservation.Log, m *metrics.Metrics, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		store:       store,
		log:         log,
		metrics:     m,
		maxAttempts: 3,
		retryDelay:  500 * time.Millisecond,
		tasks:       make(chan application.CompensationTask, 64),
		doneCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Enqueue は補償タスクを受け付ける
// キューが満杯の場合は受け付けを諦め、対象を明示して記録する
func (r *Reconciler) Enqueue(task application.CompensationTask) {
	select {
	case r.tasks <- task:
	default:
		logger.Error("補償キューが満杯。座席が確保されたままです",
			zap.String("screening_id", task.ScreeningID),
			zap.Strings("seat_ids", seatmap.SeatIDStrings(task.SeatIDs)),
		)
		if r.metrics != nil {
			r.metrics.CompensationsTotal.WithLabelValues("failed").Inc()
		}
	}
}

// Start は補償タスクの処理を開始する。ctxのキャンセルで停止する
func (r *Reconciler) Start(ctx context.Context) {
	logger.Info("補償ワーカー開始")
	defer close(r.doneCh)

	for {
		select {
		case <-ctx.Done():
			r.drain(ctx)
			logger.Info("補償ワーカー停止")
			return
		case task := <-r.tasks:
			r.reconcile(ctx, task)
		}
	}
}

// drain は停止時にキューへ残ったタスクを処理し切る
// 座席をコミットした以上、補償は完走させる必要があるため、
// キャンセル済みctxから切り離して実行する
func (r *Reconciler) drain(ctx context.Context) {
	base := context.WithoutCancel(ctx)
	for {
		select {
		case task := <-r.tasks:
			r.reconcile(base, task)
		default:
			return
		}
	}
}

// Wait はワーカーの終了を待つ
func (r *Reconciler) Wait() {
	<-r.doneCh
}

// reconcile は1件の補償タスクを処理する
// コミット後の座席状況が変わるため、どちらの結末でもキャッシュを無効化する
func (r *Reconciler) reconcile(ctx context.Context, task application.CompensationTask) {
	if task.Reservation != nil && r.tryReappend(ctx, task.Reservation) {
		r.invalidateCache(ctx, task.ScreeningID)
		return
	}
	r.release(ctx, task)
}

// tryReappend は同じ予約IDでの冪等な再追記を試みる
// 成功すれば予約は永続化され、座席の確保と矛盾しなくなる
func (r *Reconciler) tryReappend(ctx context.Context, res *reservation.Reservation) bool {
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if err := r.log.Append(ctx, res); err == nil {
			logger.Info("予約ログへの再追記に成功",
				zap.String("reservation_id", res.ReservationID),
				zap.Int("attempt", attempt),
			)
			if r.metrics != nil {
				r.metrics.CompensationsTotal.WithLabelValues("reappend").Inc()
			}
			return true
		} else {
			logger.Warn("予約ログへの再追記に失敗",
				zap.String("reservation_id", res.ReservationID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(r.retryDelay):
		}
	}
	return false
}

// release は座席を補償解放する（予約済み→空席）
func (r *Reconciler) release(ctx context.Context, task application.CompensationTask) {
	screeningID := task.ScreeningID
	if _, err := r.store.CommitRelease(ctx, screeningID, task.SeatIDs); err != nil {
		logger.Error("補償解放に失敗。座席が確保されたままです",
			zap.String("screening_id", screeningID),
			zap.Strings("seat_ids", seatmap.SeatIDStrings(task.SeatIDs)),
			zap.Error(err),
		)
		if r.metrics != nil {
			r.metrics.CompensationsTotal.WithLabelValues("failed").Inc()
		}
		return
	}
	logger.Warn("補償解放を実行",
		zap.String("screening_id", screeningID),
		zap.Strings("seat_ids", seatmap.SeatIDStrings(task.SeatIDs)),
	)
	r.invalidateCache(ctx, screeningID)
	if r.metrics != nil {
		r.metrics.CompensationsTotal.WithLabelValues("release").Inc()
	}
}

func (r *Reconciler) invalidateCache(ctx context.Context, screeningID string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Invalidate(ctx, screeningID); err != nil {
		logger.Warn("空席数キャッシュの無効化に失敗",
			zap.String("screening_id", screeningID), zap.Error(err))
	}
}

var _ application.Compensator = (*Reconciler)(nil)
