package file

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/mizti/movie-reserve-mcp/internal/domain/reservation"
	"github.com/mizti/movie-reserve-mcp/internal/pkg/logger"
)

// ReservationLog はJSONL形式の追記専用ファイルに予約を永続化するログ
// Append は fsync 完了後に成功を返す。壊れた行は読み飛ばし、件数を記録する
type ReservationLog struct {
	path string

	mu      sync.Mutex
	file    *os.File
	index   map[string]*reservation.Reservation
	skipped int
}

// OpenReservationLog はログファイルを開き、既存レコードをインデックスへ読み込む
func OpenReservationLog(path string) (*ReservationLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("予約ログのオープンに失敗: %w", err)
	}
	l := &ReservationLog{
		path:  path,
		file:  f,
		index: make(map[string]*reservation.Reservation),
	}
	if err := l.load(); err != nil {
		f.Close()
		return nil, err
	}
	return l, nil
}

// load は既存のJSONL行をインデックスへ取り込む
// 1行の破損が他のレコードの読み取りを妨げてはならない
func (l *ReservationLog) load() error {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("予約ログの読み込みに失敗: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var r reservation.Reservation
		if err := json.Unmarshal(raw, &r); err != nil || r.ReservationID == "" {
			l.skipped++
			logger.Warn("予約ログの破損行をスキップ",
				zap.Int("line", line),
				zap.String("path", l.path),
			)
			continue
		}
		l.index[r.ReservationID] = &r
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("予約ログの走査に失敗: %w", err)
	}
	if l.skipped > 0 {
		logger.Warn("予約ログに破損行があります",
			zap.Int("skipped", l.skipped),
			zap.String("path", l.path),
		)
	}
	return nil
}

// Append は予約レコードを追記し、fsync完了後に成功を返す
// 同じ予約IDの再追記は冪等（既存レコードをそのまま成功扱い）
func (l *ReservationLog) Append(ctx context.Context, r *reservation.Reservation) error {
	if err := r.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.index[r.ReservationID]; ok {
		return nil
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("予約のシリアライズに失敗: %w", err)
	}
	data = append(data, '\n')

	if _, err := l.file.Write(data); err != nil {
		return fmt.Errorf("予約ログへの追記に失敗: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("予約ログの同期に失敗: %w", err)
	}

	stored := *r
	l.index[r.ReservationID] = &stored
	return nil
}

// GetByID は予約IDからレコードを取得する
func (l *ReservationLog) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.index[id]
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}
	copied := *r
	return &copied, nil
}

// ListByScreening は上映IDに紐づく予約一覧を返す
func (l *ReservationLog) ListByScreening(ctx context.Context, screeningID string) ([]*reservation.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	result := make([]*reservation.Reservation, 0)
	for _, r := range l.index {
		if r.ScreeningID == screeningID {
			copied := *r
			result = append(result, &copied)
		}
	}
	return result, nil
}

// SkippedRecords はロード時に読み飛ばした破損行の件数を返す
func (l *ReservationLog) SkippedRecords() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.skipped
}

// Close はログファイルを閉じる
func (l *ReservationLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

var _ reservation.Log = (*ReservationLog)(nil)
