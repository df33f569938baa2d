package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mizti/movie-reserve-mcp/internal/domain/seatmap"
)

type seatMapRow struct {
	ScreeningID string    `db:"screening_id"`
	Rows        []byte    `db:"rows"`
	Version     int       `db:"version"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *seatMapRow) toEntity() (*seatmap.SeatMap, error) {
	rows := make(map[string]*seatmap.Row)
	if err := json.Unmarshal(r.Rows, &rows); err != nil {
		return nil, fmt.Errorf("座席マップの解析に失敗: %w", err)
	}
	return &seatmap.SeatMap{
		ScreeningID: r.ScreeningID,
		Rows:        rows,
		Version:     r.Version,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

// SeatMapStore はPostgreSQLに座席マップを保存するストア
// 条件付きコミットは保存済みバージョンを条件に含むUPDATEで実現する
type SeatMapStore struct{ db *sqlx.DB }

// NewSeatMapStore は新しいSeatMapStoreを作成する
func NewSeatMapStore(db *sqlx.DB) *SeatMapStore { return &SeatMapStore{db: db} }

const seatMapColumns = `screening_id, rows, version, updated_at`

// Get は座席マップの現在のスナップショットを取得する
func (s *SeatMapStore) Get(ctx context.Context, screeningID string) (*seatmap.SeatMap, error) {
	var row seatMapRow
	query := `SELECT ` + seatMapColumns + ` FROM seat_maps WHERE screening_id = $1`
	if err := s.db.GetContext(ctx, &row, query, screeningID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, seatmap.ErrSeatMapNotFound
		}
		return nil, fmt.Errorf("座席マップ取得に失敗: %w", err)
	}
	return row.toEntity()
}

// CommitMove は expectedVersion が一致する場合のみ座席を予約済みへ遷移させる
// SELECT FOR UPDATE とバージョン条件付きUPDATEで読み取り・検査・書き込みを直列化する
func (s *SeatMapStore) CommitMove(ctx context.Context, screeningID string, seatIDs []seatmap.SeatID, expectedVersion int) (*seatmap.SeatMap, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	m, err := s.getForUpdate(ctx, tx, screeningID)
	if err != nil {
		return nil, err
	}
	if m.Version != expectedVersion {
		return nil, fmt.Errorf("%w: 期待=%d 実際=%d", seatmap.ErrVersionConflict, expectedVersion, m.Version)
	}
	if err := m.Occupy(seatIDs); err != nil {
		return nil, err
	}
	if err := s.update(ctx, tx, m, expectedVersion); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	return m, nil
}

// CommitRelease は座席を予約済みから空席へ戻す補償遷移
func (s *SeatMapStore) CommitRelease(ctx context.Context, screeningID string, seatIDs []seatmap.SeatID) (*seatmap.SeatMap, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	m, err := s.getForUpdate(ctx, tx, screeningID)
	if err != nil {
		return nil, err
	}
	expected := m.Version
	if err := m.Release(seatIDs); err != nil {
		return nil, err
	}
	if err := s.update(ctx, tx, m, expected); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	return m, nil
}

// Save は座席マップを挿入または上書きする（シードの取り込み用）
func (s *SeatMapStore) Save(ctx context.Context, m *seatmap.SeatMap) error {
	data, err := json.Marshal(m.Rows)
	if err != nil {
		return fmt.Errorf("座席マップのシリアライズに失敗: %w", err)
	}
	query := `INSERT INTO seat_maps (screening_id, rows, version, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (screening_id) DO UPDATE SET rows = $2, version = $3, updated_at = $4`
	if _, err := s.db.ExecContext(ctx, query, m.ScreeningID, data, m.Version, m.UpdatedAt); err != nil {
		return fmt.Errorf("座席マップ保存に失敗: %w", err)
	}
	return nil
}

func (s *SeatMapStore) getForUpdate(ctx context.Context, tx *sqlx.Tx, screeningID string) (*seatmap.SeatMap, error) {
	var row seatMapRow
	query := `SELECT ` + seatMapColumns + ` FROM seat_maps WHERE screening_id = $1 FOR UPDATE`
	if err := tx.GetContext(ctx, &row, query, screeningID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, seatmap.ErrSeatMapNotFound
		}
		return nil, fmt.Errorf("座席マップ取得に失敗: %w", err)
	}
	return row.toEntity()
}

func (s *SeatMapStore) update(ctx context.Context, tx *sqlx.Tx, m *seatmap.SeatMap, expectedVersion int) error {
	data, err := json.Marshal(m.Rows)
	if err != nil {
		return fmt.Errorf("座席マップのシリアライズに失敗: %w", err)
	}
	query := `UPDATE seat_maps SET rows = $1, version = $2, updated_at = $3 WHERE screening_id = $4 AND version = $5`
	result, err := tx.ExecContext(ctx, query, data, m.Version, m.UpdatedAt, m.ScreeningID, expectedVersion)
	if err != nil {
		return fmt.Errorf("座席マップ更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return seatmap.ErrVersionConflict
	}
	return nil
}

var _ seatmap.Store = (*SeatMapStore)(nil)
