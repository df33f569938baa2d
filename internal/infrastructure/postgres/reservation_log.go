package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mizti/movie-reserve-mcp/internal/domain/reservation"
)

type reservationRow struct {
	ID              string    `db:"id"`
	ScreeningID     string    `db:"screening_id"`
	Status          string    `db:"status"`
	ReservationTime time.Time `db:"reservation_time"`
}

// ReservationLog はPostgreSQLに予約を永続化する追記専用ログ
// 主キー制約が予約IDの一意性をストレージレベルで保証し、
// ON CONFLICT DO NOTHING により再追記は冪等となる
type ReservationLog struct{ db *sqlx.DB }

// NewReservationLog は新しいReservationLogを作成する
func NewReservationLog(db *sqlx.DB) *ReservationLog { return &ReservationLog{db: db} }

// Append は予約レコードを永続化する。同じIDの再追記は冪等
func (l *ReservationLog) Append(ctx context.Context, r *reservation.Reservation) error {
	if err := r.Validate(); err != nil {
		return err
	}

	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (id, screening_id, status, reservation_time) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO NOTHING`,
		r.ReservationID, r.ScreeningID, string(r.Status), r.ReservationTime)
	if err != nil {
		return fmt.Errorf("予約追記に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		// 既に同じIDで追記済み（補償経路からの再追記）
		return nil
	}

	for i, seatID := range r.SeatIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO reservation_seats (reservation_id, position, seat_id) VALUES ($1, $2, $3)`,
			r.ReservationID, i, seatID); err != nil {
			return fmt.Errorf("予約座席の追記に失敗: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}
	return nil
}

// GetByID は予約IDからレコードを取得する
func (l *ReservationLog) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	var row reservationRow
	query := `SELECT id, screening_id, status, reservation_time FROM reservations WHERE id = $1`
	if err := l.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	seatIDs, err := l.getSeatIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return l.toEntity(&row, seatIDs), nil
}

// ListByScreening は上映IDに紐づく予約一覧を返す
func (l *ReservationLog) ListByScreening(ctx context.Context, screeningID string) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	query := `SELECT id, screening_id, status, reservation_time FROM reservations WHERE screening_id = $1 ORDER BY reservation_time`
	if err := l.db.SelectContext(ctx, &rows, query, screeningID); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	result := make([]*reservation.Reservation, len(rows))
	for i, row := range rows {
		seatIDs, err := l.getSeatIDs(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		result[i] = l.toEntity(&row, seatIDs)
	}
	return result, nil
}

func (l *ReservationLog) getSeatIDs(ctx context.Context, reservationID string) ([]string, error) {
	var seatIDs []string
	query := `SELECT seat_id FROM reservation_seats WHERE reservation_id = $1 ORDER BY position`
	if err := l.db.SelectContext(ctx, &seatIDs, query, reservationID); err != nil {
		return nil, fmt.Errorf("予約座席の取得に失敗: %w", err)
	}
	return seatIDs, nil
}

func (l *ReservationLog) toEntity(row *reservationRow, seatIDs []string) *reservation.Reservation {
	return &reservation.Reservation{
		ReservationID:   row.ID,
		ScreeningID:     row.ScreeningID,
		SeatIDs:         seatIDs,
		ReservationTime: row.ReservationTime,
		Status:          reservation.Status(row.Status),
	}
}

var _ reservation.Log = (*ReservationLog)(nil)
