package reservation

import "time"

// Status は予約の状態を表す
// このシステムは確定済み予約のみを生成する（仮押さえ・キャンセルなし）
type Status string

const (
	StatusConfirmed Status = "confirmed"
)

// Reservation は1つの上映の座席集合を一意なIDに結びつける不変のレコード
// 予約ログへ追記された後は書き換えられない
type Reservation struct {
	ReservationID   string    `json:"reservation_id"`
	ScreeningID     string    `json:"screening_id"`
	SeatIDs         []string  `json:"seat_ids"`
	ReservationTime time.Time `json:"reservation_time"`
	Status          Status    `json:"status"`
}

// NewReservation は確定済み予約を作成する
func NewReservation(id, screeningID string, seatIDs []string, reservedAt time.Time) *Reservation {
	seats := make([]string, len(seatIDs))
	copy(seats, seatIDs)
	return &Reservation{
		ReservationID:   id,
		ScreeningID:     screeningID,
		SeatIDs:         seats,
		ReservationTime: reservedAt,
		Status:          StatusConfirmed,
	}
}

// Validate は予約レコードの検証を行う
func (r *Reservation) Validate() error {
	if r.ReservationID == "" {
		return ErrReservationIDRequired
	}
	if r.ScreeningID == "" {
		return ErrScreeningIDRequired
	}
	if len(r.SeatIDs) == 0 {
		return ErrSeatIDsRequired
	}
	return nil
}
