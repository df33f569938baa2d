package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReservation(t *testing.T) {
	now := time.Now()
	seatIDs := []string{"A1", "A2"}

	r := NewReservation("RES-001", "screening-123", seatIDs, now)

	assert.Equal(t, "RES-001", r.ReservationID)
	assert.Equal(t, "screening-123", r.ScreeningID)
	assert.Equal(t, []string{"A1", "A2"}, r.SeatIDs)
	assert.Equal(t, now, r.ReservationTime)
	assert.Equal(t, StatusConfirmed, r.Status)

	seatIDs[0] = "Z9"
	assert.Equal(t, []string{"A1", "A2"}, r.SeatIDs, "入力スライスの変更は予約に影響しない")
}

func TestReservation_Validate(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name        string
		reservation *Reservation
		expectedErr error
	}{
		{
			name:        "有効な予約",
			reservation: &Reservation{ReservationID: "RES-001", ScreeningID: "screening-123", SeatIDs: []string{"A1"}, ReservationTime: now, Status: StatusConfirmed},
			expectedErr: nil,
		},
		{
			name:        "予約IDが空",
			reservation: &Reservation{ScreeningID: "screening-123", SeatIDs: []string{"A1"}},
			expectedErr: ErrReservationIDRequired,
		},
		{
			name:        "上映IDが空",
			reservation: &Reservation{ReservationID: "RES-001", SeatIDs: []string{"A1"}},
			expectedErr: ErrScreeningIDRequired,
		},
		{
			name:        "座席IDが空",
			reservation: &Reservation{ReservationID: "RES-001", ScreeningID: "screening-123"},
			expectedErr: ErrSeatIDsRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reservation.Validate()
			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
