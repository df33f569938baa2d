package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mizti/movie-reserve-mcp/internal/domain/seatmap"
)

// MockSeatService はSeatServiceInterfaceのモック
type MockSeatService struct {
	mock.Mock
}

func (m *MockSeatService) GetSeatAvailability(ctx context.Context, screeningID string) (*seatmap.View, error) {
	args := m.Called(ctx, screeningID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seatmap.View), args.Error(1)
}

func (m *MockSeatService) CountAvailableSeats(ctx context.Context, screeningID string) (int, error) {
	args := m.Called(ctx, screeningID)
	return args.Int(0), args.Error(1)
}

func TestSeatHandler_GetAvailability(t *testing.T) {
	e := NewTestEcho()

	t.Run("座席状況を取得できる", func(t *testing.T) {
		mockService := new(MockSeatService)
		mockService.On("GetSeatAvailability", mock.Anything, "SCH001").Return(&seatmap.View{
			ScreeningID: "SCH001",
			Rows: []seatmap.RowView{
				{Row: "A", Available: []int{2, 3}, Occupied: []int{1}},
			},
			AvailableCount: 2,
			OccupiedCount:  1,
			TotalCount:     3,
			Version:        1,
		}, nil)

		handler := NewSeatHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("SCH001")

		err := handler.GetAvailability(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var view seatmap.View
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		assert.Equal(t, "SCH001", view.ScreeningID)
		assert.Equal(t, 2, view.AvailableCount)
		require.Len(t, view.Rows, 1)
		assert.Equal(t, []int{2, 3}, view.Rows[0].Available)
	})

	t.Run("不在の上映は404", func(t *testing.T) {
		mockService := new(MockSeatService)
		mockService.On("GetSeatAvailability", mock.Anything, "SCH999").
			Return(nil, seatmap.ErrSeatMapNotFound)

		handler := NewSeatHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("SCH999")

		err := handler.GetAvailability(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})
}

func TestSeatHandler_CountAvailable(t *testing.T) {
	e := NewTestEcho()

	mockService := new(MockSeatService)
	mockService.On("CountAvailableSeats", mock.Anything, "SCH001").Return(5, nil)

	handler := NewSeatHandler(mockService)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("SCH001")

	err := handler.CountAvailable(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp["available_count"])
}
