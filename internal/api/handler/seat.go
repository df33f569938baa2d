package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SeatHandler は座席照会エンドポイントのハンドラー
type SeatHandler struct {
	service SeatServiceInterface
}

// NewSeatHandler はSeatHandlerを作成する
func NewSeatHandler(s SeatServiceInterface) *SeatHandler {
	return &SeatHandler{service: s}
}

// GetAvailability は上映の座席状況ビューを返す
func (h *SeatHandler) GetAvailability(c echo.Context) error {
	screeningID := c.Param("id")
	view, err := h.service.GetSeatAvailability(c.Request().Context(), screeningID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// CountAvailable は上映の空席数を返す
func (h *SeatHandler) CountAvailable(c echo.Context) error {
	screeningID := c.Param("id")
	count, err := h.service.CountAvailableSeats(c.Request().Context(), screeningID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"available_count": count})
}
