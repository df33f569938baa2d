package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mizti/movie-reserve-mcp/internal/domain/reservation"
)

// ReservationHandler は予約エンドポイントのハンドラー
type ReservationHandler struct {
	service ReservationServiceInterface
	catalog CatalogServiceInterface
}

// NewReservationHandler はReservationHandlerを作成する
func NewReservationHandler(s ReservationServiceInterface, c CatalogServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: s, catalog: c}
}

type CreateReservationRequest struct {
	ScreeningID string   `json:"screening_id" validate:"required"`
	SeatIDs     []string `json:"seat_ids" validate:"required,min=1,dive,seat_id"`
}

type ReservationResponse struct {
	ReservationID   string         `json:"reservation_id"`
	ScreeningID     string         `json:"screening_id"`
	SeatIDs         []string       `json:"seat_ids"`
	Status          string         `json:"status"`
	ReservationTime time.Time      `json:"reservation_time"`
	Screening       *ScreeningInfo `json:"screening,omitempty"`
	Movie           *MovieInfo     `json:"movie,omitempty"`
}

type ScreeningInfo struct {
	ScheduleID string `json:"schedule_id"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Theater    string `json:"theater"`
}

type MovieInfo struct {
	MovieID string `json:"movie_id"`
	Title   string `json:"title"`
	Genre   string `json:"genre"`
}

func toReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ReservationID:   r.ReservationID,
		ScreeningID:     r.ScreeningID,
		SeatIDs:         r.SeatIDs,
		Status:          string(r.Status),
		ReservationTime: r.ReservationTime,
	}
}

// enrich は上映・作品メタデータをレスポンスに付与する
// カタログは応答の付加情報であり、取得失敗は予約の成否に影響しない
func (h *ReservationHandler) enrich(c echo.Context, resp *ReservationResponse) {
	scr, err := h.catalog.GetScreening(c.Request().Context(), resp.ScreeningID)
	if err != nil {
		return
	}
	resp.Screening = &ScreeningInfo{
		ScheduleID: scr.ScheduleID,
		Date:       scr.Date,
		StartTime:  scr.StartTime,
		EndTime:    scr.EndTime,
		Theater:    scr.Theater,
	}
	m, err := h.catalog.GetMovie(c.Request().Context(), scr.MovieID)
	if err != nil {
		return
	}
	resp.Movie = &MovieInfo{MovieID: m.MovieID, Title: m.Title, Genre: m.Genre}
}

// Create は座席を予約する
func (h *ReservationHandler) Create(c echo.Context) error {
	var req CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	r, err := h.service.Reserve(c.Request().Context(), req.ScreeningID, req.SeatIDs)
	if err != nil {
		return toHTTPError(err)
	}

	resp := toReservationResponse(r)
	h.enrich(c, &resp)
	return c.JSON(http.StatusCreated, resp)
}

// GetByID は予約IDから予約を取得する
func (h *ReservationHandler) GetByID(c echo.Context) error {
	id := c.Param("id")
	r, err := h.service.GetReservation(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	resp := toReservationResponse(r)
	h.enrich(c, &resp)
	return c.JSON(http.StatusOK, resp)
}

// ListByScreening は上映に紐づく予約一覧を返す（監査用）
func (h *ReservationHandler) ListByScreening(c echo.Context) error {
	screeningID := c.Param("id")
	reservations, err := h.service.ListReservationsByScreening(c.Request().Context(), screeningID)
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]ReservationResponse, len(reservations))
	for i, r := range reservations {
		resp[i] = toReservationResponse(r)
	}
	return c.JSON(http.StatusOK, resp)
}
