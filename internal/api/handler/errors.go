package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mizti/movie-reserve-mcp/internal/application"
	"github.com/mizti/movie-reserve-mcp/internal/domain/catalog"
	"github.com/mizti/movie-reserve-mcp/internal/domain/reservation"
	"github.com/mizti/movie-reserve-mcp/internal/domain/seatmap"
)

// toHTTPError はドメインエラーをHTTPステータスに対応付ける
//
//	検証エラー        → 400
//	不在              → 404
//	座席の確保済み    → 409
//	一時的な永続化失敗 → 503
func toHTTPError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, seatmap.ErrInvalidSeatID),
		errors.Is(err, seatmap.ErrDuplicateSeatID),
		errors.Is(err, seatmap.ErrSeatIDsRequired),
		errors.Is(err, seatmap.ErrUnknownSeat),
		errors.Is(err, application.ErrInvalidDateFormat),
		errors.Is(err, application.ErrSearchQueryTooLong),
		errors.Is(err, application.ErrGenreTooLong):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrMovieNotFound),
		errors.Is(err, catalog.ErrScreeningNotFound),
		errors.Is(err, seatmap.ErrSeatMapNotFound),
		errors.Is(err, reservation.ErrReservationNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, seatmap.ErrSeatUnavailable):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, application.ErrCommitContention),
		errors.Is(err, application.ErrReservationNotPersisted):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
