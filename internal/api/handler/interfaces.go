package handler

import (
	"context"

	"github.com/mizti/movie-reserve-mcp/internal/application"
	"github.com/mizti/movie-reserve-mcp/internal/domain/catalog"
	"github.com/mizti/movie-reserve-mcp/internal/domain/reservation"
	"github.com/mizti/movie-reserve-mcp/internal/domain/seatmap"
)

// CatalogServiceInterface はカタログサービスのインターフェース
type CatalogServiceInterface interface {
	ListMovies(ctx context.Context, input application.ListMoviesInput) ([]*catalog.Movie, error)
	GetMovie(ctx context.Context, movieID string) (*catalog.Movie, error)
	GetScreening(ctx context.Context, scheduleID string) (*catalog.Screening, error)
	FindMovieIDByTitle(ctx context.Context, title string) (string, error)
	ListScreenings(ctx context.Context, movieID, date string) ([]*catalog.Screening, error)
}

// SeatServiceInterface は座席照会サービスのインターフェース
type SeatServiceInterface interface {
	GetSeatAvailability(ctx context.Context, screeningID string) (*seatmap.View, error)
	CountAvailableSeats(ctx context.Context, screeningID string) (int, error)
}

// ReservationServiceInterface は予約エンジンのインターフェース
type ReservationServiceInterface interface {
	Reserve(ctx context.Context, screeningID string, seatIDs []string) (*reservation.Reservation, error)
	GetReservation(ctx context.Context, id string) (*reservation.Reservation, error)
	ListReservationsByScreening(ctx context.Context, screeningID string) ([]*reservation.Reservation, error)
}
