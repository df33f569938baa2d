package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mizti/movie-reserve-mcp/internal/application"
	"github.com/mizti/movie-reserve-mcp/internal/domain/catalog"
)

// MovieHandler は作品・上映スケジュールエンドポイントのハンドラー
type MovieHandler struct {
	service CatalogServiceInterface
}

// NewMovieHandler はMovieHandlerを作成する
func NewMovieHandler(s CatalogServiceInterface) *MovieHandler {
	return &MovieHandler{service: s}
}

type MovieListResponse struct {
	Movies []*catalog.Movie `json:"movies"`
}

// List は上映中の作品一覧を返す
// クエリパラメータ date / search_query / genre で絞り込める
func (h *MovieHandler) List(c echo.Context) error {
	movies, err := h.service.ListMovies(c.Request().Context(), application.ListMoviesInput{
		Date:        c.QueryParam("date"),
		SearchQuery: c.QueryParam("search_query"),
		Genre:       c.QueryParam("genre"),
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, MovieListResponse{Movies: movies})
}

// GetByID は作品IDから作品を取得する
func (h *MovieHandler) GetByID(c echo.Context) error {
	id := c.Param("id")
	m, err := h.service.GetMovie(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, m)
}

// FindByTitle はタイトル完全一致で作品を検索する
func (h *MovieHandler) FindByTitle(c echo.Context) error {
	title := c.QueryParam("title")
	if title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "タイトルを指定してください")
	}
	movieID, err := h.service.FindMovieIDByTitle(c.Request().Context(), title)
	if err != nil {
		return toHTTPError(err)
	}
	m, err := h.service.GetMovie(c.Request().Context(), movieID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, m)
}

// ListScreenings は上映回一覧を返す
// クエリパラメータ movie_id / date で絞り込める
func (h *MovieHandler) ListScreenings(c echo.Context) error {
	screenings, err := h.service.ListScreenings(c.Request().Context(), c.QueryParam("movie_id"), c.QueryParam("date"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, screenings)
}

// GetScreening はスケジュールIDから上映回を取得する
func (h *MovieHandler) GetScreening(c echo.Context) error {
	id := c.Param("id")
	s, err := h.service.GetScreening(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, s)
}
