package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/mizti/movie-reserve-mcp/internal/domain/seatmap"
)

// CustomValidator はEcho用のカスタムバリデーター
// 座席ID形式（行ラベル+番号、例: A1）の検証タグ seat_id を登録する
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator は新しいバリデーターを作成する
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterValidation("seat_id", func(fl validator.FieldLevel) bool {
		_, err := seatmap.ParseSeatID(fl.Field().String())
		return err == nil
	})
	return &CustomValidator{validator: v}
}

// Validate はリクエストのバリデーションを実行する
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
