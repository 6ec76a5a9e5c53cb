package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"food-billing-app/internal/apperr"
)

// httpError translates service errors into echo HTTP errors. Anything
// outside the known taxonomy bubbles up as a 500 via echo's default
// error handler.
func httpError(err error) error {
	var (
		validation   *apperr.ValidationError
		notFound     *apperr.NotFoundError
		conflict     *apperr.ConflictError
		insufficient *apperr.InsufficientStockError
	)

	switch {
	case errors.As(err, &validation):
		return echo.NewHTTPError(http.StatusBadRequest, validation.Error())
	case errors.As(err, &notFound):
		return echo.NewHTTPError(http.StatusNotFound, notFound.Error())
	case errors.As(err, &conflict):
		return echo.NewHTTPError(http.StatusConflict, conflict.Error())
	case errors.As(err, &insufficient):
		return echo.NewHTTPError(http.StatusConflict, map[string]interface{}{
			"message":   insufficient.Error(),
			"item_name": insufficient.ItemName,
			"available": insufficient.Available,
		})
	default:
		return err
	}
}
