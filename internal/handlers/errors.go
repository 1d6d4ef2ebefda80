package handlers

import (
	"errors"
	"net/http"

	"github.com/GoodNightBuddy/realtor-app/internal/services"

	"github.com/labstack/echo/v4"
)

// serviceError maps service sentinels onto HTTP errors. notFound is the
// message used for services.ErrNotFound.
func serviceError(err error, notFound string) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, notFound)
	case errors.Is(err, services.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, services.ErrConflict.Error())
	case errors.Is(err, services.ErrUnauthorized),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrTokenExpired):
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, services.ErrRateLimited):
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many failed sign-in attempts, try again later")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
}
