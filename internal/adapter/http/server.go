package http

import (
	"servertime-api/pkg/requestid"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewServer wires middleware and routes.
func NewServer(h *Handler, data *DataHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(requestid.Middleware(), middleware.Logger(), middleware.Recover())

	e.GET("/health", h.Health)
	e.GET("/data", data.GetData)
	return e
}
