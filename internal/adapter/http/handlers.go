package http

import (
	"context"
	"net/http"
	"time"

	"servertime-api/internal/domain/query"

	"github.com/labstack/echo/v4"
)

const healthPingTimeout = 2 * time.Second

// PoolChecker is the part of the pool /health reports on.
type PoolChecker interface {
	Ping(ctx context.Context) error
	Stats() query.Stats
}

type Handler struct{ pool PoolChecker }

func NewHandler(p PoolChecker) *Handler { return &Handler{pool: p} }

func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthPingTimeout)
	defer cancel()

	status, code := "ok", http.StatusOK
	if err := h.pool.Ping(ctx); err != nil {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	return c.JSON(code, map[string]any{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
		"pool":   h.pool.Stats(),
	})
}
