package http

import (
	"net/http"

	"servertime-api/internal/usecase/servertime"

	"github.com/labstack/echo/v4"
)

// DatabaseErrorBody is the only thing a client learns about a failure.
const DatabaseErrorBody = "Database query error"

type DataHandler struct{ uc *servertime.Usecase }

func NewDataHandler(uc *servertime.Usecase) *DataHandler { return &DataHandler{uc: uc} }

func (h *DataHandler) GetData(c echo.Context) error {
	rows, err := h.uc.Now(c.Request().Context())
	if err != nil {
		// the usecase already logged the cause
		return c.String(http.StatusInternalServerError, DatabaseErrorBody)
	}
	return c.JSON(http.StatusOK, rows)
}
