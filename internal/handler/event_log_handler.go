package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/blockguess-backend/internal/service"
)

type EventLogHandler struct {
	svc service.EventLogService
}

func NewEventLogHandler(svc service.EventLogService) *EventLogHandler {
	return &EventLogHandler{svc: svc}
}

func (h *EventLogHandler) List(c echo.Context) error {
	list, err := h.svc.List(c.Request().Context(), c.QueryParam("type"), queryInt(c, "limit"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": list})
}
