package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/blockguess-backend/internal/logger"
	"github.com/shinyyama/blockguess-backend/internal/reqctx"
	"github.com/shinyyama/blockguess-backend/internal/service"
	"go.uber.org/zap"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}

// errorStatus maps a service error to its HTTP status and envelope code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrInvalidState):
		return http.StatusConflict, "invalid_state"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusConflict, "not_started"
	case errors.Is(err, service.ErrWindowClosed):
		return http.StatusConflict, "window_closed"
	case errors.Is(err, service.ErrAlreadyCheckedIn):
		return http.StatusConflict, "already_checked_in"
	case errors.Is(err, service.ErrDuplicateSubmission):
		return http.StatusConflict, "duplicate_submission"
	default:
		return http.StatusInternalServerError, "storage_failure"
	}
}

func writeError(c echo.Context, err error) error {
	status, code := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed", append(reqctx.Fields(c.Request().Context()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)...)
		msg = "storage failure"
	}
	return c.JSON(status, NewErrorResponse(code, msg))
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_argument", msg))
}

func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func queryInt(c echo.Context, name string) int {
	v, _ := strconv.Atoi(c.QueryParam(name))
	return v
}
