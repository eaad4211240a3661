package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/shinyyama/blockguess-backend/internal/reqctx"
)

// RequestID tags every request with an id, echoes it in X-Request-Id and stores it in
// the request context for the loggers below.
func RequestID() echo.MiddlewareFunc {
	return echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, rid string) {
			req := c.Request()
			c.SetRequest(req.WithContext(reqctx.WithRID(req.Context(), rid)))
		},
	})
}
