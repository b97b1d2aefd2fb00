package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"greenhouse/pkg/session"
)

// Connected reports whether the shared session is bound.
type Connected interface {
	Connected() bool
}

// RequireSession short-circuits contract routes while the session is
// disconnected. deny renders the refusal; nil means a 428 JSON body.
func RequireSession(s Connected, deny func(c echo.Context, err error) error) echo.MiddlewareFunc {
	if deny == nil {
		deny = func(c echo.Context, err error) error {
			return c.JSON(http.StatusPreconditionRequired, echo.Map{"error": err.Error()})
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !s.Connected() {
				return deny(c, session.ErrConnectionRequired)
			}
			return next(c)
		}
	}
}
