package controllerImp

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	cropsvc "greenhouse/pkg/crop/service"
	"greenhouse/pkg/gateway"
	"greenhouse/pkg/session"
	"greenhouse/pkg/wallet"
)

// StatusFor maps a service error to its HTTP status.
func StatusFor(err error) int {
	var mismatch *gateway.NetworkMismatchError
	switch {
	case errors.Is(err, session.ErrConnectionRequired):
		return http.StatusPreconditionRequired
	case errors.As(err, &mismatch):
		return http.StatusConflict
	case errors.Is(err, gateway.ErrArtifactFetch), errors.Is(err, wallet.ErrNotPresent):
		return http.StatusServiceUnavailable
	case errors.Is(err, wallet.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, cropsvc.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, cropsvc.ErrUnknownCrop):
		return http.StatusNotFound
	case errors.Is(err, cropsvc.ErrInFlight):
		return http.StatusConflict
	case errors.Is(err, cropsvc.ErrWriteRejected):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// isForm is true for posts from the HTML pages.
func isForm(c echo.Context) bool {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	return strings.HasPrefix(ct, echo.MIMEApplicationForm) || strings.HasPrefix(ct, echo.MIMEMultipartForm)
}

// back redirects a form post to page with a message or an error.
func back(c echo.Context, page, msg string, err error) error {
	q := url.Values{}
	if err != nil {
		q.Set("err", err.Error())
	} else if msg != "" {
		q.Set("msg", msg)
	}
	target := page
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	return c.Redirect(http.StatusSeeOther, target)
}

func fail(c echo.Context, err error) error {
	return c.JSON(StatusFor(err), echo.Map{"error": err.Error()})
}

// Deny renders a refused request in the caller's format.
func Deny(page string) func(c echo.Context, err error) error {
	return func(c echo.Context, err error) error {
		if isForm(c) {
			return back(c, page, "", err)
		}
		return fail(c, err)
	}
}

// safeNext keeps post-connect redirects on this site.
func safeNext(next, fallback string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return fallback
	}
	return next
}
