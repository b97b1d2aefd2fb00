package controllerImp

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	svc "greenhouse/pkg/journal/service"
)

type httpCtrl struct{ s svc.Service }

func New(s svc.Service) *httpCtrl { return &httpCtrl{s: s} }

func (h *httpCtrl) Register(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.GET("/operations", h.list)
	g.GET("/crops/:id/operations", h.list)
}

func (h *httpCtrl) list(c echo.Context) error {
	f := svc.Filter{CropID: c.QueryParam("crop_id")}
	if id := c.Param("id"); id != "" {
		f.CropID = id
	}
	var err error
	if f.From, err = parseDay(c.QueryParam("from")); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from, want YYYY-MM-DD"})
	}
	if f.To, err = parseDay(c.QueryParam("to")); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to, want YYYY-MM-DD"})
	}
	list, err := h.s.List(f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, list)
}

func parseDay(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
