package controllerImp

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"greenhouse/entities"
	cropsvc "greenhouse/pkg/crop/service"
	"greenhouse/pkg/report"
	sensorsvc "greenhouse/pkg/sensor/service"
	"greenhouse/pkg/session"
)

// Connector is the shared session as the dashboards use it.
type Connector interface {
	Connect(ctx context.Context) (session.Info, error)
	Info() session.Info
}

type Deps struct {
	Session   Connector
	Directory cropsvc.DirectoryService
	Lifecycle cropsvc.LifecycleService
	Creator   cropsvc.Creator
	Sensor    sensorsvc.SensorService
	Log       *zap.Logger
}

func (d Deps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

// done answers a write in the caller's format.
func done(c echo.Context, page, msg string, status int, r entities.Receipt, err error) error {
	if err != nil {
		if isForm(c) {
			return back(c, page, "", err)
		}
		return fail(c, err)
	}
	if isForm(c) {
		if r.TxHash != "" {
			msg = fmt.Sprintf("%s (tx %s)", msg, r.TxHash)
		}
		return back(c, page, msg, nil)
	}
	return c.JSON(status, r)
}

func bindErr(err error) error { return fmt.Errorf("%w: %v", cropsvc.ErrInvalidInput, err) }

type SessionCtrl struct{ d Deps }

func NewSessionCtrl(d Deps) *SessionCtrl { return &SessionCtrl{d} }

// Connect binds the session and, once bound, reads the directory.
func (h *SessionCtrl) Connect(c echo.Context) error {
	ctx := c.Request().Context()
	next := safeNext(c.FormValue("next"), "/buyer")
	info, err := h.d.Session.Connect(ctx)
	if err != nil {
		if isForm(c) {
			return back(c, next, "", err)
		}
		return c.JSON(StatusFor(err), echo.Map{"error": err.Error(), "session": info})
	}
	if _, err := h.d.Directory.Refresh(ctx); err != nil {
		h.d.logger().Warn("directory refresh after connect failed", zap.Error(err))
	}
	if isForm(c) {
		return back(c, next, "Connected as "+info.Account, nil)
	}
	return c.JSON(http.StatusOK, info)
}

func (h *SessionCtrl) Info(c echo.Context) error {
	return c.JSON(http.StatusOK, h.d.Session.Info())
}

type GhopCtrl struct{ d Deps }

func NewGhopCtrl(d Deps) *GhopCtrl { return &GhopCtrl{d} }

func refresh(c echo.Context) bool { return c.QueryParam("refresh") == "true" }

func (h *GhopCtrl) Page(c echo.Context) error {
	p := newPage(c, "Greenhouse Operator Dashboard", h.d.Session.Info())
	if p.Session.Connected {
		crops, err := h.d.Directory.List(c.Request().Context(), refresh(c))
		if err != nil {
			p.Error = err.Error()
		}
		p.Crops = crops
	}
	return c.Render(http.StatusOK, "ghop", p)
}

// Crops is the full, unfiltered directory.
func (h *GhopCtrl) Crops(c echo.Context) error {
	crops, err := h.d.Directory.List(c.Request().Context(), refresh(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, crops)
}

func (h *GhopCtrl) AddCrop(c echo.Context) error {
	var in cropsvc.NewCrop
	if err := c.Bind(&in); err != nil {
		return done(c, "/ghop", "", 0, entities.Receipt{}, bindErr(err))
	}
	r, err := h.d.Creator.Add(c.Request().Context(), in)
	return done(c, "/ghop", "Crop added", http.StatusCreated, r, err)
}

type cropDetail struct {
	Crop   *entities.Crop          `json:"crop"`
	Sensor *entities.SensorReading `json:"sensor"`
}

// detail reads the crop and its latest reading; a failed sensor read
// leaves the reading empty.
func (h *GhopCtrl) detail(ctx context.Context, id string) (cropDetail, error) {
	crop, err := h.d.Directory.Get(ctx, id)
	if err != nil {
		return cropDetail{}, err
	}
	reading, err := h.d.Sensor.Latest(ctx, id)
	if err != nil {
		h.d.logger().Warn("sensor read failed", zap.String("crop_id", id), zap.Error(err))
	}
	return cropDetail{Crop: crop, Sensor: reading}, nil
}

func (h *GhopCtrl) Crop(c echo.Context) error {
	d, err := h.detail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *GhopCtrl) CropPage(c echo.Context) error {
	p := newPage(c, "Crop "+c.Param("id"), h.d.Session.Info())
	d, err := h.detail(c.Request().Context(), c.Param("id"))
	if err != nil {
		p.Error = err.Error()
		return c.Render(StatusFor(err), "crop", p)
	}
	p.Crop, p.Sensor = d.Crop, d.Sensor
	return c.Render(http.StatusOK, "crop", p)
}

func (h *GhopCtrl) SendToManufacturer(c echo.Context) error {
	r, err := h.d.Lifecycle.SendToManufacturer(c.Request().Context(), c.Param("id"))
	return done(c, "/ghop", "Sent to manufacturer", http.StatusOK, r, err)
}

func (h *GhopCtrl) AddSensorData(c echo.Context) error {
	id := c.Param("id")
	page := "/ghop/crops/" + url.PathEscape(id) + "/view"
	var in sensorsvc.Reading
	if err := c.Bind(&in); err != nil {
		return done(c, page, "", 0, entities.Receipt{}, bindErr(err))
	}
	r, err := h.d.Sensor.Record(c.Request().Context(), id, in)
	return done(c, page, "Sensor data recorded", http.StatusCreated, r, err)
}

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *GhopCtrl) Export(c echo.Context) error {
	crops, err := h.d.Directory.List(c.Request().Context(), refresh(c))
	if err != nil {
		return fail(c, err)
	}
	var buf bytes.Buffer
	if err := report.Write(&buf, crops); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="crops.xlsx"`)
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}

type ExporterCtrl struct{ d Deps }

func NewExporterCtrl(d Deps) *ExporterCtrl { return &ExporterCtrl{d} }

// atManufacturer is the exporter's view: status In Manufacturer only.
func (h *ExporterCtrl) atManufacturer(c echo.Context) ([]entities.Crop, error) {
	crops, err := h.d.Directory.List(c.Request().Context(), refresh(c))
	if err != nil {
		return nil, err
	}
	return cropsvc.FilterByStatus(crops, entities.StatusInManufacturer), nil
}

func (h *ExporterCtrl) Page(c echo.Context) error {
	p := newPage(c, "Exporter Dashboard", h.d.Session.Info())
	if p.Session.Connected {
		crops, err := h.atManufacturer(c)
		if err != nil {
			p.Error = err.Error()
		}
		p.Crops = crops
	}
	return c.Render(http.StatusOK, "exporter", p)
}

func (h *ExporterCtrl) Crops(c echo.Context) error {
	crops, err := h.atManufacturer(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, crops)
}

func (h *ExporterCtrl) SendToSupplier(c echo.Context) error {
	r, err := h.d.Lifecycle.SendToSupplier(c.Request().Context(), c.Param("id"))
	return done(c, "/exporter", "Sent to supplier", http.StatusOK, r, err)
}

type BuyerCtrl struct{ d Deps }

func NewBuyerCtrl(d Deps) *BuyerCtrl { return &BuyerCtrl{d} }

func (h *BuyerCtrl) Page(c echo.Context) error {
	return c.Render(http.StatusOK, "buyer", newPage(c, "Buyer Dashboard", h.d.Session.Info()))
}

func (h *BuyerCtrl) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, h.d.Session.Info())
}

type StatusCtrl struct{ d Deps }

func NewStatusCtrl(d Deps) *StatusCtrl { return &StatusCtrl{d} }

type statusReq struct {
	Status *int   `json:"status"`
	Next   string `json:"next"`
}

func (h *StatusCtrl) target(c echo.Context) (statusReq, error) {
	var req statusReq
	if isForm(c) {
		req.Next = c.FormValue("next")
		if v := c.FormValue("status"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return req, fmt.Errorf("%w: status %q is not a number", cropsvc.ErrInvalidInput, v)
			}
			req.Status = &n
		}
	} else if err := c.Bind(&req); err != nil {
		return req, bindErr(err)
	}
	if req.Status == nil {
		return req, fmt.Errorf("%w: status is required", cropsvc.ErrInvalidInput)
	}
	return req, nil
}

// Update sets any status code through updateCropStatus.
func (h *StatusCtrl) Update(c echo.Context) error {
	req, err := h.target(c)
	page := safeNext(req.Next, "/ghop")
	if err != nil {
		return done(c, page, "", 0, entities.Receipt{}, err)
	}
	target := entities.Status(*req.Status)
	r, err := h.d.Lifecycle.UpdateStatus(c.Request().Context(), c.Param("id"), target)
	return done(c, page, "Status set to "+target.Label(), http.StatusOK, r, err)
}
