package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	dash "greenhouse/pkg/dashboard/controller"
	dashImp "greenhouse/pkg/dashboard/controllerImp"
	"greenhouse/pkg/middleware"
)

type Controllers struct {
	Session  dash.SessionController
	Ghop     dash.GhopController
	Exporter dash.ExporterController
	Buyer    dash.BuyerController
	Status   interface{ Update(echo.Context) error }
	Journal  interface{ Register(e *echo.Echo) }
	Health   interface{ Health(echo.Context) error }
}

// New mounts every route. HTML pages render in any session state; data and
// write routes need a connected session.
func New(e *echo.Echo, c Controllers, sess middleware.Connected) *echo.Echo {
	e.GET("/health", c.Health.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	c.Journal.Register(e)

	e.POST("/session/connect", c.Session.Connect)
	e.GET("/session", c.Session.Info)

	// Gates are per route so unknown paths under a prefix stay 404.
	ghopGate := middleware.RequireSession(sess, dashImp.Deny("/ghop"))
	ghop := e.Group("/ghop")
	ghop.GET("", c.Ghop.Page)
	ghop.GET("/crops/:id/view", c.Ghop.CropPage)
	ghop.GET("/crops", c.Ghop.Crops, ghopGate)
	ghop.POST("/crops", c.Ghop.AddCrop, ghopGate)
	ghop.GET("/crops.xlsx", c.Ghop.Export, ghopGate)
	ghop.GET("/crops/:id", c.Ghop.Crop, ghopGate)
	ghop.POST("/crops/:id/send-to-manufacturer", c.Ghop.SendToManufacturer, ghopGate)
	ghop.POST("/crops/:id/sensor-data", c.Ghop.AddSensorData, ghopGate)

	exporterGate := middleware.RequireSession(sess, dashImp.Deny("/exporter"))
	exp := e.Group("/exporter")
	exp.GET("", c.Exporter.Page)
	exp.GET("/crops", c.Exporter.Crops, exporterGate)
	exp.POST("/crops/:id/send-to-supplier", c.Exporter.SendToSupplier, exporterGate)

	buyer := e.Group("/buyer")
	buyer.GET("", c.Buyer.Page)
	buyer.GET("/session", c.Buyer.Session)

	e.POST("/crops/:id/status", c.Status.Update, ghopGate)
	return e
}
