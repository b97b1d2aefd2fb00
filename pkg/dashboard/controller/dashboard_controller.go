package controller

import "github.com/labstack/echo/v4"

type SessionController interface {
	Connect(c echo.Context) error
	Info(c echo.Context) error
}

type GhopController interface {
	Page(c echo.Context) error
	Crops(c echo.Context) error
	AddCrop(c echo.Context) error
	Crop(c echo.Context) error
	CropPage(c echo.Context) error
	SendToManufacturer(c echo.Context) error
	AddSensorData(c echo.Context) error
	Export(c echo.Context) error
}

type ExporterController interface {
	Page(c echo.Context) error
	Crops(c echo.Context) error
	SendToSupplier(c echo.Context) error
}

type BuyerController interface {
	Page(c echo.Context) error
	Session(c echo.Context) error
}
