package controllerImp

import (
	"embed"
	"html/template"
	"io"
	"strconv"

	"github.com/labstack/echo/v4"

	"greenhouse/entities"
	"greenhouse/pkg/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"sendable": func(c entities.Crop) bool { return c.Status == entities.StatusAvailable },
	"num": func(v *float64) string {
		if v == nil {
			return "-"
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	},
	"kg": func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
}

// Renderer serves the embedded dashboard templates to echo.
type Renderer struct {
	t *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{t: t}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.t.ExecuteTemplate(w, name, data)
}

// page is the data every dashboard template receives.
type page struct {
	Title   string
	Path    string
	Session session.Info
	Crops   []entities.Crop
	Crop    *entities.Crop
	Sensor  *entities.SensorReading
	Message string
	Error   string
}

func newPage(c echo.Context, title string, info session.Info) page {
	return page{
		Title:   title,
		Path:    c.Request().URL.Path,
		Session: info,
		Message: c.QueryParam("msg"),
		Error:   c.QueryParam("err"),
	}
}
