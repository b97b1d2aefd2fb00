package main

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"greenhouse/entities"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func cropTable(crops []entities.Crop) string {
	t := newTable("ID", "Name", "Type", "Location", "Weight (kg)", "Price (ETH)", "Status")
	for _, c := range crops {
		t.Row(c.CropID, c.Name, c.CropType, c.Location,
			strconv.FormatFloat(c.WeightKg, 'f', -1, 64), c.PriceEth, c.StatusLabel)
	}
	return t.String()
}

func cropDetail(c *entities.Crop, r *entities.SensorReading) string {
	t := newTable("Field", "Value").Rows(
		[]string{"ID", c.CropID},
		[]string{"Name", c.Name},
		[]string{"Type", c.CropType},
		[]string{"Location", c.Location},
		[]string{"Remarks", c.Remarks},
		[]string{"Sowing", c.SowingDate},
		[]string{"Transplant", c.TransplantDate},
		[]string{"Harvest", c.HarvestDate},
		[]string{"Weight (kg)", strconv.FormatFloat(c.WeightKg, 'f', -1, 64)},
		[]string{"Price (ETH)", c.PriceEth},
		[]string{"Owner", c.Owner},
		[]string{"Status", c.StatusLabel},
	)
	if r != nil {
		t.Rows(
			[]string{"System", r.System},
			[]string{"Temperature", num(r.Temperature)},
			[]string{"Humidity", num(r.Humidity)},
			[]string{"Water level", num(r.WaterLevel)},
			[]string{"Nutrition level", num(r.NutritionLevel)},
		)
	}
	return t.String()
}

func opsTable(ops []entities.Operation) string {
	t := newTable("Time", "Kind", "Crop", "Method", "Outcome", "Tx", "Error")
	for _, op := range ops {
		t.Row(op.CreatedAt.Format("2006-01-02 15:04:05"), op.Kind, op.CropID, op.Method, op.Outcome, op.TxHash, op.Error)
	}
	return t.String()
}

func num(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
