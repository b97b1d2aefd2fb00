// Package report renders the crop directory as a spreadsheet.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"greenhouse/entities"
)

const Sheet = "Crops"

var headers = []any{"Contract ID", "Crop Name", "Crop Type", "Location", "Weight (kg)", "Price (ETH)", "Status"}

// Workbook builds a one-sheet workbook with a row per crop in directory
// order. The caller closes the file.
func Workbook(crops []entities.Crop) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), Sheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := fill(f, crops); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func fill(f *excelize.File, crops []entities.Crop) error {
	if err := f.SetSheetRow(Sheet, "A1", &headers); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(Sheet, 1, 1, bold); err != nil {
		return err
	}
	for i, c := range crops {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{c.CropID, c.Name, c.CropType, c.Location, c.WeightKg, c.PriceEth, c.StatusLabel}
		if err := f.SetSheetRow(Sheet, cell, &row); err != nil {
			return fmt.Errorf("row for crop %s: %w", c.CropID, err)
		}
	}
	return f.SetColWidth(Sheet, "A", "G", 18)
}

// Write streams the workbook to w.
func Write(w io.Writer, crops []entities.Crop) error {
	f, err := Workbook(crops)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func Save(path string, crops []entities.Crop) error {
	f, err := Workbook(crops)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}
