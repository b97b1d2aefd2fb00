package report

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"greenhouse/entities"
)

func sample() []entities.Crop {
	wheat := entities.Crop{CropID: "3", Name: "Wheat", CropType: "Grain", Location: "Bay 3", WeightKg: 120, PriceEth: "2.5"}
	wheat.SetStatus(entities.StatusInManufacturer)
	basil := entities.Crop{CropID: "1", Name: "Basil", CropType: "Herb", Location: "Bay 1", WeightKg: 4, PriceEth: "0.125"}
	basil.SetStatus(entities.StatusAvailable)
	return []entities.Crop{wheat, basil}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{Sheet}, f.GetSheetList())
	rows, err := f.GetRows(Sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Contract ID", "Crop Name", "Crop Type", "Location", "Weight (kg)", "Price (ETH)", "Status"}, rows[0])
	assert.Equal(t, []string{"3", "Wheat", "Grain", "Bay 3", "120", "2.5", "In Manufacturer"}, rows[1])
	assert.Equal(t, "Basil", rows[2][1])
	assert.Equal(t, "Available", rows[2][6])
}

func TestSave_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crops.xlsx")
	require.NoError(t, Save(path, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(Sheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
