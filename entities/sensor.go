package entities

// SensorReading is the latest environmental reading the contract holds for
// a crop. Readings are unit-less here; nil means the contract returned an
// empty or non-numeric value.
type SensorReading struct {
	CropID         string   `json:"crop_id"`
	System         string   `json:"system"`
	Temperature    *float64 `json:"temperature"`
	Humidity       *float64 `json:"humidity"`
	WaterLevel     *float64 `json:"water_level"`
	NutritionLevel *float64 `json:"nutrition_level"`
}
