package service

import (
	"context"

	"greenhouse/entities"
)

// Reading is a submission as entered; values travel to the contract as text.
type Reading struct {
	System         string `json:"system" form:"system"`
	Temperature    string `json:"temperature" form:"temperature"`
	Humidity       string `json:"humidity" form:"humidity"`
	WaterLevel     string `json:"water_level" form:"water_level"`
	NutritionLevel string `json:"nutrition_level" form:"nutrition_level"`
}

type SensorService interface {
	Record(ctx context.Context, cropID string, r Reading) (entities.Receipt, error)
	// Latest returns nil when the contract holds no reading for the crop.
	Latest(ctx context.Context, cropID string) (*entities.SensorReading, error)
}
