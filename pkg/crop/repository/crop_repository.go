package repository

import (
	"errors"

	"greenhouse/entities"
)

var ErrNotFound = errors.New("crop not mirrored")

// Mark is a point in the mirror's patch history, taken when a directory
// read starts.
type Mark uint64

// CropRepository is the local mirror of one contract's crop directory.
// Rows are keyed by contract address; reads for any other contract see
// nothing.
type CropRepository interface {
	Begin() Mark
	// Replace swaps the whole mirror for a directory read of contract that
	// started at m. Status patches made after m survive the swap.
	Replace(contract string, m Mark, crops []entities.Crop) error
	// Clear drops every mirrored row.
	Clear() error
	List(contract string) ([]entities.Crop, error)
	FindByID(contract, id string) (*entities.Crop, error)
	UpdateStatus(contract, id string, status entities.Status) error
}
