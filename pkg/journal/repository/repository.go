package repository

import (
	"time"

	"greenhouse/entities"
)

type Repo interface {
	Create(op *entities.Operation) error
	List(cropID string, from, to *time.Time) ([]entities.Operation, error)
}
