package repositoryImp

import (
	"time"

	"gorm.io/gorm"

	"greenhouse/entities"
	"greenhouse/pkg/journal/repository"
)

type sqliteRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.Repo { return &sqliteRepo{db: db} }

func (r *sqliteRepo) Create(op *entities.Operation) error { return r.db.Create(op).Error }

// List filters by crop and by calendar day; to is inclusive.
func (r *sqliteRepo) List(cropID string, from, to *time.Time) ([]entities.Operation, error) {
	q := r.db.Model(&entities.Operation{})
	if cropID != "" {
		q = q.Where("crop_id = ?", cropID)
	}
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at < ?", to.AddDate(0, 0, 1))
	}
	list := []entities.Operation{}
	return list, q.Order("created_at asc, id asc").Find(&list).Error
}
