package serviceImp

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"greenhouse/entities"
	"greenhouse/pkg/journal/repository"
	svc "greenhouse/pkg/journal/service"
)

type service struct {
	repo repository.Repo
	now  func() time.Time
}

func New(r repository.Repo) svc.Service { return &service{repo: r, now: time.Now} }

func (s *service) Record(op *entities.Operation) error {
	if op == nil {
		return errors.New("nil operation")
	}
	if op.Kind == "" {
		return errors.New("operation kind is required")
	}
	if op.OpID == "" {
		op.OpID = uuid.NewString()
	}
	if op.CreatedAt.IsZero() {
		op.CreatedAt = s.now().UTC()
	}
	return s.repo.Create(op)
}

func (s *service) List(f svc.Filter) ([]entities.Operation, error) {
	return s.repo.List(f.CropID, f.From, f.To)
}
