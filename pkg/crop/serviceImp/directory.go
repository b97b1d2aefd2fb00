package serviceImp

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"greenhouse/entities"
	repo "greenhouse/pkg/crop/repository"
	"greenhouse/pkg/crop/service"
	"greenhouse/pkg/gateway"
	"greenhouse/pkg/session"
)

type directory struct {
	src    session.Source
	repo   repo.CropRepository
	reader reader
	log    *zap.Logger
	group  singleflight.Group
}

// NewDirectory reads through src's contract with at most concurrency
// detail fetches in flight.
func NewDirectory(src session.Source, r repo.CropRepository, concurrency int, log *zap.Logger) service.DirectoryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &directory{src: src, repo: r, reader: reader{limit: concurrency, log: log}, log: log}
}

func (d *directory) List(ctx context.Context, refresh bool) ([]entities.Crop, error) {
	b, err := d.src.Binding()
	if err != nil {
		return nil, err
	}
	if !refresh {
		crops, err := d.repo.List(contractKey(b))
		if err != nil {
			return nil, fmt.Errorf("read mirror: %w", err)
		}
		if len(crops) > 0 {
			return crops, nil
		}
	}
	return d.Refresh(ctx)
}

// Refresh re-reads the directory and replaces the mirror. Concurrent
// refreshes of one contract share one enumeration. A failed enumeration
// empties the mirror.
func (d *directory) Refresh(ctx context.Context) ([]entities.Crop, error) {
	b, err := d.src.Binding()
	if err != nil {
		return nil, err
	}
	contract := contractKey(b)
	v, err, shared := d.group.Do(contract, func() (any, error) {
		mark := d.repo.Begin()
		crops, err := d.reader.load(ctx, b.Contract)
		if err != nil {
			if cerr := d.repo.Clear(); cerr != nil {
				d.log.Warn("clear mirror failed", zap.Error(cerr))
			}
			return nil, err
		}
		if err := d.repo.Replace(contract, mark, crops); err != nil {
			return nil, fmt.Errorf("store mirror: %w", err)
		}
		d.log.Info("directory refreshed", zap.Int("crops", len(crops)))
		return crops, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		d.log.Debug("refresh coalesced")
	}
	crops := v.([]entities.Crop)
	out := make([]entities.Crop, len(crops))
	copy(out, crops)
	return out, nil
}

func (d *directory) Get(ctx context.Context, id string) (*entities.Crop, error) {
	b, err := d.src.Binding()
	if err != nil {
		return nil, err
	}
	n, err := gateway.ParseID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrInvalidInput, err)
	}
	crop, err := d.reader.fetch(ctx, b.Contract, n)
	if err != nil {
		return nil, fmt.Errorf("crop %s: %w", id, err)
	}
	return &crop, nil
}

// contractKey scopes mirrored rows to the bound deployment.
func contractKey(b session.Binding) string { return b.Contract.Address().Hex() }
