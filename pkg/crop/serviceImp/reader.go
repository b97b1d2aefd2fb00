package serviceImp

import (
	"context"
	"fmt"
	"math/big"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"greenhouse/entities"
	"greenhouse/pkg/gateway"
	"greenhouse/pkg/metrics"
)

// reader enumerates the contract directory. It has no contract side effects.
type reader struct {
	limit int
	log   *zap.Logger
}

func (r reader) load(ctx context.Context, c gateway.Proxy) ([]entities.Crop, error) {
	out, err := c.Call(ctx, gateway.MethodGetAllCropIds)
	if err != nil {
		return nil, fmt.Errorf("enumerate crops: %w", err)
	}
	var ids []*big.Int
	if len(out) > 0 {
		var ok bool
		if ids, ok = gateway.AsBigSlice(out[0]); !ok {
			return nil, fmt.Errorf("enumerate crops: unexpected result %T", out[0])
		}
	}

	slots := make([]*entities.Crop, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}
	for i, id := range ids {
		g.Go(func() error {
			crop, err := r.fetch(gctx, c, id)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				r.log.Warn("crop record skipped", zap.String("crop_id", id.String()), zap.Error(err))
				metrics.SkippedRecords.Inc()
				return nil
			}
			slots[i] = &crop
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	crops := make([]entities.Crop, 0, len(slots))
	for _, s := range slots {
		if s == nil {
			continue
		}
		s.Position = len(crops)
		crops = append(crops, *s)
	}
	r.log.Debug("directory read", zap.Int("ids", len(ids)), zap.Int("records", len(crops)))
	return crops, nil
}

func (r reader) fetch(ctx context.Context, c gateway.Proxy, id *big.Int) (entities.Crop, error) {
	out, err := c.Call(ctx, gateway.MethodGetCropDetails, id)
	if err != nil {
		return entities.Crop{}, err
	}
	return decodeCrop(id, out)
}
