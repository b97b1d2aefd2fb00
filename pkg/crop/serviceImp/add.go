package serviceImp

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"

	"greenhouse/entities"
	"greenhouse/pkg/crop/service"
	"greenhouse/pkg/currency"
	"greenhouse/pkg/gateway"
	journal "greenhouse/pkg/journal/service"
	"greenhouse/pkg/session"
)

const dateLayout = "2006-01-02"

type creator struct {
	src     session.Source
	dir     service.DirectoryService
	journal journal.Service
	timeout time.Duration
	log     *zap.Logger
}

func NewCreator(src session.Source, dir service.DirectoryService, j journal.Service, timeout time.Duration, log *zap.Logger) service.Creator {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultTxTimeout
	}
	return &creator{src: src, dir: dir, journal: j, timeout: timeout, log: log}
}

// Add registers a crop. The contract assigns the id, so a confirmed add
// re-reads the whole directory.
func (c *creator) Add(ctx context.Context, in service.NewCrop) (entities.Receipt, error) {
	b, err := c.src.Binding()
	if err != nil {
		return entities.Receipt{}, err
	}
	args, err := addCropArgs(in)
	if err != nil {
		return entities.Receipt{}, err
	}
	opts, err := b.Transactor(ctx)
	if err != nil {
		return entities.Receipt{}, err
	}

	sendCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	r, err := b.Contract.Send(sendCtx, opts, gateway.MethodAddCrop, args...)
	if c.journal != nil {
		op := journal.Entry(entities.OpKindAddCrop, "", gateway.MethodAddCrop, b.Account, r, err)
		op.Detail = strings.TrimSpace(in.Name)
		if jerr := c.journal.Record(op); jerr != nil {
			c.log.Warn("journal write failed", zap.Error(jerr))
		}
	}
	if err != nil {
		c.log.Warn("add crop rejected", zap.String("name", in.Name), zap.Error(err))
		return gateway.ReceiptOf(r), fmt.Errorf("%w: %w", service.ErrWriteRejected, err)
	}
	receipt := gateway.ReceiptOf(r)
	c.log.Info("crop added", zap.String("name", in.Name), zap.String("tx", receipt.TxHash))

	if _, err := c.dir.Refresh(ctx); err != nil {
		c.log.Warn("directory refresh after add failed", zap.Error(err))
	}
	return receipt, nil
}

// addCropArgs validates the form and returns the addCrop arguments.
func addCropArgs(in service.NewCrop) ([]any, error) {
	name := strings.TrimSpace(in.Name)
	location := strings.TrimSpace(in.Location)
	cropType := strings.TrimSpace(in.CropType)
	for _, f := range []struct{ name, value string }{{"name", name}, {"location", location}, {"crop_type", cropType}} {
		if f.value == "" {
			return nil, fmt.Errorf("%w: %s is required", service.ErrInvalidInput, f.name)
		}
	}

	sowing, err := date("sowing_date", in.SowingDate, true)
	if err != nil {
		return nil, err
	}
	transplant, err := date("transplant_date", in.TransplantDate, false)
	if err != nil {
		return nil, err
	}
	harvest, err := date("harvest_date", in.HarvestDate, true)
	if err != nil {
		return nil, err
	}

	weight, ok := new(big.Int).SetString(strings.TrimSpace(in.Weight), 10)
	if !ok || weight.Sign() <= 0 {
		return nil, fmt.Errorf("%w: weight must be a positive whole number of kg", service.ErrInvalidInput)
	}
	price, err := currency.ToWei(in.PriceEth)
	if err != nil {
		return nil, fmt.Errorf("%w: price: %v", service.ErrInvalidInput, err)
	}

	return []any{name, location, cropType, strings.TrimSpace(in.Remarks), sowing, transplant, harvest, weight, price}, nil
}

func date(field, v string, required bool) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		if required {
			return "", fmt.Errorf("%w: %s is required", service.ErrInvalidInput, field)
		}
		return "", nil
	}
	if _, err := time.Parse(dateLayout, v); err != nil {
		return "", fmt.Errorf("%w: %s must be YYYY-MM-DD", service.ErrInvalidInput, field)
	}
	return v, nil
}
