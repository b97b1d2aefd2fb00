package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"greenhouse/entities"
	repo "greenhouse/pkg/crop/repository"
	"greenhouse/pkg/crop/service"
	"greenhouse/pkg/gateway"
	journal "greenhouse/pkg/journal/service"
	"greenhouse/pkg/metrics"
	"greenhouse/pkg/session"
)

// defaultTxTimeout bounds a write when no TX_TIMEOUT is configured.
const defaultTxTimeout = 2 * time.Minute

type lifecycle struct {
	src     session.Source
	repo    repo.CropRepository
	journal journal.Service
	timeout time.Duration
	log     *zap.Logger

	mu      sync.Mutex
	pending map[string]struct{}
}

func NewLifecycle(src session.Source, r repo.CropRepository, j journal.Service, timeout time.Duration, log *zap.Logger) service.LifecycleService {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultTxTimeout
	}
	return &lifecycle{src: src, repo: r, journal: j, timeout: timeout, log: log, pending: map[string]struct{}{}}
}

func (l *lifecycle) SendToManufacturer(ctx context.Context, id string) (entities.Receipt, error) {
	return l.Apply(ctx, id, service.SendToManufacturer)
}

func (l *lifecycle) SendToSupplier(ctx context.Context, id string) (entities.Receipt, error) {
	return l.Apply(ctx, id, service.SendToSupplier)
}

func (l *lifecycle) UpdateStatus(ctx context.Context, id string, target entities.Status) (entities.Receipt, error) {
	return l.Apply(ctx, id, service.StatusUpdate(target))
}

// Apply sends one transition for a crop read earlier into the mirror. On
// confirmation the mirrored status is patched in place; a rejected write
// leaves the mirror as it was.
func (l *lifecycle) Apply(ctx context.Context, id string, t service.Transition) (entities.Receipt, error) {
	b, err := l.src.Binding()
	if err != nil {
		metrics.Transitions.WithLabelValues(t.Name, metrics.OutcomeBlocked).Inc()
		return entities.Receipt{}, err
	}
	if !t.Target.Valid() {
		return entities.Receipt{}, fmt.Errorf("%w: status code %d", service.ErrInvalidInput, int(t.Target))
	}
	if _, err := l.repo.FindByID(contractKey(b), id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return entities.Receipt{}, fmt.Errorf("%w: %s", service.ErrUnknownCrop, id)
		}
		return entities.Receipt{}, fmt.Errorf("read mirror: %w", err)
	}
	cropID, err := gateway.ParseID(id)
	if err != nil {
		return entities.Receipt{}, fmt.Errorf("%w: %v", service.ErrUnknownCrop, err)
	}
	if !l.acquire(id) {
		metrics.Transitions.WithLabelValues(t.Name, metrics.OutcomeBlocked).Inc()
		return entities.Receipt{}, fmt.Errorf("%w: crop %s", service.ErrInFlight, id)
	}
	defer l.release(id)

	opts, err := b.Transactor(ctx)
	if err != nil {
		return entities.Receipt{}, err
	}
	args := []any{cropID}
	if t.Method == gateway.MethodUpdateCropStatus {
		args = append(args, uint8(t.Target))
	}

	sendCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	r, err := b.Contract.Send(sendCtx, opts, t.Method, args...)
	l.record(journal.Entry(entities.OpKindTransition, id, t.Method, b.Account, r, err), t)
	if err != nil {
		metrics.Transitions.WithLabelValues(t.Name, metrics.OutcomeRejected).Inc()
		l.log.Warn("transition rejected", zap.String("crop_id", id), zap.String("transition", t.Name), zap.Error(err))
		return gateway.ReceiptOf(r), fmt.Errorf("%w: %w", service.ErrWriteRejected, err)
	}

	if err := l.repo.UpdateStatus(contractKey(b), id, t.Target); err != nil {
		l.log.Warn("mirror patch failed", zap.String("crop_id", id), zap.Error(err))
	}
	metrics.Transitions.WithLabelValues(t.Name, metrics.OutcomeOK).Inc()
	receipt := gateway.ReceiptOf(r)
	l.log.Info("transition confirmed",
		zap.String("crop_id", id),
		zap.String("transition", t.Name),
		zap.String("status", t.Target.Label()),
		zap.String("tx", receipt.TxHash))
	return receipt, nil
}

func (l *lifecycle) acquire(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.pending[id]; busy {
		return false
	}
	l.pending[id] = struct{}{}
	return true
}

func (l *lifecycle) release(id string) {
	l.mu.Lock()
	delete(l.pending, id)
	l.mu.Unlock()
}

func (l *lifecycle) record(op *entities.Operation, t service.Transition) {
	if l.journal == nil {
		return
	}
	op.Detail = fmt.Sprintf("%s -> %s", t.Name, t.Target.Label())
	if err := l.journal.Record(op); err != nil {
		l.log.Warn("journal write failed", zap.String("op", op.Method), zap.Error(err))
	}
}
