package serviceImp

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"greenhouse/entities"
	crop "greenhouse/pkg/crop/service"
	"greenhouse/pkg/gateway"
	journal "greenhouse/pkg/journal/service"
	"greenhouse/pkg/metrics"
	"greenhouse/pkg/sensor/service"
	"greenhouse/pkg/session"
)

const defaultTxTimeout = 2 * time.Minute

type sensorSvc struct {
	src     session.Source
	journal journal.Service
	timeout time.Duration
	log     *zap.Logger
}

func New(src session.Source, j journal.Service, timeout time.Duration, log *zap.Logger) service.SensorService {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultTxTimeout
	}
	return &sensorSvc{src: src, journal: j, timeout: timeout, log: log}
}

// Record appends a reading for cropID. The id is not checked against the
// mirror and nothing local changes.
func (s *sensorSvc) Record(ctx context.Context, cropID string, r service.Reading) (entities.Receipt, error) {
	b, err := s.src.Binding()
	if err != nil {
		metrics.SensorSubmissions.WithLabelValues(metrics.OutcomeBlocked).Inc()
		return entities.Receipt{}, err
	}
	id, err := gateway.ParseID(cropID)
	if err != nil {
		return entities.Receipt{}, fmt.Errorf("%w: %v", crop.ErrInvalidInput, err)
	}
	values, err := readingArgs(r)
	if err != nil {
		return entities.Receipt{}, err
	}
	opts, err := b.Transactor(ctx)
	if err != nil {
		return entities.Receipt{}, err
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	args := append([]any{id}, values...)
	tx, err := b.Contract.Send(sendCtx, opts, gateway.MethodAddSensorData, args...)
	if s.journal != nil {
		op := journal.Entry(entities.OpKindSensor, id.String(), gateway.MethodAddSensorData, b.Account, tx, err)
		op.Detail = strings.TrimSpace(r.System)
		if jerr := s.journal.Record(op); jerr != nil {
			s.log.Warn("journal write failed", zap.Error(jerr))
		}
	}
	if err != nil {
		metrics.SensorSubmissions.WithLabelValues(metrics.OutcomeRejected).Inc()
		s.log.Warn("sensor data rejected", zap.String("crop_id", id.String()), zap.Error(err))
		return gateway.ReceiptOf(tx), fmt.Errorf("%w: %w", crop.ErrWriteRejected, err)
	}
	metrics.SensorSubmissions.WithLabelValues(metrics.OutcomeOK).Inc()
	receipt := gateway.ReceiptOf(tx)
	s.log.Info("sensor data recorded", zap.String("crop_id", id.String()), zap.String("tx", receipt.TxHash))
	return receipt, nil
}

// readingArgs returns system plus the four readings, each of which must be
// a number.
func readingArgs(r service.Reading) ([]any, error) {
	out := []any{strings.TrimSpace(r.System)}
	for _, f := range []struct{ name, value string }{
		{"temperature", r.Temperature},
		{"humidity", r.Humidity},
		{"water_level", r.WaterLevel},
		{"nutrition_level", r.NutritionLevel},
	} {
		v := strings.TrimSpace(f.value)
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("%w: %s must be a number", crop.ErrInvalidInput, f.name)
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *sensorSvc) Latest(ctx context.Context, cropID string) (*entities.SensorReading, error) {
	b, err := s.src.Binding()
	if err != nil {
		return nil, err
	}
	id, err := gateway.ParseID(cropID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", crop.ErrInvalidInput, err)
	}
	out, err := b.Contract.Call(ctx, gateway.MethodGetSensorData, id)
	if err != nil {
		return nil, err
	}
	if len(out) < 5 {
		return nil, fmt.Errorf("getSensorData(%s): %d outputs, want 5", id, len(out))
	}
	fields := make([]string, 5)
	empty := true
	for i := range fields {
		fields[i] = strings.TrimSpace(gateway.AsString(out[i]))
		empty = empty && fields[i] == ""
	}
	if empty {
		return nil, nil
	}
	return &entities.SensorReading{
		CropID:         id.String(),
		System:         fields[0],
		Temperature:    number(fields[1]),
		Humidity:       number(fields[2]),
		WaterLevel:     number(fields[3]),
		NutritionLevel: number(fields[4]),
	}, nil
}

func number(s string) *float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
