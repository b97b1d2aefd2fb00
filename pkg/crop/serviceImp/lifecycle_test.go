package serviceImp

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"greenhouse/entities"
	"greenhouse/pkg/crop/service"
	"greenhouse/pkg/gateway"
	"greenhouse/pkg/gateway/gatewaytest"
	journal "greenhouse/pkg/journal/service"
	"greenhouse/pkg/session"
	"greenhouse/pkg/session/sessiontest"
)

func TestLifecycle_NoConnectionNoWrite(t *testing.T) {
	s := newStores(t)
	mirror(t, s, mirrored("1", "Wheat", entities.StatusAvailable))
	l := NewLifecycle(sessiontest.Disconnected(t), s.crops, s.journal, testTimeout, zaptest.NewLogger(t))

	_, err := l.SendToManufacturer(context.Background(), "1")
	require.ErrorIs(t, err, session.ErrConnectionRequired)
	assert.Equal(t, "connection required", err.Error())

	ops, err := s.journal.List(journal.Filter{})
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestLifecycle_SendToSupplierPatchesMirror(t *testing.T) {
	s := newStores(t)
	mirror(t, s, mirrored("1", "Wheat", entities.StatusInManufacturer))
	proxy := &gatewaytest.Contract{Addr: deployed}
	l := NewLifecycle(sessiontest.Connected(t, proxy), s.crops, s.journal, testTimeout, zaptest.NewLogger(t))

	receipt, err := l.SendToSupplier(context.Background(), "1")
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.TxHash)

	sends := proxy.Sends()
	require.Len(t, sends, 1)
	assert.Equal(t, gateway.MethodUpdateCropStatus, sends[0].Method)
	assert.Equal(t, []any{big.NewInt(1), uint8(3)}, sends[0].Args)
	assert.Equal(t, sessiontest.Account, sends[0].From)

	c, err := s.crops.FindByID(deployed.Hex(), "1")
	require.NoError(t, err)
	assert.Equal(t, entities.StatusInSeller, c.Status)
	assert.Equal(t, "In Seller", c.StatusLabel)
	assert.Equal(t, "Wheat", c.Name)

	ops, err := s.journal.List(journal.Filter{CropID: "1"})
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, entities.OpConfirmed, ops[0].Outcome)
	assert.Equal(t, receipt.TxHash, ops[0].TxHash)
}

func TestLifecycle_SendToManufacturer(t *testing.T) {
	s := newStores(t)
	mirror(t, s, mirrored("12", "Rice", entities.StatusAvailable))
	proxy := &gatewaytest.Contract{Addr: deployed}
	l := NewLifecycle(sessiontest.Connected(t, proxy), s.crops, s.journal, testTimeout, zaptest.NewLogger(t))

	_, err := l.SendToManufacturer(context.Background(), "12")
	require.NoError(t, err)
	require.Len(t, proxy.Sends(), 1)
	assert.Equal(t, gateway.MethodSendToManufacturer, proxy.Sends()[0].Method)
	assert.Equal(t, []any{big.NewInt(12)}, proxy.Sends()[0].Args)

	c, err := s.crops.FindByID(deployed.Hex(), "12")
	require.NoError(t, err)
	assert.Equal(t, "In Manufacturer", c.StatusLabel)
}

func TestLifecycle_Preconditions(t *testing.T) {
	s := newStores(t)
	mirror(t, s, mirrored("1", "Wheat", entities.StatusAvailable))
	proxy := &gatewaytest.Contract{Addr: deployed}
	l := NewLifecycle(sessiontest.Connected(t, proxy), s.crops, s.journal, testTimeout, zaptest.NewLogger(t))

	_, err := l.SendToManufacturer(context.Background(), "2")
	assert.ErrorIs(t, err, service.ErrUnknownCrop)

	_, err = l.UpdateStatus(context.Background(), "1", entities.Status(9))
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	assert.Empty(t, proxy.Sends())
}

func TestLifecycle_RejectedLeavesMirror(t *testing.T) {
	s := newStores(t)
	mirror(t, s, mirrored("1", "Wheat", entities.StatusAvailable))
	proxy := &gatewaytest.Contract{
		Addr:     deployed,
		SendFunc: func(context.Context, string, []any) (*types.Receipt, error) {
			return &types.Receipt{Status: types.ReceiptStatusFailed}, gateway.ErrReverted
		},
	}
	l := NewLifecycle(sessiontest.Connected(t, proxy), s.crops, s.journal, testTimeout, zaptest.NewLogger(t))

	_, err := l.UpdateStatus(context.Background(), "1", entities.StatusSold)
	require.ErrorIs(t, err, service.ErrWriteRejected)
	assert.ErrorIs(t, err, gateway.ErrReverted)
	assert.Len(t, proxy.Sends(), 1, "no retry")

	c, err := s.crops.FindByID(deployed.Hex(), "1")
	require.NoError(t, err)
	assert.Equal(t, entities.StatusAvailable, c.Status)

	ops, err := s.journal.List(journal.Filter{})
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, entities.OpRejected, ops[0].Outcome)
}

func TestLifecycle_InFlightGuard(t *testing.T) {
	s := newStores(t)
	mirror(t, s,
		mirrored("1", "Wheat", entities.StatusAvailable),
		mirrored("2", "Rice", entities.StatusAvailable))

	started := make(chan struct{})
	release := make(chan struct{})
	proxy := &gatewaytest.Contract{
		Addr:     deployed,
		SendFunc: func(ctx context.Context, method string, args []any) (*types.Receipt, error) {
			if method == gateway.MethodSendToManufacturer && args[0].(*big.Int).Int64() == 1 {
				close(started)
				<-release
			}
			return &types.Receipt{Status: types.ReceiptStatusSuccessful}, nil
		},
	}
	l := NewLifecycle(sessiontest.Connected(t, proxy), s.crops, s.journal, testTimeout, zaptest.NewLogger(t))

	done := make(chan error, 1)
	go func() {
		_, err := l.SendToManufacturer(context.Background(), "1")
		done <- err
	}()
	<-started

	_, err := l.SendToManufacturer(context.Background(), "1")
	assert.ErrorIs(t, err, service.ErrInFlight)

	_, err = l.SendToManufacturer(context.Background(), "2")
	assert.NoError(t, err, "other crops are independent")

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(testTimeout):
		t.Fatal("pending write never finished")
	}
	assert.Len(t, proxy.Sends(), 2)

	_, err = l.SendToSupplier(context.Background(), "1")
	assert.NoError(t, err, "guard released after confirmation")
}

func TestLifecycle_Timeout(t *testing.T) {
	s := newStores(t)
	mirror(t, s, mirrored("1", "Wheat", entities.StatusAvailable))
	proxy := &gatewaytest.Contract{
		Addr:     deployed,
		SendFunc: func(ctx context.Context, _ string, _ []any) (*types.Receipt, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	l := NewLifecycle(sessiontest.Connected(t, proxy), s.crops, nil, 20*time.Millisecond, zaptest.NewLogger(t))

	_, err := l.SendToManufacturer(context.Background(), "1")
	assert.ErrorIs(t, err, service.ErrWriteRejected)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
