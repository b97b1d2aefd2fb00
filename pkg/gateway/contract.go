// Package gateway resolves the deployed GreenHouseContract for the active
// network and exposes a proxy with read (Call) and write (Send) operations.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"greenhouse/pkg/metrics"
)

// Contract method names.
const (
	MethodGetAllCropIds      = "getAllCropIds"
	MethodGetCropDetails     = "getCropDetails"
	MethodSendToManufacturer = "sendToManufacturer"
	MethodUpdateCropStatus   = "updateCropStatus"
	MethodAddCrop            = "addCrop"
	MethodAddSensorData      = "addSensorData"
	MethodGetSensorData      = "getSensorData"
)

var (
	ErrUnknownMethod = errors.New("method not in contract interface")
	ErrReverted      = errors.New("transaction reverted")
)

// Backend is what an RPC client must offer to bind a contract.
// *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Proxy is a contract bound to an address and interface.
type Proxy interface {
	Address() common.Address
	Call(ctx context.Context, method string, args ...any) ([]any, error)
	Send(ctx context.Context, opts *bind.TransactOpts, method string, args ...any) (*types.Receipt, error)
}

type Contract struct {
	address  common.Address
	abi      abi.ABI
	bound    *bind.BoundContract
	receipts bind.DeployBackend
	log      *zap.Logger
}

// Bind resolves the artifact's address for networkID and binds it.
func Bind(a *Artifact, networkID *big.Int, backend Backend, log *zap.Logger) (*Contract, error) {
	addr, err := a.AddressFor(networkID)
	if err != nil {
		return nil, err
	}
	parsed, err := a.Interface()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactFetch, err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Contract{
		address:  addr,
		abi:      parsed,
		bound:    bind.NewBoundContract(addr, parsed, backend, backend, backend),
		receipts: backend,
		log:      log.With(zap.String("contract", addr.Hex())),
	}, nil
}

func (c *Contract) Address() common.Address { return c.address }

// Call performs a read; it costs no fee and changes no state.
func (c *Contract) Call(ctx context.Context, method string, args ...any) ([]any, error) {
	if _, ok := c.abi.Methods[method]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
	var out []any
	err := c.bound.Call(&bind.CallOpts{Context: ctx}, &out, method, args...)
	if err != nil {
		metrics.ContractCalls.WithLabelValues(method, "call", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	metrics.ContractCalls.WithLabelValues(method, "call", metrics.OutcomeOK).Inc()
	return out, nil
}

// Send signs and submits a write as opts.From and blocks until it is mined.
// A mined transaction with a failed status is reported as ErrReverted.
func (c *Contract) Send(ctx context.Context, opts *bind.TransactOpts, method string, args ...any) (*types.Receipt, error) {
	if _, ok := c.abi.Methods[method]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
	if opts == nil {
		return nil, errors.New("send: nil transact opts")
	}
	o := *opts
	o.Context = ctx

	tx, err := c.bound.Transact(&o, method, args...)
	if err != nil {
		metrics.ContractCalls.WithLabelValues(method, "send", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("send %s: %w", method, err)
	}
	c.log.Debug("transaction submitted", zap.String("method", method), zap.String("tx", tx.Hash().Hex()))

	receipt, err := bind.WaitMined(ctx, c.receipts, tx)
	if err != nil {
		metrics.ContractCalls.WithLabelValues(method, "send", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("wait %s %s: %w", method, tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		metrics.ContractCalls.WithLabelValues(method, "send", metrics.OutcomeRejected).Inc()
		return receipt, fmt.Errorf("%s %s: %w", method, tx.Hash().Hex(), ErrReverted)
	}
	metrics.ContractCalls.WithLabelValues(method, "send", metrics.OutcomeOK).Inc()
	return receipt, nil
}
