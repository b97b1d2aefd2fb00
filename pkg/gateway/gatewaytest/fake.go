// Package gatewaytest provides an in-memory contract proxy for tests.
package gatewaytest

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Invocation records one Call or Send.
type Invocation struct {
	Method string
	Args   []any
	From   common.Address
}

// Contract implements gateway.Proxy. Unset funcs return empty results.
type Contract struct {
	Addr     common.Address
	CallFunc func(method string, args []any) ([]any, error)
	SendFunc func(ctx context.Context, method string, args []any) (*types.Receipt, error)

	mu    sync.Mutex
	calls []Invocation
	sends []Invocation
}

func (c *Contract) Address() common.Address { return c.Addr }

func (c *Contract) Call(_ context.Context, method string, args ...any) ([]any, error) {
	c.mu.Lock()
	c.calls = append(c.calls, Invocation{Method: method, Args: args})
	fn := c.CallFunc
	c.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(method, args)
}

func (c *Contract) Send(ctx context.Context, opts *bind.TransactOpts, method string, args ...any) (*types.Receipt, error) {
	inv := Invocation{Method: method, Args: args}
	if opts != nil {
		inv.From = opts.From
	}
	c.mu.Lock()
	c.sends = append(c.sends, inv)
	fn := c.SendFunc
	c.mu.Unlock()
	if fn == nil {
		return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: common.HexToHash("0xabc")}, nil
	}
	return fn(ctx, method, args)
}

func (c *Contract) Calls() []Invocation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Invocation(nil), c.calls...)
}

func (c *Contract) Sends() []Invocation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Invocation(nil), c.sends...)
}
