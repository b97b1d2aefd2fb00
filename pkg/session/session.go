// Package session holds the process-wide connection: the authorized
// account and the contract proxy bound for the wallet's network.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"greenhouse/pkg/gateway"
	"greenhouse/pkg/wallet"
)

var ErrConnectionRequired = errors.New("connection required")

const NotConnected = "Not Connected"

// Binder binds the artifact for a network; gateway.Bind over an RPC
// client in production.
type Binder func(a *gateway.Artifact, networkID *big.Int) (gateway.Proxy, error)

// Binding is what a connected session lends to a contract operation.
type Binding struct {
	Contract gateway.Proxy
	Account  common.Address
	wallet   wallet.Provider
}

// Transactor returns signing options for the session account.
func (b Binding) Transactor(ctx context.Context) (*bind.TransactOpts, error) {
	return b.wallet.Transactor(ctx, b.Account)
}

// Info is the connection display.
type Info struct {
	Connected bool   `json:"connected"`
	Account   string `json:"account"`
	NetworkID string `json:"network_id,omitempty"`
	Contract  string `json:"contract,omitempty"`
	Error     string `json:"error,omitempty"`
}

type Session struct {
	wallet      wallet.Provider
	artifactSrc string
	bind        Binder
	log         *zap.Logger

	mu        sync.RWMutex
	contract  gateway.Proxy
	account   common.Address
	networkID *big.Int
	lastErr   error
}

func New(w wallet.Provider, artifactSrc string, b Binder, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{wallet: w, artifactSrc: artifactSrc, bind: b, log: log}
}

// Connect requests account access, resolves the contract for the current
// network and binds it. On any error the session stays disconnected.
func (s *Session) Connect(ctx context.Context) (Info, error) {
	err := s.connect(ctx)
	if err != nil {
		s.mu.Lock()
		s.contract, s.account, s.networkID, s.lastErr = nil, common.Address{}, nil, err
		s.mu.Unlock()
		s.log.Error("connect failed", zap.Error(err))
		return s.Info(), err
	}
	info := s.Info()
	s.log.Info("connected", zap.String("account", info.Account), zap.String("network", info.NetworkID), zap.String("contract", info.Contract))
	return info, nil
}

func (s *Session) connect(ctx context.Context) error {
	accounts, err := s.wallet.RequestAccounts(ctx)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		return fmt.Errorf("%w: no authorized accounts", wallet.ErrAccessDenied)
	}
	networkID, err := s.wallet.NetworkID(ctx)
	if err != nil {
		return err
	}
	artifact, err := gateway.LoadArtifact(ctx, s.artifactSrc)
	if err != nil {
		return err
	}
	contract, err := s.bind(artifact, networkID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.contract, s.account, s.networkID, s.lastErr = contract, accounts[0], networkID, nil
	s.mu.Unlock()
	return nil
}

// Binding returns ErrConnectionRequired unless both the contract and an
// account are present.
func (s *Session) Binding() (Binding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.contract == nil || s.account == (common.Address{}) {
		return Binding{}, ErrConnectionRequired
	}
	return Binding{Contract: s.contract, Account: s.account, wallet: s.wallet}, nil
}

func (s *Session) Connected() bool {
	_, err := s.Binding()
	return err == nil
}

func (s *Session) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.contract == nil {
		info := Info{Account: NotConnected}
		if s.lastErr != nil {
			info.Error = s.lastErr.Error()
		}
		return info
	}
	return Info{
		Connected: true,
		Account:   s.account.Hex(),
		NetworkID: s.networkID.String(),
		Contract:  s.contract.Address().Hex(),
	}
}

// Source is anything that can lend a Binding; *Session is the production one.
type Source interface {
	Binding() (Binding, error)
}
