// Package sessiontest builds connected and disconnected sessions over
// fakes.
package sessiontest

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap/zaptest"

	"greenhouse/pkg/gateway"
	"greenhouse/pkg/session"
)

var Account = common.HexToAddress("0x90F8bf6A479f320ead074411a4B0e7944Ea8c9C1")

// Wallet is a wallet.Provider with a fixed account.
type Wallet struct {
	Accounts  []common.Address
	Network   *big.Int
	AccessErr error
}

func (w *Wallet) RequestAccounts(context.Context) ([]common.Address, error) {
	if w.AccessErr != nil {
		return nil, w.AccessErr
	}
	return w.Accounts, nil
}

func (w *Wallet) NetworkID(context.Context) (*big.Int, error) { return w.Network, nil }

func (w *Wallet) Transactor(_ context.Context, from common.Address) (*bind.TransactOpts, error) {
	return &bind.TransactOpts{From: from}, nil
}

// Artifact writes a minimal artifact file and returns its path.
func Artifact(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "GreenHouseContract.json")
	if err := os.WriteFile(path, []byte(`{"contractName":"GreenHouseContract","abi":[],"networks":{}}`), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// Connected returns a session already bound to proxy.
func Connected(t testing.TB, proxy gateway.Proxy) *session.Session {
	t.Helper()
	w := &Wallet{Accounts: []common.Address{Account}, Network: big.NewInt(5777)}
	s := session.New(w, Artifact(t), func(*gateway.Artifact, *big.Int) (gateway.Proxy, error) {
		return proxy, nil
	}, zaptest.NewLogger(t))
	if _, err := s.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	return s
}

// Disconnected returns a session that has never connected.
func Disconnected(t testing.TB) *session.Session {
	t.Helper()
	return session.New(&Wallet{}, Artifact(t), nil, zaptest.NewLogger(t))
}
