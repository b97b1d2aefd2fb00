// Package wallet is the signing-account boundary: it stands in for the
// browser wallet, handing out the authorized account, the network id and
// transaction signers.
package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrNotPresent   = errors.New("wallet not present: configure WALLET_PRIVATE_KEY or WALLET_KEYSTORE")
	ErrAccessDenied = errors.New("wallet access denied")
)

type Provider interface {
	// RequestAccounts unlocks the wallet and returns the authorized accounts.
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	NetworkID(ctx context.Context) (*big.Int, error)
	Transactor(ctx context.Context, from common.Address) (*bind.TransactOpts, error)
}

// Chain is the slice of the RPC client the wallet needs.
type Chain interface {
	NetworkID(ctx context.Context) (*big.Int, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

// KeySource yields the signing key; it is consulted once per unlock.
type KeySource func() (*ecdsa.PrivateKey, error)

func FromHex(hexKey string) KeySource {
	return func() (*ecdsa.PrivateKey, error) {
		return crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	}
}

func FromKeystore(path, passphrase string) KeySource {
	return func() (*ecdsa.PrivateKey, error) {
		blob, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		k, err := keystore.DecryptKey(blob, passphrase)
		if err != nil {
			return nil, err
		}
		return k.PrivateKey, nil
	}
}

// SourceFor picks the key source from configuration; nil means no wallet.
func SourceFor(hexKey, keystorePath, passphrase string) KeySource {
	switch {
	case hexKey != "":
		return FromHex(hexKey)
	case keystorePath != "":
		return FromKeystore(keystorePath, passphrase)
	}
	return nil
}

// Local signs with a single key held in process memory.
type Local struct {
	chain  Chain
	source KeySource

	mu      sync.Mutex
	key     *ecdsa.PrivateKey
	account common.Address
}

func New(chain Chain, source KeySource) *Local {
	return &Local{chain: chain, source: source}
}

func (w *Local) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	if w.source == nil {
		return nil, ErrNotPresent
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.key == nil {
		key, err := w.source()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
		w.key = key
		w.account = crypto.PubkeyToAddress(key.PublicKey)
	}
	return []common.Address{w.account}, nil
}

func (w *Local) NetworkID(ctx context.Context) (*big.Int, error) {
	id, err := w.chain.NetworkID(ctx)
	if err != nil {
		return nil, fmt.Errorf("network id: %w", err)
	}
	return id, nil
}

func (w *Local) Transactor(ctx context.Context, from common.Address) (*bind.TransactOpts, error) {
	w.mu.Lock()
	key, account := w.key, w.account
	w.mu.Unlock()
	if key == nil || from != account {
		return nil, fmt.Errorf("%w: account %s is not unlocked", ErrAccessDenied, from.Hex())
	}
	chainID, err := w.chain.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain id: %w", err)
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	return opts, nil
}
