package wallet

import (
	"context"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChain struct {
	networkID, chainID *big.Int
	err                error
}

func (f fakeChain) NetworkID(context.Context) (*big.Int, error) { return f.networkID, f.err }
func (f fakeChain) ChainID(context.Context) (*big.Int, error)   { return f.chainID, f.err }

func ganache() fakeChain { return fakeChain{networkID: big.NewInt(5777), chainID: big.NewInt(1337)} }

func TestRequestAccounts_NoWallet(t *testing.T) {
	w := New(ganache(), SourceFor("", "", ""))
	_, err := w.RequestAccounts(context.Background())
	assert.ErrorIs(t, err, ErrNotPresent)
}

func TestRequestAccounts_HexKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	want := crypto.PubkeyToAddress(key.PublicKey)

	w := New(ganache(), SourceFor("0x"+common.Bytes2Hex(crypto.FromECDSA(key)), "", ""))
	accounts, err := w.RequestAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []common.Address{want}, accounts)

	opts, err := w.Transactor(context.Background(), want)
	require.NoError(t, err)
	assert.Equal(t, want, opts.From)

	_, err = w.Transactor(context.Background(), common.HexToAddress("0x01"))
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestRequestAccounts_BadKey(t *testing.T) {
	w := New(ganache(), FromHex("zz-not-hex"))
	_, err := w.RequestAccounts(context.Background())
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestRequestAccounts_Keystore(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)
	blob, err := keystore.EncryptKey(&keystore.Key{Id: uuid.New(), Address: addr, PrivateKey: key},
		"greenhouse", keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(path, blob, 0o600))

	t.Run("right passphrase", func(t *testing.T) {
		w := New(ganache(), SourceFor("", path, "greenhouse"))
		accounts, err := w.RequestAccounts(context.Background())
		require.NoError(t, err)
		assert.Equal(t, addr, accounts[0])
	})

	t.Run("wrong passphrase", func(t *testing.T) {
		w := New(ganache(), SourceFor("", path, "nope"))
		_, err := w.RequestAccounts(context.Background())
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestTransactor_Locked(t *testing.T) {
	w := New(ganache(), nil)
	_, err := w.Transactor(context.Background(), common.Address{})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestNetworkID(t *testing.T) {
	id, err := New(ganache(), nil).NetworkID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5777), id.Int64())

	_, err = New(fakeChain{err: errors.New("dial tcp: refused")}, nil).NetworkID(context.Background())
	assert.Error(t, err)
}
