package serviceImp

import (
	"fmt"
	"math/big"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"greenhouse/database"
	"greenhouse/entities"
	"greenhouse/pkg/crop/repository"
	"greenhouse/pkg/crop/repositoryImp"
	"greenhouse/pkg/gateway"
	"greenhouse/pkg/gateway/gatewaytest"
	journalrepo "greenhouse/pkg/journal/repositoryImp"
	journal "greenhouse/pkg/journal/service"
	journalImp "greenhouse/pkg/journal/serviceImp"
)

var (
	owner    = common.HexToAddress("0x90F8bf6A479f320ead074411a4B0e7944Ea8c9C1")
	deployed = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
)

type record struct {
	id     int64
	name   string
	status uint8
}

// chain is an in-memory directory answering the two read methods.
type chain struct {
	mu      sync.Mutex
	records []record
	failing map[int64]bool
	enumErr error
}

func (c *chain) call(method string, args []any) ([]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch method {
	case gateway.MethodGetAllCropIds:
		if c.enumErr != nil {
			return nil, c.enumErr
		}
		ids := make([]*big.Int, len(c.records))
		for i, r := range c.records {
			ids[i] = big.NewInt(r.id)
		}
		return []any{ids}, nil
	case gateway.MethodGetCropDetails:
		id := args[0].(*big.Int).Int64()
		if c.failing[id] {
			return nil, fmt.Errorf("execution reverted: crop %d", id)
		}
		for _, r := range c.records {
			if r.id == id {
				return details(r), nil
			}
		}
		return nil, fmt.Errorf("no crop %d", id)
	}
	return nil, fmt.Errorf("unexpected call %s", method)
}

func details(r record) []any {
	price, _ := new(big.Int).SetString("2500000000000000000", 10)
	return []any{
		big.NewInt(r.id), r.name, "Bay 3", "Grain", "",
		"2024-03-01", "2024-03-20", "2024-07-01",
		big.NewInt(120), price, owner, r.status,
	}
}

func newProxy(c *chain) *gatewaytest.Contract {
	return &gatewaytest.Contract{
		Addr:     deployed,
		CallFunc: c.call,
	}
}

type stores struct {
	crops   repository.CropRepository
	journal journal.Service
}

func newStores(t *testing.T) stores {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "greenhouse.db"))
	require.NoError(t, err)
	return stores{crops: repositoryImp.New(db), journal: journalImp.New(journalrepo.New(db))}
}

// mirror seeds rows as if the deployed contract had just been read.
func mirror(t *testing.T, s stores, crops ...entities.Crop) {
	t.Helper()
	mirrorFor(t, s, deployed, crops...)
}

func mirrorFor(t *testing.T, s stores, contract common.Address, crops ...entities.Crop) {
	t.Helper()
	require.NoError(t, s.crops.Replace(contract.Hex(), s.crops.Begin(), crops))
}

func mirrored(id, name string, status entities.Status) entities.Crop {
	c := entities.Crop{CropID: id, Name: name}
	c.SetStatus(status)
	return c
}

func countCalls(p *gatewaytest.Contract, method string) int {
	n := 0
	for _, inv := range p.Calls() {
		if inv.Method == method {
			n++
		}
	}
	return n
}

const testTimeout = 5 * time.Second
