package serviceImp

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"greenhouse/entities"
	"greenhouse/pkg/crop/service"
	"greenhouse/pkg/gateway"
	journal "greenhouse/pkg/journal/service"
	"greenhouse/pkg/session"
	"greenhouse/pkg/session/sessiontest"
)

func validCrop() service.NewCrop {
	return service.NewCrop{
		Name:        "Wheat",
		Location:    "Bay 3",
		CropType:    "Grain",
		SowingDate:  "2024-03-01",
		HarvestDate: "2024-07-01",
		Weight:      "120",
		PriceEth:    "2.5",
	}
}

func TestAddCropArgs(t *testing.T) {
	args, err := addCropArgs(validCrop())
	require.NoError(t, err)
	wei, _ := new(big.Int).SetString("2500000000000000000", 10)
	assert.Equal(t, []any{"Wheat", "Bay 3", "Grain", "", "2024-03-01", "", "2024-07-01", big.NewInt(120), wei}, args)

	cases := map[string]func(c *service.NewCrop){
		"missing name":      func(c *service.NewCrop) { c.Name = "  " },
		"missing type":      func(c *service.NewCrop) { c.CropType = "" },
		"bad sowing date":   func(c *service.NewCrop) { c.SowingDate = "01/03/2024" },
		"missing harvest":   func(c *service.NewCrop) { c.HarvestDate = "" },
		"bad transplant":    func(c *service.NewCrop) { c.TransplantDate = "soon" },
		"zero weight":       func(c *service.NewCrop) { c.Weight = "0" },
		"fractional weight": func(c *service.NewCrop) { c.Weight = "1.5" },
		"negative price":    func(c *service.NewCrop) { c.PriceEth = "-1" },
		"price not number":  func(c *service.NewCrop) { c.PriceEth = "cheap" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := validCrop()
			mutate(&c)
			_, err := addCropArgs(c)
			assert.ErrorIs(t, err, service.ErrInvalidInput)
		})
	}
}

func TestCreator_AddRefreshesDirectory(t *testing.T) {
	s := newStores(t)
	c := &chain{records: []record{{id: 1, name: "Wheat"}}}
	proxy := newProxy(c)
	sess := sessiontest.Connected(t, proxy)
	dir := NewDirectory(sess, s.crops, 2, zaptest.NewLogger(t))
	add := NewCreator(sess, dir, s.journal, testTimeout, zaptest.NewLogger(t))

	receipt, err := add.Add(context.Background(), validCrop())
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.TxHash)

	require.Len(t, proxy.Sends(), 1)
	assert.Equal(t, gateway.MethodAddCrop, proxy.Sends()[0].Method)
	assert.Equal(t, 1, countCalls(proxy, gateway.MethodGetAllCropIds))

	crops, err := s.crops.List(deployed.Hex())
	require.NoError(t, err)
	assert.Len(t, crops, 1)

	ops, err := s.journal.List(journal.Filter{})
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, entities.OpKindAddCrop, ops[0].Kind)
	assert.Equal(t, "Wheat", ops[0].Detail)
}

func TestCreator_RequiresConnection(t *testing.T) {
	s := newStores(t)
	sess := sessiontest.Disconnected(t)
	add := NewCreator(sess, NewDirectory(sess, s.crops, 2, nil), s.journal, testTimeout, nil)

	_, err := add.Add(context.Background(), validCrop())
	assert.ErrorIs(t, err, session.ErrConnectionRequired)
}

func TestCreator_InvalidInputNotSent(t *testing.T) {
	s := newStores(t)
	proxy := newProxy(&chain{})
	sess := sessiontest.Connected(t, proxy)
	add := NewCreator(sess, NewDirectory(sess, s.crops, 2, nil), s.journal, testTimeout, nil)

	in := validCrop()
	in.Weight = "heavy"
	_, err := add.Add(context.Background(), in)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Empty(t, proxy.Sends())
}
