package service

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"greenhouse/entities"
)

type Service interface {
	Record(op *entities.Operation) error
	List(f Filter) ([]entities.Operation, error)
}

type Filter struct {
	CropID string
	From   *time.Time
	To     *time.Time
}

// Entry builds the journal row for a write that reached the contract.
func Entry(kind, cropID, method string, account common.Address, receipt *types.Receipt, err error) *entities.Operation {
	op := &entities.Operation{
		Kind:    kind,
		CropID:  cropID,
		Method:  method,
		Account: account.Hex(),
		Outcome: entities.OpConfirmed,
	}
	if receipt != nil {
		op.TxHash = receipt.TxHash.Hex()
	}
	if err != nil {
		op.Outcome = entities.OpRejected
		op.Error = err.Error()
	}
	return op
}
