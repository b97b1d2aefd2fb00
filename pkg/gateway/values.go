package gateway

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"greenhouse/entities"
)

// AsBig converts a decoded ABI integer (any width) to *big.Int.
func AsBig(v any) (*big.Int, bool) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return nil, false
		}
		return new(big.Int).Set(n), true
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint64:
		return new(big.Int).SetUint64(n), true
	case int8:
		return big.NewInt(int64(n)), true
	case int16:
		return big.NewInt(int64(n)), true
	case int32:
		return big.NewInt(int64(n)), true
	case int64:
		return big.NewInt(n), true
	case int:
		return big.NewInt(int64(n)), true
	case string:
		b, ok := new(big.Int).SetString(strings.TrimSpace(n), 10)
		return b, ok
	}
	return nil, false
}

// AsBigSlice converts a decoded ABI integer array.
func AsBigSlice(v any) ([]*big.Int, bool) {
	switch s := v.(type) {
	case []*big.Int:
		return s, true
	case []any:
		out := make([]*big.Int, 0, len(s))
		for _, e := range s {
			b, ok := AsBig(e)
			if !ok {
				return nil, false
			}
			out = append(out, b)
		}
		return out, true
	}
	return nil, false
}

// AsString renders a decoded ABI value as text.
func AsString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case common.Address:
		return s.Hex()
	case *big.Int:
		if s == nil {
			return ""
		}
		return s.String()
	}
	if b, ok := AsBig(v); ok {
		return b.String()
	}
	return fmt.Sprint(v)
}

// ParseID turns an opaque crop identifier into the uint256 the contract
// expects.
func ParseID(id string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(id), 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("crop id %q is not a non-negative integer", id)
	}
	return n, nil
}

// ReceiptOf reduces a mined receipt to what callers display.
func ReceiptOf(r *types.Receipt) entities.Receipt {
	if r == nil {
		return entities.Receipt{}
	}
	out := entities.Receipt{TxHash: r.TxHash.Hex()}
	if r.BlockNumber != nil {
		out.BlockNumber = r.BlockNumber.Uint64()
	}
	return out
}
