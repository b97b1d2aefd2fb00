// Package currency converts between ether (display unit) and wei (the
// contract's storage unit).
package currency

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

// Decimals is the fixed-point scale of wei per ether.
const Decimals = 18

var ErrInvalidAmount = errors.New("invalid amount")

var weiPerEther = big.NewInt(params.Ether)

// ToWei parses a non-negative decimal ether amount such as "2.5".
func ToWei(ether string) (*big.Int, error) {
	s := strings.TrimSpace(ether)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	whole, frac, hasDot := strings.Cut(s, ".")
	if hasDot && frac == "" && whole == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, ether)
	}
	if whole == "" {
		whole = "0"
	}
	if !digits(whole) || (hasDot && frac != "" && !digits(frac)) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, ether)
	}
	if len(frac) > Decimals {
		return nil, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, ether, Decimals)
	}

	w, _ := new(big.Int).SetString(whole, 10)
	w.Mul(w, weiPerEther)
	if frac != "" {
		f, _ := new(big.Int).SetString(frac+strings.Repeat("0", Decimals-len(frac)), 10)
		w.Add(w, f)
	}
	return w, nil
}

// FromWei formats wei as the shortest decimal ether string.
func FromWei(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	neg := wei.Sign() < 0
	abs := new(big.Int).Abs(wei)
	q, r := new(big.Int).QuoRem(abs, weiPerEther, new(big.Int))

	out := q.String()
	if r.Sign() != 0 {
		rs := r.String()
		frac := strings.Repeat("0", Decimals-len(rs)) + rs
		out += "." + strings.TrimRight(frac, "0")
	}
	if neg {
		out = "-" + out
	}
	return out
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
