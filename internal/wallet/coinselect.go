package wallet

import (
	"fmt"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// Selection is the result of UTXO selection. Found is false when no single
// UTXO covers the target plus fee; that is a normal outcome callers must check.
type Selection struct {
	UTXO  UTXO
	Found bool
}

// Selector picks the single UTXO that best fits a payment.
type Selector struct {
	// Fee is added to the target before matching.
	Fee types.Amount
	// Denomination scales display-unit targets to base units.
	Denomination uint8
}

// Select returns the smallest transfer UTXO whose amount is at least
// target plus fee. When scaled is false, target is in display units
// ("0.5") and is multiplied by 10^Denomination first. Only parse and
// overflow problems are errors.
func (s Selector) Select(target string, groups []UTXOGroup, scaled bool) (Selection, error) {
	var (
		amount types.Amount
		err    error
	)
	if scaled {
		amount, err = types.ParseAmount(target)
	} else {
		amount, err = types.ParseDisplayAmount(target, s.Denomination)
	}
	if err != nil {
		return Selection{}, err
	}
	return s.SelectAmount(amount, groups)
}

// SelectAmount is Select for a target already in base units.
func (s Selector) SelectAmount(target types.Amount, groups []UTXOGroup) (Selection, error) {
	need, err := target.Add(s.Fee)
	if err != nil {
		return Selection{}, fmt.Errorf("target plus fee: %w", err)
	}

	var best Selection
	for _, g := range groups {
		for _, u := range g.UTXOs {
			if !u.TypeID.IsFungible() || u.Amount.Lt(need) {
				continue
			}
			if !best.Found || u.Amount.Lt(best.UTXO.Amount) {
				best = Selection{UTXO: u, Found: true}
			}
		}
	}
	return best, nil
}

// Require turns a not-found selection into ErrNoUsableUTXO.
func (sel Selection) Require(what string) (UTXO, error) {
	if !sel.Found {
		return UTXO{}, fmt.Errorf("%w: no single utxo covers %s", types.ErrNoUsableUTXO, what)
	}
	return sel.UTXO, nil
}
