package tx

import (
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
	"github.com/pkg/errors"
)

// Remainder returns the change due back after paying sent and fee out of
// inputTotal. It fails with ErrInsufficientFunds when the inputs fall short.
func Remainder(inputTotal, fee, sent types.Amount) (types.Amount, error) {
	need, err := fee.Add(sent)
	if err != nil {
		return types.Amount{}, err
	}
	change, ok := inputTotal.Sub(need)
	if !ok {
		return types.Amount{}, errors.Wrapf(types.ErrInsufficientFunds,
			"inputs %s cannot cover %s plus fee %s", inputTotal, sent, fee)
	}
	return change, nil
}

// CheckFee verifies the transaction burns exactly fee of the native asset.
func CheckFee(tx *Transaction, nativeAssetID types.ID, fee types.Amount) error {
	consumed, err := tx.Consumed()
	if err != nil {
		return types.Invalidf("%v", err)
	}
	got := consumed[nativeAssetID]
	if got.Cmp(fee) != 0 {
		return types.Invalidf("native asset consumed %s, fee is %s", got, fee)
	}
	return nil
}
