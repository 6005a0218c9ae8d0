package wallet

import "github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"

// AssetBalance is one asset held by an address.
type AssetBalance struct {
	AssetID      types.ID     `json:"assetID"`
	Name         string       `json:"name"`
	Symbol       string       `json:"symbol"`
	Denomination uint8        `json:"denomination"`
	Amount       types.Amount `json:"amount"`
}

// AddressBalance lists the assets held by one derived address.
type AddressBalance struct {
	Address types.Address  `json:"address"`
	HDIndex uint32         `json:"hdIndex"`
	Native  types.Amount   `json:"navaxAmount"`
	Assets  []AssetBalance `json:"assets"`
}

// HasBalance reports whether the address holds anything.
func (b AddressBalance) HasBalance() bool {
	return len(b.Assets) > 0
}

// UTXO is a wallet-owned unspent output.
type UTXO struct {
	TxID        types.ID         `json:"txid"`
	OutputIndex uint32           `json:"outputIdx"`
	Amount      types.Amount     `json:"amount"`
	AssetID     types.ID         `json:"assetID"`
	TypeID      types.OutputType `json:"typeID"`
	HDIndex     uint32           `json:"hdIndex"`
	Address     types.Address    `json:"address"`
}

// ID returns the chain reference of the UTXO.
func (u UTXO) ID() types.UTXOID {
	return types.UTXOID{TxID: u.TxID, OutputIndex: u.OutputIndex}
}

// UTXOGroup holds the UTXOs owned by one address.
type UTXOGroup struct {
	Address types.Address `json:"address"`
	HDIndex uint32        `json:"hdIndex"`
	UTXOs   []UTXO        `json:"utxos"`
}

// Flatten returns every UTXO across groups in order.
func Flatten(groups []UTXOGroup) []UTXO {
	var out []UTXO
	for _, g := range groups {
		out = append(out, g.UTXOs...)
	}
	return out
}

// TokenUTXOs returns the transfer UTXOs of assetID, in group order.
func TokenUTXOs(groups []UTXOGroup, assetID types.ID) []UTXO {
	var out []UTXO
	for _, u := range Flatten(groups) {
		if u.AssetID == assetID && u.TypeID == types.TypeSECPTransferOutput {
			out = append(out, u)
		}
	}
	return out
}

// SumUTXOs totals the amounts of utxos.
func SumUTXOs(utxos []UTXO) (types.Amount, error) {
	var total types.Amount
	for _, u := range utxos {
		var err error
		if total, err = total.Add(u.Amount); err != nil {
			return types.Amount{}, err
		}
	}
	return total, nil
}
