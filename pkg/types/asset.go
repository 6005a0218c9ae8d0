package types

// MaxDenomination is the largest power-of-ten scaling an asset may declare.
const MaxDenomination = 32

// AssetDescription is the immutable on-chain metadata of an asset.
type AssetDescription struct {
	AssetID      ID     `json:"assetID"`
	Name         string `json:"name"`
	Symbol       string `json:"symbol"`
	Denomination uint8  `json:"denomination"`
}
