package types

// OutputType is the type tag carried by every input, output and credential.
type OutputType uint32

const (
	TypeSECPTransferInput  OutputType = 5
	TypeSECPMintOutput     OutputType = 6
	TypeSECPTransferOutput OutputType = 7 // the only fungible kind
	TypeSECPCredential     OutputType = 9
	TypeNFTMintOutput      OutputType = 10
	TypeNFTTransferOutput  OutputType = 11
)

// String returns a human-readable name for the type tag.
func (t OutputType) String() string {
	switch t {
	case TypeSECPTransferInput:
		return "SECPTransferInput"
	case TypeSECPMintOutput:
		return "SECPMintOutput"
	case TypeSECPTransferOutput:
		return "SECPTransferOutput"
	case TypeSECPCredential:
		return "SECPCredential"
	case TypeNFTMintOutput:
		return "NFTMintOutput"
	case TypeNFTTransferOutput:
		return "NFTTransferOutput"
	default:
		return "Unknown"
	}
}

// IsFungible reports whether outputs of this type carry a spendable amount.
func (t OutputType) IsFungible() bool {
	return t == TypeSECPTransferOutput
}

// IsNFT reports whether the type belongs to the NFT feature extension.
func (t OutputType) IsNFT() bool {
	return t >= TypeNFTMintOutput
}
