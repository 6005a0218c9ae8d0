package tx

import (
	"errors"
	"fmt"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/crypto"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// ErrInvalidSig marks a credential whose signature does not match its input owner.
var ErrInvalidSig = errors.New("invalid signature")

// OwnerLookup resolves the owner of a spent UTXO.
type OwnerLookup func(id types.UTXOID) (types.Address, bool)

// VerifyCredentials checks that every input is signed by its owner.
func (s *SignedTx) VerifyCredentials(owners OwnerLookup) error {
	if !s.IsFullySigned() {
		return types.ErrIncompleteSignature
	}
	hash := s.Unsigned.Hash()
	for i, in := range s.Unsigned.Inputs {
		owner, ok := owners(in.UTXOID)
		if !ok {
			return fmt.Errorf("input %d: unknown utxo %s", i, in.UTXOID)
		}
		sigs := s.Credentials[i].Signatures
		if len(sigs) != len(in.SigIndices) {
			return fmt.Errorf("input %d: %d signatures for %d indices: %w", i, len(sigs), len(in.SigIndices), ErrInvalidSig)
		}
		for _, sig := range sigs {
			if !crypto.VerifySignature(hash[:], sig, owner) {
				return fmt.Errorf("input %d: %w", i, ErrInvalidSig)
			}
		}
	}
	return nil
}
