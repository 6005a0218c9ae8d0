package tx

import (
	"encoding/hex"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/crypto"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
	"github.com/pkg/errors"
)

// Credential holds the signatures authorizing one input. A credential with
// no signatures is a placeholder for a slot nobody has signed yet.
type Credential struct {
	Signatures [][]byte
}

// IsSigned reports whether the credential carries at least one signature.
func (c Credential) IsSigned() bool {
	return len(c.Signatures) > 0
}

// SignedTx pairs an unsigned transaction with one credential per input.
// Partially signed transactions keep empty credentials for unsigned slots.
type SignedTx struct {
	Unsigned    *Transaction
	Credentials []Credential
}

// NewSignedTx wraps tx with an empty credential slot per input.
func NewSignedTx(tx *Transaction) *SignedTx {
	return &SignedTx{
		Unsigned:    tx,
		Credentials: make([]Credential, len(tx.Inputs)),
	}
}

// Bytes returns the unsigned bytes followed by the credential list.
func (s *SignedTx) Bytes() []byte {
	p := packer{buf: s.Unsigned.Bytes()}
	p.uint32(uint32(len(s.Credentials)))
	for _, c := range s.Credentials {
		p.uint32(uint32(types.TypeSECPCredential))
		p.uint32(uint32(len(c.Signatures)))
		for _, sig := range c.Signatures {
			p.bytes(sig)
		}
	}
	return p.buf
}

// Hex returns the hex encoding of Bytes. This is the form exchanged between
// offer parties and submitted for broadcast.
func (s *SignedTx) Hex() string {
	return hex.EncodeToString(s.Bytes())
}

// ID returns the transaction ID: BLAKE3 over the signed bytes.
func (s *SignedTx) ID() types.ID {
	return crypto.Hash(s.Bytes())
}

// IsFullySigned reports whether every input has a non-empty credential.
func (s *SignedTx) IsFullySigned() bool {
	if len(s.Credentials) != len(s.Unsigned.Inputs) {
		return false
	}
	for _, c := range s.Credentials {
		if !c.IsSigned() {
			return false
		}
	}
	return true
}

// UnsignedInputs returns the indices of inputs whose credential is empty.
func (s *SignedTx) UnsignedInputs() []int {
	var idx []int
	for i := range s.Unsigned.Inputs {
		if i >= len(s.Credentials) || !s.Credentials[i].IsSigned() {
			idx = append(idx, i)
		}
	}
	return idx
}

// ParseSignedTx decodes a signed transaction. A transaction with no
// credential section at all decodes with an empty credential list.
func ParseSignedTx(b []byte) (*SignedTx, error) {
	u := &unpacker{buf: b}
	tx := u.transaction()
	if u.err != nil {
		return nil, u.err
	}
	stx := &SignedTx{Unsigned: tx}
	if u.off == len(b) {
		return stx, nil
	}

	n := u.count("credentials", 8)
	for i := 0; i < n && u.err == nil; i++ {
		if typ := types.OutputType(u.uint32("credential type")); u.err == nil && typ != types.TypeSECPCredential {
			u.err = errors.Wrapf(types.ErrDeserialization, "credential %d: unknown type %d", i, typ)
			break
		}
		sigs := u.count("credential signatures", crypto.SignatureSize)
		var c Credential
		for j := 0; j < sigs && u.err == nil; j++ {
			sig := make([]byte, crypto.SignatureSize)
			copy(sig, u.next(crypto.SignatureSize, "signature"))
			c.Signatures = append(c.Signatures, sig)
		}
		stx.Credentials = append(stx.Credentials, c)
	}
	if u.err == nil && u.off != len(b) {
		u.err = errors.Wrapf(types.ErrDeserialization, "%d trailing bytes after credentials", len(b)-u.off)
	}
	if u.err != nil {
		return nil, u.err
	}
	if len(stx.Credentials) != 0 && len(stx.Credentials) != len(tx.Inputs) {
		return nil, errors.Wrapf(types.ErrDeserialization,
			"%d credentials for %d inputs", len(stx.Credentials), len(tx.Inputs))
	}
	return stx, nil
}

// ParseSignedHex decodes the hex form produced by Hex.
func ParseSignedHex(s string) (*SignedTx, error) {
	b, err := decodeHex(s)
	if err != nil {
		return nil, err
	}
	return ParseSignedTx(b)
}
