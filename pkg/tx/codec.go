package tx

import (
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
	"github.com/pkg/errors"
)

// CodecVersion prefixes every encoded transaction and UTXO.
const CodecVersion uint16 = 0

// MaxMemoSize is the largest memo a transaction may carry.
const MaxMemoSize = 256

// Bytes returns the canonical unsigned encoding.
//
// Layout (big-endian): codec(2) | kind(4) | network(4) | blockchain(32) |
// outputs | inputs | memo(4+n) [| name(2+n) | symbol(2+n) | denom(1) | initial states]
func (tx *Transaction) Bytes() []byte {
	var p packer
	p.uint16(CodecVersion)
	p.uint32(uint32(tx.Kind))
	p.uint32(tx.NetworkID)
	p.bytes(tx.BlockchainID[:])

	p.uint32(uint32(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		p.output(out)
	}

	p.uint32(uint32(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		p.bytes(in.UTXOID.TxID[:])
		p.uint32(in.UTXOID.OutputIndex)
		p.bytes(in.AssetID[:])
		p.uint32(uint32(in.Type))
		p.amount(in.Amount)
		p.uint32(uint32(len(in.SigIndices)))
		for _, idx := range in.SigIndices {
			p.uint32(idx)
		}
	}

	p.varBytes(tx.Memo)

	if tx.Kind == KindCreateAsset {
		p.str(tx.Name)
		p.str(tx.Symbol)
		p.byte(tx.Denomination)
		p.uint32(uint32(len(tx.InitialStates)))
		for _, st := range tx.InitialStates {
			p.uint32(st.FxIndex)
			p.uint32(uint32(len(st.Outputs)))
			for _, out := range st.Outputs {
				p.output(out)
			}
		}
	}
	return p.buf
}

// ParseTransaction decodes an unsigned transaction. Trailing bytes are rejected.
func ParseTransaction(b []byte) (*Transaction, error) {
	u := &unpacker{buf: b}
	tx := u.transaction()
	if u.err == nil && u.off != len(b) {
		u.err = errors.Wrapf(types.ErrDeserialization, "%d trailing bytes after transaction", len(b)-u.off)
	}
	if u.err != nil {
		return nil, u.err
	}
	return tx, nil
}

// UTXO is an unspent output as served by the chain.
type UTXO struct {
	ID     types.UTXOID
	Output Output
}

// Bytes returns the canonical UTXO encoding: codec(2) | txid(32) | index(4) | output.
func (u *UTXO) Bytes() []byte {
	var p packer
	p.uint16(CodecVersion)
	p.bytes(u.ID.TxID[:])
	p.uint32(u.ID.OutputIndex)
	p.output(u.Output)
	return p.buf
}

// ParseUTXO decodes a UTXO from its canonical encoding.
func ParseUTXO(b []byte) (*UTXO, error) {
	u := &unpacker{buf: b}
	u.codecVersion()
	var utxo UTXO
	utxo.ID.TxID = u.id("utxo txid")
	utxo.ID.OutputIndex = u.uint32("utxo output index")
	utxo.Output = u.output()
	if u.err == nil && u.off != len(b) {
		u.err = errors.Wrapf(types.ErrDeserialization, "%d trailing bytes after utxo", len(b)-u.off)
	}
	if u.err != nil {
		return nil, u.err
	}
	return &utxo, nil
}

// decodeHex accepts hex with or without a 0x prefix.
func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(types.ErrDeserialization, "invalid hex: %v", err)
	}
	return b, nil
}

// packer appends big-endian primitives to a buffer.
type packer struct {
	buf []byte
}

func (p *packer) byte(v byte)       { p.buf = append(p.buf, v) }
func (p *packer) bytes(v []byte)    { p.buf = append(p.buf, v...) }
func (p *packer) uint16(v uint16)   { p.buf = binary.BigEndian.AppendUint16(p.buf, v) }
func (p *packer) uint32(v uint32)   { p.buf = binary.BigEndian.AppendUint32(p.buf, v) }
func (p *packer) uint64(v uint64)   { p.buf = binary.BigEndian.AppendUint64(p.buf, v) }
func (p *packer) varBytes(v []byte) { p.uint32(uint32(len(v))); p.bytes(v) }
func (p *packer) str(s string)      { p.uint16(uint16(len(s))); p.bytes([]byte(s)) }

func (p *packer) amount(a types.Amount) {
	b := a.Bytes32()
	p.bytes(b[:])
}

func (p *packer) output(out Output) {
	p.bytes(out.AssetID[:])
	p.uint32(uint32(out.Type))
	switch out.Type {
	case types.TypeSECPTransferOutput:
		p.amount(out.Amount)
	case types.TypeNFTMintOutput:
		p.uint32(out.GroupID)
	case types.TypeNFTTransferOutput:
		p.uint32(out.GroupID)
		p.varBytes(out.Payload)
	}
	p.uint64(out.Locktime)
	p.uint32(out.Threshold)
	p.uint32(uint32(len(out.Addresses)))
	for _, a := range out.Addresses {
		p.bytes(a[:])
	}
}

// unpacker reads big-endian primitives. The first failure sticks in err
// and every later read returns zero values.
type unpacker struct {
	buf []byte
	off int
	err error
}

func (u *unpacker) next(n int, what string) []byte {
	if u.err != nil {
		return nil
	}
	if n < 0 || len(u.buf)-u.off < n {
		u.err = errors.Wrapf(types.ErrDeserialization,
			"reading %s at offset %d: need %d bytes, have %d", what, u.off, n, len(u.buf)-u.off)
		return nil
	}
	b := u.buf[u.off : u.off+n]
	u.off += n
	return b
}

func (u *unpacker) byte(what string) byte {
	b := u.next(1, what)
	if b == nil {
		return 0
	}
	return b[0]
}

func (u *unpacker) uint16(what string) uint16 {
	b := u.next(2, what)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (u *unpacker) uint32(what string) uint32 {
	b := u.next(4, what)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (u *unpacker) uint64(what string) uint64 {
	b := u.next(8, what)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

// count reads a length prefix and bounds it by the bytes left, so a hostile
// prefix cannot force a huge allocation.
func (u *unpacker) count(what string, minSize int) int {
	n := u.uint32(what)
	if u.err != nil {
		return 0
	}
	if uint64(n)*uint64(minSize) > uint64(len(u.buf)-u.off) {
		u.err = errors.Wrapf(types.ErrDeserialization, "%s count %d exceeds remaining %d bytes", what, n, len(u.buf)-u.off)
		return 0
	}
	return int(n)
}

func (u *unpacker) id(what string) types.ID {
	var id types.ID
	copy(id[:], u.next(types.IDSize, what))
	return id
}

func (u *unpacker) amount(what string) types.Amount {
	b := u.next(32, what)
	if b == nil {
		return types.Amount{}
	}
	return types.AmountFromBytes32(b)
}

func (u *unpacker) varBytes(what string, max int) []byte {
	n := u.count(what, 1)
	if u.err == nil && n > max {
		u.err = errors.Wrapf(types.ErrDeserialization, "%s length %d exceeds %d", what, n, max)
		return nil
	}
	b := u.next(n, what)
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func (u *unpacker) str(what string) string {
	n := u.uint16(what)
	return string(u.next(int(n), what))
}

func (u *unpacker) codecVersion() {
	if v := u.uint16("codec version"); u.err == nil && v != CodecVersion {
		u.err = errors.Wrapf(types.ErrDeserialization, "unsupported codec version %d", v)
	}
}

func (u *unpacker) output() Output {
	var out Output
	out.AssetID = u.id("output asset id")
	out.Type = types.OutputType(u.uint32("output type"))
	if u.err != nil {
		return out
	}
	switch out.Type {
	case types.TypeSECPTransferOutput:
		out.Amount = u.amount("output amount")
	case types.TypeSECPMintOutput:
	case types.TypeNFTMintOutput:
		out.GroupID = u.uint32("nft group id")
	case types.TypeNFTTransferOutput:
		out.GroupID = u.uint32("nft group id")
		out.Payload = u.varBytes("nft payload", 1024)
	default:
		u.err = errors.Wrapf(types.ErrDeserialization, "unknown output type %d", out.Type)
		return out
	}
	out.Locktime = u.uint64("output locktime")
	out.Threshold = u.uint32("output threshold")
	n := u.count("output addresses", types.AddressSize)
	for i := 0; i < n && u.err == nil; i++ {
		var a types.Address
		copy(a[:], u.next(types.AddressSize, "output address"))
		out.Addresses = append(out.Addresses, a)
	}
	return out
}

func (u *unpacker) outputs(what string) []Output {
	n := u.count(what, types.IDSize+4)
	var outs []Output
	for i := 0; i < n && u.err == nil; i++ {
		outs = append(outs, u.output())
	}
	return outs
}

func (u *unpacker) transaction() *Transaction {
	u.codecVersion()
	tx := &Transaction{}
	tx.Kind = Kind(u.uint32("tx kind"))
	if u.err == nil && tx.Kind != KindBase && tx.Kind != KindCreateAsset {
		u.err = errors.Wrapf(types.ErrDeserialization, "unknown transaction kind %d", tx.Kind)
	}
	tx.NetworkID = u.uint32("network id")
	tx.BlockchainID = u.id("blockchain id")
	tx.Outputs = u.outputs("outputs")

	n := u.count("inputs", types.IDSize*2+8)
	for i := 0; i < n && u.err == nil; i++ {
		var in Input
		in.UTXOID.TxID = u.id("input txid")
		in.UTXOID.OutputIndex = u.uint32("input output index")
		in.AssetID = u.id("input asset id")
		in.Type = types.OutputType(u.uint32("input type"))
		if u.err == nil && in.Type != types.TypeSECPTransferInput {
			u.err = errors.Wrapf(types.ErrDeserialization, "unknown input type %d", in.Type)
		}
		in.Amount = u.amount("input amount")
		sigs := u.count("input sig indices", 4)
		for j := 0; j < sigs && u.err == nil; j++ {
			in.SigIndices = append(in.SigIndices, u.uint32("sig index"))
		}
		tx.Inputs = append(tx.Inputs, in)
	}

	tx.Memo = u.varBytes("memo", MaxMemoSize)

	if tx.Kind == KindCreateAsset {
		tx.Name = u.str("asset name")
		tx.Symbol = u.str("asset symbol")
		tx.Denomination = u.byte("asset denomination")
		states := u.count("initial states", 8)
		for i := 0; i < states && u.err == nil; i++ {
			var st InitialState
			st.FxIndex = u.uint32("fx index")
			st.Outputs = u.outputs("initial state outputs")
			tx.InitialStates = append(tx.InitialStates, st)
		}
	}
	return tx
}
