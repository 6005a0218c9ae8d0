package types

import (
	"encoding/binary"
	"fmt"
)

// UTXOID references a specific output of a transaction.
type UTXOID struct {
	TxID        ID     `json:"txid"`
	OutputIndex uint32 `json:"outputIdx"`
}

// Key returns CB58(txID || uint32be(outputIndex)). It keys address reference maps.
func (u UTXOID) Key() string {
	buf := make([]byte, 0, IDSize+4)
	buf = append(buf, u.TxID[:]...)
	buf = binary.BigEndian.AppendUint32(buf, u.OutputIndex)
	return CB58Encode(buf)
}

// String returns "txid:index".
func (u UTXOID) String() string {
	return fmt.Sprintf("%s:%d", u.TxID, u.OutputIndex)
}
