// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package types

import (
	"bytes"
	"encoding/binary"
)

// LSN is the type of a write-ahead-log sequence number. This subsystem
// carries no log manager, but page headers and transactions still tag
// their last-touched LSN so a future recovery component has somewhere
// to read it from without changing the page layout.
type LSN int32

// Serialize casts it to []byte
func (id LSN) Serialize() []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, id)
	return buf.Bytes()
}

// NewLSNFromBytes creates an LSN from []byte
func NewLSNFromBytes(data []byte) (ret LSN) {
	binary.Read(bytes.NewBuffer(data), binary.LittleEndian, &ret)
	return ret
}
