package serverpackets

import (
	"encoding/binary"

	"github.com/udisondev/halogo/internal/protocol"
)

// ConnectionRefused writes the type 0x05 refusal with a little-endian
// reason code.
func ConnectionRefused(buf []byte, reason protocol.RefuseReason) int {
	n := protocol.WriteBase(buf, protocol.TypeHandshakeFailed, 1, 2)
	binary.LittleEndian.PutUint32(buf[n:], uint32(reason))
	return n + 4
}
