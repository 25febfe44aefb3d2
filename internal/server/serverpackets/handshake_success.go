package serverpackets

import (
	"github.com/udisondev/halogo/internal/constants"
	"github.com/udisondev/halogo/internal/protocol"
)

// HandshakeSuccess writes the type 0x04 reply carrying the server public
// key. Counters are {1, 2}: the handshake round-trips are reserved.
func HandshakeSuccess(buf []byte, serverPublicKey *[constants.SessionKeySize]byte) int {
	n := protocol.WriteBase(buf, protocol.TypeHandshakeSuccess, 1, 2)
	n += copy(buf[n:], serverPublicKey[:])
	return n
}
