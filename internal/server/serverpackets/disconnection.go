package serverpackets

import "github.com/udisondev/halogo/internal/protocol"

// Disconnection writes the bare type 0x68 header. Sent to every session
// during server teardown; clients send the same shape when they leave.
func Disconnection(buf []byte) int {
	return protocol.WriteHeader(buf, protocol.TypeDisconnection)
}
