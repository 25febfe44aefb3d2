package serverpackets

import "github.com/udisondev/halogo/internal/protocol"

// ConnectionEstablished writes the type 0x07 notification. The retail
// protocol defines it server→client after the handshake; this server does
// not currently emit it (see DESIGN.md), but the writer keeps the frame
// shape in one place for when a client is confirmed to expect it.
func ConnectionEstablished(buf []byte, serverCount, clientCount uint16) int {
	return protocol.WriteBase(buf, protocol.TypeConnectionEstablished, serverCount, clientCount)
}
