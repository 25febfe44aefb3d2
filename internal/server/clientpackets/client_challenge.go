// Package clientpackets parses inbound datagram payloads into value
// structs. Structural failures are reported with the protocol sentinel
// errors; the dispatcher drops such datagrams silently.
package clientpackets

import (
	"fmt"

	"github.com/udisondev/halogo/internal/constants"
	"github.com/udisondev/halogo/internal/protocol"
)

// ClientChallenge is the type 0x01 payload: the 32-byte ASCII challenge a
// connecting client opens the handshake with.
type ClientChallenge struct {
	Challenge [constants.ChallengeSize]byte
}

// ParseClientChallenge reads a full type 0x01 datagram.
func ParseClientChallenge(data []byte) (ClientChallenge, error) {
	var p ClientChallenge
	if len(data) < protocol.BaseSize+constants.ChallengeSize {
		return p, fmt.Errorf("%w: client challenge %d bytes", protocol.ErrTooShort, len(data))
	}
	copy(p.Challenge[:], data[protocol.BaseSize:])
	return p, nil
}
