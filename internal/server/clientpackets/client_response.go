package clientpackets

import (
	"encoding/binary"
	"fmt"

	"github.com/udisondev/halogo/internal/constants"
	"github.com/udisondev/halogo/internal/protocol"
)

// ClientResponse is the type 0x03 payload: the client's answer to the
// server challenge, its public key, and its version.
type ClientResponse struct {
	ServerChallengeResponse [constants.ChallengeSize]byte
	PublicKey               [constants.SessionKeySize]byte
	Version                 uint32
}

// ParseClientResponse reads a full type 0x03 datagram.
func ParseClientResponse(data []byte) (ClientResponse, error) {
	var p ClientResponse
	need := protocol.BaseSize + constants.ChallengeSize + constants.SessionKeySize + 4
	if len(data) < need {
		return p, fmt.Errorf("%w: client response %d bytes, need %d", protocol.ErrTooShort, len(data), need)
	}
	off := protocol.BaseSize
	off += copy(p.ServerChallengeResponse[:], data[off:])
	off += copy(p.PublicKey[:], data[off:])
	p.Version = binary.LittleEndian.Uint32(data[off:])
	return p, nil
}
