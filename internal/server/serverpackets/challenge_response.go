// Package serverpackets builds outbound datagrams. Every writer fills the
// caller's buffer and returns the number of bytes to send, matching the
// send-pool discipline of the server loop.
package serverpackets

import (
	"github.com/udisondev/halogo/internal/constants"
	"github.com/udisondev/halogo/internal/protocol"
)

// ChallengeResponse writes the type 0x02 reply to a client challenge:
// the response to the client's challenge followed by the server's own
// challenge. Counters are fixed at {0, 1}; no session exists yet.
func ChallengeResponse(buf []byte, clientChallengeResponse, serverChallenge *[constants.ChallengeSize]byte) int {
	n := protocol.WriteBase(buf, protocol.TypeServerChallengeResponse, 0, 1)
	n += copy(buf[n:], clientChallengeResponse[:])
	n += copy(buf[n:], serverChallenge[:])
	return n
}
