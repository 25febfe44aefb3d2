package server

import (
	"net"

	"github.com/udisondev/halogo/internal/constants"
	"github.com/udisondev/halogo/internal/crypto"
)

// pendingChallenges remembers, per endpoint, what a correct answer to the
// server challenge looks like. The retail server keeps no pre-session state
// and cannot verify responses; this table is what makes the optional check
// possible. Bounded FIFO: the oldest outstanding handshake is evicted.
type pendingChallenges struct {
	order   []string
	entries map[string]pendingEntry
	max     int
}

type pendingEntry struct {
	expected [constants.ChallengeSize]byte

	// verifiable is false when the server challenge fails its own integrity
	// walk: the client's answer is then pure RNG and cannot be checked.
	verifiable bool
}

func newPendingChallenges(max int) *pendingChallenges {
	if max <= 0 {
		max = 32
	}
	return &pendingChallenges{
		entries: make(map[string]pendingEntry, max),
		max:     max,
	}
}

// put records the expected answer to serverChallenge for this endpoint.
// Bytes 0 and 13 of any response are RNG-dependent, so the expectation is
// computed with a fixed seed and those two bytes are skipped by verify.
func (p *pendingChallenges) put(addr *net.UDPAddr, serverChallenge *[constants.ChallengeSize]byte, key string) {
	k := addr.String()
	if _, ok := p.entries[k]; !ok {
		if len(p.order) >= p.max {
			oldest := p.order[0]
			p.order = p.order[1:]
			delete(p.entries, oldest)
		}
		p.order = append(p.order, k)
	}

	entry := pendingEntry{verifiable: crypto.ChallengeIntact(serverChallenge)}
	if entry.verifiable {
		entry.expected = crypto.ChallengeResponse(serverChallenge, key, crypto.NewLCG(0))
	}
	p.entries[k] = entry
}

// verify consumes the pending entry for an endpoint and checks the client's
// answer against it. Unknown endpoints fail; unverifiable challenges pass.
func (p *pendingChallenges) verify(addr *net.UDPAddr, response *[constants.ChallengeSize]byte) bool {
	k := addr.String()
	entry, ok := p.entries[k]
	if !ok {
		return false
	}
	delete(p.entries, k)
	for i, o := range p.order {
		if o == k {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}

	if !entry.verifiable {
		return true
	}
	for i := range entry.expected {
		if i == 0 || i == 13 {
			continue
		}
		if response[i] != entry.expected[i] {
			return false
		}
	}
	return true
}
