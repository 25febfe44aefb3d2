package server

import (
	"net"

	"github.com/udisondev/halogo/internal/constants"
	"github.com/udisondev/halogo/internal/crypto"
)

// Client is one accepted session: the remote endpoint, the key material
// derived from the exchanged public keys, and the two packet counters.
type Client struct {
	addr *net.UDPAddr

	// packetCount is the inbound counter, serverPacketCount the outbound
	// one. They start at 2/1: the handshake round-trips are already spoken
	// for when the session is accepted.
	packetCount       uint16
	serverPacketCount uint16

	privateKey crypto.PrivateKey
	publicKey  [constants.SessionKeySize]byte
	encKey     [constants.SessionKeySize]byte
	decKey     [constants.SessionKeySize]byte

	state SessionState
}

// NewClient derives the full key set for a freshly accepted session.
// The ladder runs once for our public key and once for the shared key; the
// historical code evaluated the shared rung twice for dec and enc and got
// identical results, so the second evaluation is a copy here.
func NewClient(addr *net.UDPAddr, clientPublicKey *[constants.SessionKeySize]byte, rng *crypto.LCG) *Client {
	c := &Client{
		addr:              addr,
		packetCount:       2,
		serverPacketCount: 1,
		state:             StateEstablished,
	}
	crypto.GenerateKeys(&c.privateKey, nil, &c.publicKey, rng)
	crypto.GenerateKeys(&c.privateKey, clientPublicKey, &c.decKey, nil)
	c.encKey = c.decKey
	return c
}

// Addr returns the client endpoint.
func (c *Client) Addr() *net.UDPAddr {
	return c.addr
}

// PublicKey returns the server-side public key transmitted to this client.
func (c *Client) PublicKey() *[constants.SessionKeySize]byte {
	return &c.publicKey
}

// EncKey returns the key encrypting server→client payloads.
func (c *Client) EncKey() *[constants.SessionKeySize]byte {
	return &c.encKey
}

// DecKey returns the key decrypting client→server payloads.
func (c *Client) DecKey() *[constants.SessionKeySize]byte {
	return &c.decKey
}

// State returns the session state.
func (c *Client) State() SessionState {
	return c.state
}

// Counts returns the current (server, client) packet counters.
func (c *Client) Counts() (uint16, uint16) {
	return c.serverPacketCount, c.packetCount
}

// sameEndpoint compares endpoints by IP and port.
func sameEndpoint(a, b *net.UDPAddr) bool {
	return a.Port == b.Port && a.IP.Equal(b.IP)
}
