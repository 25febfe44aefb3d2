// Package testutil holds test helpers: a UDP client speaking the handshake
// protocol against a server under test.
package testutil

import (
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/udisondev/halogo/internal/constants"
	"github.com/udisondev/halogo/internal/crypto"
	"github.com/udisondev/halogo/internal/protocol"
)

// Client is a minimal game client for tests: it dials the server, walks the
// handshake and can exchange encrypted frames afterwards.
type Client struct {
	t    *testing.T
	conn *net.UDPConn
	rng  *crypto.LCG

	priv      crypto.PrivateKey
	publicKey [constants.SessionKeySize]byte
	SharedKey [constants.SessionKeySize]byte
}

// Dial connects a test client to the server address.
func Dial(t *testing.T, addr net.Addr) *Client {
	t.Helper()
	udpAddr, err := net.ResolveUDPAddr("udp4", addr.String())
	if err != nil {
		t.Fatalf("resolving server address: %v", err)
	}
	conn, err := net.DialUDP("udp4", nil, udpAddr)
	if err != nil {
		t.Fatalf("dialing server: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	c := &Client{t: t, conn: conn, rng: crypto.NewLCG(0x7357)}
	crypto.GenerateKeys(&c.priv, nil, &c.publicKey, c.rng)
	return c
}

// Challenge returns a fixed intact challenge (the retail capture).
func Challenge() [constants.ChallengeSize]byte {
	return [constants.ChallengeSize]byte([]byte(")nTu4y&t,Cr{P5j{6k<]^E@-ToF#Kg>m"))
}

// SendClientChallenge sends a type 0x01 datagram.
func (c *Client) SendClientChallenge(challenge *[constants.ChallengeSize]byte) {
	c.t.Helper()
	var buf [64]byte
	n := protocol.WriteBase(buf[:], protocol.TypeClientChallenge, 0, 0)
	n += copy(buf[n:], challenge[:])
	c.write(buf[:n])
}

// SendClientResponse sends a type 0x03 datagram with this client's public
// key and the given version.
func (c *Client) SendClientResponse(serverChallengeResponse *[constants.ChallengeSize]byte, version uint32) {
	c.t.Helper()
	var buf [64]byte
	n := protocol.WriteBase(buf[:], protocol.TypeClientResponse, 0, 1)
	n += copy(buf[n:], serverChallengeResponse[:])
	n += copy(buf[n:], c.publicKey[:])
	binary.LittleEndian.PutUint32(buf[n:], version)
	c.write(buf[:n+4])
}

// SendDisconnection sends a bare type 0x68 header.
func (c *Client) SendDisconnection() {
	c.t.Helper()
	var buf [8]byte
	n := protocol.WriteHeader(buf[:], protocol.TypeDisconnection)
	c.write(buf[:n])
}

// SendRaw transmits arbitrary bytes.
func (c *Client) SendRaw(data []byte) {
	c.t.Helper()
	c.write(data)
}

// Read waits for one datagram, failing the test on timeout.
func (c *Client) Read(timeout time.Duration) []byte {
	c.t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(timeout))
	buf := make([]byte, constants.MaxDatagramSize)
	n, err := c.conn.Read(buf)
	if err != nil {
		c.t.Fatalf("reading datagram: %v", err)
	}
	return buf[:n]
}

// Handshake walks the full exchange: challenge, response to the server's
// challenge, key derivation. Returns the server's public key.
func (c *Client) Handshake(gssdkKey string, version uint32) [constants.SessionKeySize]byte {
	c.t.Helper()

	challenge := Challenge()
	c.SendClientChallenge(&challenge)

	resp := c.Read(2 * time.Second)
	if t, err := protocol.ParseHeader(resp); err != nil || t != protocol.TypeServerChallengeResponse {
		c.t.Fatalf("expected server challenge response, got type %v err %v", t, err)
	}
	if len(resp) < protocol.BaseSize+2*constants.ChallengeSize {
		c.t.Fatalf("server challenge response too short: %d bytes", len(resp))
	}
	var serverChallenge [constants.ChallengeSize]byte
	copy(serverChallenge[:], resp[protocol.BaseSize+constants.ChallengeSize:])

	answer := crypto.ChallengeResponse(&serverChallenge, gssdkKey, c.rng)
	c.SendClientResponse(&answer, version)

	success := c.Read(2 * time.Second)
	if t, err := protocol.ParseHeader(success); err != nil || t != protocol.TypeHandshakeSuccess {
		c.t.Fatalf("expected handshake success, got type %v err %v", t, err)
	}
	var serverPublic [constants.SessionKeySize]byte
	copy(serverPublic[:], success[protocol.BaseSize:])

	crypto.GenerateKeys(&c.priv, &serverPublic, &c.SharedKey, nil)
	return serverPublic
}

func (c *Client) write(data []byte) {
	c.t.Helper()
	if _, err := c.conn.Write(data); err != nil {
		c.t.Fatalf("sending datagram: %v", err)
	}
}
