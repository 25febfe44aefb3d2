package server

import (
	"errors"
	"net"
	"testing"

	"github.com/udisondev/halogo/internal/constants"
	"github.com/udisondev/halogo/internal/crypto"
)

func testAddr(port int) *net.UDPAddr {
	return &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: port}
}

func testPublicKey() [constants.SessionKeySize]byte {
	var pub [constants.SessionKeySize]byte
	pub[15] = 0x03
	return pub
}

func TestRegistry_InsertFindRemove(t *testing.T) {
	r := NewRegistry(16)
	rng := crypto.NewLCG(1)
	pub := testPublicKey()

	c, err := r.Insert(testAddr(1000), &pub, rng)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if c.State() != StateEstablished {
		t.Errorf("state = %v, expected ESTABLISHED", c.State())
	}
	sc, cc := c.Counts()
	if sc != 1 || cc != 2 {
		t.Errorf("counters = {%d, %d}, expected out=1 in=2", sc, cc)
	}

	if got := r.Find(testAddr(1000)); got != c {
		t.Error("Find must return the inserted session")
	}
	if got := r.Find(testAddr(1001)); got != nil {
		t.Error("Find on a different port must miss")
	}

	if !r.Remove(testAddr(1000)) {
		t.Error("Remove must report success")
	}
	if r.Remove(testAddr(1000)) {
		t.Error("second Remove must report a miss")
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d after removal", r.Len())
	}
}

func TestRegistry_SamePortDifferentIP(t *testing.T) {
	r := NewRegistry(16)
	rng := crypto.NewLCG(2)
	pub := testPublicKey()

	a := &net.UDPAddr{IP: net.IPv4(10, 0, 0, 1), Port: 2302}
	b := &net.UDPAddr{IP: net.IPv4(10, 0, 0, 2), Port: 2302}
	if _, err := r.Insert(a, &pub, rng); err != nil {
		t.Fatal(err)
	}
	if r.Find(b) != nil {
		t.Error("different IP must not match")
	}
}

func TestRegistry_Full(t *testing.T) {
	r := NewRegistry(constants.MaxClients)
	rng := crypto.NewLCG(3)
	pub := testPublicKey()

	for i := range constants.MaxClients {
		if _, err := r.Insert(testAddr(2000+i), &pub, rng); err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
	}
	if !r.Full() {
		t.Error("registry must report full at 16 sessions")
	}

	_, err := r.Insert(testAddr(3000), &pub, rng)
	if !errors.Is(err, ErrRegistryFull) {
		t.Errorf("17th insert = %v, expected ErrRegistryFull", err)
	}
	if r.Len() != constants.MaxClients {
		t.Errorf("Len = %d, expected %d", r.Len(), constants.MaxClients)
	}
}

func TestRegistry_Drain(t *testing.T) {
	r := NewRegistry(16)
	rng := crypto.NewLCG(4)
	pub := testPublicKey()

	for i := range 3 {
		r.Insert(testAddr(4000+i), &pub, rng)
	}
	drained := r.Drain()
	if len(drained) != 3 {
		t.Fatalf("Drain returned %d sessions", len(drained))
	}
	for _, c := range drained {
		if c.State() != StateClosed {
			t.Errorf("drained session state = %v, expected CLOSED", c.State())
		}
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d after drain", r.Len())
	}
}

func TestClient_KeyDerivation(t *testing.T) {
	rng := crypto.NewLCG(0x1234)

	// Клиентская сторона лестницы
	var clientPriv crypto.PrivateKey
	var clientPub [constants.SessionKeySize]byte
	clientRNG := crypto.NewLCG(0x4321)
	crypto.GenerateKeys(&clientPriv, nil, &clientPub, clientRNG)

	c := NewClient(testAddr(5000), &clientPub, rng)

	if c.EncKey() == nil || *c.EncKey() != *c.DecKey() {
		t.Error("enc and dec keys must be identical")
	}

	// Обе стороны сходятся к общему ключу
	var clientShared [constants.SessionKeySize]byte
	crypto.GenerateKeys(&clientPriv, c.PublicKey(), &clientShared, nil)
	if clientShared != *c.DecKey() {
		t.Errorf("shared key mismatch: client %x, server %x", clientShared, *c.DecKey())
	}
}
