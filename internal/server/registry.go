package server

import (
	"errors"
	"net"

	"github.com/udisondev/halogo/internal/constants"
	"github.com/udisondev/halogo/internal/crypto"
)

// ErrRegistryFull is returned when the session table is at capacity.
var ErrRegistryFull = errors.New("registry full")

// Registry is the bounded session table, keyed by remote endpoint.
// Lookup is a linear scan; the table never exceeds its bound (MaxClients,
// 16, unless configured otherwise). It is
// touched only from the tick goroutine, so it carries no lock.
type Registry struct {
	clients []*Client
	max     int
}

// NewRegistry creates a table bounded at max sessions (MaxClients when
// max is not positive).
func NewRegistry(max int) *Registry {
	if max <= 0 {
		max = constants.MaxClients
	}
	return &Registry{max: max}
}

// Insert derives keys for and registers a new session.
func (r *Registry) Insert(addr *net.UDPAddr, clientPublicKey *[constants.SessionKeySize]byte, rng *crypto.LCG) (*Client, error) {
	if len(r.clients) >= r.max {
		return nil, ErrRegistryFull
	}
	c := NewClient(addr, clientPublicKey, rng)
	r.clients = append(r.clients, c)
	return c, nil
}

// Find returns the session for an endpoint, or nil.
func (r *Registry) Find(addr *net.UDPAddr) *Client {
	for _, c := range r.clients {
		if sameEndpoint(c.addr, addr) {
			return c
		}
	}
	return nil
}

// Remove drops the session for an endpoint. Returns false when no session
// matched.
func (r *Registry) Remove(addr *net.UDPAddr) bool {
	for i, c := range r.clients {
		if sameEndpoint(c.addr, addr) {
			c.state = StateClosed
			r.clients = append(r.clients[:i], r.clients[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of active sessions.
func (r *Registry) Len() int {
	return len(r.clients)
}

// Full reports whether the table is at capacity.
func (r *Registry) Full() bool {
	return len(r.clients) >= r.max
}

// Drain removes and returns every session, in insertion order. Used during
// teardown to broadcast disconnection.
func (r *Registry) Drain() []*Client {
	out := r.clients
	r.clients = nil
	for _, c := range out {
		c.state = StateClosed
	}
	return out
}
