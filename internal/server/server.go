package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/udisondev/halogo/internal/config"
	"github.com/udisondev/halogo/internal/constants"
	"github.com/udisondev/halogo/internal/crypto"
	"github.com/udisondev/halogo/internal/server/serverpackets"
)

// maxPacketsPerTick bounds how much of the receive queue one tick may
// drain; the remainder carries over to the next tick.
const maxPacketsPerTick = 256

// datagram is one entry of the receive queue.
type datagram struct {
	addr *net.UDPAddr
	data []byte
}

// Server owns the UDP socket, the receive queue and the session registry.
// A reader goroutine feeds the queue; dispatch, registry and console hooks
// all run on the single tick goroutine, so the core needs no
// locking.
type Server struct {
	cfg      config.Server
	registry *Registry
	handler  *Handler

	recvCh   chan datagram
	recvPool *BytePool

	tickCount        uint64
	lastTickDuration time.Duration
	tickHooks        []func()

	stopOnce sync.Once
	stopCh   chan struct{}

	conn *net.UDPConn
	mu   sync.Mutex
}

// New creates a Server from config. The LCG seeding the private keys comes
// from the wall clock; tests inject their own via WithRNG.
func New(cfg config.Server, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		registry: NewRegistry(cfg.MaxClients),
		recvCh:   make(chan datagram, 1024),
		recvPool: NewBytePool(constants.MaxDatagramSize),
		stopCh:   make(chan struct{}),
	}

	rng := crypto.NewTimeSeededLCG()
	for _, opt := range opts {
		opt(s, &rng)
	}

	s.handler = NewHandler(cfg, s.registry, rng, s.sendTo)
	return s
}

// Option is a functional option for Server construction.
type Option func(*Server, **crypto.LCG)

// WithRNG substitutes the LCG used for challenges and key generation.
func WithRNG(rng *crypto.LCG) Option {
	return func(_ *Server, current **crypto.LCG) {
		*current = rng
	}
}

// Handler returns the packet handler (for installing the payload hook).
func (s *Server) Handler() *Handler {
	return s.handler
}

// AddTickHook registers a function run once per tick from the tick
// goroutine, after the queue drain. The console is polled this way.
func (s *Server) AddTickHook(fn func()) {
	s.tickHooks = append(s.tickHooks, fn)
}

// TickCount returns the number of completed ticks.
func (s *Server) TickCount() uint64 {
	return s.tickCount
}

// LastTickDuration returns how long the previous tick's work took.
func (s *Server) LastTickDuration() time.Duration {
	return s.lastTickDuration
}

// ClientCount returns the number of active sessions.
func (s *Server) ClientCount() int {
	return s.registry.Len()
}

// Stop requests a clean shutdown. Safe to call from any goroutine and more
// than once.
func (s *Server) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// Addr возвращает адрес, на котором слушает сервер.
// Возвращает nil если сервер ещё не запущен.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

// Run binds the socket and spins the tick loop until the context is
// cancelled or Stop is called. Bind failure is fatal and propagates.
func (s *Server) Run(ctx context.Context) error {
	bind := fmt.Sprintf("%s:%d", s.cfg.BindAddress, s.cfg.Port)
	udpAddr, err := net.ResolveUDPAddr("udp4", bind)
	if err != nil {
		return fmt.Errorf("resolving bind address %s: %w", bind, err)
	}
	conn, err := net.ListenUDP("udp4", udpAddr)
	if err != nil {
		return fmt.Errorf("binding UDP socket on %s: %w", bind, err)
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	slog.Info("server listening", "address", conn.LocalAddr())

	go s.readLoop(conn)

	tickRate := s.cfg.TickRate
	if tickRate <= 0 {
		tickRate = constants.TickRate
	}
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.shutdown(conn)
			return nil
		case <-s.stopCh:
			s.shutdown(conn)
			return nil
		case <-ticker.C:
			s.tick()
		}
	}
}

// readLoop drains the socket into the receive queue. It is the only other
// goroutine the server runs; it exits when the socket closes.
func (s *Server) readLoop(conn *net.UDPConn) {
	for {
		buf := s.recvPool.Get(constants.MaxDatagramSize)
		n, raddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			s.recvPool.Put(buf)
			if errors.Is(err, net.ErrClosed) {
				return
			}
			slog.Error("socket read failed", "err", err)
			continue
		}
		select {
		case s.recvCh <- datagram{addr: raddr, data: buf[:n]}:
		default:
			// Очередь переполнена — UDP, теряем датаграмму
			s.recvPool.Put(buf)
			slog.Warn("receive queue full, dropping datagram", "remote", raddr)
		}
	}
}

// tick drains the receive queue through the handler, runs the hooks and
// advances the tick accounting.
func (s *Server) tick() {
	start := time.Now()

drain:
	for range maxPacketsPerTick {
		select {
		case d := <-s.recvCh:
			s.handler.Handle(d.addr, d.data)
			s.recvPool.Put(d.data)
		default:
			break drain
		}
	}

	for _, hook := range s.tickHooks {
		hook()
	}

	s.tickCount++
	s.lastTickDuration = time.Since(start)
}

// shutdown broadcasts a disconnection to every session and closes the
// socket.
func (s *Server) shutdown(conn *net.UDPConn) {
	var buf [8]byte
	n := serverpackets.Disconnection(buf[:])
	for _, c := range s.registry.Drain() {
		if err := s.sendTo(c.addr, buf[:n]); err != nil {
			slog.Error("failed to send disconnection", "remote", c.addr, "err", err)
		}
	}
	if err := conn.Close(); err != nil {
		slog.Error("closing socket", "err", err)
	}
	slog.Info("server stopped", "ticks", s.tickCount)
}

// sendTo writes one datagram. Best-effort: errors are returned for logging
// but never affect server state.
func (s *Server) sendTo(addr *net.UDPAddr, data []byte) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return errors.New("socket not open")
	}
	if _, err := conn.WriteToUDP(data, addr); err != nil {
		return fmt.Errorf("sending %d bytes to %s: %w", len(data), addr, err)
	}
	slog.Debug("sent datagram", "remote", addr, "bytes", len(data))
	return nil
}
