package server

import (
	"log/slog"
	"net"

	"github.com/udisondev/halogo/internal/config"
	"github.com/udisondev/halogo/internal/constants"
	"github.com/udisondev/halogo/internal/crypto"
	"github.com/udisondev/halogo/internal/protocol"
	"github.com/udisondev/halogo/internal/server/clientpackets"
	"github.com/udisondev/halogo/internal/server/serverpackets"
)

// SendFunc transmits one datagram to an endpoint. Sends are best-effort:
// the handler logs failures and carries on.
type SendFunc func(addr *net.UDPAddr, data []byte) error

// PayloadFunc receives decrypted application payloads from established
// sessions. Gameplay semantics live behind this hook, outside the core.
type PayloadFunc func(client *Client, payload *protocol.Bitstream)

// Handler drives the per-datagram handshake state machine. One per server;
// called only from the tick goroutine.
type Handler struct {
	cfg      config.Server
	registry *Registry
	rng      *crypto.LCG
	pending  *pendingChallenges
	sendPool *BytePool
	send     SendFunc
	payload  PayloadFunc
}

// NewHandler creates a packet handler.
func NewHandler(cfg config.Server, registry *Registry, rng *crypto.LCG, send SendFunc) *Handler {
	return &Handler{
		cfg:      cfg,
		registry: registry,
		rng:      rng,
		pending:  newPendingChallenges(cfg.MaxPendingHandshakes),
		sendPool: NewBytePool(constants.MaxDatagramSize),
		send:     send,
	}
}

// SetPayloadFunc installs the application payload hook.
func (h *Handler) SetPayloadFunc(fn PayloadFunc) {
	h.payload = fn
}

// Handle dispatches one raw datagram. Structural failures drop silently
// (debug log only); protocol failures answer with a refusal.
func (h *Handler) Handle(addr *net.UDPAddr, data []byte) {
	t, err := protocol.ParseHeader(data)
	if err != nil {
		slog.Debug("dropping datagram", "remote", addr, "err", err)
		return
	}

	switch t {
	case protocol.TypeClientChallenge:
		h.handleClientChallenge(addr, data)
	case protocol.TypeClientResponse:
		h.handleClientResponse(addr, data)
	case protocol.TypeEncrypted:
		h.handleEncrypted(addr, data)
	case protocol.TypeDisconnection:
		h.handleDisconnection(addr)
	default:
		slog.Debug("dropping datagram of unexpected type", "remote", addr, "type", uint8(t))
	}
}

// handleClientChallenge answers type 0x01: resolve the client's challenge,
// issue our own. No session is created: the endpoint stays unauthenticated
// until its public key arrives.
func (h *Handler) handleClientChallenge(addr *net.UDPAddr, data []byte) {
	p, err := clientpackets.ParseClientChallenge(data)
	if err != nil {
		slog.Debug("dropping malformed client challenge", "remote", addr, "err", err)
		return
	}

	slog.Info("connection request, sending challenge", "remote", addr)

	clientResponse := crypto.ChallengeResponse(&p.Challenge, h.cfg.GSSDKKey, h.rng)
	serverChallenge := crypto.ChallengeResponse(&clientResponse, h.cfg.GSSDKKey, h.rng)

	if h.cfg.VerifyChallengeResponse {
		h.pending.put(addr, &serverChallenge, h.cfg.GSSDKKey)
	}

	buf := h.sendPool.Get(constants.MaxDatagramSize)
	defer h.sendPool.Put(buf)
	n := serverpackets.ChallengeResponse(buf, &clientResponse, &serverChallenge)
	if err := h.send(addr, buf[:n]); err != nil {
		slog.Error("failed to send challenge response", "remote", addr, "err", err)
	}
}

// handleClientResponse answers type 0x03: gate on version, challenge
// response and capacity, then derive the session keys.
func (h *Handler) handleClientResponse(addr *net.UDPAddr, data []byte) {
	p, err := clientpackets.ParseClientResponse(data)
	if err != nil {
		slog.Debug("dropping malformed client response", "remote", addr, "err", err)
		return
	}

	if p.Version != h.cfg.ClientVersion {
		reason := protocol.RefuseNewerClientVersion
		if p.Version < h.cfg.ClientVersion {
			reason = protocol.RefuseOlderClientVersion
		}
		h.refuse(addr, reason)
		return
	}

	if h.cfg.VerifyChallengeResponse && !h.pending.verify(addr, &p.ServerChallengeResponse) {
		h.refuse(addr, protocol.RefuseIncompatibleProtocol)
		return
	}

	if existing := h.registry.Find(addr); existing != nil {
		// Повторный handshake с того же endpoint — старая сессия умирает
		slog.Warn("handshake from endpoint with live session, replacing", "remote", addr)
		h.registry.Remove(addr)
	}

	if h.registry.Full() {
		h.refuse(addr, protocol.RefuseServerFull)
		return
	}

	slog.Info("connection accepted, generating keys", "remote", addr)

	client, err := h.registry.Insert(addr, &p.PublicKey, h.rng)
	if err != nil {
		h.refuse(addr, protocol.RefuseServerFull)
		return
	}

	buf := h.sendPool.Get(constants.MaxDatagramSize)
	defer h.sendPool.Put(buf)
	n := serverpackets.HandshakeSuccess(buf, client.PublicKey())
	h.sendToClient(client, buf[:n])
}

// handleEncrypted processes type 0x00 application frames from established
// sessions.
func (h *Handler) handleEncrypted(addr *net.UDPAddr, data []byte) {
	client := h.registry.Find(addr)
	if client == nil {
		slog.Debug("encrypted frame from unknown endpoint", "remote", addr)
		return
	}

	payload, err := clientpackets.DecryptPayload(data, client.DecKey())
	if err != nil {
		slog.Warn("dropping corrupt encrypted frame", "remote", addr, "err", err)
		return
	}

	client.packetCount++
	slog.Debug("application payload", "remote", addr, "bytes", len(payload))
	if h.payload != nil {
		h.payload(client, protocol.NewBitstream(payload))
	}
}

// handleDisconnection removes the session for type 0x68.
func (h *Handler) handleDisconnection(addr *net.UDPAddr) {
	if h.registry.Remove(addr) {
		slog.Info("client disconnected", "remote", addr)
		return
	}
	slog.Info("disconnection signal received from unknown client", "remote", addr)
}

// refuse sends a type 0x05 refusal and logs the reason.
func (h *Handler) refuse(addr *net.UDPAddr, reason protocol.RefuseReason) {
	buf := h.sendPool.Get(constants.MaxDatagramSize)
	defer h.sendPool.Put(buf)
	n := serverpackets.ConnectionRefused(buf, reason)
	if err := h.send(addr, buf[:n]); err != nil {
		slog.Error("failed to send refusal", "remote", addr, "err", err)
	}
	slog.Info("refused connection", "remote", addr, "reason", reason.String())
}

// sendToClient transmits to a registered session and advances its outbound
// counter.
func (h *Handler) sendToClient(c *Client, data []byte) {
	if err := h.send(c.addr, data); err != nil {
		slog.Error("failed to send to client", "remote", c.addr, "err", err)
		return
	}
	c.serverPacketCount++
}
