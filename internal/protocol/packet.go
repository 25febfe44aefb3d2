package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Wire layout. Every datagram starts with the 3-byte GSSDK header; the
// handshake and encrypted frames continue with two big-endian packet
// counters. version and reason fields are little-endian. Offsets are
// explicit; no struct packing tricks survive a port.
//
//	[0]   0xFE
//	[1]   0xFE
//	[2]   type
//	[3:5] server packet count (BE)
//	[5:7] client packet count (BE)
//	[7:]  payload

// MagicByte is both bytes of the GSSDK header. The original compared the
// pair as a uint16 0xFEFE; both bytes are equal, so the comparison stays
// byte-wise here to keep endianness out of the picture.
const MagicByte = 0xFE

// Sizes and offsets of the fixed packet regions.
const (
	HeaderSize = 3
	BaseSize   = HeaderSize + 4

	serverCountOffset = 3
	clientCountOffset = 5

	// EncryptedLenSize is the 2-byte region holding the 11-bit data length
	// plus one padding bit.
	EncryptedLenSize = 2

	// TrailerSize is the CRC32 trailer of encrypted frames.
	TrailerSize = 4
)

// PacketType is the third header byte.
type PacketType byte

const (
	TypeEncrypted               PacketType = 0x00
	TypeClientChallenge         PacketType = 0x01
	TypeServerChallengeResponse PacketType = 0x02
	TypeClientResponse          PacketType = 0x03
	TypeHandshakeSuccess        PacketType = 0x04
	TypeHandshakeFailed         PacketType = 0x05
	TypeConnectionEstablished   PacketType = 0x07
	TypeDisconnection           PacketType = 0x68
)

// RefuseReason is the little-endian uint32 carried by TypeHandshakeFailed.
type RefuseReason uint32

const (
	RefuseIncompatibleProtocol RefuseReason = 3
	RefuseOlderClientVersion   RefuseReason = 4
	RefuseNewerClientVersion   RefuseReason = 5
	RefuseServerFull           RefuseReason = 6
)

// String returns the console wording for a refusal reason.
func (r RefuseReason) String() string {
	switch r {
	case RefuseIncompatibleProtocol:
		return "incompatible network protocol version"
	case RefuseOlderClientVersion:
		return "client version is older than server version"
	case RefuseNewerClientVersion:
		return "server version is older than client version"
	case RefuseServerFull:
		return "server is full"
	default:
		return ""
	}
}

// Structural errors. All of them mean "drop the datagram".
var (
	ErrTooShort   = errors.New("datagram too short")
	ErrBadMagic   = errors.New("bad gssdk header")
	ErrBadLength  = errors.New("length field inconsistent with datagram")
	ErrBadTrailer = errors.New("trailer checksum mismatch")
)

// ParseHeader validates the GSSDK header and returns the packet type.
func ParseHeader(data []byte) (PacketType, error) {
	if len(data) < HeaderSize {
		return 0, fmt.Errorf("%w: %d bytes", ErrTooShort, len(data))
	}
	if data[0] != MagicByte || data[1] != MagicByte {
		return 0, fmt.Errorf("%w: % X", ErrBadMagic, data[:2])
	}
	return PacketType(data[2]), nil
}

// WriteHeader writes the 3-byte header.
func WriteHeader(buf []byte, t PacketType) int {
	buf[0] = MagicByte
	buf[1] = MagicByte
	buf[2] = byte(t)
	return HeaderSize
}

// WriteBase writes the header plus both packet counters and returns BaseSize.
func WriteBase(buf []byte, t PacketType, serverCount, clientCount uint16) int {
	WriteHeader(buf, t)
	binary.BigEndian.PutUint16(buf[serverCountOffset:], serverCount)
	binary.BigEndian.PutUint16(buf[clientCountOffset:], clientCount)
	return BaseSize
}

// Counts extracts the packet counters from a base-carrying datagram.
func Counts(data []byte) (serverCount, clientCount uint16, err error) {
	if len(data) < BaseSize {
		return 0, 0, fmt.Errorf("%w: %d bytes", ErrTooShort, len(data))
	}
	return binary.BigEndian.Uint16(data[serverCountOffset:]),
		binary.BigEndian.Uint16(data[clientCountOffset:]), nil
}

// PutEncryptedLen stores the 11-bit data length (low bits, little-endian;
// bit 11 is padding, the top nibble unused).
func PutEncryptedLen(buf []byte, length int) {
	binary.LittleEndian.PutUint16(buf, uint16(length)&0x7FF)
}

// EncryptedLen extracts the 11-bit data length field.
func EncryptedLen(buf []byte) int {
	return int(binary.LittleEndian.Uint16(buf) & 0x7FF)
}
