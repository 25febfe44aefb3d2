package clientpackets

import (
	"encoding/binary"
	"fmt"

	"github.com/udisondev/halogo/internal/constants"
	"github.com/udisondev/halogo/internal/crypto"
	"github.com/udisondev/halogo/internal/protocol"
)

// DecryptPayload decrypts a type 0x00 frame in place with the session key
// and returns the application payload (without length field and trailer).
//
// The 11-bit length counts everything after the 2-byte length field,
// trailer included, and must match the datagram exactly; the CRC32 trailer
// spans the length field and the payload.
func DecryptPayload(data []byte, key *[constants.TEAKeySize]byte) ([]byte, error) {
	headerLen := protocol.BaseSize + protocol.EncryptedLenSize
	if len(data) < headerLen+protocol.TrailerSize {
		return nil, fmt.Errorf("%w: encrypted frame %d bytes", protocol.ErrTooShort, len(data))
	}

	crypto.TEADecrypt(data[protocol.BaseSize:], key)

	dataLen := protocol.EncryptedLen(data[protocol.BaseSize:])
	if dataLen != len(data)-headerLen {
		return nil, fmt.Errorf("%w: field %d, datagram carries %d", protocol.ErrBadLength, dataLen, len(data)-headerLen)
	}

	trailerOff := len(data) - protocol.TrailerSize
	wantCRC := binary.LittleEndian.Uint32(data[trailerOff:])
	if got := crypto.Checksum(data[protocol.BaseSize:trailerOff]); got != wantCRC {
		return nil, fmt.Errorf("%w: got 0x%08X, want 0x%08X", protocol.ErrBadTrailer, got, wantCRC)
	}

	return data[headerLen:trailerOff], nil
}
