package serverpackets

import (
	"encoding/binary"

	"github.com/udisondev/halogo/internal/constants"
	"github.com/udisondev/halogo/internal/crypto"
	"github.com/udisondev/halogo/internal/protocol"
)

// Encrypted writes a type 0x00 frame around an application payload:
// 11-bit length (payload plus trailer), the payload, a CRC32 trailer over
// the length field and payload, then TEA encryption of everything after the
// packet counters. The length field counts the CRC (see DESIGN.md).
func Encrypted(buf []byte, payload []byte, serverCount, clientCount uint16, key *[constants.TEAKeySize]byte) int {
	n := protocol.WriteBase(buf, protocol.TypeEncrypted, serverCount, clientCount)
	protocol.PutEncryptedLen(buf[n:], len(payload)+protocol.TrailerSize)
	n += protocol.EncryptedLenSize

	n += copy(buf[n:], payload)

	crc := crypto.Checksum(buf[protocol.BaseSize:n])
	binary.LittleEndian.PutUint32(buf[n:], crc)
	n += protocol.TrailerSize

	crypto.TEAEncrypt(buf[protocol.BaseSize:n], key)
	return n
}
