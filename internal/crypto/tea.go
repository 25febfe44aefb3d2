package crypto

import (
	"encoding/binary"

	"github.com/udisondev/halogo/internal/constants"
)

// TEA packet cipher: 32 rounds over a 64-bit block, key interpreted as four
// little-endian uint32 words. Buffers that are not a multiple of 8 get one
// extra overlapping block at len-8, a legacy quirk the retail client
// depends on, not a padding scheme (encrypt runs the tail last so it
// re-encrypts the overlap in place, decrypt undoes the tail first).
//
// golang.org/x/crypto/tea is not usable here: it is big-endian and has no
// overlapping-tail mode, so the rounds are spelled out.

const teaDelta = 0x9E3779B9

// teaSumInit is the decrypt starting sum: 32 * teaDelta mod 2^32.
const teaSumInit = 0xC6EF3720

type teaKey [4]uint32

func loadTEAKey(key *[constants.TEAKeySize]byte) teaKey {
	return teaKey{
		binary.LittleEndian.Uint32(key[0:]),
		binary.LittleEndian.Uint32(key[4:]),
		binary.LittleEndian.Uint32(key[8:]),
		binary.LittleEndian.Uint32(key[12:]),
	}
}

func teaEncryptBlock(p []byte, k *teaKey) {
	y := binary.LittleEndian.Uint32(p[0:])
	z := binary.LittleEndian.Uint32(p[4:])
	sum := uint32(0)
	for range 32 {
		sum += teaDelta
		y += ((z << 4) + k[0]) ^ (z + sum) ^ ((z >> 5) + k[1])
		z += ((y << 4) + k[2]) ^ (y + sum) ^ ((y >> 5) + k[3])
	}
	binary.LittleEndian.PutUint32(p[0:], y)
	binary.LittleEndian.PutUint32(p[4:], z)
}

func teaDecryptBlock(p []byte, k *teaKey) {
	y := binary.LittleEndian.Uint32(p[0:])
	z := binary.LittleEndian.Uint32(p[4:])
	sum := uint32(teaSumInit)
	for range 32 {
		z -= ((y << 4) + k[2]) ^ (y + sum) ^ ((y >> 5) + k[3])
		y -= ((z << 4) + k[0]) ^ (z + sum) ^ ((z >> 5) + k[1])
		sum -= teaDelta
	}
	binary.LittleEndian.PutUint32(p[0:], y)
	binary.LittleEndian.PutUint32(p[4:], z)
}

// TEAEncrypt encrypts data in place. Buffers shorter than 8 bytes are left
// untouched, matching the original.
func TEAEncrypt(data []byte, key *[constants.TEAKeySize]byte) {
	k := loadTEAKey(key)
	n := len(data) / constants.TEABlockSize
	for i := range n {
		teaEncryptBlock(data[i*constants.TEABlockSize:], &k)
	}
	if len(data)%constants.TEABlockSize != 0 && len(data) >= constants.TEABlockSize {
		teaEncryptBlock(data[len(data)-constants.TEABlockSize:], &k)
	}
}

// TEADecrypt decrypts data in place, undoing the overlapping tail block
// before the whole blocks.
func TEADecrypt(data []byte, key *[constants.TEAKeySize]byte) {
	k := loadTEAKey(key)
	if len(data)%constants.TEABlockSize != 0 && len(data) >= constants.TEABlockSize {
		teaDecryptBlock(data[len(data)-constants.TEABlockSize:], &k)
	}
	n := len(data) / constants.TEABlockSize
	for i := range n {
		teaDecryptBlock(data[i*constants.TEABlockSize:], &k)
	}
}
