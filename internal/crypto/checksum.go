package crypto

import "hash/crc32"

// Checksum computes the packet trailer CRC32: reflected IEEE polynomial,
// initial register 0xFFFFFFFF, no final XOR. The application appends the
// register as-is after the payload, so Checksum(nil) == 0xFFFFFFFF.
//
// hash/crc32 uses the same table; only the finalization differs, hence the
// XOR to strip the stdlib's final complement.
func Checksum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data) ^ 0xFFFFFFFF
}
