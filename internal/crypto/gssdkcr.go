package crypto

import "github.com/udisondev/halogo/internal/constants"

// ChallengeResponse computes the Gamespy SDK response to a 32-byte ASCII
// challenge. key is the product key string (empty selects the Halo default)
// and rng supplies the filler bytes for positions 0 and 13.
//
// The challenge first passes an integrity walk over its bit pattern; if the
// walk fails, the whole response degrades to RNG output and the peer rejects
// it. Otherwise every byte except 0 and 13 is a deterministic function of
// the challenge and key, which is what lets the peer validate the response.
func ChallengeResponse(challenge *[constants.ChallengeSize]byte, key string, rng *LCG) [constants.ChallengeSize]byte {
	if key == "" {
		key = constants.DefaultGSSDKKey
	}
	keysz := uint32(len(key))
	src := challenge
	oz := ChallengeIntact(challenge)

	var old, tmp uint32
	var dst [constants.ChallengeSize]byte
	for i := uint32(0); i < constants.ChallengeSize; i++ {
		if !oz || i == 0 || i == 13 {
			dst[i] = rng.NextPrintable()
			continue
		}
		if i == 1 || i == 14 {
			old = uint32(src[i])
		} else {
			old = uint32(src[i-1])
		}
		tmp = old * i * 17991
		old = uint32(src[(uint32(key[(uint32(src[i])+i)%keysz])+uint32(src[i])*i)&31])
		dst[i] = byte((old^uint32(key[tmp%keysz]))%93 + 33)
	}
	return dst
}

// ChallengeIntact runs the integrity walk over a challenge's bit pattern.
// Responses to an intact challenge are deterministic outside bytes 0 and 13,
// which is the property the verification path relies on.
func ChallengeIntact(challenge *[constants.ChallengeSize]byte) bool {
	src := challenge
	old := uint32(src[0])
	tmp := uint32(0)
	if old < 0x4F {
		tmp = 1
	}
	count := uint32(0)
	for i := uint32(1); i < constants.ChallengeSize; i++ {
		var less uint32
		if uint32(src[i-1]) < old {
			less = 1
		}
		count ^= less ^ ((old ^ i) & 1) ^ uint32(src[i-1]&1) ^ tmp
		if count != 0 {
			if src[i]&1 == 0 {
				return false
			}
		} else {
			if src[i]&1 == 1 {
				return false
			}
		}
	}
	return true
}
