package crypto

import "github.com/udisondev/halogo/internal/constants"

// Key ladder: the Diffie-Hellman-like exchange Halo runs during the
// handshake. Both sides compute dest = base^private mod 0x10001 over
// BigInt128 values; the base is either the fixed generator 3 (own public
// key) or the peer's public key (shared key).

// PrivateKey is a session private key: 16 uppercase ASCII hex digits.
type PrivateKey [constants.PrivateKeySize]byte

// NewPrivateKey draws 16 hex digits from rng.
func NewPrivateKey(rng *LCG) PrivateKey {
	var pk PrivateKey
	for i := range pk {
		pk[i] = rng.NextHexDigit()
	}
	return pk
}

// keyScramble computes a = a*b mod modulus by classic double-and-add over
// 128 iterations. a and b may alias: both are copied before a is zeroed.
func keyScramble(a, b, modulus *BigInt128) {
	t1 := *a
	t2 := *b
	clear(a[:])

	for range 128 {
		if t1.IsOdd() {
			a.Add(&t2)
			a.FixCheck(modulus)
		}
		t1.Shr1()
		t2.Shl1()
		t2.FixCheck(modulus)
	}
}

// createKey computes dest = keystr^exp mod modulus by square-and-multiply.
// All three inputs are hex strings; dest receives the 16 raw bytes.
func createKey(keystr, exp, modulus string, dest *BigInt128) {
	var base, e, m BigInt128
	base.SetHex(keystr)
	e.SetHex(exp)
	m.SetHex(modulus)

	clear(dest[:])
	dest[15] = 0x01

	for range 128 {
		if e.IsOdd() {
			keyScramble(dest, &base, &m)
		}
		keyScramble(&base, &base, &m)
		e.Shr1()
	}
}

// GenerateKeys runs one rung of the ladder for a session.
//
// With sourceKey nil it generates our own side: privateKey is filled with
// fresh hex digits from rng and dest receives generator^private. With
// sourceKey set to the peer's raw 16-byte public key, dest receives the
// shared key peer^private; privateKey is left untouched.
func GenerateKeys(privateKey *PrivateKey, sourceKey *[constants.SessionKeySize]byte, dest *[constants.SessionKeySize]byte, rng *LCG) {
	base := constants.KeyLadderGenerator
	if sourceKey == nil {
		*privateKey = NewPrivateKey(rng)
	} else {
		b := BigInt128(*sourceKey)
		base = b.Hex()
	}
	out := (*BigInt128)(dest)
	createKey(base, string(privateKey[:]), constants.KeyLadderModulus, out)
}
