package crypto

import (
	"math/big"
	"testing"

	"github.com/udisondev/halogo/internal/constants"
)

// modExpRef is the reference ladder result computed with math/big.
func modExpRef(t *testing.T, baseHex, expHex string) *big.Int {
	t.Helper()
	base, ok := new(big.Int).SetString(baseHex, 16)
	if !ok {
		t.Fatalf("bad base hex %q", baseHex)
	}
	exp, ok := new(big.Int).SetString(expHex, 16)
	if !ok {
		t.Fatalf("bad exponent hex %q", expHex)
	}
	mod := big.NewInt(0x10001)
	return new(big.Int).Exp(base, exp, mod)
}

func keyToInt(key *[constants.SessionKeySize]byte) *big.Int {
	return new(big.Int).SetBytes(key[:])
}

func TestGenerateKeys_PublicKeyMatchesModExp(t *testing.T) {
	rng := NewLCG(0xBEEF)
	var priv PrivateKey
	var public [constants.SessionKeySize]byte
	GenerateKeys(&priv, nil, &public, rng)

	want := modExpRef(t, "3", string(priv[:]))
	if got := keyToInt(&public); got.Cmp(want) != 0 {
		t.Errorf("public = %s, expected 3^%s mod 0x10001 = %s", got, priv[:], want)
	}
}

func TestGenerateKeys_FillsPrivateKeyWithHexDigits(t *testing.T) {
	rng := NewLCG(12345)
	var priv PrivateKey
	var public [constants.SessionKeySize]byte
	GenerateKeys(&priv, nil, &public, rng)

	for i, c := range priv {
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'F') {
			t.Errorf("priv[%d] = %q, not an uppercase hex digit", i, c)
		}
	}
}

// Обе стороны лестницы сходятся к общему ключу — это настоящий DH по
// модулю 0x10001.
func TestGenerateKeys_SharedKeyAgreement(t *testing.T) {
	serverRNG := NewLCG(100)
	clientRNG := NewLCG(200)

	var serverPriv, clientPriv PrivateKey
	var serverPub, clientPub [constants.SessionKeySize]byte
	GenerateKeys(&serverPriv, nil, &serverPub, serverRNG)
	GenerateKeys(&clientPriv, nil, &clientPub, clientRNG)

	var serverShared, clientShared [constants.SessionKeySize]byte
	GenerateKeys(&serverPriv, &clientPub, &serverShared, nil)
	GenerateKeys(&clientPriv, &serverPub, &clientShared, nil)

	if serverShared != clientShared {
		t.Errorf("shared keys diverge: %x vs %x", serverShared, clientShared)
	}
}

func TestGenerateKeys_SharedKeyMatchesModExp(t *testing.T) {
	rng := NewLCG(0xA11CE)
	var priv PrivateKey
	var public, shared [constants.SessionKeySize]byte
	GenerateKeys(&priv, nil, &public, rng)

	var peerPub [constants.SessionKeySize]byte
	peerPub[14] = 0x01
	peerPub[15] = 0x23
	GenerateKeys(&priv, &peerPub, &shared, nil)

	want := modExpRef(t, "123", string(priv[:]))
	if got := keyToInt(&shared); got.Cmp(want) != 0 {
		t.Errorf("shared = %s, expected %s", got, want)
	}
}

// Повторный вызов с теми же аргументами детерминирован — исторический код
// звал лестницу дважды для dec и enc и получал одинаковые ключи.
func TestGenerateKeys_RepeatCallIsDeterministic(t *testing.T) {
	rng := NewLCG(77)
	var priv PrivateKey
	var public [constants.SessionKeySize]byte
	GenerateKeys(&priv, nil, &public, rng)

	var peerPub [constants.SessionKeySize]byte
	copy(peerPub[:], public[:])

	var dec, enc [constants.SessionKeySize]byte
	GenerateKeys(&priv, &peerPub, &dec, nil)
	GenerateKeys(&priv, &peerPub, &enc, nil)
	if dec != enc {
		t.Errorf("dec %x != enc %x", dec, enc)
	}
}

func TestNewPrivateKey_DrawsFromLCG(t *testing.T) {
	a := NewPrivateKey(NewLCG(5))
	b := NewPrivateKey(NewLCG(5))
	if a != b {
		t.Error("same seed must yield the same private key")
	}
	c := NewPrivateKey(NewLCG(6))
	if a == c {
		t.Error("different seeds must yield different private keys")
	}
}
