package crypto

import (
	"testing"

	"github.com/udisondev/halogo/internal/constants"
)

// haloChallenge is the retail client challenge from the Halo packet captures.
var haloChallenge = [constants.ChallengeSize]byte([]byte(")nTu4y&t,Cr{P5j{6k<]^E@-ToF#Kg>m"))

func TestChallengeResponse_Printable(t *testing.T) {
	resp := ChallengeResponse(&haloChallenge, "", NewLCG(0))
	for i, b := range resp {
		if b < 33 || b > 125 {
			t.Errorf("resp[%d] = %d, outside printable range [33, 125]", i, b)
		}
	}
}

func TestChallengeResponse_Deterministic(t *testing.T) {
	a := ChallengeResponse(&haloChallenge, "", NewLCG(0))
	b := ChallengeResponse(&haloChallenge, "", NewLCG(0))
	if a != b {
		t.Error("same challenge, key and seed must produce identical responses")
	}
}

// Смена seed трогает только байты 0 и 13 — остальное детерминировано
// вызовом и ключом.
func TestChallengeResponse_SeedAffectsOnlyRNGBytes(t *testing.T) {
	a := ChallengeResponse(&haloChallenge, "", NewLCG(0))
	b := ChallengeResponse(&haloChallenge, "", NewLCG(1))
	for i := range a {
		if i == 0 || i == 13 {
			continue
		}
		if a[i] != b[i] {
			t.Errorf("resp[%d] depends on seed: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestChallengeResponse_BrokenChallengeDegradesToRNG(t *testing.T) {
	// Нарушенный bit pattern: oz падает в 0, ответ — чистый RNG
	var broken [constants.ChallengeSize]byte
	for i := range broken {
		broken[i] = 'A' // 0x41: нечётный байт, integrity walk обрывается сразу
	}

	resp := ChallengeResponse(&broken, "", NewLCG(7))
	rng := NewLCG(7)
	for i, b := range resp {
		if want := rng.NextPrintable(); b != want {
			t.Fatalf("resp[%d] = %d, expected pure RNG byte %d", i, b, want)
		}
	}
}

func TestChallengeResponse_CustomKeyChangesOutput(t *testing.T) {
	a := ChallengeResponse(&haloChallenge, "", NewLCG(0))
	b := ChallengeResponse(&haloChallenge, "0AB3F935936211D19A2B080000300512", NewLCG(0))
	if a == b {
		t.Error("different SDK keys must produce different responses")
	}
}

func TestChallengeResponse_DefaultKeyLiteral(t *testing.T) {
	a := ChallengeResponse(&haloChallenge, "", NewLCG(42))
	b := ChallengeResponse(&haloChallenge, constants.DefaultGSSDKKey, NewLCG(42))
	if a != b {
		t.Error("empty key must select the default SDK key")
	}
}
