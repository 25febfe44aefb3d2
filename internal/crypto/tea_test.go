package crypto

import (
	"bytes"
	"testing"

	"github.com/udisondev/halogo/internal/constants"
)

func testTEAKey() [constants.TEAKeySize]byte {
	var key [constants.TEAKeySize]byte
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestTEA_SingleBlockRoundTrip(t *testing.T) {
	key := testTEAKey()
	plain := []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77}
	data := bytes.Clone(plain)

	TEAEncrypt(data, &key)
	if bytes.Equal(data, plain) {
		t.Fatal("encrypt left the block unchanged")
	}
	TEADecrypt(data, &key)
	if !bytes.Equal(data, plain) {
		t.Fatalf("round trip failed: got %x, want %x", data, plain)
	}
}

func TestTEA_RoundTripLengths(t *testing.T) {
	key := testTEAKey()
	for _, size := range []int{8, 13, 16, 24, 31, 32, 100, 1023} {
		plain := make([]byte, size)
		for i := range plain {
			plain[i] = byte(i * 7)
		}
		data := bytes.Clone(plain)

		TEAEncrypt(data, &key)
		TEADecrypt(data, &key)
		if !bytes.Equal(data, plain) {
			t.Errorf("size %d: round trip failed", size)
		}
	}
}

// Буфер короче блока шифр не трогает — как в оригинале.
func TestTEA_ShortBufferUntouched(t *testing.T) {
	key := testTEAKey()
	plain := []byte{1, 2, 3, 4, 5}
	data := bytes.Clone(plain)
	TEAEncrypt(data, &key)
	if !bytes.Equal(data, plain) {
		t.Errorf("buffer shorter than a block must not be modified: %x", data)
	}
}

// Хвостовой блок перекрывает уже зашифрованные байты, но первые len-8 байт
// (префикс до начала хвоста) совпадают с шифрованием буфера, обрезанного
// до целых блоков.
func TestTEA_TailOverlapTouchesOnlyTail(t *testing.T) {
	key := testTEAKey()
	full := make([]byte, 13)
	for i := range full {
		full[i] = byte(i)
	}
	whole := bytes.Clone(full[:8])

	TEAEncrypt(full, &key)
	TEAEncrypt(whole, &key)

	// Байты до начала хвостового блока (offset 5) совпадают с шифрованием
	// целого блока
	if !bytes.Equal(full[:5], whole[:5]) {
		t.Errorf("prefix before tail overlap differs: %x vs %x", full[:5], whole[:5])
	}
}

func TestTEA_DifferentKeysDiverge(t *testing.T) {
	key1 := testTEAKey()
	key2 := testTEAKey()
	key2[0] ^= 0xFF

	a := []byte{0, 1, 2, 3, 4, 5, 6, 7}
	b := bytes.Clone(a)
	TEAEncrypt(a, &key1)
	TEAEncrypt(b, &key2)
	if bytes.Equal(a, b) {
		t.Error("different keys produced identical ciphertext")
	}
}
