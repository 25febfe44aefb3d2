package constants

// Gamespy SDK Protocol Constants
//
// This file contains protocol-level constants for the Halo PC (Gamespy SDK)
// network endpoint. The values are fixed by the retail client; changing any
// of them breaks interoperability.

// Client Version Constants
const (
	// ClientVersion is the targeted retail client version.
	// ClientResponse packets carrying a different value are refused.
	ClientVersion = 0x00096A27
)

// Challenge / Response Constants
const (
	// ChallengeSize is the length of a Gamespy challenge or response string.
	ChallengeSize = 32

	// DefaultGSSDKKey is the Gamespy SDK key string used by Halo for
	// challenge-response calculation. Other Gamespy titles substitute their
	// own CLSID-style string here.
	DefaultGSSDKKey = "3b8dd8995f7c40a9a5c5b7dd5b481341"
)

// Key Ladder Constants
const (
	// SessionKeySize is the size of public/enc/dec session keys in bytes (128-bit).
	SessionKeySize = 16

	// PrivateKeySize is the private key length: 16 ASCII hex digits.
	PrivateKeySize = 16

	// KeyLadderModulus is the fixed modulus of the key ladder (hex, 0x10001).
	KeyLadderModulus = "10001"

	// KeyLadderGenerator is the base used when creating our own public key (hex).
	KeyLadderGenerator = "3"
)

// TEA Cipher Constants
const (
	// TEAKeySize is the TEA key size in bytes (128-bit, four LE uint32 words).
	TEAKeySize = 16

	// TEABlockSize is the TEA block size in bytes (64-bit).
	TEABlockSize = 8
)

// Transport Constants
const (
	// DefaultPort is the UDP port Halo servers listen on.
	DefaultPort = 2302

	// MaxDatagramSize is the receive buffer size; larger datagrams are
	// truncated by the read path and dropped by structural parsing.
	MaxDatagramSize = 4 * 1024

	// MaxClients is the session table capacity.
	MaxClients = 16

	// TickRate is the number of server loop ticks per second.
	TickRate = 30
)
