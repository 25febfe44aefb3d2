package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/halogo/internal/constants"
)

// Server holds all configuration for the game server endpoint.
type Server struct {
	// Network
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	// Sessions
	MaxClients int `yaml:"max_clients"`

	// Loop
	TickRate int `yaml:"tick_rate"`

	// Protocol
	ClientVersion uint32 `yaml:"client_version"`
	GSSDKKey      string `yaml:"gssdk_key"`

	// VerifyChallengeResponse enables checking the client's answer to the
	// server challenge. The retail server skips this check; turn it off for
	// bug-compatibility.
	VerifyChallengeResponse bool `yaml:"verify_challenge_response"`

	// MaxPendingHandshakes bounds the table of outstanding server
	// challenges kept for verification; oldest entries are evicted.
	MaxPendingHandshakes int `yaml:"max_pending_handshakes"`
}

// DefaultServer returns Server config with sensible defaults.
func DefaultServer() Server {
	return Server{
		BindAddress:             "localhost",
		Port:                    constants.DefaultPort,
		MaxClients:              constants.MaxClients,
		TickRate:                constants.TickRate,
		ClientVersion:           constants.ClientVersion,
		GSSDKKey:                constants.DefaultGSSDKKey,
		VerifyChallengeResponse: true,
		MaxPendingHandshakes:    32,
	}
}

// LoadServer loads server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
