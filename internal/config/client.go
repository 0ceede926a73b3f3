package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ClientConfig is the complete configuration for cmd/socks5-client.
type ClientConfig struct {
	ListenAddress   string        `toml:"listenAddress"`
	UpstreamAddress string        `toml:"upstreamAddress"`
	Account         *Account      `toml:"account"` // nil means no credentials offered
	Timeout         timeoutConfig `toml:"timeout"`
}

// LoadClientConfig reads and validates a ClientConfig from a TOML file.
func LoadClientConfig(path string) (*ClientConfig, error) {
	var cfg ClientConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *ClientConfig) validate() error {
	var missing []string
	if len(c.ListenAddress) < 1 {
		missing = append(missing, "listenAddress")
	}
	if len(c.UpstreamAddress) < 1 {
		missing = append(missing, "upstreamAddress")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing fields: %s", strings.Join(missing, ", "))
	}
	if c.Account != nil && (len(c.Account.Username) < 1 || len(c.Account.Password) < 1) {
		return fmt.Errorf("config: account must set both username and password, or be omitted entirely")
	}
	return nil
}

func (c *ClientConfig) applyDefaults() {
	if c.Timeout.DialTimeoutSeconds == 0 {
		c.Timeout.DialTimeoutSeconds = defaultDialTimeoutSeconds
	}
	if c.Timeout.HandshakeTimeoutSeconds == 0 {
		c.Timeout.HandshakeTimeoutSeconds = defaultHandshakeTimeoutSeconds
	}
}

// DialTimeout returns the configured dial timeout.
func (c *ClientConfig) DialTimeout() time.Duration { return c.Timeout.dialTimeout() }

// HandshakeTimeout returns the configured handshake timeout.
func (c *ClientConfig) HandshakeTimeout() time.Duration { return c.Timeout.handshakeTimeout() }
