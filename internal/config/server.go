package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ServerConfig is the complete configuration for cmd/socks5-server.
type ServerConfig struct {
	ListenAddress  string        `toml:"listenAddress"`
	MetricsAddress string        `toml:"metricsAddress"` // empty disables the metrics listener
	Accounts       []Account     `toml:"accounts"`       // empty means NO_AUTHENTICATION only
	Timeout        timeoutConfig `toml:"timeout"`
}

// LoadServerConfig reads and validates a ServerConfig from a TOML file.
func LoadServerConfig(path string) (*ServerConfig, error) {
	var cfg ServerConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *ServerConfig) validate() error {
	var missing []string
	if len(c.ListenAddress) < 1 {
		missing = append(missing, "listenAddress")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing fields: %s", strings.Join(missing, ", "))
	}
	for i, acc := range c.Accounts {
		if len(acc.Username) < 1 {
			return fmt.Errorf("config: accounts[%d] has an empty username", i)
		}
		if len(acc.Password) < 1 {
			return fmt.Errorf("config: accounts[%d] has an empty password", i)
		}
	}
	return nil
}

func (c *ServerConfig) applyDefaults() {
	if c.Timeout.DialTimeoutSeconds == 0 {
		c.Timeout.DialTimeoutSeconds = defaultDialTimeoutSeconds
	}
	if c.Timeout.HandshakeTimeoutSeconds == 0 {
		c.Timeout.HandshakeTimeoutSeconds = defaultHandshakeTimeoutSeconds
	}
}

// DialTimeout returns the configured dial timeout as a time.Duration.
func (c *ServerConfig) DialTimeout() time.Duration { return c.Timeout.dialTimeout() }

// HandshakeTimeout returns the configured handshake timeout.
func (c *ServerConfig) HandshakeTimeout() time.Duration { return c.Timeout.handshakeTimeout() }
