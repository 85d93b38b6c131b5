package config

import (
	"fmt"
	"net"
	"time"

	"github.com/muurk/upnp-discover/internal/ssdp"
)

// CurrentVersion is the config file format version
const CurrentVersion = 1

// Config represents the entire configuration file
type Config struct {
	Version   int       `yaml:"version"`
	Discovery Discovery `yaml:"discovery"`
	Log       Log       `yaml:"log"`
}

// Discovery holds the search and socket settings
type Discovery struct {
	MulticastAddress string        `yaml:"multicast_address"`      // SSDP group and port
	ListenAddress    string        `yaml:"listen_address"`         // Local bind address for replies
	SearchTarget     string        `yaml:"search_target"`          // ST header value
	MX               int           `yaml:"mx"`                     // Max reply delay in seconds
	ReadTimeout      time.Duration `yaml:"read_timeout,omitempty"` // Per-receive timeout; 0 means MX seconds
	BufferSize       int           `yaml:"buffer_size"`            // Receive buffer in bytes
	MulticastTTL     int           `yaml:"multicast_ttl"`          // TTL of the search datagram
	Interface        string        `yaml:"interface,omitempty"`    // Outgoing multicast interface
	MaxBursts        int           `yaml:"max_bursts"`             // 0 repeats forever
	Deadline         time.Duration `yaml:"deadline,omitempty"`     // 0 means no overall deadline
}

// Log holds logging preferences
type Log struct {
	Level string `yaml:"level,omitempty"` // debug, info, warn, error; empty is silent
}

// Default returns a Config matching the SSDP protocol constants
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Discovery: Discovery{
			MulticastAddress: ssdp.MulticastAddress,
			ListenAddress:    ssdp.ListenAddress,
			SearchTarget:     ssdp.RootDeviceTarget,
			MX:               ssdp.DefaultMX,
			BufferSize:       ssdp.DefaultBufferSize,
			MulticastTTL:     ssdp.DefaultMulticastTTL,
		},
	}
}

// Validate checks the configuration for values the session cannot use
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, CurrentVersion)
	}

	d := c.Discovery
	if _, _, err := net.SplitHostPort(d.MulticastAddress); err != nil {
		return fmt.Errorf("invalid multicast_address %q: %w", d.MulticastAddress, err)
	}
	if _, _, err := net.SplitHostPort(d.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen_address %q: %w", d.ListenAddress, err)
	}
	if d.SearchTarget == "" {
		return fmt.Errorf("search_target must not be empty")
	}
	if d.MX < 1 || d.MX > 5 {
		return fmt.Errorf("mx must be between 1 and 5, got %d", d.MX)
	}
	if d.ReadTimeout < 0 {
		return fmt.Errorf("read_timeout must not be negative")
	}
	if d.BufferSize < 512 || d.BufferSize > 65507 {
		return fmt.Errorf("buffer_size must be between 512 and 65507, got %d", d.BufferSize)
	}
	if d.MulticastTTL < 1 || d.MulticastTTL > 255 {
		return fmt.Errorf("multicast_ttl must be between 1 and 255, got %d", d.MulticastTTL)
	}
	if d.MaxBursts < 0 {
		return fmt.Errorf("max_bursts must not be negative")
	}
	if d.Deadline < 0 {
		return fmt.Errorf("deadline must not be negative")
	}

	return nil
}

// SessionOptions converts the discovery settings to ssdp.Options
func (c *Config) SessionOptions() ssdp.Options {
	d := c.Discovery
	return ssdp.Options{
		Target: ssdp.SearchTarget{
			Host: d.MulticastAddress,
			ST:   d.SearchTarget,
			MX:   d.MX,
		},
		ReadTimeout: d.receiveTimeout(),
		BufferSize:  d.BufferSize,
		MaxBursts:   d.MaxBursts,
		Deadline:    d.Deadline,
	}
}

// ListenOptions converts the socket settings to ssdp.ListenOptions
func (c *Config) ListenOptions() ssdp.ListenOptions {
	return ssdp.ListenOptions{
		Address:      c.Discovery.ListenAddress,
		MulticastTTL: c.Discovery.MulticastTTL,
		Interface:    c.Discovery.Interface,
		Loopback:     true,
	}
}

// receiveTimeout is ReadTimeout, or MX seconds when unset
func (d Discovery) receiveTimeout() time.Duration {
	if d.ReadTimeout > 0 {
		return d.ReadTimeout
	}
	return time.Duration(d.MX) * time.Second
}
