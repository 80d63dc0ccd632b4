package network

import (
	"time"
)

// Config holds telnet server configuration
type Config struct {
	// Address to bind, host:port
	Address string

	// Connection limits, zero means unlimited
	MaxSessions int

	// Timing
	// IdleTimeout ends a session that sends nothing for this long, zero disables
	IdleTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns production-safe defaults
func DefaultConfig() *Config {
	return &Config{
		Address:      ":2323",
		MaxSessions:  64,
		IdleTimeout:  300 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}
