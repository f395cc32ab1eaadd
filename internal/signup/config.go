package signup

import (
	"fmt"
	"time"
)

type Config struct {
	// EventTimeout bounds the fan-out of one roster event to all sinks.
	EventTimeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		EventTimeout: 3 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.EventTimeout <= 0 {
		return fmt.Errorf("event timeout must be positive")
	}
	return nil
}
