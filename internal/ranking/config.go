package ranking

import "time"

// Config holds the ranking engine settings.
type Config struct {
	// MaxResults caps ranked records and explanations.
	MaxResults int
	// Timeout bounds a single model call; 0 leaves only the caller's deadline.
	Timeout time.Duration
	// MaxLogLength truncates prompt and response previews in debug logs.
	MaxLogLength int
}

// DefaultConfig returns the default ranking configuration.
func DefaultConfig() Config {
	return Config{
		MaxResults:   10,
		Timeout:      30 * time.Second,
		MaxLogLength: 500,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()

	if c.MaxResults <= 0 {
		c.MaxResults = defaults.MaxResults
	}
	if c.Timeout < 0 {
		c.Timeout = 0
	}
	if c.MaxLogLength <= 0 {
		c.MaxLogLength = defaults.MaxLogLength
	}
}
