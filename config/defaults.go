package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultDBPort             = 5432
	DefaultDBSSLMode          = "prefer"
	DefaultMaxConns           = 10
	DefaultMinConns           = 2
	DefaultCacheTTL           = 15 * time.Minute
	DefaultRateLimitPerMinute = 60
	DefaultRateLimitBurst     = 10
)
