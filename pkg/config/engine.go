package config

import "time"

// Engine holds the tunables of the flag resolution engine.
type Engine struct {
	// DocumentCacheTTL bounds how stale a cached environment document may be.
	DocumentCacheTTL time.Duration `env:"DOCUMENT_CACHE_TTL" envDefault:"60s"`

	// DocumentCacheSize caps the number of environment documents held in
	// the in-process cache.
	DocumentCacheSize int `env:"DOCUMENT_CACHE_SIZE" envDefault:"256"`

	// MaxRuleDepth bounds segment rule tree recursion.
	MaxRuleDepth int `env:"SEGMENT_MAX_RULE_DEPTH" envDefault:"32"`

	// EventBufferSize is the per-subscriber event channel capacity.
	EventBufferSize int `env:"EVENT_BUFFER_SIZE" envDefault:"64"`
}

// Webhook holds webhook delivery settings.
type Webhook struct {
	Timeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"10s"`
	Attempts   int           `env:"WEBHOOK_ATTEMPTS" envDefault:"3"`
	RetryDelay time.Duration `env:"WEBHOOK_RETRY_DELAY" envDefault:"1s"`
}
