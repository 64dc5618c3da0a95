package config

import "time"

type Limits struct {
	MaxRetries  int             `yaml:"max_retries" validate:"required,min=1,max=10"`
	StepTimeout time.Duration   `yaml:"step_timeout" validate:"required,min=1s,max=6h"`
	RateLimit   RateLimitConfig `yaml:"rate_limit" validate:"required"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" validate:"required,min=1,max=1000"`
	BurstSize         int `yaml:"burst_size" validate:"required,min=1,max=100"`
}

func DefaultLimits() Limits {
	return Limits{
		MaxRetries:  3,
		StepTimeout: 15 * time.Minute,
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 30,
			BurstSize:         15,
		},
	}
}
