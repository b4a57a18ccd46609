package common

import (
	"github.com/ulule/limiter"
)

// RateLimitRule is the rate limit for HTTP endpoints; the default rate can
// be overridden for specific ip addresses.
type RateLimitRule struct {
	Default     limiter.Rate
	ByIPAddress map[string]limiter.Rate
}

func NewRateLimitRule(rate limiter.Rate) RateLimitRule {
	return RateLimitRule{
		Default:     rate,
		ByIPAddress: map[string]limiter.Rate{},
	}
}
