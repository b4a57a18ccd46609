package common

import (
	"time"

	"github.com/ulule/limiter"
)

const (
	// DefaultVotingPeriod is applied when a proposal comes without an
	// explicit expiration.
	DefaultVotingPeriod time.Duration = time.Hour * 24 * 7

	HTTPCacheMemoryAdapterName = "mem"
	HTTPCacheRedisAdapterName  = "redis"
	HTTPCachePoolSize          = 10000
)

var (
	// DefaultVetoFraction is the participating-weight share above which a
	// veto blocks passage, unless the policy overrides it.
	DefaultVetoFraction = NewFraction(1, 3)

	RateLimitAPI limiter.Rate = limiter.Rate{
		Period: time.Minute,
		Limit:  100,
	}
)
