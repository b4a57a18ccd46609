package common

import (
	"time"
)

// Config carries the group-level governance settings. The threshold policy
// built from the `DefaultPolicy*` fields is captured on each proposal at
// creation time; changing these values later never affects open proposals.
type Config struct {
	VotingPeriod time.Duration

	// default threshold policy, applied when a proposal comes without an
	// explicit policy override
	DefaultPolicyType    string
	DefaultPolicyCount   uint64
	DefaultPolicyPercent Fraction
	DefaultPolicyQuorum  Fraction

	VetoFraction Fraction
	AllowRevote  bool

	// Those fields are not governance-related
	RateLimitRuleAPI RateLimitRule

	HTTPCacheAdapter    string
	HTTPCachePoolSize   int
	HTTPCacheRedisAddrs map[string]string
}

func NewConfig() Config {
	p := Config{}

	p.VotingPeriod = DefaultVotingPeriod

	p.DefaultPolicyType = "threshold-quorum"
	p.DefaultPolicyPercent = NewFraction(1, 2)
	p.DefaultPolicyQuorum = NewFraction(1, 3)

	p.VetoFraction = DefaultVetoFraction
	p.AllowRevote = false

	p.RateLimitRuleAPI = NewRateLimitRule(RateLimitAPI)

	p.HTTPCachePoolSize = HTTPCachePoolSize

	return p
}
