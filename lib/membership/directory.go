package membership

import (
	"time"

	"agora.network/agora/lib/common"
)

// Directory is the membership snapshot capability the governance engine
// consumes: a voter's weight and the group's total weight as of a reference
// point in time.
//
// The engine never caches these values beyond the weight stored immutably
// on a cast ballot; every vote and every threshold evaluation reads the
// directory again. A member added after a proposal opens can vote on it
// immediately, and a weight change moves the total-weight denominator of
// every pending evaluation.
type Directory interface {
	// WeightOf returns the voter's weight, 0 if not a member.
	WeightOf(address string, at time.Time) (common.Weight, error)

	// TotalWeight returns the sum of all members' weights.
	TotalWeight(at time.Time) (common.Weight, error)
}
