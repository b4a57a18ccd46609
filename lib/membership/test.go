// Provides utilities to use in test code
package membership

import (
	"time"

	"agora.network/agora/lib/common"
	"agora.network/agora/lib/common/keypair"
)

// FixedDirectory is a deterministic in-memory Directory for tests; the
// engine's logic stays pure by substituting it for a real group.
type FixedDirectory struct {
	Weights map[string]common.Weight
}

func NewFixedDirectory() *FixedDirectory {
	return &FixedDirectory{Weights: map[string]common.Weight{}}
}

func (d *FixedDirectory) Set(address string, weight common.Weight) *FixedDirectory {
	d.Weights[address] = weight
	return d
}

func (d *FixedDirectory) WeightOf(address string, _ time.Time) (common.Weight, error) {
	return d.Weights[address], nil
}

func (d *FixedDirectory) TotalWeight(_ time.Time) (common.Weight, error) {
	var total common.Weight
	for _, w := range d.Weights {
		total = total.MustAdd(w)
	}
	return total, nil
}

func TestMakeMember(weight common.Weight) Member {
	return NewMember(keypair.Random().Address(), weight)
}
