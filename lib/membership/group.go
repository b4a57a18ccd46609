package membership

import (
	"time"

	"agora.network/agora/lib/common"
	"agora.network/agora/lib/storage"
)

// Group is the storage-backed Directory of a dynamic group. Reads are live:
// the `at` reference point is carried for audit symmetry with external
// directories, but the group always answers with its current state, which
// is exactly what makes in-flight tallies responsive to membership change.
type Group struct {
	st *storage.LevelDBBackend
}

func NewGroup(st *storage.LevelDBBackend) *Group {
	return &Group{st: st}
}

func (g *Group) WeightOf(address string, _ time.Time) (common.Weight, error) {
	exists, err := ExistsMember(g.st, address)
	if err != nil {
		return common.Weight(0), err
	}
	if !exists {
		return common.Weight(0), nil
	}

	m, err := GetMember(g.st, address)
	if err != nil {
		return common.Weight(0), err
	}

	return m.Weight, nil
}

func (g *Group) TotalWeight(_ time.Time) (common.Weight, error) {
	return GetTotalWeight(g.st)
}
