package membership

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"agora.network/agora/lib/common"
	"agora.network/agora/lib/errors"
	"agora.network/agora/lib/storage"
)

func TestSaveNewMember(t *testing.T) {
	st, _ := storage.NewTestMemoryLevelDBBackend()
	defer st.Close()

	m := TestMakeMember(common.Weight(10))
	require.Nil(t, SaveMembers(st, m))

	exists, err := ExistsMember(st, m.Address)
	require.Nil(t, err)
	require.True(t, exists)

	fetched, err := GetMember(st, m.Address)
	require.Nil(t, err)
	require.Equal(t, m.Weight, fetched.Weight)

	total, err := GetTotalWeight(st)
	require.Nil(t, err)
	require.Equal(t, common.Weight(10), total)
}

func TestSaveMemberInvalidAddress(t *testing.T) {
	st, _ := storage.NewTestMemoryLevelDBBackend()
	defer st.Close()

	err := SaveMembers(st, NewMember("not-an-address", common.Weight(1)))
	require.True(t, errors.InvalidMember.Equal(err))
}

func TestTotalWeightFollowsUpdates(t *testing.T) {
	st, _ := storage.NewTestMemoryLevelDBBackend()
	defer st.Close()

	a := TestMakeMember(common.Weight(10))
	b := TestMakeMember(common.Weight(55))
	require.Nil(t, SaveMembers(st, a, b))

	total, _ := GetTotalWeight(st)
	require.Equal(t, common.Weight(65), total)

	// weight increase of an existing member
	a.Weight = common.Weight(45)
	require.Nil(t, SaveMembers(st, a))
	total, _ = GetTotalWeight(st)
	require.Equal(t, common.Weight(100), total)

	// zero weight removes the member
	b.Weight = common.Weight(0)
	require.Nil(t, SaveMembers(st, b))
	total, _ = GetTotalWeight(st)
	require.Equal(t, common.Weight(45), total)

	exists, _ := ExistsMember(st, b.Address)
	require.False(t, exists)
}

func TestGroupDirectory(t *testing.T) {
	st, _ := storage.NewTestMemoryLevelDBBackend()
	defer st.Close()

	m := TestMakeMember(common.Weight(30))
	require.Nil(t, SaveMembers(st, m))

	g := NewGroup(st)

	w, err := g.WeightOf(m.Address, time.Now())
	require.Nil(t, err)
	require.Equal(t, common.Weight(30), w)

	// non-member weighs zero, not an error
	w, err = g.WeightOf(TestMakeMember(1).Address, time.Now())
	require.Nil(t, err)
	require.True(t, w.IsZero())

	total, err := g.TotalWeight(time.Now())
	require.Nil(t, err)
	require.Equal(t, common.Weight(30), total)
}

func TestWalkMembers(t *testing.T) {
	st, _ := storage.NewTestMemoryLevelDBBackend()
	defer st.Close()

	var saved []string
	for i := 0; i < 10; i++ {
		m := TestMakeMember(common.Weight(1))
		require.Nil(t, SaveMembers(st, m))
		saved = append(saved, m.Address)
	}

	var walked int
	err := WalkMembers(st, storage.NewWalkOption("", 100, false), func(m *Member, key []byte) (bool, error) {
		walked++
		return true, nil
	})
	require.Nil(t, err)
	require.Equal(t, len(saved), walked)
}
