package governance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"agora.network/agora/lib/common"
	"agora.network/agora/lib/errors"
	"agora.network/agora/lib/storage"
	"agora.network/agora/lib/voting"
)

func TestBallotSaveRejectsDuplicate(t *testing.T) {
	st, err := storage.NewTestMemoryLevelDBBackend()
	require.NoError(t, err)

	voter := testAddress()
	b := NewBallot(1, voter, voting.YES, common.Weight(10), time.Now())
	require.NoError(t, b.Save(st))

	again := NewBallot(1, voter, voting.NO, common.Weight(10), time.Now())
	err = again.Save(st)
	require.True(t, errors.AlreadyVoted.Equal(err))

	fetched, err := GetBallot(st, 1, voter)
	require.NoError(t, err)
	require.Equal(t, voting.YES, fetched.Option)
}

func TestBallotReplace(t *testing.T) {
	st, err := storage.NewTestMemoryLevelDBBackend()
	require.NoError(t, err)

	voter := testAddress()
	b := NewBallot(1, voter, voting.YES, common.Weight(10), time.Now())
	require.NoError(t, b.Save(st))

	replaced := NewBallot(1, voter, voting.VETO, common.Weight(10), time.Now())
	require.NoError(t, replaced.Replace(st))

	fetched, err := GetBallot(st, 1, voter)
	require.NoError(t, err)
	require.Equal(t, voting.VETO, fetched.Option)
}

func TestGetBallotNotFound(t *testing.T) {
	st, err := storage.NewTestMemoryLevelDBBackend()
	require.NoError(t, err)

	_, err = GetBallot(st, 1, testAddress())
	require.True(t, errors.BallotNotFound.Equal(err))
}

func TestWalkBallotsScopedToProposal(t *testing.T) {
	st, err := storage.NewTestMemoryLevelDBBackend()
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, NewBallot(1, testAddress(), voting.YES, common.Weight(1), time.Now()).Save(st))
	}
	require.NoError(t, NewBallot(2, testAddress(), voting.NO, common.Weight(1), time.Now()).Save(st))

	var count int
	err = WalkBallots(st, 1, storage.NewWalkOption("", 10, false), func(b *Ballot, _ []byte) (bool, error) {
		require.Equal(t, uint64(1), b.ProposalID)
		count++
		return true, nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, count)
}
