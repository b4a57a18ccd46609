package governance

import (
	"fmt"
	"time"

	"agora.network/agora/lib/common"
	"agora.network/agora/lib/errors"
	"agora.network/agora/lib/storage"
	"agora.network/agora/lib/voting"
)

// Ballot is one voter's recorded vote on one proposal. the storage should
// support,
//  * find by `(ProposalID, Voter)`:
// 	- key: 'gb-ballot-<ProposalID>-<Voter>': `Ballot`

const BallotPrefix string = "gb-ballot-"

type Ballot struct {
	ProposalID uint64        `json:"proposal_id"`
	Voter      string        `json:"voter"`
	Option     voting.Option `json:"option"`

	// Weight is captured from the membership directory at the moment the
	// ballot is cast and never changes afterwards; later membership changes
	// do not alter an already-cast ballot's contribution.
	Weight common.Weight `json:"weight"`

	CastAt time.Time `json:"cast_at"`
}

func NewBallot(proposalID uint64, voter string, option voting.Option, weight common.Weight, castAt time.Time) Ballot {
	return Ballot{
		ProposalID: proposalID,
		Voter:      voter,
		Option:     option,
		Weight:     weight,
		CastAt:     castAt,
	}
}

func (b Ballot) String() string {
	return string(common.MustJSONMarshal(b))
}

func (b Ballot) Serialize() ([]byte, error) {
	return common.EncodeJSONValue(b)
}

func GetBallotKey(proposalID uint64, voter string) string {
	return fmt.Sprintf("%s%s-%s", BallotPrefix, common.EncodeUint64ToString(proposalID), voter)
}

func GetBallotProposalPrefix(proposalID uint64) string {
	return fmt.Sprintf("%s%s-", BallotPrefix, common.EncodeUint64ToString(proposalID))
}

func ExistsBallot(st *storage.LevelDBBackend, proposalID uint64, voter string) (bool, error) {
	return st.Has(GetBallotKey(proposalID, voter))
}

func GetBallot(st *storage.LevelDBBackend, proposalID uint64, voter string) (b Ballot, err error) {
	if err = st.Get(GetBallotKey(proposalID, voter), &b); err != nil {
		if errors.StorageRecordDoesNotExist.Equal(err) {
			err = errors.BallotNotFound.Clone().
				SetData("proposal-id", proposalID).
				SetData("voter", voter)
		}
		return
	}

	return
}

// Save records a new ballot; a second ballot for the same (proposal, voter)
// pair is rejected, it never overwrites.
func (b Ballot) Save(st *storage.LevelDBBackend) (err error) {
	if err = st.New(GetBallotKey(b.ProposalID, b.Voter), b); err != nil {
		if errors.StorageRecordAlreadyExists.Equal(err) {
			err = errors.AlreadyVoted.Clone().
				SetData("proposal-id", b.ProposalID).
				SetData("voter", b.Voter)
		}
		return
	}

	return
}

// Replace removes the voter's previous ballot and records this one; only
// the revote path uses it, so exactly one ballot per voter persists.
func (b Ballot) Replace(st *storage.LevelDBBackend) (err error) {
	if err = st.Remove(GetBallotKey(b.ProposalID, b.Voter)); err != nil {
		return
	}

	return b.Save(st)
}

func WalkBallots(st *storage.LevelDBBackend, proposalID uint64, option *storage.WalkOption, walkFunc func(*Ballot, []byte) (bool, error)) error {
	return st.Walk(GetBallotProposalPrefix(proposalID), option, func(key, value []byte) (bool, error) {
		var b Ballot
		if err := common.DecodeJSONValue(value, &b); err != nil {
			return false, err
		}
		return walkFunc(&b, key)
	})
}
