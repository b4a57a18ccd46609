package governance

import (
	"encoding/json"
	"fmt"
	"time"

	"agora.network/agora/lib/common"
	"agora.network/agora/lib/errors"
	"agora.network/agora/lib/storage"
	"agora.network/agora/lib/voting"
)

// Proposal is the aggregate of one governed action. the storage should
// support,
//  * find by `ID`:
// 	- key: 'gp-proposal-<ID>': `Proposal`
//  * get list by status:
// 	- key: 'gp-status-<Status>-<ID>': `ID`
//  * monotonic id assignment:
// 	- key: 'gp-sequence': last assigned `ID`

const (
	ProposalPrefix       string = "gp-proposal-"
	ProposalStatusPrefix string = "gp-status-"
	ProposalSequenceKey  string = "gp-sequence"
)

type Status string

const (
	StatusOpen     Status = "open"
	StatusPassed   Status = "passed"
	StatusRejected Status = "rejected"
	StatusExecuted Status = "executed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusPassed, StatusRejected, StatusExecuted:
		return true
	}
	return false
}

// CanTransitTo encodes the one-way lifecycle; no status may regress.
func (s Status) CanTransitTo(next Status) bool {
	switch s {
	case StatusOpen:
		return next == StatusPassed || next == StatusRejected
	case StatusPassed:
		return next == StatusExecuted
	}
	return false
}

type Proposal struct {
	ID          uint64          `json:"id"`
	Proposer    string          `json:"proposer"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Payload     json.RawMessage `json:"payload"`

	Policy voting.Policy `json:"policy"`
	Status Status        `json:"status"`
	Tally  voting.Tally  `json:"tally"`

	SubmittedAt time.Time `json:"submitted_at"`
	ExpiresAt   time.Time `json:"expires_at"`

	// TotalWeightAtSubmit is recorded for audit only; pass/fail decisions
	// always use the live total weight at evaluation time.
	TotalWeightAtSubmit common.Weight `json:"total_weight_at_submit"`
}

func NewProposal(id uint64, proposer, title, description string, payload json.RawMessage, policy voting.Policy, submittedAt, expiresAt time.Time, totalWeight common.Weight) *Proposal {
	return &Proposal{
		ID:                  id,
		Proposer:            proposer,
		Title:               title,
		Description:         description,
		Payload:             payload,
		Policy:              policy,
		Status:              StatusOpen,
		Tally:               voting.NewTally(),
		SubmittedAt:         submittedAt,
		ExpiresAt:           expiresAt,
		TotalWeightAtSubmit: totalWeight,
	}
}

func (p *Proposal) String() string {
	return string(common.MustJSONMarshal(p))
}

func (p *Proposal) Serialize() ([]byte, error) {
	return common.EncodeJSONValue(p)
}

func (p *Proposal) IsExpired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// SetStatus applies a forward-only lifecycle transition.
func (p *Proposal) SetStatus(next Status) error {
	if !p.Status.CanTransitTo(next) {
		return errors.WrongStatus.Clone().
			SetData("status", string(p.Status)).
			SetData("next", string(next))
	}

	p.Status = next

	return nil
}

func GetProposalKey(id uint64) string {
	return fmt.Sprintf("%s%s", ProposalPrefix, common.EncodeUint64ToString(id))
}

func GetProposalStatusKey(status Status, id uint64) string {
	return fmt.Sprintf("%s%s-%s", ProposalStatusPrefix, status, common.EncodeUint64ToString(id))
}

func GetProposalStatusPrefix(status Status) string {
	return fmt.Sprintf("%s%s-", ProposalStatusPrefix, status)
}

// NextProposalID assigns the next monotonic proposal id.
func NextProposalID(st *storage.LevelDBBackend) (id uint64, err error) {
	var exists bool
	if exists, err = st.Has(ProposalSequenceKey); err != nil {
		return
	}

	if exists {
		if err = st.Get(ProposalSequenceKey, &id); err != nil {
			return
		}
	}

	id++

	if exists {
		err = st.Set(ProposalSequenceKey, id)
	} else {
		err = st.New(ProposalSequenceKey, id)
	}

	return
}

func ExistsProposal(st *storage.LevelDBBackend, id uint64) (bool, error) {
	return st.Has(GetProposalKey(id))
}

func GetProposal(st *storage.LevelDBBackend, id uint64) (p *Proposal, err error) {
	if err = st.Get(GetProposalKey(id), &p); err != nil {
		if errors.StorageRecordDoesNotExist.Equal(err) {
			err = errors.ProposalNotFound.Clone().SetData("proposal-id", id)
		}
		return
	}

	return
}

// Save persists the proposal and keeps the status index in step with
// lifecycle transitions.
func (p *Proposal) Save(st *storage.LevelDBBackend) (err error) {
	key := GetProposalKey(p.ID)

	var exists bool
	if exists, err = st.Has(key); err != nil {
		return
	}

	if exists {
		var previous *Proposal
		if err = st.Get(key, &previous); err != nil {
			return
		}

		if previous.Status != p.Status {
			if err = st.Remove(GetProposalStatusKey(previous.Status, p.ID)); err != nil {
				return
			}
			if err = st.New(GetProposalStatusKey(p.Status, p.ID), p.ID); err != nil {
				return
			}
		}

		err = st.Set(key, p)
	} else {
		if err = st.New(key, p); err != nil {
			return
		}
		err = st.New(GetProposalStatusKey(p.Status, p.ID), p.ID)
	}

	return
}

func WalkProposals(st *storage.LevelDBBackend, option *storage.WalkOption, walkFunc func(*Proposal, []byte) (bool, error)) error {
	return st.Walk(ProposalPrefix, option, func(key, value []byte) (bool, error) {
		var p Proposal
		if err := common.DecodeJSONValue(value, &p); err != nil {
			return false, err
		}
		return walkFunc(&p, key)
	})
}

func WalkProposalsByStatus(st *storage.LevelDBBackend, status Status, option *storage.WalkOption, walkFunc func(*Proposal, []byte) (bool, error)) error {
	return st.Walk(GetProposalStatusPrefix(status), option, func(key, value []byte) (bool, error) {
		var id uint64
		if err := common.DecodeJSONValue(value, &id); err != nil {
			return false, err
		}

		p, err := GetProposal(st, id)
		if err != nil {
			return false, err
		}
		return walkFunc(p, key)
	})
}
