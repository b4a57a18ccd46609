package governance

import (
	"encoding/json"
	"sync"
	"time"

	"agora.network/agora/lib/common"
	"agora.network/agora/lib/common/observer"
	"agora.network/agora/lib/errors"
	"agora.network/agora/lib/membership"
	"agora.network/agora/lib/metrics"
	"agora.network/agora/lib/storage"
	"agora.network/agora/lib/voting"
)

// Engine drives the proposal lifecycle: open proposals collect weighted
// ballots until a threshold policy decides them, and passed proposals get
// their payload performed exactly once.
//
// Every operation is all-or-nothing; it runs inside one storage transaction
// and either commits every write it implies or leaves no trace. Expiration
// is checked lazily on access, there is no background sweeper.
type Engine struct {
	sync.Mutex

	st         *storage.LevelDBBackend
	directory  membership.Directory
	dispatcher Dispatcher
	conf       common.Config

	nowFunc func() time.Time
}

func NewEngine(st *storage.LevelDBBackend, directory membership.Directory, dispatcher Dispatcher, conf common.Config) *Engine {
	if dispatcher == nil {
		dispatcher = NopDispatcher{}
	}

	return &Engine{
		st:         st,
		directory:  directory,
		dispatcher: dispatcher,
		conf:       conf,
		nowFunc:    time.Now,
	}
}

func (e *Engine) Storage() *storage.LevelDBBackend {
	return e.st
}

// Propose opens a new proposal. The proposer must hold weight in the group
// and implicitly casts a Yes ballot, so a group where one member holds
// enough weight decides the proposal on the spot through the same
// evaluation every later vote goes through.
//
// A nil policy captures the group default at this moment; the captured
// policy never changes afterwards.
func (e *Engine) Propose(proposer, title, description string, payload json.RawMessage, policy *voting.Policy) (p *Proposal, err error) {
	e.Lock()
	defer e.Unlock()

	if len(title) == 0 {
		err = errors.BadRequestParameter.Clone().SetData("parameter", "title")
		return
	}

	now := e.nowFunc()

	var weight common.Weight
	if weight, err = e.directory.WeightOf(proposer, now); err != nil {
		return
	} else if weight.IsZero() {
		err = errors.Unauthorized.Clone().SetData("address", proposer)
		return
	}

	var pol voting.Policy
	if policy == nil {
		pol = voting.PolicyFromConfig(e.conf)
	} else {
		pol = *policy
	}
	if err = pol.Validate(); err != nil {
		return
	}

	var total common.Weight
	if total, err = e.directory.TotalWeight(now); err != nil {
		return
	}

	var ts *storage.LevelDBBackend
	if ts, err = e.st.OpenTransaction(); err != nil {
		return
	}

	var id uint64
	if id, err = NextProposalID(ts); err != nil {
		ts.Discard()
		return
	}

	p = NewProposal(id, proposer, title, description, payload, pol, now, now.Add(e.conf.VotingPeriod), total)

	ballot := NewBallot(id, proposer, voting.YES, weight, now)
	if err = ballot.Save(ts); err != nil {
		ts.Discard()
		return
	}
	if p.Tally, err = p.Tally.Apply(voting.YES, weight); err != nil {
		ts.Discard()
		return
	}

	if voting.Evaluate(p.Tally, total, p.Policy, false) == voting.PASS {
		if err = p.SetStatus(StatusPassed); err != nil {
			ts.Discard()
			return
		}
	}

	if err = p.Save(ts); err != nil {
		ts.Discard()
		return
	}

	if err = ts.Commit(); err != nil {
		ts.Discard()
		return
	}

	log.Info("proposal opened", "proposal-id", p.ID, "proposer", proposer, "status", p.Status)
	metrics.Governance.AddProposal(string(p.Status))
	metrics.Governance.AddVote(string(voting.YES))

	e.triggerProposal(p)
	e.triggerBallot(p, ballot)

	return
}

// Vote casts one weighted ballot. The ballot's weight is read from the
// directory at this moment and recorded immutably; a later weight change
// never alters it.
//
// A vote that pushes the tally over the threshold passes the proposal in
// the same operation, and a tally the remaining weight provably cannot
// rescue rejects it.
func (e *Engine) Vote(proposalID uint64, voter string, option voting.Option) (p *Proposal, ballot Ballot, err error) {
	e.Lock()
	defer e.Unlock()

	if !option.IsValid() {
		err = errors.InvalidVote.Clone().SetData("option", string(option))
		return
	}

	if p, err = GetProposal(e.st, proposalID); err != nil {
		return
	}

	now := e.nowFunc()

	if p.IsExpired(now) {
		err = errors.Expired.Clone().SetData("proposal-id", proposalID)
		return
	}
	if p.Status != StatusOpen {
		err = errors.NotOpen.Clone().
			SetData("proposal-id", proposalID).
			SetData("status", string(p.Status))
		return
	}

	var weight common.Weight
	if weight, err = e.directory.WeightOf(voter, now); err != nil {
		return
	} else if weight.IsZero() {
		err = errors.Unauthorized.Clone().SetData("address", voter)
		return
	}

	var revoted bool
	var previous Ballot
	var exists bool
	if exists, err = ExistsBallot(e.st, proposalID, voter); err != nil {
		return
	} else if exists {
		if !p.Policy.AllowRevote {
			err = errors.AlreadyVoted.Clone().
				SetData("proposal-id", proposalID).
				SetData("voter", voter)
			return
		}
		if previous, err = GetBallot(e.st, proposalID, voter); err != nil {
			return
		}
		revoted = true
	}

	var total common.Weight
	if total, err = e.directory.TotalWeight(now); err != nil {
		return
	}

	var ts *storage.LevelDBBackend
	if ts, err = e.st.OpenTransaction(); err != nil {
		return
	}

	ballot = NewBallot(proposalID, voter, option, weight, now)
	if revoted {
		if p.Tally, err = p.Tally.Unapply(previous.Option, previous.Weight); err != nil {
			ts.Discard()
			return
		}
		err = ballot.Replace(ts)
	} else {
		err = ballot.Save(ts)
	}
	if err != nil {
		ts.Discard()
		return
	}
	if p.Tally, err = p.Tally.Apply(option, weight); err != nil {
		ts.Discard()
		return
	}

	switch voting.Evaluate(p.Tally, total, p.Policy, false) {
	case voting.PASS:
		err = p.SetStatus(StatusPassed)
	case voting.FAIL:
		err = p.SetStatus(StatusRejected)
	}
	if err != nil {
		ts.Discard()
		return
	}

	if err = p.Save(ts); err != nil {
		ts.Discard()
		return
	}

	if err = ts.Commit(); err != nil {
		ts.Discard()
		return
	}

	log.Info("ballot cast", "proposal-id", proposalID, "voter", voter, "option", option, "weight", weight, "status", p.Status)
	metrics.Governance.AddVote(string(option))
	if p.Status == StatusRejected {
		metrics.Governance.AddClosed()
	}

	e.triggerProposal(p)
	e.triggerBallot(p, ballot)

	return
}

// Close settles a proposal that can no longer pass: one whose voting period
// elapsed without the threshold being met, or whose tally already provably
// fails. Closing a proposal that could still pass is refused.
//
// Anyone may close; the outcome depends only on the recorded tally, the
// policy and the clock.
func (e *Engine) Close(proposalID uint64) (p *Proposal, err error) {
	e.Lock()
	defer e.Unlock()

	if p, err = GetProposal(e.st, proposalID); err != nil {
		return
	}

	if p.Status != StatusOpen {
		err = errors.WrongStatus.Clone().
			SetData("proposal-id", proposalID).
			SetData("status", string(p.Status))
		return
	}

	now := e.nowFunc()

	var total common.Weight
	if total, err = e.directory.TotalWeight(now); err != nil {
		return
	}

	switch voting.Evaluate(p.Tally, total, p.Policy, p.IsExpired(now)) {
	case voting.PASS:
		err = p.SetStatus(StatusPassed)
	case voting.FAIL:
		err = p.SetStatus(StatusRejected)
	default:
		err = errors.NotExpired.Clone().SetData("proposal-id", proposalID)
	}
	if err != nil {
		return
	}

	var ts *storage.LevelDBBackend
	if ts, err = e.st.OpenTransaction(); err != nil {
		return
	}

	if err = p.Save(ts); err != nil {
		ts.Discard()
		return
	}

	if err = ts.Commit(); err != nil {
		ts.Discard()
		return
	}

	log.Info("proposal closed", "proposal-id", proposalID, "status", p.Status)
	if p.Status == StatusRejected {
		metrics.Governance.AddClosed()
	}

	e.triggerProposal(p)

	return
}

// Execute performs the payload of a passed proposal through the dispatcher
// and records it as executed. A dispatch failure leaves the proposal
// passed, so execution can be retried; the one-way transition to executed
// guarantees the payload is never performed twice.
func (e *Engine) Execute(proposalID uint64) (p *Proposal, err error) {
	e.Lock()
	defer e.Unlock()

	if p, err = GetProposal(e.st, proposalID); err != nil {
		return
	}

	if p.Status != StatusPassed {
		err = errors.WrongStatus.Clone().
			SetData("proposal-id", proposalID).
			SetData("status", string(p.Status))
		return
	}

	if err = e.dispatcher.Dispatch(p); err != nil {
		log.Error("dispatch failed", "proposal-id", proposalID, "error", err)
		return
	}

	if err = p.SetStatus(StatusExecuted); err != nil {
		return
	}

	var ts *storage.LevelDBBackend
	if ts, err = e.st.OpenTransaction(); err != nil {
		return
	}

	if err = p.Save(ts); err != nil {
		ts.Discard()
		return
	}

	if err = ts.Commit(); err != nil {
		ts.Discard()
		return
	}

	log.Info("proposal executed", "proposal-id", proposalID)
	metrics.Governance.AddExecution()

	e.triggerProposal(p)

	return
}

// Verdict reports the proposal and the live evaluation of its tally, without
// mutating anything. An open but expired proposal reports FAIL here even
// before anyone closes it.
func (e *Engine) Verdict(proposalID uint64) (p *Proposal, verdict voting.Verdict, err error) {
	if p, err = GetProposal(e.st, proposalID); err != nil {
		return
	}

	switch p.Status {
	case StatusPassed, StatusExecuted:
		verdict = voting.PASS
		return
	case StatusRejected:
		verdict = voting.FAIL
		return
	}

	now := e.nowFunc()

	var total common.Weight
	if total, err = e.directory.TotalWeight(now); err != nil {
		return
	}

	verdict = voting.Evaluate(p.Tally, total, p.Policy, p.IsExpired(now))

	return
}

func (e *Engine) triggerProposal(p *Proposal) {
	observer.ProposalObserver.Trigger(
		observer.NewCondition(observer.ResourceProposal, observer.ConditionIdentifier, common.EncodeUint64ToString(p.ID)).String(), p)
	observer.ProposalObserver.Trigger(
		observer.NewCondition(observer.ResourceProposal, observer.ConditionProposer, p.Proposer).String(), p)
	observer.ProposalObserver.Trigger(
		observer.NewCondition(observer.ResourceProposal, observer.ConditionStatus, string(p.Status)).String(), p)
	observer.ProposalObserver.Trigger(
		observer.NewCondition(observer.ResourceProposal, observer.ConditionAll).String(), p)
}

func (e *Engine) triggerBallot(p *Proposal, b Ballot) {
	observer.BallotObserver.Trigger(
		observer.NewCondition(observer.ResourceBallot, observer.ConditionIdentifier, common.EncodeUint64ToString(p.ID)).String(), &b)
	observer.BallotObserver.Trigger(
		observer.NewCondition(observer.ResourceBallot, observer.ConditionVoter, b.Voter).String(), &b)
	observer.BallotObserver.Trigger(
		observer.NewCondition(observer.ResourceBallot, observer.ConditionAll).String(), &b)
}
