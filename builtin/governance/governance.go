// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package governance runs the DAO: the election clock, delegate elections,
// delegate proposals and the DAO vesting buckets paid to the treasury.
package governance

import (
	"sort"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vestradao/vdao/builtin/reverts"
	"github.com/vestradao/vdao/builtin/solidity"
	"github.com/vestradao/vdao/builtin/vesting"
	"github.com/vestradao/vdao/log"
	"github.com/vestradao/vdao/vdao"
)

var logger = log.WithContext("pkg", "governance")

// DefaultSeats is the number of delegates elected per election.
const DefaultSeats = 7

var (
	slotConfig          = vdao.BytesToBytes32([]byte("governance-config"))
	slotFirstDelegates  = vdao.BytesToBytes32([]byte("first-delegates"))
	slotCandidates      = vdao.BytesToBytes32([]byte("candidates"))
	slotCandidateCounts = vdao.BytesToBytes32([]byte("candidate-counts"))
	slotCandidateList   = vdao.BytesToBytes32([]byte("candidate-list"))
	slotLastContested   = vdao.BytesToBytes32([]byte("last-contested"))
	slotPrevContested   = vdao.BytesToBytes32([]byte("prev-contested"))
	slotBallots         = vdao.BytesToBytes32([]byte("ballots"))
	slotPower           = vdao.BytesToBytes32([]byte("voting-power"))
	slotProposals       = vdao.BytesToBytes32([]byte("proposals"))
	slotProposalCounter = vdao.BytesToBytes32([]byte("proposals-counter"))
	slotProposalBallots = vdao.BytesToBytes32([]byte("proposal-ballots"))
)

var (
	ErrInvalidEpoch          = reverts.NewValidation("invalid governance epoch")
	ErrInvalidDelegates      = reverts.NewValidation("invalid delegate list")
	ErrNotCandidate          = reverts.NewValidation("account is not a candidate")
	ErrInvalidProposal       = reverts.NewValidation("invalid proposal")
	ErrProposalNotFound      = reverts.NewValidation("proposal not found")
	ErrNotDelegate           = reverts.NewPermission("caller is not a delegate")
	ErrNoVotingPower         = reverts.NewCapacity("voter has no voting power")
	ErrWrongPhase            = reverts.NewTiming("election is in another phase")
	ErrBootstrapWindowClosed = reverts.NewTiming("first delegates can only be set before launch")
	ErrProposalClosed        = reverts.NewTiming("proposal voting closed")
	ErrAlreadyBootstrapped   = reverts.NewState("first delegates already set")
	ErrAlreadyCandidate      = reverts.NewState("already a candidate")
	ErrAlreadyVoted          = reverts.NewState("already voted")
	ErrAlreadyInitialized    = reverts.NewState("governance already initialized")
	ErrNotInitialized        = reverts.NewState("governance not initialized")
)

// Governance is the DAO builtin.
type Governance struct {
	sctx            *solidity.Context
	config          *solidity.Raw[*config]
	firstDelegates  *solidity.Raw[[]vdao.Address]
	candidates      *solidity.Mapping[vdao.Bytes32, *candidate]
	candidateCounts *solidity.Mapping[solidity.Uint64, uint64]
	candidateList   *solidity.Mapping[vdao.Bytes32, vdao.Address]
	// contested elections form a list, newest first; links hold index+1 and 0 ends it
	lastContested *solidity.Raw[uint64]
	prevContested *solidity.Mapping[solidity.Uint64, uint64]
	ballots         *solidity.Mapping[vdao.Bytes32, bool]
	power           *solidity.Mapping[vdao.Address, *power]
	proposals       *solidity.Mapping[solidity.Uint64, *proposalBody]
	proposalCounter *solidity.Counter
	proposalBallots *solidity.Mapping[vdao.Bytes32, bool]
	ledger          *vesting.Ledger
}

// New binds the DAO to its context. The DAO buckets live in a vesting ledger whose
// custody is the governance address itself.
func New(sctx *solidity.Context, bank vesting.Bank) *Governance {
	return &Governance{
		sctx:            sctx,
		config:          solidity.NewRaw[*config](sctx, slotConfig),
		firstDelegates:  solidity.NewRaw[[]vdao.Address](sctx, slotFirstDelegates),
		candidates:      solidity.NewMapping[vdao.Bytes32, *candidate](sctx, slotCandidates),
		candidateCounts: solidity.NewMapping[solidity.Uint64, uint64](sctx, slotCandidateCounts),
		candidateList:   solidity.NewMapping[vdao.Bytes32, vdao.Address](sctx, slotCandidateList),
		lastContested:   solidity.NewRaw[uint64](sctx, slotLastContested),
		prevContested:   solidity.NewMapping[solidity.Uint64, uint64](sctx, slotPrevContested),
		ballots:         solidity.NewMapping[vdao.Bytes32, bool](sctx, slotBallots),
		power:           solidity.NewMapping[vdao.Address, *power](sctx, slotPower),
		proposals:       solidity.NewMapping[solidity.Uint64, *proposalBody](sctx, slotProposals),
		proposalCounter: solidity.NewCounter(sctx, slotProposalCounter),
		proposalBallots: solidity.NewMapping[vdao.Bytes32, bool](sctx, slotProposalBallots),
		ledger:          vesting.New(sctx, bank),
	}
}

// Initialize stores the operator, the treasury and the election cadence.
func (g *Governance) Initialize(operator, treasury vdao.Address, epoch Epoch, seats uint64) error {
	cfg, err := g.config.Get()
	if err != nil {
		return err
	}
	if cfg != nil {
		return ErrAlreadyInitialized
	}
	if err := epoch.Validate(); err != nil {
		return err
	}
	if treasury.IsZero() {
		return errors.WithMessage(ErrInvalidEpoch, "zero treasury")
	}
	if seats == 0 {
		seats = DefaultSeats
	}
	if err := g.config.Insert(&config{Operator: operator, Treasury: treasury, Epoch: epoch, Seats: seats}); err != nil {
		return err
	}
	return g.ledger.Initialize(operator, epoch.LaunchTime, vesting.RemainderRelease)
}

func (g *Governance) loadConfig() (*config, error) {
	cfg, err := g.config.Get()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, ErrNotInitialized
	}
	return cfg, nil
}

// Epoch returns the election cadence.
func (g *Governance) Epoch() (Epoch, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return Epoch{}, err
	}
	return cfg.Epoch, nil
}

// Treasury returns the beneficiary of the DAO buckets.
func (g *Governance) Treasury() (vdao.Address, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return vdao.Address{}, err
	}
	return cfg.Treasury, nil
}

// Phase returns the election index and phase at now.
func (g *Governance) Phase(now uint64) (uint64, Phase, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return 0, Idle, err
	}
	index, phase := PhaseAt(cfg.Epoch, now)
	return index, phase, nil
}

// Ledger exposes the DAO buckets for read access.
func (g *Governance) Ledger() *vesting.Ledger {
	return g.ledger
}

// SetFirstDelegates seats the delegates that serve until the first election settles.
func (g *Governance) SetFirstDelegates(caller vdao.Address, list []vdao.Address, now uint64) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if caller != cfg.Operator {
		return reverts.ErrUnauthorized
	}
	current, err := g.firstDelegates.Get()
	if err != nil {
		return err
	}
	if len(current) > 0 {
		return ErrAlreadyBootstrapped
	}
	if _, phase := PhaseAt(cfg.Epoch, now); phase != Idle {
		return ErrBootstrapWindowClosed
	}
	if len(list) == 0 {
		return errors.WithMessage(ErrInvalidDelegates, "empty list")
	}
	seen := make(map[vdao.Address]bool, len(list))
	for _, d := range list {
		if d.IsZero() {
			return errors.WithMessage(ErrInvalidDelegates, "zero address")
		}
		if seen[d] {
			return errors.WithMessagef(ErrInvalidDelegates, "duplicate %v", d)
		}
		seen[d] = true
	}
	if err := g.firstDelegates.Insert(list); err != nil {
		return errors.Wrap(err, "failed to set first delegates")
	}

	logger.Info("first delegates set", "count", len(list))
	for _, d := range list {
		g.sctx.Emit(&solidity.Event{Name: "DelegateSeated", Account: d})
	}
	return nil
}

// SetVotingPower sets the election weight of account. Accounts never set weigh 1.
func (g *Governance) SetVotingPower(caller, account vdao.Address, weight uint64) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if caller != cfg.Operator {
		return reverts.ErrUnauthorized
	}
	return g.power.Upsert(account, &power{Weight: weight})
}

// VotingPower returns the election weight of account.
func (g *Governance) VotingPower(account vdao.Address) (uint64, error) {
	p, err := g.power.Get(account)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 1, nil
	}
	return p.Weight, nil
}

// RegisterCandidate enters account in the election whose candidacy window is open.
func (g *Governance) RegisterCandidate(account vdao.Address, now uint64) (uint64, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return 0, err
	}
	index, phase := PhaseAt(cfg.Epoch, now)
	if phase != Candidacy {
		return 0, errors.WithMessagef(ErrWrongPhase, "election %d is in %v", index, phase)
	}
	key := candidateKey(index, account)
	existing, err := g.candidates.Get(key)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, ErrAlreadyCandidate
	}
	count, err := g.candidateCounts.Get(solidity.Uint64(index))
	if err != nil {
		return 0, err
	}
	if err := g.candidates.Insert(key, &candidate{Order: count}); err != nil {
		return 0, errors.Wrap(err, "failed to set candidate")
	}
	if err := g.candidateList.Insert(candidateListKey(index, count), account); err != nil {
		return 0, errors.Wrap(err, "failed to index candidate")
	}
	if err := g.candidateCounts.Upsert(solidity.Uint64(index), count+1); err != nil {
		return 0, err
	}
	if count == 0 {
		last, err := g.lastContested.Get()
		if err != nil {
			return 0, err
		}
		if err := g.prevContested.Upsert(solidity.Uint64(index), last); err != nil {
			return 0, err
		}
		if err := g.lastContested.Upsert(index + 1); err != nil {
			return 0, err
		}
	}

	g.sctx.Emit(&solidity.Event{Name: "CandidateRegistered", Account: account, Ref: index})
	return index, nil
}

// Vote gives the weight of voter to a candidate of the election in its voting window.
func (g *Governance) Vote(voter, candidateAddr vdao.Address, now uint64) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	index, phase := PhaseAt(cfg.Epoch, now)
	if phase != Voting {
		return errors.WithMessagef(ErrWrongPhase, "election %d is in %v", index, phase)
	}
	key := candidateKey(index, candidateAddr)
	cand, err := g.candidates.Get(key)
	if err != nil {
		return err
	}
	if cand == nil {
		return errors.WithMessagef(ErrNotCandidate, "%v in election %d", candidateAddr, index)
	}
	voted, err := g.ballots.Get(ballotKey(index, voter))
	if err != nil {
		return err
	}
	if voted {
		return ErrAlreadyVoted
	}
	weight, err := g.VotingPower(voter)
	if err != nil {
		return err
	}
	if weight == 0 {
		return ErrNoVotingPower
	}
	votes, overflow := vdao.AddTime(cand.Votes, weight)
	if overflow {
		return reverts.ErrOverflow
	}
	cand.Votes = votes
	if err := g.candidates.Update(key, cand); err != nil {
		return errors.Wrap(err, "failed to update candidate")
	}
	if err := g.ballots.Insert(ballotKey(index, voter), true); err != nil {
		return errors.Wrap(err, "failed to record ballot")
	}

	g.sctx.Emit(&solidity.Event{Name: "Voted", Account: voter, Ref: index, Amount: uint256.NewInt(weight)})
	return nil
}

// Candidates returns the candidates of an election in registration order.
func (g *Governance) Candidates(election uint64) ([]*Candidate, error) {
	count, err := g.candidateCounts.Get(solidity.Uint64(election))
	if err != nil {
		return nil, err
	}
	list := make([]*Candidate, 0, count)
	for n := uint64(0); n < count; n++ {
		addr, err := g.candidateList.Get(candidateListKey(election, n))
		if err != nil {
			return nil, err
		}
		cand, err := g.candidates.Get(candidateKey(election, addr))
		if err != nil {
			return nil, err
		}
		if cand == nil {
			return nil, errors.Errorf("candidate %v of election %d missing", addr, election)
		}
		list = append(list, &Candidate{Account: addr, Order: cand.Order, Votes: cand.Votes})
	}
	return list, nil
}

// Delegates returns the seated delegates at now: the winners of the latest settled
// election that had candidates, or the first delegates when there is none.
func (g *Governance) Delegates(now uint64) ([]vdao.Address, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	if _, phase := PhaseAt(cfg.Epoch, now); phase != Idle {
		link, err := g.lastContested.Get()
		if err != nil {
			return nil, err
		}
		for link > 0 {
			election := link - 1
			if now >= cfg.Epoch.SettledAt(election) {
				cands, err := g.Candidates(election)
				if err != nil {
					return nil, err
				}
				return winners(cands, cfg.Seats), nil
			}
			if link, err = g.prevContested.Get(solidity.Uint64(election)); err != nil {
				return nil, err
			}
		}
	}
	return g.firstDelegates.Get()
}

func winners(cands []*Candidate, seats uint64) []vdao.Address {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Votes != cands[j].Votes {
			return cands[i].Votes > cands[j].Votes
		}
		return cands[i].Order < cands[j].Order
	})
	if uint64(len(cands)) > seats {
		cands = cands[:seats]
	}
	out := make([]vdao.Address, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.Account)
	}
	return out
}

// IsDelegate reports whether account holds a seat at now.
func (g *Governance) IsDelegate(account vdao.Address, now uint64) (bool, error) {
	delegates, err := g.Delegates(now)
	if err != nil {
		return false, err
	}
	for _, d := range delegates {
		if d == account {
			return true, nil
		}
	}
	return false, nil
}

func (g *Governance) requireDelegate(account vdao.Address, now uint64) error {
	ok, err := g.IsDelegate(account, now)
	if err != nil {
		return err
	}
	if !ok {
		return errors.WithMessagef(ErrNotDelegate, "%v", account)
	}
	return nil
}
