// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestradao/vdao/builtin/reverts"
	"github.com/vestradao/vdao/builtin/solidity"
	"github.com/vestradao/vdao/builtin/token"
	"github.com/vestradao/vdao/builtin/vesting"
	"github.com/vestradao/vdao/lvldb"
	"github.com/vestradao/vdao/state"
	"github.com/vestradao/vdao/vdao"
)

const (
	launch = uint64(1735689600)
	day    = vdao.DaySeconds
)

var (
	operator = vdao.BytesToAddress([]byte("operator"))
	treasury = vdao.BytesToAddress([]byte("treasury"))
	govAt    = vdao.BytesToAddress([]byte("Governance"))

	epoch = Epoch{
		LaunchTime:           launch,
		ElectionPeriod:       3 * vdao.YearSeconds,
		CandidacyWindow:      10 * day,
		VotingWindow:         10 * day,
		ProposalVotingWindow: 3 * day,
	}
)

func addr(name string) vdao.Address {
	return vdao.BytesToAddress([]byte(name))
}

func firstDelegates() []vdao.Address {
	list := make([]vdao.Address, 0, 7)
	for i := 0; i < 7; i++ {
		list = append(list, addr(fmt.Sprintf("delegate-%d", i)))
	}
	return list
}

type setup struct {
	gov   *Governance
	token *token.Token
}

func newSetup(t *testing.T) *setup {
	return newSetupWith(t, epoch)
}

func newSetupWith(t *testing.T, ep Epoch) *setup {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := solidity.NewContext(vdao.BytesToAddress([]byte("Token")), state.New(db), nil)
	s := &setup{token: token.New(ctx)}
	s.gov = New(ctx.At(govAt), s.token)

	require.NoError(t, s.token.Initialize(govAt, vdao.Tokens(1_000_000)))
	require.NoError(t, s.gov.Initialize(operator, treasury, ep, 0))
	return s
}

func TestPhaseAt(t *testing.T) {
	tests := []struct {
		now   uint64
		index uint64
		phase Phase
	}{
		{0, 0, Idle},
		{launch - 1, 0, Idle},
		{launch, 0, Candidacy},
		{launch + 10*day - 1, 0, Candidacy},
		{launch + 10*day, 0, Voting},
		{launch + 20*day - 1, 0, Voting},
		{launch + 20*day, 0, Settled},
		{launch + 3*vdao.YearSeconds - 1, 0, Settled},
		{launch + 3*vdao.YearSeconds, 1, Candidacy},
		{launch + 3*vdao.YearSeconds + 15*day, 1, Voting},
		{launch + 6*vdao.YearSeconds + 20*day, 2, Settled},
	}
	for _, tt := range tests {
		index, phase := PhaseAt(epoch, tt.now)
		assert.Equal(t, tt.index, index, "index at %d", tt.now)
		assert.Equal(t, tt.phase, phase, "phase at %d", tt.now)
	}

	// the phase never goes back while time moves forward
	prevIndex, prevPhase := PhaseAt(epoch, launch)
	for now := launch; now < launch+7*vdao.YearSeconds; now += day {
		index, phase := PhaseAt(epoch, now)
		if index == prevIndex {
			assert.GreaterOrEqual(t, phase, prevPhase)
		} else {
			assert.Equal(t, prevIndex+1, index)
			assert.Equal(t, Candidacy, phase)
		}
		prevIndex, prevPhase = index, phase
	}
}

func TestEpochValidate(t *testing.T) {
	require.NoError(t, epoch.Validate())

	bad := epoch
	bad.ElectionPeriod = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidEpoch)

	bad = epoch
	bad.VotingWindow = bad.ElectionPeriod
	assert.ErrorIs(t, bad.Validate(), ErrInvalidEpoch)

	bad = epoch
	bad.ProposalVotingWindow = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidEpoch)
}

func TestSetFirstDelegates(t *testing.T) {
	s := newSetup(t)

	assert.ErrorIs(t, s.gov.SetFirstDelegates(addr("x"), firstDelegates(), launch-1), reverts.ErrUnauthorized)
	assert.ErrorIs(t, s.gov.SetFirstDelegates(operator, nil, launch-1), ErrInvalidDelegates)
	dup := append(firstDelegates(), firstDelegates()[0])
	assert.ErrorIs(t, s.gov.SetFirstDelegates(operator, dup, launch-1), ErrInvalidDelegates)

	err := s.gov.SetFirstDelegates(operator, firstDelegates(), launch)
	assert.ErrorIs(t, err, ErrBootstrapWindowClosed)
	assert.Equal(t, reverts.Timing, reverts.KindOf(err))

	require.NoError(t, s.gov.SetFirstDelegates(operator, firstDelegates(), launch-1))

	err = s.gov.SetFirstDelegates(operator, firstDelegates(), launch-1)
	assert.ErrorIs(t, err, ErrAlreadyBootstrapped)
	assert.Equal(t, reverts.State, reverts.KindOf(err))

	delegates, err := s.gov.Delegates(launch + 15*day)
	require.NoError(t, err)
	assert.Equal(t, firstDelegates(), delegates)
}

func TestElection(t *testing.T) {
	s := newSetup(t)
	require.NoError(t, s.gov.SetFirstDelegates(operator, firstDelegates(), launch-1))

	_, err := s.gov.RegisterCandidate(addr("c0"), launch-1)
	assert.ErrorIs(t, err, ErrWrongPhase)

	for i := 0; i < 9; i++ {
		index, err := s.gov.RegisterCandidate(addr(fmt.Sprintf("c%d", i)), launch+day)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), index)
	}
	_, err = s.gov.RegisterCandidate(addr("c0"), launch+day)
	assert.ErrorIs(t, err, ErrAlreadyCandidate)

	assert.ErrorIs(t, s.gov.Vote(addr("v0"), addr("c0"), launch+day), ErrWrongPhase)

	voting := launch + 12*day
	require.NoError(t, s.gov.SetVotingPower(operator, addr("whale"), 10))
	require.NoError(t, s.gov.SetVotingPower(operator, addr("nobody"), 0))
	assert.ErrorIs(t, s.gov.SetVotingPower(addr("x"), addr("whale"), 10), reverts.ErrUnauthorized)

	require.NoError(t, s.gov.Vote(addr("whale"), addr("c8"), voting))
	require.NoError(t, s.gov.Vote(addr("v1"), addr("c7"), voting))
	require.NoError(t, s.gov.Vote(addr("v2"), addr("c7"), voting))
	assert.ErrorIs(t, s.gov.Vote(addr("v1"), addr("c6"), voting), ErrAlreadyVoted)
	assert.ErrorIs(t, s.gov.Vote(addr("v3"), addr("stranger"), voting), ErrNotCandidate)
	assert.ErrorIs(t, s.gov.Vote(addr("nobody"), addr("c6"), voting), ErrNoVotingPower)

	// still voting: the first delegates keep their seats
	delegates, err := s.gov.Delegates(voting)
	require.NoError(t, err)
	assert.Equal(t, firstDelegates(), delegates)

	// c8 (10 votes), c7 (2), then the rest by registration order
	delegates, err = s.gov.Delegates(launch + 20*day)
	require.NoError(t, err)
	want := []vdao.Address{addr("c8"), addr("c7"), addr("c0"), addr("c1"), addr("c2"), addr("c3"), addr("c4")}
	assert.Equal(t, want, delegates)

	// the next election without candidates keeps the previous winners
	delegates, err = s.gov.Delegates(launch + 3*vdao.YearSeconds + 25*day)
	require.NoError(t, err)
	assert.Equal(t, want, delegates)

	cands, err := s.gov.Candidates(0)
	require.NoError(t, err)
	assert.Len(t, cands, 9)
}

func TestDelegatesSkipUncontestedElections(t *testing.T) {
	short := Epoch{
		LaunchTime:           launch,
		ElectionPeriod:       3 * day,
		CandidacyWindow:      day,
		VotingWindow:         day,
		ProposalVotingWindow: day,
	}
	s := newSetupWith(t, short)
	require.NoError(t, s.gov.SetFirstDelegates(operator, firstDelegates(), launch-1))

	_, err := s.gov.RegisterCandidate(addr("c0"), launch)
	require.NoError(t, err)
	_, err = s.gov.RegisterCandidate(addr("c1"), launch)
	require.NoError(t, err)
	later := short.ElectionStart(1000)
	index, err := s.gov.RegisterCandidate(addr("c2"), later)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), index)

	tests := []struct {
		name string
		now  uint64
		want []vdao.Address
	}{
		{"before first settles", launch + day, firstDelegates()},
		{"first settled", short.SettledAt(0), []vdao.Address{addr("c0"), addr("c1")}},
		{"many empty elections later", short.ElectionStart(700), []vdao.Address{addr("c0"), addr("c1")}},
		{"next contested still voting", later + day, []vdao.Address{addr("c0"), addr("c1")}},
		{"next contested settled", short.SettledAt(1000), []vdao.Address{addr("c2")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delegates, err := s.gov.Delegates(tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, delegates)
		})
	}
}

func TestProposals(t *testing.T) {
	s := newSetup(t)
	require.NoError(t, s.gov.SetFirstDelegates(operator, firstDelegates(), launch-1))
	delegates := firstDelegates()
	now := launch + 100*day

	_, err := s.gov.CreateProposal(addr("outsider"), "fund the bridge", now)
	assert.ErrorIs(t, err, ErrNotDelegate)
	assert.Equal(t, reverts.Permission, reverts.KindOf(err))
	_, err = s.gov.CreateProposal(delegates[0], "", now)
	assert.ErrorIs(t, err, ErrInvalidProposal)

	id, err := s.gov.CreateProposal(delegates[0], "fund the bridge", now)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	require.NoError(t, s.gov.VoteProposal(delegates[0], id, true, now))
	require.NoError(t, s.gov.VoteProposal(delegates[1], id, true, now+day))
	require.NoError(t, s.gov.VoteProposal(delegates[2], id, false, now+2*day))
	assert.ErrorIs(t, s.gov.VoteProposal(delegates[0], id, false, now+day), ErrAlreadyVoted)
	assert.ErrorIs(t, s.gov.VoteProposal(delegates[3], id, true, now+3*day), ErrProposalClosed)
	assert.ErrorIs(t, s.gov.VoteProposal(delegates[3], 9, true, now), ErrProposalNotFound)

	p, status, err := s.gov.ProposalResult(id, now+day)
	require.NoError(t, err)
	assert.Equal(t, ProposalOpen, status)
	assert.Equal(t, uint64(2), p.Yes)

	_, status, err = s.gov.ProposalResult(id, now+3*day)
	require.NoError(t, err)
	assert.Equal(t, ProposalPassed, status)

	// proposal voting is not tied to the election phase
	id, err = s.gov.CreateProposal(delegates[0], "raise the rate", launch+12*day)
	require.NoError(t, err)
	require.NoError(t, s.gov.VoteProposal(delegates[1], id, false, launch+12*day))
	_, status, err = s.gov.ProposalResult(id, launch+15*day)
	require.NoError(t, err)
	assert.Equal(t, ProposalRejected, status)

	list, err := s.gov.Proposals()
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestBuckets(t *testing.T) {
	s := newSetup(t)
	require.NoError(t, s.gov.SetFirstDelegates(operator, firstDelegates(), launch-1))

	params := vesting.CategoryParams{
		Name:        "Marketing",
		TotalAmount: vdao.Tokens(1000),
		Schedule: vesting.Schedule{
			TGEPerMille:        100,
			Cliff:              6 * vdao.MonthSeconds,
			AfterCliffPerMille: 100,
			PeriodDuration:     vdao.MonthSeconds,
			UnlockPerMille:     100,
		},
	}
	_, err := s.gov.CreateCategory(addr("x"), params)
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)

	id, err := s.gov.CreateCategory(operator, params)
	require.NoError(t, err)

	claimable, err := s.gov.CategoryClaimable(id, launch+6*vdao.MonthSeconds)
	require.NoError(t, err)
	assert.Equal(t, vdao.Tokens(200), claimable)

	_, err = s.gov.ClaimCategory(addr("outsider"), id, launch)
	assert.ErrorIs(t, err, ErrNotDelegate)

	paid, err := s.gov.ClaimCategory(firstDelegates()[0], id, launch)
	require.NoError(t, err)
	assert.Equal(t, vdao.Tokens(100), paid)

	paid, err = s.gov.ClaimCategory(firstDelegates()[1], id, launch+vdao.YearSeconds*2)
	require.NoError(t, err)
	assert.Equal(t, vdao.Tokens(900), paid)

	bal, err := s.token.BalanceOf(treasury)
	require.NoError(t, err)
	assert.Equal(t, vdao.Tokens(1000), bal)
}
