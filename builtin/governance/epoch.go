// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"github.com/pkg/errors"
)

// Phase is the stage of an election.
type Phase uint8

const (
	Idle Phase = iota
	Candidacy
	Voting
	Settled
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Candidacy:
		return "candidacy"
	case Voting:
		return "voting"
	case Settled:
		return "settled"
	default:
		return "unknown"
	}
}

// Epoch is the election cadence of the DAO.
type Epoch struct {
	LaunchTime           uint64
	ElectionPeriod       uint64
	CandidacyWindow      uint64
	VotingWindow         uint64
	ProposalVotingWindow uint64
}

// Validate checks that both windows are set and fit in one election period.
func (e Epoch) Validate() error {
	switch {
	case e.ElectionPeriod == 0:
		return errors.WithMessage(ErrInvalidEpoch, "zero election period")
	case e.CandidacyWindow == 0 || e.VotingWindow == 0:
		return errors.WithMessage(ErrInvalidEpoch, "zero candidacy or voting window")
	case e.CandidacyWindow > e.ElectionPeriod || e.VotingWindow > e.ElectionPeriod-e.CandidacyWindow:
		return errors.WithMessage(ErrInvalidEpoch, "windows exceed the election period")
	case e.ProposalVotingWindow == 0:
		return errors.WithMessage(ErrInvalidEpoch, "zero proposal voting window")
	}
	return nil
}

// PhaseAt returns the election index and its phase at now. Before launch it is always (0, Idle).
func PhaseAt(e Epoch, now uint64) (uint64, Phase) {
	if now < e.LaunchTime || e.ElectionPeriod == 0 {
		return 0, Idle
	}
	elapsed := now - e.LaunchTime
	index := elapsed / e.ElectionPeriod
	offset := elapsed % e.ElectionPeriod
	switch {
	case offset < e.CandidacyWindow:
		return index, Candidacy
	case offset < e.CandidacyWindow+e.VotingWindow:
		return index, Voting
	default:
		return index, Settled
	}
}

// ElectionStart returns when the candidacy of election index opens.
func (e Epoch) ElectionStart(index uint64) uint64 {
	return e.LaunchTime + index*e.ElectionPeriod
}

// SettledAt returns when the votes of election index are final.
func (e Epoch) SettledAt(index uint64) uint64 {
	return e.ElectionStart(index) + e.CandidacyWindow + e.VotingWindow
}
