// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"github.com/vestradao/vdao/vdao"
)

type config struct {
	Operator vdao.Address
	Treasury vdao.Address
	Epoch    Epoch
	Seats    uint64
}

type candidate struct {
	Order uint64
	Votes uint64
}

// Candidate is a registered candidate of one election with its tally.
type Candidate struct {
	Account vdao.Address
	Order   uint64
	Votes   uint64
}

type power struct {
	Weight uint64
}

type proposalBody struct {
	Proposer vdao.Address
	Title    string
	Created  uint64
	Deadline uint64
	Yes      uint64
	No       uint64
}

// ProposalStatus is the outcome of a proposal at a given time.
type ProposalStatus uint8

const (
	ProposalOpen ProposalStatus = iota
	ProposalPassed
	ProposalRejected
)

func (s ProposalStatus) String() string {
	switch s {
	case ProposalOpen:
		return "open"
	case ProposalPassed:
		return "passed"
	case ProposalRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Proposal is a delegate proposal with its tally.
type Proposal struct {
	ID uint64
	*proposalBody
}

// Status returns the outcome at now. A proposal passes with strictly more yes than no votes.
func (p *Proposal) Status(now uint64) ProposalStatus {
	if now < p.Deadline {
		return ProposalOpen
	}
	if p.Yes > p.No {
		return ProposalPassed
	}
	return ProposalRejected
}

func candidateKey(election uint64, account vdao.Address) vdao.Bytes32 {
	return vdao.Blake2b([]byte("candidate"), vdao.Uint64ToBytes32(election).Bytes(), account.Bytes())
}

func candidateListKey(election, n uint64) vdao.Bytes32 {
	return vdao.Blake2b([]byte("candidate-list"), vdao.Uint64ToBytes32(election).Bytes(), vdao.Uint64ToBytes32(n).Bytes())
}

func ballotKey(election uint64, voter vdao.Address) vdao.Bytes32 {
	return vdao.Blake2b([]byte("ballot"), vdao.Uint64ToBytes32(election).Bytes(), voter.Bytes())
}

func proposalBallotKey(proposal uint64, delegate vdao.Address) vdao.Bytes32 {
	return vdao.Blake2b([]byte("proposal-ballot"), vdao.Uint64ToBytes32(proposal).Bytes(), delegate.Bytes())
}
