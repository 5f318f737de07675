// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/vestradao/vdao/vdao"
)

const (
	day   = vdao.DaySeconds
	month = vdao.MonthSeconds
	year  = vdao.YearSeconds

	// DefaultLaunchTime is 2025-01-01T00:00:00Z.
	DefaultLaunchTime uint64 = 1735689600
	// DefaultDeployTime is 2024-12-01T00:00:00Z, the private sale opening.
	DefaultDeployTime uint64 = 1733011200
)

// Default returns the production deployment.
func Default() *Config {
	return &Config{
		LaunchTime:  DefaultLaunchTime,
		DeployTime:  DefaultDeployTime,
		Operator:    vdao.MustParseAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		Treasury:    vdao.MustParseAddress("0x23618e81E3f5cdF7f54C3d65f7FBc0aBf5B21E8f"),
		TotalSupply: tokens(50_000_000_000),
		Vesting: VestingConfig{
			Policy: "remainder",
			Categories: []CategoryConfig{
				{Name: "PrivateSale", Amount: tokens(2_000_000_000), TGEPerMille: 100, Cliff: 3 * month, PeriodDuration: month, UnlockPerMille: 150},
				{Name: "Airdrop", Amount: tokens(1_000_000_000), Cliff: 3 * month, PeriodDuration: month, UnlockPerMille: 100},
				{Name: "Team", Amount: tokens(7_500_000_000), Cliff: 12 * month, PeriodDuration: month, UnlockPerMille: 50},
			},
		},
		LockStake: LockStakeConfig{
			Funding: tokens(750_000_000),
			Tiers: []TierConfig{
				{
					Name: "1 Month", MaturityMonths: 1, APRBasisPoints: 400, UnlockDuration: month,
					RewardPool: tokens(1_875_000), MaxPerAccount: tokens(500_000), TotalCap: tokens(46_875_000),
					LateUnstakeFeeDuration: 7 * day,
				},
				{
					Name: "3 Month", MaturityMonths: 3, APRBasisPoints: 800, UnlockDuration: 3 * month,
					RewardPool: tokens(5_625_000), MaxPerAccount: tokens(750_000), TotalCap: tokens(70_312_000),
					LateUnstakeFeeDuration: 7 * day,
				},
				{
					Name: "6 Month", MaturityMonths: 6, APRBasisPoints: 1200, UnlockDuration: 6 * month,
					RewardPool: tokens(11_250_000), MaxPerAccount: tokens(1_000_000), TotalCap: tokens(93_750_000),
					LateUnstakeFeeDuration: 14 * day,
				},
				{
					Name: "12 Month", MaturityMonths: 12, APRBasisPoints: 1600, UnlockDuration: 12 * month,
					RewardPool: tokens(22_500_000), MaxPerAccount: tokens(2_000_000), TotalCap: tokens(140_625_000),
					LateUnstakeFeeDuration: 14 * day,
				},
			},
		},
		Flexible: []FlexConfig{
			{Name: "Flexible", DailyRatePPM: 137, RewardBudget: tokens(750_000_000)},
			{Name: "StakingDAO", DailyRatePPM: 274, LockPeriod: 24 * month, RewardBudget: tokens(1_000_000_000)},
		},
		DAO: DAOConfig{
			ElectionPeriod:       3 * year,
			CandidacyWindow:      10 * day,
			VotingWindow:         10 * day,
			ProposalVotingWindow: 3 * day,
			Seats:                7,
			FirstDelegates: []vdao.Address{
				vdao.MustParseAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
				vdao.MustParseAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
				vdao.MustParseAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"),
				vdao.MustParseAddress("0x90F79bf6EB2c4f870365E785982E1f101E93b906"),
				vdao.MustParseAddress("0x15d34AAf54267DB7D7c367839AAf71A00a2C6A65"),
				vdao.MustParseAddress("0x9965507D1a55bcC2695C58ba16FB37d819B0A4dc"),
				vdao.MustParseAddress("0x976EA74026E726554dB657fA54763abd0C3a0aa9"),
			},
			Categories: []CategoryConfig{
				{Name: "GameFi", Amount: tokens(4_500_000_000), TGEPerMille: 50, Cliff: 12 * month, AfterCliffPerMille: 100, PeriodDuration: month, UnlockPerMille: 10},
				{Name: "Metaverse", Amount: tokens(4_000_000_000), TGEPerMille: 100, Cliff: 12 * month, AfterCliffPerMille: 300, PeriodDuration: 3 * month, UnlockPerMille: 30},
				{Name: "Collaborations", Amount: tokens(2_250_000_000), TGEPerMille: 200, Cliff: 9 * month, AfterCliffPerMille: 50, PeriodDuration: month, UnlockPerMille: 50},
				{Name: "Investments", Amount: tokens(3_750_000_000), TGEPerMille: 50, Cliff: 6 * month, AfterCliffPerMille: 10, PeriodDuration: month, UnlockPerMille: 10},
				{Name: "Marketing", Amount: tokens(1_750_000_000), TGEPerMille: 100, Cliff: 12 * month, AfterCliffPerMille: 10, PeriodDuration: month, UnlockPerMille: 10},
				{Name: "Development", Amount: tokens(1_650_000_000), TGEPerMille: 150, Cliff: 3 * month, AfterCliffPerMille: 25, PeriodDuration: month, UnlockPerMille: 25},
				{Name: "Charities", Amount: tokens(1_250_000_000), Cliff: 3 * month, AfterCliffPerMille: 10, PeriodDuration: month, UnlockPerMille: 10},
				{Name: "Advisors", Amount: tokens(1_350_000_000), TGEPerMille: 50, Cliff: 3 * month, AfterCliffPerMille: 15, PeriodDuration: month, UnlockPerMille: 15},
				{Name: "Treasury", Amount: tokens(10_000_000_000), TGEPerMille: 100, Cliff: 12 * month, AfterCliffPerMille: 50, PeriodDuration: 3 * month, UnlockPerMille: 50},
				{Name: "Bounties", Amount: tokens(1_000_000_000), TGEPerMille: 1000, PeriodDuration: 1},
				{Name: "SocialFi", Amount: tokens(4_250_000_000), TGEPerMille: 1000, PeriodDuration: 1},
			},
		},
	}
}
