// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"
	"os"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vestradao/vdao/builtin"
	"github.com/vestradao/vdao/builtin/governance"
	"github.com/vestradao/vdao/builtin/lockstake"
	"github.com/vestradao/vdao/builtin/vesting"
	"github.com/vestradao/vdao/vdao"
)

// Config describes the initial deployment: supply, custody of every
// builtin and the parameters each one is initialized with. Durations are
// in seconds, rates in the unit their field name says.
type Config struct {
	LaunchTime uint64 `yaml:"launchTime"`
	// DeployTime is the time genesis runs at. It must precede LaunchTime
	// when first delegates are seated.
	DeployTime  uint64             `yaml:"deployTime"`
	Operator    vdao.Address       `yaml:"operator"`
	Treasury    vdao.Address       `yaml:"treasury"`
	TotalSupply Amount             `yaml:"totalSupply"`
	Vesting     VestingConfig      `yaml:"vesting"`
	LockStake   LockStakeConfig    `yaml:"lockStake"`
	Flexible    []FlexConfig       `yaml:"flexible"`
	DAO         DAOConfig          `yaml:"dao"`
	Allocations []AllocationConfig `yaml:"allocations,omitempty"`
}

type CategoryConfig struct {
	Name               string `yaml:"name"`
	Amount             Amount `yaml:"amount"`
	TGEPerMille        uint64 `yaml:"tgePerMille"`
	Cliff              uint64 `yaml:"cliff"`
	AfterCliffPerMille uint64 `yaml:"afterCliffPerMille,omitempty"`
	PeriodDuration     uint64 `yaml:"periodDuration"`
	UnlockPerMille     uint64 `yaml:"unlockPerMille"`
}

func (c *CategoryConfig) params() vesting.CategoryParams {
	return vesting.CategoryParams{
		Name:        c.Name,
		TotalAmount: c.Amount.Int(),
		Schedule: vesting.Schedule{
			TGEPerMille:        c.TGEPerMille,
			Cliff:              c.Cliff,
			AfterCliffPerMille: c.AfterCliffPerMille,
			PeriodDuration:     c.PeriodDuration,
			UnlockPerMille:     c.UnlockPerMille,
		},
	}
}

type VestingConfig struct {
	// Policy is "remainder" (default) or "strict".
	Policy     string           `yaml:"policy,omitempty"`
	Funding    Amount           `yaml:"funding,omitempty"`
	Categories []CategoryConfig `yaml:"categories"`
}

type TierConfig struct {
	Name                   string `yaml:"name"`
	MaturityMonths         uint64 `yaml:"maturityMonths"`
	APRBasisPoints         uint64 `yaml:"aprBasisPoints"`
	UnlockDuration         uint64 `yaml:"unlockDuration"`
	RewardPool             Amount `yaml:"rewardPool"`
	MaxPerAccount          Amount `yaml:"maxPerAccount"`
	TotalCap               Amount `yaml:"totalCap"`
	LateUnstakeFeeDuration uint64 `yaml:"lateUnstakeFeeDuration"`
}

func (t *TierConfig) params() lockstake.TierParams {
	return lockstake.TierParams{
		Name:                   t.Name,
		MaturityMonths:         t.MaturityMonths,
		APRBasisPoints:         t.APRBasisPoints,
		UnlockDuration:         t.UnlockDuration,
		RewardPool:             t.RewardPool.Int(),
		MaxPerAccount:          t.MaxPerAccount.Int(),
		TotalCap:               t.TotalCap.Int(),
		LateUnstakeFeeDuration: t.LateUnstakeFeeDuration,
	}
}

type LockStakeConfig struct {
	Funding Amount       `yaml:"funding,omitempty"`
	Tiers   []TierConfig `yaml:"tiers"`
}

type FlexConfig struct {
	// Name selects the builtin: Flexible or StakingDAO.
	Name         string `yaml:"name"`
	DailyRatePPM uint64 `yaml:"dailyRatePPM"`
	LockPeriod   uint64 `yaml:"lockPeriod,omitempty"`
	RewardBudget Amount `yaml:"rewardBudget"`
	Funding      Amount `yaml:"funding,omitempty"`
}

type DAOConfig struct {
	ElectionPeriod       uint64           `yaml:"electionPeriod"`
	CandidacyWindow      uint64           `yaml:"candidacyWindow"`
	VotingWindow         uint64           `yaml:"votingWindow"`
	ProposalVotingWindow uint64           `yaml:"proposalVotingWindow"`
	Seats                uint64           `yaml:"seats,omitempty"`
	FirstDelegates       []vdao.Address   `yaml:"firstDelegates"`
	Funding              Amount           `yaml:"funding,omitempty"`
	Categories           []CategoryConfig `yaml:"categories"`
}

func (d *DAOConfig) epoch(launch uint64) governance.Epoch {
	return governance.Epoch{
		LaunchTime:           launch,
		ElectionPeriod:       d.ElectionPeriod,
		CandidacyWindow:      d.CandidacyWindow,
		VotingWindow:         d.VotingWindow,
		ProposalVotingWindow: d.ProposalVotingWindow,
	}
}

// AllocationConfig grants account a share of a vesting category.
type AllocationConfig struct {
	Category string       `yaml:"category"`
	Account  vdao.Address `yaml:"account"`
	Amount   Amount       `yaml:"amount"`
}

// Load reads a YAML config from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return cfg, nil
}

// Parse decodes and validates a YAML config. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Marshal encodes the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, errors.Wrap(err, "encode genesis")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encode genesis")
	}
	return buf.Bytes(), nil
}

func sumCategories(cats []CategoryConfig) (*uint256.Int, error) {
	sum := new(uint256.Int)
	for i := range cats {
		if _, overflow := sum.AddOverflow(sum, cats[i].Amount.Int()); overflow {
			return nil, errors.New("category amounts overflow")
		}
	}
	return sum, nil
}

func sumTierPools(tiers []TierConfig) (*uint256.Int, error) {
	sum := new(uint256.Int)
	for i := range tiers {
		if _, overflow := sum.AddOverflow(sum, tiers[i].RewardPool.Int()); overflow {
			return nil, errors.New("reward pools overflow")
		}
	}
	return sum, nil
}

// fundingOrAtLeast returns the explicit funding, or need when none is given.
// Explicit funding below need is an error.
func fundingOrAtLeast(what string, funding *Amount, need *uint256.Int) (*uint256.Int, error) {
	if funding.IsZero() {
		return need, nil
	}
	if funding.Int().Lt(need) {
		return nil, errors.Errorf("%s funding %s below the %s it must cover", what, vdao.FormatTokens(funding.Int()), vdao.FormatTokens(need))
	}
	return funding.Int(), nil
}

// custody is how much each builtin receives from the operator at genesis.
type custody struct {
	vesting   *uint256.Int
	lockStake *uint256.Int
	flexible  map[string]*uint256.Int
	dao       *uint256.Int
}

func (c *Config) custody() (*custody, error) {
	var (
		out = &custody{flexible: make(map[string]*uint256.Int)}
		err error
	)
	need, err := sumCategories(c.Vesting.Categories)
	if err != nil {
		return nil, err
	}
	if out.vesting, err = fundingOrAtLeast("vesting", &c.Vesting.Funding, need); err != nil {
		return nil, err
	}
	if need, err = sumTierPools(c.LockStake.Tiers); err != nil {
		return nil, err
	}
	if out.lockStake, err = fundingOrAtLeast("lock stake", &c.LockStake.Funding, need); err != nil {
		return nil, err
	}
	for i := range c.Flexible {
		f := &c.Flexible[i]
		if out.flexible[f.Name], err = fundingOrAtLeast(f.Name, &f.Funding, f.RewardBudget.Int()); err != nil {
			return nil, err
		}
	}
	if need, err = sumCategories(c.DAO.Categories); err != nil {
		return nil, err
	}
	if out.dao, err = fundingOrAtLeast("dao", &c.DAO.Funding, need); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *custody) total() (*uint256.Int, bool) {
	sum := new(uint256.Int).Set(c.vesting)
	_, o1 := sum.AddOverflow(sum, c.lockStake)
	_, o2 := sum.AddOverflow(sum, c.dao)
	overflow := o1 || o2
	for _, v := range c.flexible {
		_, o := sum.AddOverflow(sum, v)
		overflow = overflow || o
	}
	return sum, overflow
}

// Validate checks what can be checked without running the builtins.
// Rule violations of the builtins themselves surface when building.
func (c *Config) Validate() error {
	switch {
	case c.LaunchTime == 0:
		return errors.New("launchTime is required")
	case c.Operator.IsZero():
		return errors.New("operator is required")
	case c.Treasury.IsZero():
		return errors.New("treasury is required")
	case c.TotalSupply.IsZero():
		return errors.New("totalSupply is required")
	case len(c.DAO.FirstDelegates) > 0 && c.DeployTime >= c.LaunchTime:
		return errors.New("deployTime must precede launchTime to seat first delegates")
	}
	if _, err := vesting.ParsePolicy(c.Vesting.Policy); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, f := range c.Flexible {
		if _, ok := builtin.FlexPool(f.Name); !ok {
			return errors.Errorf("unknown flexible pool %q", f.Name)
		}
		if seen[f.Name] {
			return errors.Errorf("flexible pool %q configured twice", f.Name)
		}
		seen[f.Name] = true
	}
	cust, err := c.custody()
	if err != nil {
		return err
	}
	total, overflow := cust.total()
	if overflow || total.Gt(c.TotalSupply.Int()) {
		return errors.Errorf("custody %s exceeds total supply %s", vdao.FormatTokens(total), vdao.FormatTokens(c.TotalSupply.Int()))
	}
	return nil
}
