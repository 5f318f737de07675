// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestradao/vdao/builtin/reverts"
	"github.com/vestradao/vdao/vdao"
)

const launch = uint64(1735689600)

var (
	// 10% at launch, 15% every month after a month of cliff.
	privateSale = Schedule{TGEPerMille: 100, Cliff: vdao.MonthSeconds, PeriodDuration: vdao.MonthSeconds, UnlockPerMille: 150}
	// shares that never add up to 1000 exactly.
	advisors = Schedule{TGEPerMille: 50, Cliff: 6 * vdao.MonthSeconds, AfterCliffPerMille: 15, PeriodDuration: vdao.MonthSeconds, UnlockPerMille: 15}
)

func TestScheduleValidate(t *testing.T) {
	tests := []struct {
		name  string
		sched Schedule
		ok    bool
	}{
		{"private sale", privateSale, true},
		{"advisors", advisors, true},
		{"all at launch", Schedule{TGEPerMille: 1000}, true},
		{"all at cliff", Schedule{Cliff: vdao.YearSeconds, AfterCliffPerMille: 1000}, true},
		{"tge above 1000", Schedule{TGEPerMille: 1001}, false},
		{"unlock above 1000", Schedule{TGEPerMille: 100, PeriodDuration: 1, UnlockPerMille: 1001}, false},
		{"tge and cliff above 1000", Schedule{TGEPerMille: 600, AfterCliffPerMille: 401}, false},
		{"never completes", Schedule{TGEPerMille: 100, PeriodDuration: vdao.MonthSeconds}, false},
		{"zero period", Schedule{TGEPerMille: 100, UnlockPerMille: 100}, false},
		{"overflowing duration", Schedule{Cliff: ^uint64(0), PeriodDuration: 10, UnlockPerMille: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sched.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidSchedule)
			assert.Equal(t, reverts.Validation, reverts.KindOf(err))
		})
	}
}

func TestSchedulePeriods(t *testing.T) {
	assert.Equal(t, uint64(6), privateSale.Periods())
	assert.Equal(t, uint64(63), advisors.Periods())
	assert.Equal(t, uint64(0), Schedule{TGEPerMille: 1000}.Periods())
	assert.Equal(t, 7*vdao.MonthSeconds, privateSale.Duration())
}

func TestVestedPrivateSale(t *testing.T) {
	amount := uint256.NewInt(1_000_003)
	tests := []struct {
		name string
		now  uint64
		want uint64
	}{
		{"before launch", launch - 1, 0},
		{"at launch", launch, 100_000},
		{"inside cliff", launch + vdao.MonthSeconds - 1, 100_000},
		{"cliff ends, no period yet", launch + vdao.MonthSeconds, 100_000},
		{"one period", launch + 2*vdao.MonthSeconds, 100_000 + 150_000},
		{"five periods", launch + 6*vdao.MonthSeconds, 100_000 + 5*150_000},
		{"final period releases the remainder", launch + 7*vdao.MonthSeconds, 1_000_003},
		{"long after", launch + 10*vdao.YearSeconds, 1_000_003},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := privateSale.Vested(amount, launch, tt.now, RemainderRelease)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Uint64())
		})
	}
}

func TestVestedStrictTruncation(t *testing.T) {
	amount := uint256.NewInt(1_000_003)
	got, err := privateSale.Vested(amount, launch, launch+7*vdao.MonthSeconds, StrictTruncation)
	require.NoError(t, err)
	// 100000 + 6 * 150000, 3 units of dust stay behind
	assert.Equal(t, uint64(1_000_000), got.Uint64())

	got, err = advisors.Vested(amount, launch, launch+advisors.Duration(), StrictTruncation)
	require.NoError(t, err)
	// 50 + 15 + 62*15 + 5 per-mille, each truncated on its own
	want := uint64(50_000 + 15_000 + 62*15_000 + 5_000)
	assert.Equal(t, want, got.Uint64())

	got, err = advisors.Vested(amount, launch, launch+advisors.Duration(), RemainderRelease)
	require.NoError(t, err)
	assert.Equal(t, amount, got)
}

func TestVestedAfterCliffRelease(t *testing.T) {
	amount := vdao.Tokens(1000)
	got, err := advisors.Vested(amount, launch, launch+6*vdao.MonthSeconds-1, RemainderRelease)
	require.NoError(t, err)
	assert.Equal(t, vdao.Tokens(50), got)

	got, err = advisors.Vested(amount, launch, launch+6*vdao.MonthSeconds, RemainderRelease)
	require.NoError(t, err)
	assert.Equal(t, vdao.Tokens(65), got)

	got, err = advisors.Vested(amount, launch, launch+8*vdao.MonthSeconds, RemainderRelease)
	require.NoError(t, err)
	assert.Equal(t, vdao.Tokens(95), got)
}

func TestVestedHugeAmount(t *testing.T) {
	amount := new(uint256.Int).SetAllOne()
	got, err := privateSale.Vested(amount, launch, launch+2*vdao.MonthSeconds, RemainderRelease)
	require.NoError(t, err)
	assert.True(t, got.Lt(amount))

	got, err = privateSale.Vested(amount, launch, launch+privateSale.Duration(), RemainderRelease)
	require.NoError(t, err)
	assert.Equal(t, amount, got)
}

// randomSchedule draws a valid schedule with small durations.
func randomSchedule(f *fuzz.Fuzzer) Schedule {
	var tge, after, unlock uint16
	var cliff, period uint8
	f.Fuzz(&tge)
	f.Fuzz(&after)
	f.Fuzz(&unlock)
	f.Fuzz(&cliff)
	f.Fuzz(&period)

	s := Schedule{
		TGEPerMille: uint64(tge) % 1001,
		Cliff:       uint64(cliff) * vdao.DaySeconds,
	}
	s.AfterCliffPerMille = uint64(after) % (vdao.PerMille - s.TGEPerMille + 1)
	s.UnlockPerMille = uint64(unlock)%vdao.PerMille + 1
	s.PeriodDuration = (uint64(period)%60 + 1) * vdao.DaySeconds
	return s
}

func TestVestedProperties(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for i := 0; i < 200; i++ {
		s := randomSchedule(f)
		require.NoError(t, s.Validate(), "%+v", s)

		var raw uint64
		f.Fuzz(&raw)
		amount := uint256.NewInt(raw%1e12 + 1)

		for _, policy := range []Policy{RemainderRelease, StrictTruncation} {
			prev := vdao.Zero()
			step := s.PeriodDuration / 2
			for now := launch; now <= launch+s.Duration()+s.PeriodDuration; now += step {
				got, err := s.Vested(amount, launch, now, policy)
				require.NoError(t, err)
				require.False(t, got.Lt(prev), "vested went down for %+v at %d", s, now-launch)
				require.False(t, got.Gt(amount))
				prev = got
			}

			final, err := s.Vested(amount, launch, launch+s.Duration(), policy)
			require.NoError(t, err)
			if policy == RemainderRelease {
				assert.Equal(t, amount, final, "%+v", s)
			} else {
				dust := new(uint256.Int).Sub(amount, final)
				assert.True(t, dust.Uint64() <= s.Periods()+2, "dust %v for %+v", dust, s)
			}
		}
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, RemainderRelease, p)

	p, err = ParsePolicy(StrictTruncation.String())
	require.NoError(t, err)
	assert.Equal(t, StrictTruncation, p)

	_, err = ParsePolicy("round")
	assert.Error(t, err)
}
