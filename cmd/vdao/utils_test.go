// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vestradao/vdao/genesis"
	"github.com/vestradao/vdao/test/datagen"
	"github.com/vestradao/vdao/test/testengine"
	"github.com/vestradao/vdao/vdao"
)

func TestReadIntFromUInt64Flag(t *testing.T) {
	got, err := readIntFromUInt64Flag(42)
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	got, err = readIntFromUInt64Flag(uint64(math.MaxInt))
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, got)

	_, err = readIntFromUInt64Flag(uint64(math.MaxInt) + 1)
	assert.Error(t, err)
}

func TestWithFlags(t *testing.T) {
	base := withFlags([]cli.Flag{timeFlag}, dataDirFlag)
	a := withFlags(base, accountFlag)
	b := withFlags(base, fileFlag)

	assert.Len(t, base, 2)
	assert.Equal(t, accountFlag, a[2])
	assert.Equal(t, fileFlag, b[2])
}

func TestDecodeCSVAllocations(t *testing.T) {
	alice, bob := datagen.RandAddress(), datagen.RandAddress()
	data := "category,account,amount\n" +
		"# seed round\n" +
		"PrivateSale, " + alice.String() + ", 1000\n" +
		"Airdrop," + bob.String() + ",1.5\n"

	list, err := decodeCSVAllocations(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, list, 2, spew.Sdump(list))
	assert.Equal(t, "PrivateSale", list[0].Category)
	assert.Equal(t, alice, list[0].Account)
	assert.Equal(t, vdao.Tokens(1000), list[0].Amount.Int())
	assert.Equal(t, "1.5", vdao.FormatTokens(list[1].Amount.Int()))

	_, err = decodeCSVAllocations(strings.NewReader("Airdrop,0x01,1\n"))
	assert.ErrorContains(t, err, "row 1")

	_, err = decodeCSVAllocations(strings.NewReader("Airdrop," + bob.String() + "\n"))
	assert.Error(t, err)
}

func TestReadYAMLAllocations(t *testing.T) {
	alice := datagen.RandAddress()
	path := filepath.Join(t.TempDir(), "allocations.yaml")
	data := "- category: Team\n  account: " + alice.String() + "\n  amount: \"250\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	list, err := readAllocations(path)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Team", list[0].Category)
	assert.Equal(t, vdao.Tokens(250), list[0].Amount.Int())

	require.NoError(t, os.WriteFile(path, []byte("- category: Team\n  bogus: 1\n"), 0o600))
	_, err = readAllocations(path)
	assert.Error(t, err)
}

func TestApplyAllocations(t *testing.T) {
	eng, err := testengine.NewDefault()
	require.NoError(t, err)
	defer eng.Close()

	alice, bob := datagen.RandAddress(), datagen.RandAddress()
	list := []genesis.AllocationConfig{
		{Category: "PrivateSale", Account: alice, Amount: genesis.Amount(*vdao.Tokens(1000))},
		{Category: "Airdrop", Account: bob, Amount: genesis.Amount(*vdao.Tokens(10))},
	}
	n, err := applyAllocations(eng.Engine, eng.Operator(), list)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, err := claimableRows(eng.Engine, alice, 0, eng.Now())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"1", "PrivateSale", "100"}, strings.Fields(rows[0]))

	rows, err = claimableRows(eng.Engine, bob, 2, eng.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "Airdrop", "0"}, strings.Fields(rows[0]))

	n, err = applyAllocations(eng.Engine, eng.Operator(), []genesis.AllocationConfig{
		{Category: "Team", Account: bob, Amount: genesis.Amount(*vdao.Tokens(1))},
		{Category: "Nope", Account: bob, Amount: genesis.Amount(*vdao.Tokens(1))},
	})
	assert.ErrorContains(t, err, "unknown category")
	assert.Equal(t, 1, n)

	_, err = applyAllocations(eng.Engine, bob, list)
	assert.Error(t, err)
}

func TestGenesisDiff(t *testing.T) {
	assert.Empty(t, genesisDiff(genesis.Default(), genesis.Default()))

	changed := genesis.Default()
	changed.LaunchTime += 60
	diff := genesisDiff(genesis.Default(), changed)
	assert.Contains(t, diff, "--- Expected")
	assert.Contains(t, diff, "-launchTime:")
	assert.Contains(t, diff, "+launchTime:")
}

func TestStoreSizing(t *testing.T) {
	size := normalizeCacheSize(1)
	assert.Positive(t, size)
	assert.LessOrEqual(t, size, 128)
	assert.Positive(t, suggestFDCache())
	assert.LessOrEqual(t, suggestFDCache(), 5120)
}
