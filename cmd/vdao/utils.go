// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vestradao/vdao/engine"
	"github.com/vestradao/vdao/genesis"
	"github.com/vestradao/vdao/vdao"
)

func parseAccount(ctx *cli.Context) (vdao.Address, error) {
	v := ctx.String(accountFlag.Name)
	if v == "" {
		return vdao.Address{}, errors.Errorf("missing -%s", accountFlag.Name)
	}
	addr, err := vdao.ParseAddress(v)
	if err != nil {
		return vdao.Address{}, errors.WithMessage(err, accountFlag.Name)
	}
	return addr, nil
}

func formatAmount(v *uint256.Int) string {
	return vdao.FormatTokens(v)
}

// claimableRows renders what account can claim now in category, or in every
// category it holds an allocation in when category is zero.
func claimableRows(eng *engine.Engine, account vdao.Address, category uint64, now uint64) ([]string, error) {
	ids := []uint64{category}
	if category == 0 {
		allocs, err := eng.AllocationsOf(account)
		if err != nil {
			return nil, err
		}
		ids = ids[:0]
		for _, a := range allocs {
			ids = append(ids, a.Category)
		}
	}

	rows := make([]string, 0, len(ids))
	for _, id := range ids {
		cat, err := eng.Category(id)
		if err != nil {
			return nil, err
		}
		amount, err := eng.Claimable(account, id, now)
		if err != nil {
			return nil, err
		}
		rows = append(rows, fmt.Sprintf("%d %-16s %s", id, cat.Name, formatAmount(amount)))
	}
	return rows, nil
}

// readAllocations decodes an allocation list. Files ending in .csv hold
// category,account,amount rows with an optional header, anything else is
// read as a YAML list.
func readAllocations(path string) ([]genesis.AllocationConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open allocations")
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return decodeCSVAllocations(f)
	}
	var list []genesis.AllocationConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&list); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode allocations")
	}
	return list, nil
}

func decodeCSVAllocations(r io.Reader) ([]genesis.AllocationConfig, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "decode allocations")
	}
	if len(records) > 0 && strings.EqualFold(records[0][0], "category") {
		records = records[1:]
	}

	list := make([]genesis.AllocationConfig, 0, len(records))
	for i, rec := range records {
		account, err := vdao.ParseAddress(rec[1])
		if err != nil {
			return nil, errors.WithMessagef(err, "row %d", i+1)
		}
		amount, err := vdao.ParseTokens(rec[2])
		if err != nil {
			return nil, errors.WithMessagef(err, "row %d", i+1)
		}
		list = append(list, genesis.AllocationConfig{
			Category: strings.TrimSpace(rec[0]),
			Account:  account,
			Amount:   genesis.Amount(*amount),
		})
	}
	return list, nil
}

// categoryIDs maps category names to ids.
func categoryIDs(eng *engine.Engine) (map[string]uint64, error) {
	cats, err := eng.Categories()
	if err != nil {
		return nil, err
	}
	ids := make(map[string]uint64, len(cats))
	for _, c := range cats {
		ids[c.Name] = c.ID
	}
	return ids, nil
}

func allocateAction(ctx *cli.Context) error {
	if _, err := initLogger(ctx); err != nil {
		return err
	}
	path := ctx.String(fileFlag.Name)
	if path == "" {
		return errors.Errorf("missing -%s", fileFlag.Name)
	}
	list, err := readAllocations(path)
	if err != nil {
		return err
	}
	eng, cfg, s, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	n, err := applyAllocations(eng, cfg.Operator, list)
	if err != nil {
		return errors.WithMessagef(err, "%d of %d allocations applied", n, len(list))
	}
	logger.Info("allocations applied", "count", n)
	return nil
}

// applyAllocations grants every entry as operator and returns how many
// succeeded before the first failure.
func applyAllocations(eng *engine.Engine, operator vdao.Address, list []genesis.AllocationConfig) (int, error) {
	ids, err := categoryIDs(eng)
	if err != nil {
		return 0, err
	}

	fmt.Println(">> Applying allocations <<")
	pb := pb.New64(int64(len(list))).
		SetMaxWidth(90).
		Start()
	defer func() { pb.NotPrint = true }()

	for i, a := range list {
		id, ok := ids[a.Category]
		if !ok {
			return i, errors.Errorf("unknown category %q", a.Category)
		}
		if err := eng.Allocate(operator, id, a.Account, a.Amount.Int(), eng.Now()); err != nil {
			return i, errors.WithMessagef(err, "allocation to %v", a.Account)
		}
		pb.Add64(1)
	}
	pb.Finish()
	return len(list), nil
}

func genesisDumpAction(ctx *cli.Context) error {
	cfg, err := selectGenesis(ctx, ctx.String(dataDirFlag.Name))
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func genesisDiffAction(ctx *cli.Context) error {
	if ctx.String(genesisFlag.Name) == "" {
		return errors.Errorf("missing -%s", genesisFlag.Name)
	}
	stored, err := genesis.Load(filepath.Join(ctx.String(dataDirFlag.Name), genesisFileName))
	if err != nil {
		return err
	}
	actual, err := genesis.Load(ctx.String(genesisFlag.Name))
	if err != nil {
		return err
	}
	if diff := genesisDiff(stored, actual); diff != "" {
		fmt.Print(diff)
		return errors.New("genesis differs from the deployed one")
	}
	return nil
}

// genesisDiff compares the YAML encodings of two configs.
func genesisDiff(expected, actual *genesis.Config) string {
	e, err := expected.Marshal()
	if err != nil {
		return err.Error()
	}
	a, err := actual.Marshal()
	if err != nil {
		return err.Error()
	}
	if bytes.Equal(e, a) {
		return ""
	}
	return textDiff(string(e), string(a))
}

func textDiff(expected, actual string) string {
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "Expected",
		FromDate: "",
		ToFile:   "Actual",
		ToDate:   "",
		Context:  1,
	})
	return diff
}
