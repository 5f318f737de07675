// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vesting releases categories of tokens to their beneficiaries over time.
package vesting

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vestradao/vdao/builtin/reverts"
	"github.com/vestradao/vdao/builtin/solidity"
	"github.com/vestradao/vdao/log"
	"github.com/vestradao/vdao/vdao"
)

var logger = log.WithContext("pkg", "vesting")

var (
	slotConfig      = vdao.BytesToBytes32([]byte("vesting-config"))
	slotCategories  = vdao.BytesToBytes32([]byte("categories"))
	slotNames       = vdao.BytesToBytes32([]byte("category-names"))
	slotCounter     = vdao.BytesToBytes32([]byte("categories-counter"))
	slotAllocations = vdao.BytesToBytes32([]byte("allocations"))
	slotReserved    = vdao.BytesToBytes32([]byte("reserved"))
)

var (
	ErrInvalidSchedule       = reverts.NewValidation("invalid vesting schedule")
	ErrInvalidCategory       = reverts.NewValidation("invalid category")
	ErrDuplicateCategory     = reverts.NewValidation("category name already exists")
	ErrCategoryNotFound      = reverts.NewValidation("category not found")
	ErrInvalidAllocation     = reverts.NewValidation("invalid allocation")
	ErrCategoryOverAllocated = reverts.NewCapacity("category over allocated")
	ErrInsufficientCustody   = reverts.NewCapacity("custody balance does not cover the reservation")
	ErrNothingToClaim        = reverts.NewState("nothing to claim")
	ErrAlreadyInitialized    = reverts.NewState("ledger already initialized")
	ErrNotInitialized        = reverts.NewState("ledger not initialized")
)

// Bank moves tokens out of the ledger custody.
type Bank interface {
	BalanceOf(addr vdao.Address) (*uint256.Int, error)
	Transfer(from, to vdao.Address, amount *uint256.Int) error
}

// Ledger holds the categories and allocations of one custody address.
type Ledger struct {
	sctx        *solidity.Context
	bank        Bank
	config      *solidity.Raw[*config]
	categories  *solidity.Mapping[solidity.Uint64, *body]
	names       *solidity.Mapping[solidity.String, uint64]
	counter     *solidity.Counter
	allocations *solidity.Mapping[vdao.Bytes32, *Allocation]
	reserved    *solidity.Uint256
}

func New(sctx *solidity.Context, bank Bank) *Ledger {
	return &Ledger{
		sctx:        sctx,
		bank:        bank,
		config:      solidity.NewRaw[*config](sctx, slotConfig),
		categories:  solidity.NewMapping[solidity.Uint64, *body](sctx, slotCategories),
		names:       solidity.NewMapping[solidity.String, uint64](sctx, slotNames),
		counter:     solidity.NewCounter(sctx, slotCounter),
		allocations: solidity.NewMapping[vdao.Bytes32, *Allocation](sctx, slotAllocations),
		reserved:    solidity.NewUint256(sctx, slotReserved),
	}
}

// Address returns the custody address of the ledger.
func (l *Ledger) Address() vdao.Address {
	return l.sctx.Address()
}

// Initialize sets the operator, the launch time and the release policy.
func (l *Ledger) Initialize(operator vdao.Address, launch uint64, policy Policy) error {
	cfg, err := l.config.Get()
	if err != nil {
		return err
	}
	if cfg != nil {
		return ErrAlreadyInitialized
	}
	if policy > StrictTruncation {
		return errors.WithMessagef(ErrInvalidSchedule, "unknown policy %v", policy)
	}
	return l.config.Insert(&config{Operator: operator, Launch: launch, Policy: uint8(policy)})
}

func (l *Ledger) loadConfig() (*config, error) {
	cfg, err := l.config.Get()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, ErrNotInitialized
	}
	return cfg, nil
}

func (l *Ledger) Launch() (uint64, error) {
	cfg, err := l.loadConfig()
	if err != nil {
		return 0, err
	}
	return cfg.Launch, nil
}

func (l *Ledger) Operator() (vdao.Address, error) {
	cfg, err := l.loadConfig()
	if err != nil {
		return vdao.Address{}, err
	}
	return cfg.Operator, nil
}

func (l *Ledger) Policy() (Policy, error) {
	cfg, err := l.loadConfig()
	if err != nil {
		return 0, err
	}
	return Policy(cfg.Policy), nil
}

// Reserved returns the tokens promised by categories and not yet claimed.
func (l *Ledger) Reserved() (*uint256.Int, error) {
	return l.reserved.Get()
}

// CreateCategory registers a new category and reserves its total from custody.
func (l *Ledger) CreateCategory(caller vdao.Address, params CategoryParams) (uint64, error) {
	cfg, err := l.loadConfig()
	if err != nil {
		return 0, err
	}
	if caller != cfg.Operator {
		return 0, reverts.ErrUnauthorized
	}
	if params.Name == "" {
		return 0, errors.WithMessage(ErrInvalidCategory, "empty name")
	}
	if params.TotalAmount == nil || params.TotalAmount.IsZero() {
		return 0, errors.WithMessage(ErrInvalidCategory, "zero total amount")
	}
	if err := params.Schedule.Validate(); err != nil {
		return 0, err
	}
	exists, err := l.names.Exists(solidity.String(params.Name))
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, errors.WithMessagef(ErrDuplicateCategory, "%q", params.Name)
	}

	reserved, err := l.reserved.Get()
	if err != nil {
		return 0, err
	}
	needed, overflow := new(uint256.Int).AddOverflow(reserved, params.TotalAmount)
	if overflow {
		return 0, reverts.ErrOverflow
	}
	custody, err := l.bank.BalanceOf(l.Address())
	if err != nil {
		return 0, err
	}
	if custody.Lt(needed) {
		return 0, errors.WithMessagef(ErrInsufficientCustody, "custody %v, needed %v", custody.Dec(), needed.Dec())
	}

	id, err := l.counter.Next()
	if err != nil {
		return 0, err
	}
	b := &body{
		Name:               params.Name,
		TotalAmount:        new(uint256.Int).Set(params.TotalAmount),
		TGEPerMille:        params.TGEPerMille,
		Cliff:              params.Cliff,
		AfterCliffPerMille: params.AfterCliffPerMille,
		PeriodDuration:     params.PeriodDuration,
		UnlockPerMille:     params.UnlockPerMille,
		Allocated:          vdao.Zero(),
		Claimed:            vdao.Zero(),
	}
	if err := l.categories.Insert(solidity.Uint64(id), b); err != nil {
		return 0, errors.Wrap(err, "failed to set category")
	}
	if err := l.names.Insert(solidity.String(params.Name), id); err != nil {
		return 0, errors.Wrap(err, "failed to index category")
	}
	l.reserved.Set(needed)

	logger.Debug("category created", "id", id, "name", params.Name, "total", params.TotalAmount)
	l.sctx.Emit(&solidity.Event{Name: "CategoryCreated", Account: caller, Ref: id, Amount: params.TotalAmount})
	return id, nil
}

// Category returns the category with the given id.
func (l *Ledger) Category(id uint64) (*Category, error) {
	b, err := l.categories.Get(solidity.Uint64(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get category")
	}
	if b == nil {
		return nil, errors.WithMessagef(ErrCategoryNotFound, "id %d", id)
	}
	return &Category{ID: id, body: b}, nil
}

// CategoryByName resolves a category through the name index.
func (l *Ledger) CategoryByName(name string) (*Category, error) {
	id, err := l.names.Get(solidity.String(name))
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, errors.WithMessagef(ErrCategoryNotFound, "%q", name)
	}
	return l.Category(id)
}

// Categories returns every category in creation order.
func (l *Ledger) Categories() ([]*Category, error) {
	count, err := l.counter.Current()
	if err != nil {
		return nil, err
	}
	cats := make([]*Category, 0, count)
	for id := uint64(1); id <= count; id++ {
		cat, err := l.Category(id)
		if err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

// Allocate adds amount to the entitlement of account in the category.
func (l *Ledger) Allocate(caller vdao.Address, categoryID uint64, account vdao.Address, amount *uint256.Int) error {
	cfg, err := l.loadConfig()
	if err != nil {
		return err
	}
	if caller != cfg.Operator {
		return reverts.ErrUnauthorized
	}
	if account.IsZero() {
		return errors.WithMessage(ErrInvalidAllocation, "zero account")
	}
	if amount == nil || amount.IsZero() {
		return errors.WithMessage(ErrInvalidAllocation, "zero amount")
	}
	cat, err := l.Category(categoryID)
	if err != nil {
		return err
	}
	allocated, overflow := new(uint256.Int).AddOverflow(cat.Allocated, amount)
	if overflow || allocated.Gt(cat.TotalAmount) {
		return errors.WithMessagef(ErrCategoryOverAllocated, "%q has %v left", cat.Name, cat.Unallocated().Dec())
	}

	alloc, err := l.Allocation(account, categoryID)
	if err != nil {
		return err
	}
	fresh := alloc.IsEmpty()
	alloc.Entitlement.Add(alloc.Entitlement, amount)
	if fresh {
		err = l.allocations.Insert(allocationKey(account, categoryID), alloc)
	} else {
		err = l.allocations.Update(allocationKey(account, categoryID), alloc)
	}
	if err != nil {
		return errors.Wrap(err, "failed to set allocation")
	}
	cat.Allocated = allocated
	if err := l.categories.Update(solidity.Uint64(categoryID), cat.body); err != nil {
		return errors.Wrap(err, "failed to update category")
	}

	l.sctx.Emit(&solidity.Event{Name: "Allocated", Account: account, Ref: categoryID, Amount: amount})
	return nil
}

// Allocation returns the allocation of account in the category. Missing allocations are empty, not nil.
func (l *Ledger) Allocation(account vdao.Address, categoryID uint64) (*Allocation, error) {
	alloc, err := l.allocations.Get(allocationKey(account, categoryID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get allocation")
	}
	if alloc == nil {
		return &Allocation{Category: categoryID, Entitlement: vdao.Zero(), Claimed: vdao.Zero()}, nil
	}
	return alloc, nil
}

// AllocationsOf returns the non-empty allocations of account.
func (l *Ledger) AllocationsOf(account vdao.Address) ([]*Allocation, error) {
	count, err := l.counter.Current()
	if err != nil {
		return nil, err
	}
	var allocs []*Allocation
	for id := uint64(1); id <= count; id++ {
		alloc, err := l.Allocation(account, id)
		if err != nil {
			return nil, err
		}
		if !alloc.IsEmpty() {
			allocs = append(allocs, alloc)
		}
	}
	return allocs, nil
}

// Claimable returns what account could claim from the category at now.
func (l *Ledger) Claimable(account vdao.Address, categoryID uint64, now uint64) (*uint256.Int, error) {
	cat, err := l.Category(categoryID)
	if err != nil {
		return nil, err
	}
	alloc, err := l.Allocation(account, categoryID)
	if err != nil {
		return nil, err
	}
	return l.claimable(cat, alloc, now)
}

func (l *Ledger) claimable(cat *Category, alloc *Allocation, now uint64) (*uint256.Int, error) {
	if alloc.IsEmpty() {
		return vdao.Zero(), nil
	}
	cfg, err := l.loadConfig()
	if err != nil {
		return nil, err
	}
	vested, err := cat.Schedule().Vested(alloc.Entitlement, cfg.Launch, now, Policy(cfg.Policy))
	if err != nil {
		return nil, err
	}
	if vested.Gt(alloc.Entitlement) {
		vested.Set(alloc.Entitlement)
	}
	if !vested.Gt(alloc.Claimed) {
		return vdao.Zero(), nil
	}
	return vested.Sub(vested, alloc.Claimed), nil
}

// Claim transfers the claimable amount to account. Once something has been claimed,
// a claim with nothing new to release pays zero instead of failing.
func (l *Ledger) Claim(account vdao.Address, categoryID uint64, now uint64) (*uint256.Int, error) {
	cat, err := l.Category(categoryID)
	if err != nil {
		return nil, err
	}
	alloc, err := l.Allocation(account, categoryID)
	if err != nil {
		return nil, err
	}
	if alloc.IsEmpty() {
		return nil, errors.WithMessagef(ErrNothingToClaim, "%v has no allocation in %q", account, cat.Name)
	}
	amount, err := l.claimable(cat, alloc, now)
	if err != nil {
		return nil, err
	}
	if amount.IsZero() {
		if alloc.Claimed.IsZero() {
			return nil, ErrNothingToClaim
		}
		return amount, nil
	}

	alloc.Claimed.Add(alloc.Claimed, amount)
	if err := l.allocations.Update(allocationKey(account, categoryID), alloc); err != nil {
		return nil, errors.Wrap(err, "failed to update allocation")
	}
	cat.Claimed.Add(cat.Claimed, amount)
	if err := l.categories.Update(solidity.Uint64(categoryID), cat.body); err != nil {
		return nil, errors.Wrap(err, "failed to update category")
	}
	if err := l.reserved.Sub(amount); err != nil {
		return nil, errors.Wrap(err, "failed to release reservation")
	}
	if err := l.bank.Transfer(l.Address(), account, amount); err != nil {
		return nil, err
	}

	logger.Debug("claimed", "account", account, "category", categoryID, "amount", amount)
	l.sctx.Emit(&solidity.Event{Name: "Claimed", Account: account, Ref: categoryID, Amount: amount})
	return amount, nil
}
