// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testengine

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/vestradao/vdao/engine"
	"github.com/vestradao/vdao/eventdb"
	"github.com/vestradao/vdao/genesis"
	"github.com/vestradao/vdao/lvldb"
	"github.com/vestradao/vdao/vdao"
)

// Network is the network name the test deployment is recorded under.
const Network = "testnet"

// Engine is an engine over in-memory stores with a deployment applied.
// The clock starts at the launch time.
type Engine struct {
	*engine.Engine
	Clock  *engine.FixedClock
	Config *genesis.Config
	Result *genesis.Result

	store  *lvldb.LevelDB
	events *eventdb.EventDB
}

// NewDefault creates a test engine with the default deployment.
func NewDefault() (*Engine, error) {
	return New(genesis.Default())
}

// New creates a test engine with the given deployment.
func New(cfg *genesis.Config) (*Engine, error) {
	store, err := lvldb.NewMem()
	if err != nil {
		return nil, fmt.Errorf("unable to open state store: %w", err)
	}
	events, err := eventdb.NewMem()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("unable to open event store: %w", err)
	}

	clock := engine.NewFixedClock(cfg.DeployTime)
	eng := engine.New(store, events, clock)
	res, err := genesis.Build(context.Background(), eng, cfg, Network)
	if err != nil {
		events.Close()
		store.Close()
		return nil, fmt.Errorf("unable to build genesis: %w", err)
	}
	clock.Set(cfg.LaunchTime)

	return &Engine{
		Engine: eng,
		Clock:  clock,
		Config: cfg,
		Result: res,
		store:  store,
		events: events,
	}, nil
}

// Operator returns the deployment operator.
func (e *Engine) Operator() vdao.Address {
	return e.Config.Operator
}

// Fund moves amount from the operator to account at the current time.
func (e *Engine) Fund(account vdao.Address, amount *uint256.Int) error {
	return e.Transfer(e.Config.Operator, account, amount, e.Clock.Now())
}

// Close releases both stores.
func (e *Engine) Close() error {
	if err := e.events.Close(); err != nil {
		return err
	}
	return e.store.Close()
}
