// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lockstake

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vestradao/vdao/api/restutil"
	pool "github.com/vestradao/vdao/builtin/lockstake"
	"github.com/vestradao/vdao/engine"
)

type LockStake struct {
	eng *engine.Engine
}

func New(eng *engine.Engine) *LockStake {
	return &LockStake{eng}
}

func (l *LockStake) convertStake(s *pool.Stake, now uint64) (*Stake, error) {
	tier, err := l.eng.Tier(s.Tier)
	if err != nil {
		return nil, err
	}
	pending, err := l.eng.PendingReward(s.ID, now)
	if err != nil {
		return nil, err
	}
	return &Stake{
		ID:            s.ID,
		Account:       s.Account,
		Tier:          s.Tier,
		Principal:     s.Principal,
		StartTime:     s.StartTime,
		MaturityTime:  s.MaturityTime(tier),
		Claimed:       s.Claimed,
		PendingReward: pending,
	}, nil
}

func (l *LockStake) handleGetTiers(w http.ResponseWriter, req *http.Request) error {
	months, err := restutil.Uint64Query(req, "maturity", 0)
	if err != nil {
		return err
	}
	var tiers []*pool.Tier
	if months > 0 {
		tier, err := l.eng.TierByMaturity(months)
		if err != nil {
			return err
		}
		tiers = append(tiers, tier)
	} else if tiers, err = l.eng.Tiers(); err != nil {
		return err
	}
	out := make([]*Tier, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, convertTier(t))
	}
	return restutil.WriteJSON(w, out)
}

func (l *LockStake) handleGetTier(w http.ResponseWriter, req *http.Request) error {
	id, err := restutil.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	tier, err := l.eng.Tier(id)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, convertTier(tier))
}

func (l *LockStake) handleCreateTier(w http.ResponseWriter, req *http.Request) error {
	caller, err := restutil.Caller(req)
	if err != nil {
		return err
	}
	var body CreateTier
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	id, err := l.eng.CreateMaturityStake(caller, body.Params(), l.eng.Now())
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Created{ID: id})
}

func (l *LockStake) handleStake(w http.ResponseWriter, req *http.Request) error {
	caller, err := restutil.Caller(req)
	if err != nil {
		return err
	}
	tier, err := restutil.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body StakeRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return restutil.BadRequest(errors.New("body: missing amount"))
	}
	now := l.eng.Now()
	id, err := l.eng.Stake(caller, tier, body.Amount, now)
	if err != nil {
		return err
	}
	stake, err := l.eng.GetStake(id)
	if err != nil {
		return err
	}
	out, err := l.convertStake(stake, now)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, out)
}

func (l *LockStake) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	id, err := restutil.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	now, err := restutil.Uint64Query(req, "time", l.eng.Now())
	if err != nil {
		return err
	}
	stake, err := l.eng.GetStake(id)
	if err != nil {
		return err
	}
	out, err := l.convertStake(stake, now)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, out)
}

func (l *LockStake) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	caller, err := restutil.Caller(req)
	if err != nil {
		return err
	}
	id, err := restutil.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	payout, err := l.eng.Unstake(caller, id, l.eng.Now())
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Payout{
		Principal: payout.Principal,
		Reward:    payout.Reward,
		Penalty:   payout.Penalty,
		Total:     payout.Total,
	})
}

func (l *LockStake) handleGetAccountStakes(w http.ResponseWriter, req *http.Request) error {
	addr, err := restutil.AddressVar(req, "address")
	if err != nil {
		return err
	}
	now, err := restutil.Uint64Query(req, "time", l.eng.Now())
	if err != nil {
		return err
	}
	stakes, err := l.eng.StakesOf(addr)
	if err != nil {
		return err
	}
	out := make([]*Stake, 0, len(stakes))
	for _, s := range stakes {
		v, err := l.convertStake(s, now)
		if err != nil {
			return err
		}
		out = append(out, v)
	}
	return restutil.WriteJSON(w, out)
}

func (l *LockStake) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/tiers").
		Methods(http.MethodGet).
		Name("GET /lockstake/tiers").
		HandlerFunc(restutil.WrapHandlerFunc(l.handleGetTiers))
	sub.Path("/tiers").
		Methods(http.MethodPost).
		Name("POST /lockstake/tiers").
		HandlerFunc(restutil.WrapHandlerFunc(l.handleCreateTier))
	sub.Path("/tiers/{id}").
		Methods(http.MethodGet).
		Name("GET /lockstake/tiers/{id}").
		HandlerFunc(restutil.WrapHandlerFunc(l.handleGetTier))
	sub.Path("/tiers/{id}/stakes").
		Methods(http.MethodPost).
		Name("POST /lockstake/tiers/{id}/stakes").
		HandlerFunc(restutil.WrapHandlerFunc(l.handleStake))
	sub.Path("/stakes/{id}").
		Methods(http.MethodGet).
		Name("GET /lockstake/stakes/{id}").
		HandlerFunc(restutil.WrapHandlerFunc(l.handleGetStake))
	sub.Path("/stakes/{id}/unstake").
		Methods(http.MethodPost).
		Name("POST /lockstake/stakes/{id}/unstake").
		HandlerFunc(restutil.WrapHandlerFunc(l.handleUnstake))
	sub.Path("/accounts/{address}").
		Methods(http.MethodGet).
		Name("GET /lockstake/accounts/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(l.handleGetAccountStakes))
}
