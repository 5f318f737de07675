// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package flexstake

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vestradao/vdao/api/restutil"
	"github.com/vestradao/vdao/engine"
	"github.com/vestradao/vdao/vdao"
)

type FlexStake struct {
	eng *engine.Engine
}

func New(eng *engine.Engine) *FlexStake {
	return &FlexStake{eng}
}

func (f *FlexStake) position(name string, account vdao.Address, now uint64) (*Position, error) {
	info, err := f.eng.FlexPool(name)
	if err != nil {
		return nil, err
	}
	pos, err := f.eng.FlexPosition(name, account, now)
	if err != nil {
		return nil, err
	}
	return convertPosition(account, pos, info.Params.LockPeriod, now), nil
}

func parseAmount(req *http.Request) (*uint256.Int, error) {
	var body AmountRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return nil, restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return nil, restutil.BadRequest(errors.New("body: missing amount"))
	}
	return body.Amount, nil
}

func (f *FlexStake) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	info, err := f.eng.FlexPool(mux.Vars(req)["pool"])
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, convertPool(info))
}

func (f *FlexStake) handleGetPosition(w http.ResponseWriter, req *http.Request) error {
	addr, err := restutil.AddressVar(req, "address")
	if err != nil {
		return err
	}
	now, err := restutil.Uint64Query(req, "time", f.eng.Now())
	if err != nil {
		return err
	}
	pos, err := f.position(mux.Vars(req)["pool"], addr, now)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, pos)
}

func (f *FlexStake) handleStake(w http.ResponseWriter, req *http.Request) error {
	caller, err := restutil.Caller(req)
	if err != nil {
		return err
	}
	amount, err := parseAmount(req)
	if err != nil {
		return err
	}
	name := mux.Vars(req)["pool"]
	now := f.eng.Now()
	if err := f.eng.FlexStake(name, caller, amount, now); err != nil {
		return err
	}
	pos, err := f.position(name, caller, now)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, pos)
}

func (f *FlexStake) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	caller, err := restutil.Caller(req)
	if err != nil {
		return err
	}
	amount, err := parseAmount(req)
	if err != nil {
		return err
	}
	name := mux.Vars(req)["pool"]
	now := f.eng.Now()
	if err := f.eng.FlexUnstake(name, caller, amount, now); err != nil {
		return err
	}
	pos, err := f.position(name, caller, now)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, pos)
}

func (f *FlexStake) handleClaim(w http.ResponseWriter, req *http.Request) error {
	caller, err := restutil.Caller(req)
	if err != nil {
		return err
	}
	now := f.eng.Now()
	paid, err := f.eng.FlexClaimReward(mux.Vars(req)["pool"], caller, now)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Claimed{Amount: paid, Time: now})
}

func (f *FlexStake) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{pool}").
		Methods(http.MethodGet).
		Name("GET /flex/{pool}").
		HandlerFunc(restutil.WrapHandlerFunc(f.handleGetPool))
	sub.Path("/{pool}/positions/{address}").
		Methods(http.MethodGet).
		Name("GET /flex/{pool}/positions/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(f.handleGetPosition))
	sub.Path("/{pool}/stake").
		Methods(http.MethodPost).
		Name("POST /flex/{pool}/stake").
		HandlerFunc(restutil.WrapHandlerFunc(f.handleStake))
	sub.Path("/{pool}/unstake").
		Methods(http.MethodPost).
		Name("POST /flex/{pool}/unstake").
		HandlerFunc(restutil.WrapHandlerFunc(f.handleUnstake))
	sub.Path("/{pool}/claim").
		Methods(http.MethodPost).
		Name("POST /flex/{pool}/claim").
		HandlerFunc(restutil.WrapHandlerFunc(f.handleClaim))
}
