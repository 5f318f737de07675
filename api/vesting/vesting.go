// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vestradao/vdao/api/restutil"
	"github.com/vestradao/vdao/engine"
	"github.com/vestradao/vdao/vdao"
)

type Vesting struct {
	eng *engine.Engine
}

func New(eng *engine.Engine) *Vesting {
	return &Vesting{eng}
}

func (v *Vesting) handleGetLedger(w http.ResponseWriter, _ *http.Request) error {
	policy, err := v.eng.VestingPolicy()
	if err != nil {
		return err
	}
	cats, err := v.eng.Categories()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Ledger{Policy: policy.String(), Categories: ConvertCategories(cats)})
}

func (v *Vesting) handleGetCategory(w http.ResponseWriter, req *http.Request) error {
	id, err := restutil.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	cat, err := v.eng.Category(id)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, ConvertCategory(cat))
}

func (v *Vesting) handleCreateCategory(w http.ResponseWriter, req *http.Request) error {
	caller, err := restutil.Caller(req)
	if err != nil {
		return err
	}
	var body CreateCategory
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	id, err := v.eng.CreateCategory(caller, body.Params(), v.eng.Now())
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Created{ID: id})
}

func (v *Vesting) handleAllocate(w http.ResponseWriter, req *http.Request) error {
	caller, err := restutil.Caller(req)
	if err != nil {
		return err
	}
	id, err := restutil.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body Allocate
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return restutil.BadRequest(errors.New("body: missing amount"))
	}
	now := v.eng.Now()
	if err := v.eng.Allocate(caller, id, body.Account, body.Amount, now); err != nil {
		return err
	}
	return v.writeAllocation(w, body.Account, id, now)
}

func (v *Vesting) writeAllocation(w http.ResponseWriter, addr vdao.Address, id uint64, now uint64) error {
	alloc, err := v.eng.Allocation(addr, id)
	if err != nil {
		return err
	}
	claimable, err := v.eng.Claimable(addr, id, now)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, convertAllocation(alloc, claimable))
}

func (v *Vesting) handleClaim(w http.ResponseWriter, req *http.Request) error {
	caller, err := restutil.Caller(req)
	if err != nil {
		return err
	}
	id, err := restutil.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	now := v.eng.Now()
	paid, err := v.eng.Claim(caller, id, now)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Claimed{Amount: paid, Time: now})
}

func (v *Vesting) handleGetAllocations(w http.ResponseWriter, req *http.Request) error {
	addr, err := restutil.AddressVar(req, "address")
	if err != nil {
		return err
	}
	now, err := restutil.Uint64Query(req, "time", v.eng.Now())
	if err != nil {
		return err
	}
	allocs, err := v.eng.AllocationsOf(addr)
	if err != nil {
		return err
	}
	out := make([]*Allocation, 0, len(allocs))
	for _, a := range allocs {
		claimable, err := v.eng.Claimable(addr, a.Category, now)
		if err != nil {
			return err
		}
		out = append(out, convertAllocation(a, claimable))
	}
	return restutil.WriteJSON(w, out)
}

func (v *Vesting) handleGetAllocation(w http.ResponseWriter, req *http.Request) error {
	addr, err := restutil.AddressVar(req, "address")
	if err != nil {
		return err
	}
	id, err := restutil.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	now, err := restutil.Uint64Query(req, "time", v.eng.Now())
	if err != nil {
		return err
	}
	return v.writeAllocation(w, addr, id, now)
}

func (v *Vesting) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /vesting").
		HandlerFunc(restutil.WrapHandlerFunc(v.handleGetLedger))
	sub.Path("/categories").
		Methods(http.MethodPost).
		Name("POST /vesting/categories").
		HandlerFunc(restutil.WrapHandlerFunc(v.handleCreateCategory))
	sub.Path("/categories/{id}").
		Methods(http.MethodGet).
		Name("GET /vesting/categories/{id}").
		HandlerFunc(restutil.WrapHandlerFunc(v.handleGetCategory))
	sub.Path("/categories/{id}/allocations").
		Methods(http.MethodPost).
		Name("POST /vesting/categories/{id}/allocations").
		HandlerFunc(restutil.WrapHandlerFunc(v.handleAllocate))
	sub.Path("/categories/{id}/claim").
		Methods(http.MethodPost).
		Name("POST /vesting/categories/{id}/claim").
		HandlerFunc(restutil.WrapHandlerFunc(v.handleClaim))
	sub.Path("/accounts/{address}").
		Methods(http.MethodGet).
		Name("GET /vesting/accounts/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(v.handleGetAllocations))
	sub.Path("/accounts/{address}/{id}").
		Methods(http.MethodGet).
		Name("GET /vesting/accounts/{address}/{id}").
		HandlerFunc(restutil.WrapHandlerFunc(v.handleGetAllocation))
}
