// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vestradao/vdao/api/restutil"
	"github.com/vestradao/vdao/engine"
	"github.com/vestradao/vdao/vdao"
)

type Accounts struct {
	eng *engine.Engine
}

func New(eng *engine.Engine) *Accounts {
	return &Accounts{
		eng,
	}
}

func (a *Accounts) handleGetSupply(w http.ResponseWriter, _ *http.Request) error {
	supply, err := a.eng.TotalSupply()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Supply{TotalSupply: supply, Tokens: vdao.FormatTokens(supply)})
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := restutil.AddressVar(req, "address")
	if err != nil {
		return err
	}
	bal, err := a.eng.Balance(addr)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Account{Address: addr, Balance: bal, Tokens: vdao.FormatTokens(bal)})
}

func (a *Accounts) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	caller, err := restutil.Caller(req)
	if err != nil {
		return err
	}
	to, err := restutil.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var body Transfer
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return restutil.BadRequest(errors.New("body: missing amount"))
	}
	if err := a.eng.Transfer(caller, to, body.Amount, a.eng.Now()); err != nil {
		return err
	}
	bal, err := a.eng.Balance(caller)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Account{Address: caller, Balance: bal, Tokens: vdao.FormatTokens(bal)})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/supply").
		Methods(http.MethodGet).
		Name("GET /accounts/supply").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleGetSupply))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/transfer").
		Methods(http.MethodPost).
		Name("POST /accounts/{address}/transfer").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleTransfer))
}
