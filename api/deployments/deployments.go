// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package deployments serves the address book and gas log recorded when a
// genesis was applied to a network.
package deployments

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vestradao/vdao/api/restutil"
	"github.com/vestradao/vdao/eventdb"
)

type Deployments struct {
	db *eventdb.EventDB
}

func New(db *eventdb.EventDB) *Deployments {
	return &Deployments{db}
}

func (d *Deployments) handleGetContracts(w http.ResponseWriter, req *http.Request) error {
	contracts, err := d.db.Contracts(req.Context(), mux.Vars(req)["network"])
	if err != nil {
		return err
	}
	if contracts == nil {
		contracts = []*eventdb.Contract{}
	}
	return restutil.WriteJSON(w, contracts)
}

func (d *Deployments) handleGetContract(w http.ResponseWriter, req *http.Request) error {
	vars := mux.Vars(req)
	addr, err := d.db.ContractAddress(req.Context(), vars["network"], vars["name"])
	if err != nil {
		if errors.Is(err, eventdb.ErrContractNotFound) {
			return restutil.NotFound(err)
		}
		return err
	}
	return restutil.WriteJSON(w, restutil.M{"name": vars["name"], "address": addr})
}

func (d *Deployments) handleGetGas(w http.ResponseWriter, req *http.Request) error {
	records, err := d.db.GasLog(req.Context(), mux.Vars(req)["network"])
	if err != nil {
		return err
	}
	if records == nil {
		records = []*eventdb.GasRecord{}
	}
	return restutil.WriteJSON(w, records)
}

func (d *Deployments) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{network}/contracts").
		Methods(http.MethodGet).
		Name("GET /deployments/{network}/contracts").
		HandlerFunc(restutil.WrapHandlerFunc(d.handleGetContracts))
	sub.Path("/{network}/contracts/{name}").
		Methods(http.MethodGet).
		Name("GET /deployments/{network}/contracts/{name}").
		HandlerFunc(restutil.WrapHandlerFunc(d.handleGetContract))
	sub.Path("/{network}/gas").
		Methods(http.MethodGet).
		Name("GET /deployments/{network}/gas").
		HandlerFunc(restutil.WrapHandlerFunc(d.handleGetGas))
}
