// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vestradao/vdao/api/restutil"
	"github.com/vestradao/vdao/engine"
	"github.com/vestradao/vdao/eventdb"
)

type Events struct {
	eng   *engine.Engine
	limit uint64
}

func New(eng *engine.Engine, logsLimit uint64) *Events {
	return &Events{
		eng,
		logsLimit,
	}
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter EventFilter
	if err := restutil.ParseJSON(req.Body, &filter); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := filter.validate(e.limit); err != nil {
		if filter.Options != nil && filter.Options.Limit != nil && *filter.Options.Limit > e.limit {
			return restutil.Forbidden(err)
		}
		return restutil.BadRequest(err)
	}

	// one past the limit tells a full page from an overflowing one
	limit := e.limit + 1
	events, err := e.eng.Events(req.Context(), convertEventFilter(&filter, limit))
	if err != nil {
		return err
	}
	if uint64(len(events)) > e.limit {
		return restutil.Forbidden(fmt.Errorf("the number of filtered events exceeds the maximum allowed value of %d, please use pagination", e.limit))
	}
	if events == nil {
		events = []*eventdb.Event{}
	}
	return restutil.WriteJSON(w, events)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /logs/event").
		HandlerFunc(restutil.WrapHandlerFunc(e.handleFilter))
}
