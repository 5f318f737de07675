// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vestradao/vdao/api/accounts"
	"github.com/vestradao/vdao/api/deployments"
	"github.com/vestradao/vdao/api/events"
	"github.com/vestradao/vdao/api/flexstake"
	"github.com/vestradao/vdao/api/governance"
	"github.com/vestradao/vdao/api/lockstake"
	"github.com/vestradao/vdao/api/restutil"
	"github.com/vestradao/vdao/api/subscriptions"
	"github.com/vestradao/vdao/api/vesting"
	"github.com/vestradao/vdao/engine"
	"github.com/vestradao/vdao/log"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	BacktraceLimit  uint64
	LogsLimit       uint64
	PprofOn         bool
	SkipLogs        bool
	EnableReqLogger bool
	EnableMetrics   bool
}

// New returns the API handler and a function that closes the websocket subscriptions.
func New(eng *engine.Engine, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(eng).
		Mount(router, "/accounts")
	vesting.New(eng).
		Mount(router, "/vesting")
	lockstake.New(eng).
		Mount(router, "/lockstake")
	flexstake.New(eng).
		Mount(router, "/flex")
	governance.New(eng).
		Mount(router, "/governance")
	if !opts.SkipLogs {
		events.New(eng, opts.LogsLimit).
			Mount(router, "/logs/event")
	}
	if db := eng.EventDB(); db != nil {
		deployments.New(db).
			Mount(router, "/deployments")
	}
	subs := subscriptions.New(eng, origins, opts.BacktraceLimit)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut}),
		handlers.AllowedHeaders([]string{"content-type", strings.ToLower(restutil.CallerHeader)}),
		handlers.ExposedHeaders([]string{strings.ToLower(restutil.RevertKindHeader)}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
