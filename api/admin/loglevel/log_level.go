// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package loglevel

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vestradao/vdao/api/restutil"
	"github.com/vestradao/vdao/log"
)

// Request sets the level either by name or by legacy verbosity (0-9).
type Request struct {
	Level     string `json:"level,omitempty"`
	Verbosity *int   `json:"verbosity,omitempty"`
}

type Response struct {
	CurrentLevel string `json:"currentLevel"`
}

var levels = map[string]slog.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
	"crit":  log.LevelCrit,
}

type LogLevel struct {
	logLevel *slog.LevelVar
}

func New(logLevel *slog.LevelVar) *LogLevel {
	return &LogLevel{
		logLevel: logLevel,
	}
}

func (l *LogLevel) current() *Response {
	return &Response{CurrentLevel: strings.TrimSpace(log.LevelAlignedString(l.logLevel.Level()))}
}

func (l *LogLevel) handleGet(w http.ResponseWriter, _ *http.Request) error {
	return restutil.WriteJSON(w, l.current())
}

func (l *LogLevel) handlePost(w http.ResponseWriter, req *http.Request) error {
	var body Request
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "Invalid request body"))
	}

	switch {
	case body.Verbosity != nil && body.Level != "":
		return restutil.BadRequest(errors.New("Either level or verbosity"))
	case body.Verbosity != nil:
		if *body.Verbosity < 0 {
			return restutil.BadRequest(errors.New("Invalid verbosity level"))
		}
		l.logLevel.Set(log.FromLegacyLevel(*body.Verbosity))
	default:
		lvl, ok := levels[body.Level]
		if !ok {
			return restutil.BadRequest(errors.New("Invalid verbosity level"))
		}
		l.logLevel.Set(lvl)
	}
	log.Info("log level changed", "level", l.logLevel.Level())
	return restutil.WriteJSON(w, l.current())
}

func (l *LogLevel) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /admin/loglevel").
		HandlerFunc(restutil.WrapHandlerFunc(l.handleGet))
	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /admin/loglevel").
		HandlerFunc(restutil.WrapHandlerFunc(l.handlePost))
}
