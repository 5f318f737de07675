// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package restutil

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vestradao/vdao/builtin/reverts"
	"github.com/vestradao/vdao/vdao"
)

// CallerHeader carries the address an entry point is invoked as.
const CallerHeader = "X-Caller"

// RevertKindHeader is set on responses to calls that reverted.
const RevertKindHeader = "X-Revert-Kind"

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

// HTTPError create an error with http status code.
func HTTPError(cause error, status int) error {
	return &httpError{
		cause:  cause,
		status: status,
	}
}

// BadRequest convenience method to create http bad request error.
func BadRequest(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusBadRequest,
	}
}

// Forbidden convenience method to create http forbidden error.
func Forbidden(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusForbidden,
	}
}

// NotFound convenience method to create http not found error.
func NotFound(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusNotFound,
	}
}

// RevertStatus maps a revert kind to the status it is answered with.
func RevertStatus(kind reverts.Kind) int {
	switch kind {
	case reverts.Validation:
		return http.StatusBadRequest
	case reverts.Capacity:
		return http.StatusConflict
	case reverts.Timing:
		return http.StatusTooEarly
	case reverts.State:
		return http.StatusUnprocessableEntity
	case reverts.Permission:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// HandlerFunc like http.HandlerFunc, bu it returns an error.
// If the returned error is httpError type, httpError.status will be responded,
// a revert is responded with the status of its kind,
// otherwise http.StatusInternalServerError responded.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc convert HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		var he *httpError
		if errors.As(err, &he) {
			if he.cause != nil {
				http.Error(w, he.cause.Error(), he.status)
			} else {
				w.WriteHeader(he.status)
			}
			return
		}
		if kind := reverts.KindOf(err); kind != 0 {
			w.Header().Set(RevertKindHeader, kind.String())
			http.Error(w, err.Error(), RevertStatus(kind))
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// content types
const (
	JSONContentType = "application/json; charset=utf-8"
)

// ParseJSON parse a JSON object using strict mode.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON response an object in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// M shortcut for type map[string]any.
type M map[string]any

// Caller returns the address in the caller header.
func Caller(req *http.Request) (vdao.Address, error) {
	v := req.Header.Get(CallerHeader)
	if v == "" {
		return vdao.Address{}, Forbidden(errors.New("missing " + CallerHeader + " header"))
	}
	addr, err := vdao.ParseAddress(v)
	if err != nil {
		return vdao.Address{}, BadRequest(errors.WithMessage(err, "caller"))
	}
	return addr, nil
}

// AddressVar parses the route variable name as an address.
func AddressVar(req *http.Request, name string) (vdao.Address, error) {
	addr, err := vdao.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return vdao.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

// Uint64Var parses the route variable name as a decimal uint64.
func Uint64Var(req *http.Request, name string) (uint64, error) {
	n, err := strconv.ParseUint(mux.Vars(req)[name], 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return n, nil
}

// Uint64Query parses the query parameter name as a decimal uint64.
// An absent parameter yields def.
func Uint64Query(req *http.Request, name string, def uint64) (uint64, error) {
	v := req.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return n, nil
}
