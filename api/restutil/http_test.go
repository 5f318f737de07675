// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package restutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestradao/vdao/builtin/reverts"
	"github.com/vestradao/vdao/vdao"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"ok", nil, http.StatusOK, ""},
		{"bad request", BadRequest(errors.New("bad")), http.StatusBadRequest, ""},
		{"no cause", &httpError{status: http.StatusTeapot}, http.StatusTeapot, ""},
		{"validation", reverts.NewValidation("zero amount"), http.StatusBadRequest, "validation"},
		{"capacity", errors.WithMessage(reverts.NewCapacity("cap reached"), "stake"), http.StatusConflict, "capacity"},
		{"timing", reverts.NewTiming("too early"), http.StatusTooEarly, "timing"},
		{"state", reverts.NewState("claimed"), http.StatusUnprocessableEntity, "state"},
		{"permission", reverts.ErrUnauthorized, http.StatusForbidden, "permission"},
		{"internal", errors.New("disk"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error { return tt.err })
			rr := httptest.NewRecorder()
			h(rr, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.kind, rr.Header().Get(RevertKindHeader))
		})
	}
}

func TestCaller(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	_, err := Caller(req)
	var he *httpError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusForbidden, he.status)

	req.Header.Set(CallerHeader, "0xzz")
	_, err = Caller(req)
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.status)

	want := vdao.BytesToAddress([]byte("alice"))
	req.Header.Set(CallerHeader, want.String())
	got, err := Caller(req)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestVars(t *testing.T) {
	router := mux.NewRouter()
	router.Path("/{address}/{id}").HandlerFunc(WrapHandlerFunc(func(w http.ResponseWriter, req *http.Request) error {
		addr, err := AddressVar(req, "address")
		if err != nil {
			return err
		}
		id, err := Uint64Var(req, "id")
		if err != nil {
			return err
		}
		limit, err := Uint64Query(req, "limit", 10)
		if err != nil {
			return err
		}
		return WriteJSON(w, M{"address": addr, "id": id, "limit": limit})
	}))

	addr := vdao.BytesToAddress([]byte("bob"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/"+addr.String()+"/7", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"address":"`+addr.String()+`","id":7,"limit":10}`, rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/"+addr.String()+"/x", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/"+addr.String()+"/7?limit=-1", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestParseJSONStrict(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	require.NoError(t, ParseJSON(strings.NewReader(`{"a":1}`), &v))
	assert.Equal(t, 1, v.A)
	assert.Error(t, ParseJSON(strings.NewReader(`{"a":1,"b":2}`), &v))
}
