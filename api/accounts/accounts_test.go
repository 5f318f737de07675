// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestradao/vdao/api/accounts"
	"github.com/vestradao/vdao/api/restutil"
	"github.com/vestradao/vdao/test/datagen"
	"github.com/vestradao/vdao/test/testengine"
	"github.com/vestradao/vdao/vdao"
)

var (
	ts  *httptest.Server
	eng *testengine.Engine
)

func TestAccounts(t *testing.T) {
	initAccountServer(t)
	defer ts.Close()
	defer eng.Close()

	for name, tt := range map[string]func(*testing.T){
		"getSupply":            getSupply,
		"getAccount":           getAccount,
		"getAccountBadAddr":    getAccountBadAddr,
		"transfer":             transfer,
		"transferNoCaller":     transferNoCaller,
		"transferInsufficient": transferInsufficient,
	} {
		t.Run(name, tt)
	}
}

func initAccountServer(t *testing.T) {
	var err error
	eng, err = testengine.NewDefault()
	require.NoError(t, err)

	router := mux.NewRouter()
	accounts.New(eng.Engine).Mount(router, "/accounts")
	ts = httptest.NewServer(router)
}

func getSupply(t *testing.T) {
	res, code := httpGet(t, ts.URL+"/accounts/supply")
	require.Equal(t, http.StatusOK, code, string(res))

	var supply accounts.Supply
	require.NoError(t, json.Unmarshal(res, &supply))
	assert.Equal(t, vdao.Tokens(50_000_000_000), supply.TotalSupply)
	assert.Equal(t, "50000000000", supply.Tokens)
}

func getAccount(t *testing.T) {
	res, code := httpGet(t, ts.URL+"/accounts/"+eng.Operator().String())
	require.Equal(t, http.StatusOK, code, string(res))

	var acc accounts.Account
	require.NoError(t, json.Unmarshal(res, &acc))
	assert.Equal(t, eng.Operator(), acc.Address)
	want, err := eng.Balance(eng.Operator())
	require.NoError(t, err)
	assert.Equal(t, want, acc.Balance)
}

func getAccountBadAddr(t *testing.T) {
	_, code := httpGet(t, ts.URL+"/accounts/0xbad")
	assert.Equal(t, http.StatusBadRequest, code)
}

func transfer(t *testing.T) {
	to := datagen.RandAddress()
	res, code := httpPost(t, ts.URL+"/accounts/"+to.String()+"/transfer", eng.Operator(), &accounts.Transfer{Amount: vdao.Tokens(5)})
	require.Equal(t, http.StatusOK, code, string(res))

	bal, err := eng.Balance(to)
	require.NoError(t, err)
	assert.Equal(t, vdao.Tokens(5), bal)
}

func transferNoCaller(t *testing.T) {
	to := datagen.RandAddress()
	_, code := httpPost(t, ts.URL+"/accounts/"+to.String()+"/transfer", vdao.Address{}, &accounts.Transfer{Amount: vdao.Tokens(5)})
	assert.Equal(t, http.StatusForbidden, code)
}

func transferInsufficient(t *testing.T) {
	from := datagen.RandAddress()
	res, code := httpPost(t, ts.URL+"/accounts/"+eng.Operator().String()+"/transfer", from, &accounts.Transfer{Amount: vdao.Tokens(1)})
	assert.Equal(t, http.StatusConflict, code, string(res))
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func httpPost(t *testing.T, url string, caller vdao.Address, body any) ([]byte, int) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if !caller.IsZero() {
		req.Header.Set(restutil.CallerHeader, caller.String())
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}
