// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package deployments_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestradao/vdao/api/deployments"
	"github.com/vestradao/vdao/builtin"
	"github.com/vestradao/vdao/eventdb"
	"github.com/vestradao/vdao/test/testengine"
)

func initDeploymentsServer(t *testing.T) *httptest.Server {
	eng, err := testengine.NewDefault()
	require.NoError(t, err)

	router := mux.NewRouter()
	deployments.New(eng.EventDB()).Mount(router, "/deployments")
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		ts.Close()
		eng.Close()
	})
	return ts
}

func TestDeployments(t *testing.T) {
	ts := initDeploymentsServer(t)

	res, code := httpGet(t, ts.URL+"/deployments/"+testengine.Network+"/contracts")
	require.Equal(t, http.StatusOK, code, string(res))
	var contracts []*eventdb.Contract
	require.NoError(t, json.Unmarshal(res, &contracts))
	require.Len(t, contracts, 6)
	assert.Equal(t, "Token", contracts[0].Name)
	assert.Equal(t, builtin.Token.Address, contracts[0].Address)

	res, code = httpGet(t, ts.URL+"/deployments/"+testengine.Network+"/contracts/Vesting")
	require.Equal(t, http.StatusOK, code, string(res))
	var entry struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	}
	require.NoError(t, json.Unmarshal(res, &entry))
	assert.Equal(t, builtin.Vesting.Address.String(), entry.Address)

	_, code = httpGet(t, ts.URL+"/deployments/"+testengine.Network+"/contracts/Nope")
	assert.Equal(t, http.StatusNotFound, code)

	res, code = httpGet(t, ts.URL+"/deployments/"+testengine.Network+"/gas")
	require.Equal(t, http.StatusOK, code, string(res))
	var gas []*eventdb.GasRecord
	require.NoError(t, json.Unmarshal(res, &gas))
	require.Len(t, gas, 6)
	assert.Equal(t, "token", gas[0].Script)
	assert.NotZero(t, gas[0].Gas)

	res, code = httpGet(t, ts.URL+"/deployments/mainnet/contracts")
	require.Equal(t, http.StatusOK, code, string(res))
	assert.Equal(t, "[]", string(res[:2]))
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}
