// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestradao/vdao/api/restutil"
	"github.com/vestradao/vdao/test/datagen"
	"github.com/vestradao/vdao/test/testengine"
)

func initAPIServer(t *testing.T, opts Options) *httptest.Server {
	eng, err := testengine.NewDefault()
	require.NoError(t, err)

	handler, closeSubs := New(eng.Engine, opts)
	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		closeSubs()
		ts.Close()
		eng.Close()
	})
	return ts
}

func TestRoutes(t *testing.T) {
	ts := initAPIServer(t, Options{AllowedOrigins: "*", BacktraceLimit: 100, LogsLimit: 100})

	for _, path := range []string{
		"/accounts/supply",
		"/vesting",
		"/lockstake/tiers",
		"/flex/Flexible",
		"/governance/phase",
		"/deployments/" + testengine.Network + "/contracts",
	} {
		_, code := httpGet(t, ts.URL+path)
		assert.Equal(t, http.StatusOK, code, path)
	}

	_, code := httpGet(t, ts.URL+"/debug/pprof/")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSkipLogs(t *testing.T) {
	ts := initAPIServer(t, Options{AllowedOrigins: "*", SkipLogs: true, PprofOn: true})

	res, err := http.Post(ts.URL+"/logs/event", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	_, code := httpGet(t, ts.URL+"/debug/pprof/")
	assert.Equal(t, http.StatusOK, code)
}

func TestCORS(t *testing.T) {
	ts := initAPIServer(t, Options{AllowedOrigins: "https://app.example.org"})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/accounts/supply", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", restutil.CallerHeader)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "https://app.example.org", res.Header.Get("Access-Control-Allow-Origin"))
}

func TestRevertKindHeader(t *testing.T) {
	ts := initAPIServer(t, Options{AllowedOrigins: "*"})

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/vesting/categories/2/claim", nil)
	require.NoError(t, err)
	req.Header.Set(restutil.CallerHeader, datagen.RandAddress().String())
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Equal(t, "state", res.Header.Get(restutil.RevertKindHeader))
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}
