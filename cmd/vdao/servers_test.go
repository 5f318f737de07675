// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestradao/vdao/api"
	"github.com/vestradao/vdao/metrics"
	"github.com/vestradao/vdao/test"
	"github.com/vestradao/vdao/test/testengine"
)

func getBody(url string) (string, error) {
	res, err := http.Get(url) //#nosec G107
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode != http.StatusOK {
		return "", errors.Errorf("status %d", res.StatusCode)
	}
	return string(body), nil
}

func TestStartServers(t *testing.T) {
	metrics.InitializePrometheusMetrics()

	eng, err := testengine.NewDefault()
	require.NoError(t, err)
	defer eng.Close()

	handler, closeSubs := api.New(eng.Engine, api.Options{EnableMetrics: true})
	defer closeSubs()

	apiURL, stopAPI, err := startAPIServer("localhost:0", handler)
	require.NoError(t, err)
	defer stopAPI()

	metricsURL, stopMetrics, err := startMetricsServer("localhost:0")
	require.NoError(t, err)
	defer stopMetrics()

	var supply string
	require.NoError(t, test.Retry(func() error {
		supply, err = getBody(apiURL + "accounts/supply")
		return err
	}, 10*time.Millisecond, 2*time.Second))
	assert.Contains(t, supply, "50000000000")

	var scraped string
	require.NoError(t, test.Retry(func() error {
		scraped, err = getBody(metricsURL)
		if err == nil && !strings.Contains(scraped, "vdao_api_request_count") {
			err = errors.New("request not counted yet")
		}
		return err
	}, 10*time.Millisecond, 2*time.Second))
	assert.Contains(t, scraped, `name="GET /accounts/supply"`)

	_, _, err = startAPIServer(strings.TrimPrefix(apiURL[:len(apiURL)-1], "http://"), handler)
	assert.Error(t, err)
}
