// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"strings"

	"github.com/vestradao/vdao/metrics"
)

var (
	metricEventsWritten        = metrics.LazyLoadCounter("eventdb_events_written_total")
	metricEventQueryParameters = metrics.LazyLoadCounterVec("eventdb_query_parameters", []string{"parameters"})
	metricLimitBucket          = metrics.LazyLoadHistogramVec("eventdb_query_limit_bucket", []string{"order"}, []int64{
		0, 5, 10, 25, 50, 100, 250, 500, 1000,
	})
)

func metricsHandleEventsFilter(filter *EventFilter) {
	if metrics.NoOp() {
		return
	}

	params := make([]string, 0, 4)
	if filter.Address != nil {
		params = append(params, "address")
	}
	if filter.Account != nil {
		params = append(params, "account")
	}
	if filter.Name != "" {
		params = append(params, "name")
	}
	if filter.From > 0 || filter.To > 0 {
		params = append(params, "time")
	}
	metricEventQueryParameters().AddWithLabel(1, map[string]string{"parameters": strings.Join(params, ",")})

	if filter.Options != nil {
		limit := min(filter.Options.Limit, 1001)
		order := string(filter.Order)
		if order == "" {
			order = string(ASC)
		}
		metricLimitBucket().ObserveWithLabels(int64(limit), map[string]string{"order": order})
	}
}
