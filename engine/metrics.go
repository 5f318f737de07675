// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine

import (
	"github.com/vestradao/vdao/builtin/reverts"
	"github.com/vestradao/vdao/metrics"
)

var (
	metricCalls  = metrics.LazyLoadCounterVec("engine_calls_total", []string{"op", "result"})
	metricGas    = metrics.LazyLoadHistogramVec("engine_call_gas", []string{"op"}, metrics.BucketGas)
	metricEvents = metrics.LazyLoadCounterVec("engine_events_total", []string{"name"})
)

// resultLabel is "ok", the revert kind, or "error" for anything else.
func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := reverts.KindOf(err); kind != 0 {
		return kind.String()
	}
	return "error"
}
