// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import "net/http"

type noopMetrics struct{}

func defaultNoopMetrics() Metrics { return noopMetrics{} }

func (noopMetrics) GetOrCreateCountMeter(string) CountMeter                   { return noop }
func (noopMetrics) GetOrCreateCountVecMeter(string, []string) CountVecMeter   { return noop }
func (noopMetrics) GetOrCreateGaugeMeter(string) GaugeMeter                   { return noop }
func (noopMetrics) GetOrCreateGaugeVecMeter(string, []string) GaugeVecMeter   { return noop }
func (noopMetrics) GetOrCreateHandler() http.Handler                          { return nil }
func (noopMetrics) GetOrCreateHistogramVecMeter(string, []string, []int64) HistogramVecMeter {
	return noop
}

var noop = noopMeter{}

type noopMeter struct{}

func (noopMeter) Add(int64)                                  {}
func (noopMeter) Set(int64)                                  {}
func (noopMeter) AddWithLabel(int64, map[string]string)      {}
func (noopMeter) SetWithLabel(int64, map[string]string)      {}
func (noopMeter) ObserveWithLabels(int64, map[string]string) {}
