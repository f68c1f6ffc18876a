// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func TestNoopMetrics(t *testing.T) {
	// default is noop; meters must be usable without initialization
	Counter("noop_count").Add(1)
	CounterVec("noop_count_vec", []string{"l"}).AddWithLabel(1, map[string]string{"l": "v"})
	Gauge("noop_gauge").Set(7)
	Histogram("noop_hist", Bucket10s).Observe(5)
	assert.Nil(t, HTTPHandler())
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	count := Counter("count1")
	count.Add(3)
	Counter("count1").Add(2)

	gauge := Gauge("gauge1")
	gauge.Set(10)
	gauge.Add(-3)

	Histogram("hist1", Bucket10s).Observe(42)

	gatherers, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	found := map[string]*dto.MetricFamily{}
	for _, mf := range gatherers {
		found[mf.GetName()] = mf
	}

	cf, ok := found[namespace+"_count1"]
	require.True(t, ok)
	assert.Equal(t, float64(5), cf.GetMetric()[0].GetCounter().GetValue())

	gf, ok := found[namespace+"_gauge1"]
	require.True(t, ok)
	assert.Equal(t, float64(7), gf.GetMetric()[0].GetGauge().GetValue())

	hf, ok := found[namespace+"_hist1"]
	require.True(t, ok)
	assert.Equal(t, uint64(1), hf.GetMetric()[0].GetHistogram().GetSampleCount())

	assert.NotNil(t, HTTPHandler())

	// lazy loaded meters resolve to the same underlying meter
	lazy := LazyLoadCounter("count1")
	assert.Equal(t, count, lazy())
}
