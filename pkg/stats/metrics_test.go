package stats_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/zakoken/zkkd/pkg/stats"
)

func gather(t *testing.T, name string) bool {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return true
		}
	}
	return false
}

func TestMetrics(t *testing.T) {
	stats.RecordRequest("GET", "/v1/supply", 200, 10*time.Millisecond)
	stats.RecordDelivery(40245, nil)
	stats.RecordDelivery(40245, errors.New("timeout"))

	err := stats.RegisterGauge("test_gauge", "test gauge", func() float64 { return 42 })
	require.NoError(t, err)
	err = stats.RegisterGauge("test_gauge", "test gauge", func() float64 { return 42 })
	require.NoError(t, err)

	require.True(t, gather(t, "zkkd_http_requests_total"))
	require.True(t, gather(t, "zkkd_http_request_duration_seconds"))
	require.True(t, gather(t, "zkkd_relayer_deliveries_total"))
	require.True(t, gather(t, "zkkd_test_gauge"))
}

func TestDumpPrometheusDefaults(t *testing.T) {
	dir := t.TempDir()
	err := stats.DumpPrometheusDefaults(dir)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, "prometheus.dump"))
	require.NoError(t, err)
	require.NotZero(t, info.Size())
}
