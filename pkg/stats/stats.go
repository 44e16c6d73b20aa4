package stats

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const (
	BYTE = 1 << (10 * iota)
	KILOBYTE
	MEGABYTE
	GIGABYTE
	TERABYTE

	dumpFile = "prometheus.dump"
)

// EnableMemoryStatistics enables go routine that periodically logs memory
// usage of the go process. When ctx is done the gathered metrics are dumped
// into dir.
func EnableMemoryStatistics(ctx context.Context, interval time.Duration, dir string) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				PrintMemoryStatistics()
				PrintNumOfRoutines()
			case <-ctx.Done():
				if err := DumpPrometheusDefaults(dir); err != nil {
					log.WithError(err).Warn("failed to dump prometheus metrics")
				}
				return
			}
		}
	}()
}

// toGigabytes returns given memory in bytes to gigabytes.
func toGigabytes(bytes uint64) float64 {
	return float64(bytes) / GIGABYTE
}

// PrintMemoryStatistics prints memory statistics using go runtime library.
func PrintMemoryStatistics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	log.Infof(
		"Total allocated: %.3fGB, Heap allocated: %.3fGB, "+
			"Allocated objects count: %v, Freed objects count: %v",
		toGigabytes(memStats.TotalAlloc),
		toGigabytes(memStats.HeapAlloc),
		memStats.Mallocs,
		memStats.Frees,
	)
}

// DumpPrometheusDefaults appends the metrics of the default gatherer to a
// file in dir.
func DumpPrometheusDefaults(dir string) error {
	file, err := os.OpenFile(
		filepath.Join(dir, dumpFile),
		os.O_APPEND|os.O_CREATE|os.O_RDWR,
		0644,
	)
	if err != nil {
		return err
	}
	defer file.Close()
	writer := bufio.NewWriter(file)

	metricFamily, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, v := range metricFamily {
		if _, err := writer.WriteString(v.String() + "\n"); err != nil {
			return err
		}
	}

	return writer.Flush()
}

// PrintNumOfRoutines prints number of go routines currently running
func PrintNumOfRoutines() {
	log.Infof("Num of go routines: %v", runtime.NumGoroutine())
}
