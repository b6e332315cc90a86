// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

//go:build linux

package metrics

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// ioFields maps the keys of /proc/self/io to the kind label.
// CPU, memory and fd usage come from the default process collector.
var ioFields = map[string]string{
	"syscr":       "read_syscalls",
	"syscw":       "write_syscalls",
	"read_bytes":  "read_bytes",
	"write_bytes": "write_bytes",
}

// ioCollector exports the storage I/O of the process, which is dominated by
// the ledger database commits.
type ioCollector struct {
	path string
	desc *prometheus.Desc
}

func newIOCollector(path string) *ioCollector {
	return &ioCollector{
		path: path,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "process", "io_total"),
			"Cumulative I/O of the process, by kind (syscalls or bytes, read or write).",
			[]string{"kind"}, nil,
		),
	}
}

func (c *ioCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *ioCollector) Collect(ch chan<- prometheus.Metric) {
	stats, err := c.read()
	if err != nil {
		logger.Debug("failed to read process io", "path", c.path, "err", err)
		return
	}
	for kind, value := range stats {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.CounterValue, float64(value), kind)
	}
}

// read parses lines of the form "read_bytes: 4096".
func (c *ioCollector) read() (map[string]int64, error) {
	file, err := os.Open(c.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stats := make(map[string]int64, len(ioFields))
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		key, raw, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		kind, known := ioFields[key]
		if !known {
			continue
		}
		value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			logger.Warn("unable to parse io value", "key", key, "value", raw, "err", err)
			continue
		}
		stats[kind] = value
	}
	return stats, scanner.Err()
}

var ioRegistered atomic.Bool

func registerIOCollector() {
	if ioRegistered.CompareAndSwap(false, true) {
		prometheus.MustRegister(newIOCollector("/proc/self/io"))
	}
}
