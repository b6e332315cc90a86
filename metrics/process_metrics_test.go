// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

//go:build linux

package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const procIO = `rchar: 1948
wchar: 2360
syscr: 7
syscw: 3
read_bytes: 4096
write_bytes: 8192
cancelled_write_bytes: 0
syscw_bad: x
`

func TestIOCollector(t *testing.T) {
	path := filepath.Join(t.TempDir(), "io")
	require.NoError(t, os.WriteFile(path, []byte(procIO), 0600))

	reg := prometheus.NewRegistry()
	reg.MustRegister(newIOCollector(path))
	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "atmos_metrics_process_io_total", families[0].GetName())

	values := make(map[string]float64)
	for _, m := range families[0].GetMetric() {
		values[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{
		"read_syscalls":  7,
		"write_syscalls": 3,
		"read_bytes":     4096,
		"write_bytes":    8192,
	}, values)
}

func TestIOCollectorMissingFile(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(newIOCollector(filepath.Join(t.TempDir(), "missing")))
	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Empty(t, families)
}
