// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math"

	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/builtin/staker/reverts"
	"github.com/vechain/atmos/builtin/staker/tokens"
	"github.com/vechain/atmos/metrics"
)

var (
	metricActionCount    = metrics.LazyLoadCounterVec("action_count", []string{"action", "outcome"})
	metricActionDuration = metrics.LazyLoadHistogramVec("action_duration_ms", []string{"action"}, metrics.BucketActionMs)
	metricTransferCount  = metrics.LazyLoadCounter("transfer_intent_count")
	metricTokenSupply    = metrics.LazyLoadGaugeVec("token_supply", []string{"symbol"})
	metricTokenWeight    = metrics.LazyLoadGaugeVec("token_weight", []string{"symbol"})
	metricTokenSubsidy   = metrics.LazyLoadGaugeVec("token_subsidy", []string{"symbol"})
)

func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	if kind, ok := reverts.KindOf(err); ok {
		return kind.String()
	}
	return "error"
}

func clampInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

func clampWeight(w atmos.Weight) int64 {
	v := w.Uint256()
	if !v.IsUint64() {
		return math.MaxInt64
	}
	return clampInt64(v.Uint64())
}

// updateTokenGauges sets the gauges of the given tokens and zeroes those of tokens gone since the last call.
func (rt *Runtime) updateTokenGauges(all []*tokens.Token) {
	seen := make(map[string]struct{}, len(all))
	for _, t := range all {
		label := map[string]string{"symbol": t.Symbol.String()}
		metricTokenSupply().SetWithLabel(clampInt64(t.TotalSupply.Amount), label)
		metricTokenWeight().SetWithLabel(clampWeight(t.TotalWeight), label)
		metricTokenSubsidy().SetWithLabel(clampInt64(t.SubsidySupply.Amount), label)
		seen[label["symbol"]] = struct{}{}
	}
	for symbol := range rt.gaugeSymbols {
		if _, ok := seen[symbol]; !ok {
			label := map[string]string{"symbol": symbol}
			metricTokenSupply().SetWithLabel(0, label)
			metricTokenWeight().SetWithLabel(0, label)
			metricTokenSubsidy().SetWithLabel(0, label)
		}
	}
	rt.gaugeSymbols = seen
}
