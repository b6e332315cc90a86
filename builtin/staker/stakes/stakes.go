// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"github.com/pkg/errors"

	"github.com/vechain/atmos/atmos"
)

const (
	// ModelLinear weighs a stake by amount * seconds.
	ModelLinear = "linear"
	// ModelScaled weighs a stake by whole 10000 units * whole minutes.
	ModelScaled = "scaled"
)

// WeightFunc derives the weight of a deposit locked for durationSecs.
// It must be non-decreasing in both arguments. A zero weight is rejected by the caller.
type WeightFunc func(amount, durationSecs uint64) (atmos.Weight, error)

// Linear returns amount * durationSecs. The product of two uint64 always fits a weight.
func Linear(amount, durationSecs uint64) (atmos.Weight, error) {
	return atmos.NewWeight(amount).MulUint64(durationSecs)
}

// Scaled returns floor(amount/10000) * floor(durationSecs/60).
func Scaled(amount, durationSecs uint64) (atmos.Weight, error) {
	return atmos.NewWeight(amount / 10000).MulUint64(durationSecs / 60)
}

// Model resolves a weight model by name. An empty name selects the linear model.
func Model(name string) (WeightFunc, error) {
	switch name {
	case "", ModelLinear:
		return Linear, nil
	case ModelScaled:
		return Scaled, nil
	}
	return nil, errors.Errorf("unknown weight model %q", name)
}

type WeightedStake struct {
	Amount uint64
	Weight atmos.Weight
}

// NewWeightedStake computes the weight of amount locked for durationSecs.
func NewWeightedStake(fn WeightFunc, amount, durationSecs uint64) (*WeightedStake, error) {
	weight, err := fn(amount, durationSecs)
	if err != nil {
		return nil, err
	}
	return &WeightedStake{
		Amount: amount,
		Weight: weight,
	}, nil
}
