// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package atmos

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
)

var (
	ErrOverflow       = errors.New("integer overflow")
	ErrUnderflow      = errors.New("integer underflow")
	ErrSymbolMismatch = errors.New("symbol mismatch")
)

// AddUint64 returns x+y, or ErrOverflow.
func AddUint64(x, y uint64) (uint64, error) {
	sum, overflow := math.SafeAdd(x, y)
	if overflow {
		return 0, ErrOverflow
	}
	return sum, nil
}

// SubUint64 returns x-y, or ErrUnderflow.
func SubUint64(x, y uint64) (uint64, error) {
	diff, underflow := math.SafeSub(x, y)
	if underflow {
		return 0, ErrUnderflow
	}
	return diff, nil
}
