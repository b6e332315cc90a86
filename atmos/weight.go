// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package atmos

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Weight is the reward share of stakes, a 256-bit unsigned integer.
// The zero value is a zero weight.
type Weight struct {
	v uint256.Int
}

// NewWeight creates a weight from x.
func NewWeight(x uint64) Weight {
	var w Weight
	w.v.SetUint64(x)
	return w
}

// ParseWeight parses a decimal weight.
func ParseWeight(s string) (Weight, error) {
	var w Weight
	if err := w.v.SetFromDecimal(s); err != nil {
		return Weight{}, errors.Wrapf(err, "invalid weight %q", s)
	}
	return w, nil
}

func (w Weight) IsZero() bool {
	return w.v.IsZero()
}

// Cmp compares w and x, returning -1, 0 or +1.
func (w Weight) Cmp(x Weight) int {
	return w.v.Cmp(&x.v)
}

// Add returns w+x, or ErrOverflow.
func (w Weight) Add(x Weight) (Weight, error) {
	var sum Weight
	if _, overflow := sum.v.AddOverflow(&w.v, &x.v); overflow {
		return Weight{}, ErrOverflow
	}
	return sum, nil
}

// Sub returns w-x, or ErrUnderflow.
func (w Weight) Sub(x Weight) (Weight, error) {
	var diff Weight
	if _, underflow := diff.v.SubOverflow(&w.v, &x.v); underflow {
		return Weight{}, ErrUnderflow
	}
	return diff, nil
}

// MulUint64 returns w*x, or ErrOverflow.
func (w Weight) MulUint64(x uint64) (Weight, error) {
	var prod Weight
	if _, overflow := prod.v.MulOverflow(&w.v, uint256.NewInt(x)); overflow {
		return Weight{}, ErrOverflow
	}
	return prod, nil
}

// Uint256 returns a copy of the weight as uint256.
func (w Weight) Uint256() *uint256.Int {
	return new(uint256.Int).Set(&w.v)
}

func (w Weight) String() string {
	return w.v.Dec()
}

// MarshalJSON encodes the weight as a decimal string.
func (w Weight) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.v.Dec())
}

// UnmarshalJSON accepts a decimal string or a JSON number.
func (w *Weight) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	parsed, err := ParseWeight(s)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// EncodeRLP implements rlp.Encoder, the weight is stored as a big-endian
// byte string without leading zeros.
func (w Weight) EncodeRLP(out io.Writer) error {
	return rlp.Encode(out, w.v.Bytes())
}

// DecodeRLP implements rlp.Decoder.
func (w *Weight) DecodeRLP(s *rlp.Stream) error {
	b, err := s.Bytes()
	if err != nil {
		return err
	}
	if len(b) > 32 {
		return errors.New("rlp: weight exceeds 256 bits")
	}
	if len(b) > 0 && b[0] == 0 {
		return errors.New("rlp: non-canonical weight")
	}
	w.v.SetBytes(b)
	return nil
}
