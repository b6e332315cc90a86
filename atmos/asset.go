// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package atmos

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// MaxAmount is the largest amount an asset can hold.
const MaxAmount = uint64(1)<<62 - 1

// Asset is an amount of a token, in the smallest unit of the token.
type Asset struct {
	Amount uint64
	Symbol Symbol
}

// NewAsset creates an asset.
func NewAsset(amount uint64, symbol Symbol) Asset {
	return Asset{Amount: amount, Symbol: symbol}
}

// IsValid reports whether the symbol is valid and the amount in range.
func (a Asset) IsValid() bool {
	return a.Amount <= MaxAmount && a.Symbol.IsValid()
}

// IsZero reports whether the amount is zero.
func (a Asset) IsZero() bool {
	return a.Amount == 0
}

// Add returns a+b. Both must share the symbol and the sum must not exceed MaxAmount.
func (a Asset) Add(b Asset) (Asset, error) {
	if a.Symbol != b.Symbol {
		return Asset{}, ErrSymbolMismatch
	}
	sum, err := AddUint64(a.Amount, b.Amount)
	if err != nil {
		return Asset{}, err
	}
	if sum > MaxAmount {
		return Asset{}, ErrOverflow
	}
	return Asset{Amount: sum, Symbol: a.Symbol}, nil
}

// Sub returns a-b. Both must share the symbol.
func (a Asset) Sub(b Asset) (Asset, error) {
	if a.Symbol != b.Symbol {
		return Asset{}, ErrSymbolMismatch
	}
	diff, err := SubUint64(a.Amount, b.Amount)
	if err != nil {
		return Asset{}, err
	}
	return Asset{Amount: diff, Symbol: a.Symbol}, nil
}

// Cmp compares the amounts of a and b, which are expected to share the symbol.
func (a Asset) Cmp(b Asset) int {
	switch {
	case a.Amount < b.Amount:
		return -1
	case a.Amount > b.Amount:
		return 1
	}
	return 0
}

// String formats the asset as "<amount with decimals> <CODE>", e.g. "1.0000 ATMOS".
func (a Asset) String() string {
	p := int(a.Symbol.Precision())
	digits := strconv.FormatUint(a.Amount, 10)
	if p > 0 {
		if len(digits) <= p {
			digits = strings.Repeat("0", p-len(digits)+1) + digits
		}
		digits = digits[:len(digits)-p] + "." + digits[len(digits)-p:]
	}
	return digits + " " + a.Symbol.Code()
}

// ParseAsset parses the String form. The precision is the number of decimals written.
func ParseAsset(s string) (Asset, error) {
	parts := strings.Split(strings.TrimSpace(s), " ")
	if len(parts) != 2 {
		return Asset{}, errors.Errorf("invalid asset %q", s)
	}
	number, code := parts[0], parts[1]

	precision := 0
	if dot := strings.IndexByte(number, '.'); dot >= 0 {
		precision = len(number) - dot - 1
		number = number[:dot] + number[dot+1:]
	}
	if precision > MaxPrecision {
		return Asset{}, errors.Errorf("invalid asset %q: too many decimals", s)
	}
	symbol, err := NewSymbol(code, uint8(precision))
	if err != nil {
		return Asset{}, errors.WithMessagef(err, "invalid asset %q", s)
	}
	amount, err := strconv.ParseUint(number, 10, 64)
	if err != nil {
		return Asset{}, errors.Wrapf(err, "invalid asset %q", s)
	}
	if amount > MaxAmount {
		return Asset{}, errors.Errorf("invalid asset %q: amount out of range", s)
	}
	return Asset{Amount: amount, Symbol: symbol}, nil
}

// MustParseAsset is like ParseAsset but panics on error.
func MustParseAsset(s string) Asset {
	a, err := ParseAsset(s)
	if err != nil {
		panic(err)
	}
	return a
}

// MarshalJSON implements json.Marshaler.
func (a Asset) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Asset) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAsset(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (a Asset) GoString() string {
	return fmt.Sprintf("atmos.Asset{%s}", a.String())
}
