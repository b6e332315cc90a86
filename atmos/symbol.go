// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package atmos

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// MaxPrecision is the maximum number of decimals of a token.
	MaxPrecision = 18
	// MaxSymbolCodeLength is the maximum number of characters of a token code.
	MaxSymbolCodeLength = 7
)

// Symbol identifies a token by its code and precision.
// The lowest byte holds the precision, the following bytes the code characters.
type Symbol uint64

// NewSymbol creates a symbol from its code and precision.
func NewSymbol(code string, precision uint8) (Symbol, error) {
	if len(code) == 0 || len(code) > MaxSymbolCodeLength {
		return 0, errors.Errorf("invalid symbol code %q", code)
	}
	if precision > MaxPrecision {
		return 0, errors.Errorf("precision %d exceeds %d", precision, MaxPrecision)
	}
	raw := uint64(precision)
	for i := 0; i < len(code); i++ {
		c := code[i]
		if c < 'A' || c > 'Z' {
			return 0, errors.Errorf("invalid symbol code %q", code)
		}
		raw |= uint64(c) << (8 * (i + 1))
	}
	return Symbol(raw), nil
}

// MustNewSymbol is like NewSymbol but panics on error.
func MustNewSymbol(code string, precision uint8) Symbol {
	s, err := NewSymbol(code, precision)
	if err != nil {
		panic(err)
	}
	return s
}

// ParseSymbol parses the "<precision>,<CODE>" form, e.g. "4,ATMOS".
func ParseSymbol(s string) (Symbol, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, errors.Errorf("invalid symbol %q", s)
	}
	precision, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid symbol precision %q", s)
	}
	return NewSymbol(parts[1], uint8(precision))
}

// Raw returns the packed representation, also used as the table scope of the token.
func (s Symbol) Raw() uint64 {
	return uint64(s)
}

// Precision returns the number of decimals.
func (s Symbol) Precision() uint8 {
	return uint8(s)
}

// Code returns the token code, e.g. "ATMOS".
func (s Symbol) Code() string {
	var b []byte
	for raw := uint64(s) >> 8; raw > 0; raw >>= 8 {
		b = append(b, byte(raw))
	}
	return string(b)
}

// IsValid reports whether the symbol has a well formed code and precision.
func (s Symbol) IsValid() bool {
	if s.Precision() > MaxPrecision {
		return false
	}
	_, err := NewSymbol(s.Code(), s.Precision())
	return err == nil
}

func (s Symbol) String() string {
	return strconv.Itoa(int(s.Precision())) + "," + s.Code()
}

// MarshalJSON implements json.Marshaler.
func (s Symbol) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Symbol) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseSymbol(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
