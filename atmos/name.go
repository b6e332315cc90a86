// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package atmos

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// MaxNameLength is the maximum number of characters of an account name.
const MaxNameLength = 12

const nameCharset = ".12345abcdefghijklmnopqrstuvwxyz"

// Name identifies an account: a depositor destination, a relay, a transfer
// service or the staking contract itself.
type Name string

// ParseName validates and converts s into a Name.
func ParseName(s string) (Name, error) {
	n := Name(s)
	if !n.IsValid() {
		return "", errors.Errorf("invalid name %q", s)
	}
	return n, nil
}

// MustParseName is like ParseName but panics on error.
func MustParseName(s string) Name {
	n, err := ParseName(s)
	if err != nil {
		panic(err)
	}
	return n
}

// IsValid reports whether the name is 1-12 characters of [a-z1-5.] not ending with a dot.
func (n Name) IsValid() bool {
	if len(n) == 0 || len(n) > MaxNameLength {
		return false
	}
	if strings.HasSuffix(string(n), ".") {
		return false
	}
	for _, c := range n {
		if !strings.ContainsRune(nameCharset, c) {
			return false
		}
	}
	return true
}

// IsZero reports whether the name is empty.
func (n Name) IsZero() bool {
	return n == ""
}

func (n Name) String() string {
	return string(n)
}

// UnmarshalJSON implements json.Unmarshaler and rejects invalid names.
func (n *Name) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseName(s)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
