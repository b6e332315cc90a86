// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package atmos

import "fmt"

// Transfer is an outgoing transfer intent, handed to the transfer service
// of the token once the action that produced it has been fully applied.
type Transfer struct {
	Contract Name   `json:"contract"` // transfer service of the token
	From     Name   `json:"from"`
	To       Name   `json:"to"`
	Quantity Asset  `json:"quantity"`
	Memo     string `json:"memo"`
}

func (t *Transfer) String() string {
	return fmt.Sprintf("%s: %s -> %s %s %q", t.Contract, t.From, t.To, t.Quantity, t.Memo)
}
