// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package actions

import (
	"github.com/vechain/atmos/runtime"
	"github.com/vechain/atmos/transferdb"
)

// Result for marshal the output of an executed action.
type Result struct {
	Receipt   *transferdb.Receipt    `json:"receipt"`
	Transfers []*transferdb.Transfer `json:"transfers"`
	Output    any                    `json:"output"`
}

// NewResult converts a runtime output, transfers are never null.
func NewResult(out *runtime.Output) *Result {
	transfers := out.Transfers
	if transfers == nil {
		transfers = []*transferdb.Transfer{}
	}
	return &Result{
		Receipt:   out.Receipt,
		Transfers: transfers,
		Output:    out.Value,
	}
}
