// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transferdb

import (
	"encoding/json"
	"fmt"

	"github.com/vechain/atmos/atmos"
)

// Receipt records one committed action.
type Receipt struct {
	Seq    uint64          `json:"seq"`
	Action string          `json:"action"`
	Actor  atmos.Name      `json:"actor"`
	Time   uint64          `json:"time"`
	Args   json.RawMessage `json:"args,omitempty"`
	// FirstTransfer is the seq of the first transfer produced by the action,
	// meaningful only when Transfers > 0.
	FirstTransfer uint64 `json:"firstTransfer"`
	Transfers     uint64 `json:"transfers"`
}

func (r *Receipt) String() string {
	return fmt.Sprintf(`
		Receipt(
			seq:           %v,
			action:        %v,
			actor:         %v,
			time:          %v,
			firstTransfer: %v,
			transfers:     %v)`,
		r.Seq,
		r.Action,
		r.Actor,
		r.Time,
		r.FirstTransfer,
		r.Transfers)
}

// Transfer is a stored transfer intent.
type Transfer struct {
	Seq        uint64      `json:"seq"`
	ReceiptSeq uint64      `json:"receipt"`
	Contract   atmos.Name  `json:"contract"`
	From       atmos.Name  `json:"from"`
	To         atmos.Name  `json:"to"`
	Quantity   atmos.Asset `json:"quantity"`
	Memo       string      `json:"memo"`
	// Acked is set when the intent left the outbox. Not persisted with the row.
	Acked bool `json:"acked" rlp:"-"`
}

func newTransfer(seq, receiptSeq uint64, t *atmos.Transfer) *Transfer {
	return &Transfer{
		Seq:        seq,
		ReceiptSeq: receiptSeq,
		Contract:   t.Contract,
		From:       t.From,
		To:         t.To,
		Quantity:   t.Quantity,
		Memo:       t.Memo,
	}
}

// Intent returns the transfer intent the row was made from.
func (t *Transfer) Intent() *atmos.Transfer {
	return &atmos.Transfer{
		Contract: t.Contract,
		From:     t.From,
		To:       t.To,
		Quantity: t.Quantity,
		Memo:     t.Memo,
	}
}

func (t *Transfer) String() string {
	return fmt.Sprintf(`
		Transfer(
			seq:      %v,
			receipt:  %v,
			contract: %v,
			from:     %v,
			to:       %v,
			quantity: %v,
			memo:     %q)`,
		t.Seq,
		t.ReceiptSeq,
		t.Contract,
		t.From,
		t.To,
		t.Quantity,
		t.Memo)
}
