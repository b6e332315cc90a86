// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package outbox

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/atmos/api/utils"
	"github.com/vechain/atmos/log"
	"github.com/vechain/atmos/transferdb"
)

// AckRequest lists the transfers a relayer delivered.
type AckRequest struct {
	Seqs []uint64 `json:"seqs"`
}

// Outbox lets an external relayer confirm delivered transfers.
type Outbox struct {
	db    *transferdb.TransferDB
	limit uint64
}

func New(db *transferdb.TransferDB, limit uint64) *Outbox {
	return &Outbox{db, limit}
}

func (o *Outbox) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("/pending").
		Methods(http.MethodGet).
		Name("get-outbox-pending").
		HandlerFunc(utils.WrapHandlerFunc(o.handleGetPending))
	sub.Path("/ack").
		Methods(http.MethodPost).
		Name("post-outbox-ack").
		HandlerFunc(utils.WrapHandlerFunc(o.handleAck))
}

func (o *Outbox) handleGetPending(w http.ResponseWriter, _ *http.Request) error {
	pending, err := o.db.Pending(o.limit)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, pending)
}

func (o *Outbox) handleAck(w http.ResponseWriter, r *http.Request) error {
	var req AckRequest
	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := o.db.Ack(req.Seqs...); err != nil {
		return err
	}
	log.Info("transfers acked", "pkg", "outbox", "count", len(req.Seqs))
	return utils.WriteJSON(w, utils.M{"acked": len(req.Seqs)})
}
