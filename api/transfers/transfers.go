// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/atmos/api/utils"
	"github.com/vechain/atmos/transferdb"
)

type Transfers struct {
	db    *transferdb.TransferDB
	limit uint64
}

func New(db *transferdb.TransferDB, limit uint64) *Transfers {
	return &Transfers{
		db,
		limit,
	}
}

func (t *Transfers) parsePage(req *http.Request) (offset, limit uint64, err error) {
	query := req.URL.Query()
	if offset, err = utils.ParseUint(query.Get("offset"), 0); err != nil {
		return 0, 0, utils.BadRequest(errors.WithMessage(err, "offset"))
	}
	if limit, err = utils.ParseUint(query.Get("limit"), t.limit); err != nil {
		return 0, 0, utils.BadRequest(errors.WithMessage(err, "limit"))
	}
	if limit > t.limit {
		return 0, 0, utils.Forbidden(fmt.Errorf("limit exceeds the maximum allowed value of %d", t.limit))
	}
	return offset, limit, nil
}

func (t *Transfers) handleGetTransfers(w http.ResponseWriter, req *http.Request) error {
	offset, limit, err := t.parsePage(req)
	if err != nil {
		return err
	}
	var transfers []*transferdb.Transfer
	if req.URL.Query().Get("pending") == "true" {
		transfers, err = t.db.Pending(limit)
	} else {
		transfers, err = t.db.Transfers(offset, limit)
	}
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, transfers)
}

func (t *Transfers) handleGetReceipts(w http.ResponseWriter, req *http.Request) error {
	offset, limit, err := t.parsePage(req)
	if err != nil {
		return err
	}
	receipts, err := t.db.Receipts(offset, limit)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, receipts)
}

// Mount registers GET /transfers and GET /receipts under the given prefix.
func (t *Transfers) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/transfers").
		Methods(http.MethodGet).
		Name("GET /transfers").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetTransfers))
	sub.Path("/receipts").
		Methods(http.MethodGet).
		Name("GET /receipts").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetReceipts))
}
