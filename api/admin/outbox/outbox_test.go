// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package outbox

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/lvldb"
	"github.com/vechain/atmos/transferdb"
)

func TestOutbox(t *testing.T) {
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	defer store.Close()

	db := transferdb.New(store)
	symbol := atmos.MustNewSymbol("ATMOS", 4)
	batch := store.NewBatch()
	_, err = db.Record(batch, &transferdb.Receipt{Action: "claim", Actor: "relayer"}, []*atmos.Transfer{
		{Contract: "novusphereio", From: "atmosstake", To: "relayer", Quantity: atmos.NewAsset(10, symbol)},
		{Contract: "novusphereio", From: "atmosstake", To: "alice", Quantity: atmos.NewAsset(20, symbol)},
	})
	require.NoError(t, err)
	require.NoError(t, batch.Write())

	router := mux.NewRouter()
	New(db, 10).Mount(router, "/admin/outbox")

	body, err := json.Marshal(AckRequest{Seqs: []uint64{0}})
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/outbox/ack", bytes.NewReader(body)))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/outbox/pending", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	var pending []*transferdb.Transfer
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, uint64(1), pending[0].Seq)
	assert.Equal(t, atmos.Name("alice"), pending[0].To)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/outbox/ack", bytes.NewReader([]byte(`{"ids":[1]}`))))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
