// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/atmos/api/transfers"
	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/lvldb"
	"github.com/vechain/atmos/transferdb"
)

var symbol = atmos.MustNewSymbol("ATMOS", 4)

func initServer(t *testing.T) (*httptest.Server, *transferdb.TransferDB) {
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	db := transferdb.New(store)
	for i := 0; i < 3; i++ {
		batch := store.NewBatch()
		intents := []*atmos.Transfer{
			{Contract: "novusphereio", From: "atmosstake", To: "alice", Quantity: atmos.NewAsset(uint64(i+1), symbol), Memo: "a"},
			{Contract: "novusphereio", From: "atmosstake", To: "bob", Quantity: atmos.NewAsset(uint64(i+1), symbol), Memo: "b"},
		}
		_, err := db.Record(batch, &transferdb.Receipt{Action: "emergencyexit", Actor: "atmosstake", Time: uint64(i)}, intents)
		require.NoError(t, err)
		require.NoError(t, batch.Write())
	}

	router := mux.NewRouter()
	transfers.New(db, 4).Mount(router, "")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, db
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func TestTransfers(t *testing.T) {
	ts, db := initServer(t)

	body, status := httpGet(t, ts.URL+"/transfers?offset=1&limit=3")
	require.Equal(t, http.StatusOK, status, string(body))
	var list []*transferdb.Transfer
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 3)
	assert.Equal(t, uint64(1), list[0].Seq)
	assert.Equal(t, atmos.Name("bob"), list[0].To)
	assert.Equal(t, uint64(1), list[1].ReceiptSeq)

	require.NoError(t, db.Ack(0, 1))
	body, status = httpGet(t, ts.URL+"/transfers?pending=true")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 4)
	assert.Equal(t, uint64(2), list[0].Seq)

	_, status = httpGet(t, ts.URL+"/transfers?limit=5")
	assert.Equal(t, http.StatusForbidden, status)

	_, status = httpGet(t, ts.URL+"/transfers?offset=x")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestReceipts(t *testing.T) {
	ts, _ := initServer(t)

	body, status := httpGet(t, ts.URL+"/receipts")
	require.Equal(t, http.StatusOK, status, string(body))
	var list []*transferdb.Receipt
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 3)
	assert.Equal(t, uint64(2), list[2].Seq)
	assert.Equal(t, uint64(4), list[2].FirstTransfer)
	assert.Equal(t, uint64(2), list[2].Transfers)

	body, status = httpGet(t, ts.URL+"/receipts?offset=10")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))
}
