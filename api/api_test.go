// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/atmos/api/actions"
	"github.com/vechain/atmos/api/tokens"
	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/builtin"
	"github.com/vechain/atmos/builtin/staker"
	tokenparams "github.com/vechain/atmos/builtin/staker/tokens"
	"github.com/vechain/atmos/cry"
	"github.com/vechain/atmos/lvldb"
	"github.com/vechain/atmos/metrics"
	"github.com/vechain/atmos/runtime"
	"github.com/vechain/atmos/transferdb"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

const (
	self  = atmos.Name("atmosstake")
	token = atmos.Name("novusphereio")
)

var symbol = atmos.MustNewSymbol("ATMOS", 4)

type testServer struct {
	*httptest.Server
	t     *testing.T
	clock *runtime.ManualClock
	pk    atmos.PublicKey
}

func newTestServer(t *testing.T) *testServer {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clock := runtime.NewManualClock(1_700_000_000)
	rt := runtime.New(db, self, builtin.NewContract(nil), nil, clock)

	ts := httptest.NewServer(New(rt, Options{
		AllowedOrigins: "*",
		PageLimit:      10,
		SubmitOn:       true,
		EnableMetrics:  true,
	}))
	t.Cleanup(ts.Close)

	priv, err := cry.GenerateKey()
	require.NoError(t, err)
	return &testServer{Server: ts, t: t, clock: clock, pk: cry.PublicKeyOf(priv)}
}

func (ts *testServer) get(path string) ([]byte, int) {
	res, err := http.Get(ts.URL + path) //#nosec G107
	require.NoError(ts.t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(ts.t, err)
	return body, res.StatusCode
}

func (ts *testServer) submit(name string, actor atmos.Name, args any) ([]byte, int) {
	raw, err := json.Marshal(args)
	require.NoError(ts.t, err)
	body, err := json.Marshal(&runtime.Action{Name: name, Actor: actor, Args: raw})
	require.NoError(ts.t, err)

	res, err := http.Post(ts.URL+"/actions", "application/json", bytes.NewReader(body)) //#nosec G107
	require.NoError(ts.t, err)
	defer res.Body.Close()
	out, err := io.ReadAll(res.Body)
	require.NoError(ts.t, err)
	return out, res.StatusCode
}

func (ts *testServer) mustSubmit(name string, actor atmos.Name, args any) *actions.Result {
	body, status := ts.submit(name, actor, args)
	require.Equal(ts.t, http.StatusOK, status, string(body))
	var result actions.Result
	require.NoError(ts.t, json.Unmarshal(body, &result))
	return &result
}

func (ts *testServer) setup() {
	ts.mustSubmit(builtin.ActionConfigure, self, &tokenparams.Params{
		Contract:     token,
		Symbol:       symbol,
		RoundSubsidy: atmos.NewAsset(1000, symbol),
		MinClaimSecs: 60,
		MinStakeSecs: 60,
		MaxStakeSecs: 3600,
		MinStake:     atmos.NewAsset(10, symbol),
	})
	ts.mustSubmit(builtin.ActionTransfer, token, &builtin.TransferArgs{
		From: "alice", To: self, Quantity: atmos.NewAsset(100, symbol), Memo: staker.StakeMemo(ts.pk, 120),
	})
	ts.mustSubmit(builtin.ActionTransfer, token, &builtin.TransferArgs{
		From: "sponsor", To: self, Quantity: atmos.NewAsset(5000, symbol), Memo: staker.MethodAddSubsidy,
	})
}

func TestTokens(t *testing.T) {
	ts := newTestServer(t)
	ts.setup()

	body, status := ts.get("/tokens")
	require.Equal(t, http.StatusOK, status, string(body))
	var list []*tokens.Token
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, symbol, list[0].Symbol)
	assert.Equal(t, atmos.NewAsset(100, symbol), list[0].TotalSupply)
	assert.Equal(t, atmos.NewAsset(5000, symbol), list[0].SubsidySupply)

	for _, path := range []string{"/tokens/ATMOS", "/tokens/" + url.PathEscape("4,ATMOS")} {
		body, status = ts.get(path)
		require.Equal(t, http.StatusOK, status, path)
		var tok tokens.Token
		require.NoError(t, json.Unmarshal(body, &tok))
		assert.Equal(t, token, tok.Contract)
	}

	_, status = ts.get("/tokens/NOPE")
	assert.Equal(t, http.StatusNotFound, status)
	_, status = ts.get("/tokens/" + url.PathEscape("x,ATMOS"))
	assert.Equal(t, http.StatusBadRequest, status)

	body, status = ts.get("/tokens/ATMOS/positions")
	require.Equal(t, http.StatusOK, status)
	var positions []*tokens.Position
	require.NoError(t, json.Unmarshal(body, &positions))
	require.Len(t, positions, 1)
	assert.Equal(t, ts.pk, positions[0].PublicKey)
	assert.Equal(t, atmos.NewWeight(100*120), positions[0].Weight)
	assert.False(t, positions[0].Matured)

	body, status = ts.get("/tokens/ATMOS/positions?key=" + ts.pk.String())
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &positions))
	assert.Len(t, positions, 1)

	body, status = ts.get("/tokens/ATMOS/positions?offset=1")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))

	_, status = ts.get("/tokens/ATMOS/positions?limit=11")
	assert.Equal(t, http.StatusForbidden, status)

	body, status = ts.get("/tokens/ATMOS/positions/0")
	require.Equal(t, http.StatusOK, status)
	var position tokens.Position
	require.NoError(t, json.Unmarshal(body, &position))
	assert.Equal(t, uint64(0), position.ID)

	_, status = ts.get("/tokens/ATMOS/positions/7")
	assert.Equal(t, http.StatusNotFound, status)
	_, status = ts.get("/tokens/ATMOS/positions/x")
	assert.Equal(t, http.StatusBadRequest, status)

	body, status = ts.get("/tokens/ATMOS/accounts/" + ts.pk.String())
	require.Equal(t, http.StatusOK, status)
	var account tokens.Account
	require.NoError(t, json.Unmarshal(body, &account))
	assert.Equal(t, atmos.NewAsset(100, symbol), account.TotalBalance)

	_, status = ts.get("/tokens/ATMOS/accounts/EOS1")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestActions(t *testing.T) {
	ts := newTestServer(t)
	ts.setup()

	// too early to claim
	_, status := ts.submit(builtin.ActionClaim, "anyone", &builtin.ClaimArgs{Symbol: symbol, Relay: "relayer"})
	assert.Equal(t, http.StatusConflict, status)

	_, status = ts.submit(builtin.ActionDestroy, "mallory", nil)
	assert.Equal(t, http.StatusForbidden, status)

	_, status = ts.submit("mint", "anyone", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = ts.submit(builtin.ActionWithdraw, "anyone", &builtin.WithdrawArgs{ID: 9, Symbol: symbol, To: "alice"})
	assert.Equal(t, http.StatusNotFound, status)

	ts.clock.Advance(120)
	result := ts.mustSubmit(builtin.ActionClaim, "anyone", &builtin.ClaimArgs{Symbol: symbol, Relay: "relayer", Memo: "fee"})
	require.NotNil(t, result.Receipt)
	assert.Equal(t, uint64(3), result.Receipt.Seq)
	require.Len(t, result.Transfers, 1)
	assert.Equal(t, atmos.NewAsset(10, symbol), result.Transfers[0].Quantity)

	body, status := ts.get("/sanity")
	require.Equal(t, http.StatusOK, status, string(body))
	var reports []*staker.Report
	require.NoError(t, json.Unmarshal(body, &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, atmos.NewAsset(1090, symbol), reports[0].Supply)

	body, status = ts.get("/receipts")
	require.Equal(t, http.StatusOK, status)
	var receipts []*transferdb.Receipt
	require.NoError(t, json.Unmarshal(body, &receipts))
	assert.Len(t, receipts, 4)

	body, status = ts.get("/transfers")
	require.Equal(t, http.StatusOK, status)
	var transfers []*transferdb.Transfer
	require.NoError(t, json.Unmarshal(body, &transfers))
	require.Len(t, transfers, 1)
	assert.Equal(t, atmos.Name("relayer"), transfers[0].To)

	body, status = ts.get("/actions")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `{"name":"sanity","readOnly":true}`)
}

func TestSubmitOff(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	rt := runtime.New(db, self, builtin.NewContract(nil), nil, nil)

	ts := httptest.NewServer(New(rt, Options{}))
	defer ts.Close()

	res, err := http.Post(ts.URL+"/actions", "application/json", bytes.NewReader([]byte(`{}`))) //#nosec G107
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestMetricsMiddleware(t *testing.T) {
	ts := newTestServer(t)

	ts.get("/tokens")
	ts.get("/tokens/NOPE")

	rec := httptest.NewRecorder()
	metrics.HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(rec.Body)
	require.NoError(t, err)

	family, ok := families["atmos_metrics_api_request_count"]
	require.True(t, ok)
	found := map[string]bool{}
	for _, m := range family.GetMetric() {
		labels := map[string]string{}
		for _, l := range m.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		found[labels["name"]+" "+labels["code"]] = true
	}
	assert.True(t, found["tokens 200"])
	assert.True(t, found["tokens_symbol 404"])
}

func TestRouteName(t *testing.T) {
	assert.Equal(t, "tokens_symbol_positions_id", routeName("GET /tokens/{symbol}/positions/{id}"))
	assert.Equal(t, "actions", routeName("POST /actions"))
	assert.Equal(t, "get-log-level", routeName("get-log-level"))
}
