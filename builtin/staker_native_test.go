// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/builtin/staker"
	"github.com/vechain/atmos/builtin/staker/reverts"
	"github.com/vechain/atmos/builtin/staker/tokens"
	"github.com/vechain/atmos/cry"
	"github.com/vechain/atmos/lvldb"
	"github.com/vechain/atmos/state"
	"github.com/vechain/atmos/xenv"
)

const (
	self  = atmos.Name("atmosstake")
	token = atmos.Name("novusphereio")
)

var symbol = atmos.MustNewSymbol("ATMOS", 4)

type testCaller struct {
	t        *testing.T
	contract *Contract
	state    *state.State
	now      uint64
}

func newTestCaller(t *testing.T) *testCaller {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &testCaller{
		t:        t,
		contract: NewContract(nil),
		state:    state.New(db),
		now:      1_700_000_000,
	}
}

func (c *testCaller) call(actor atmos.Name, name string, args any) (any, []*atmos.Transfer, error) {
	var raw json.RawMessage
	if args != nil {
		var err error
		raw, err = json.Marshal(args)
		require.NoError(c.t, err)
	}
	env := xenv.New(c.state, &xenv.ActionContext{Self: self, Actor: actor, Time: c.now}, raw)
	out, err := c.contract.Call(env, name)
	return out, env.Transfers(), err
}

func (c *testCaller) mustCall(actor atmos.Name, name string, args any) (any, []*atmos.Transfer) {
	out, transfers, err := c.call(actor, name, args)
	require.NoError(c.t, err, name)
	return out, transfers
}

func params() *tokens.Params {
	return &tokens.Params{
		Contract:     token,
		Symbol:       symbol,
		RoundSubsidy: atmos.NewAsset(1000, symbol),
		MinClaimSecs: 60,
		MinStakeSecs: 60,
		MaxStakeSecs: 3600,
		MinStake:     atmos.NewAsset(10, symbol),
	}
}

func TestActions(t *testing.T) {
	assert.Equal(t, []string{
		ActionClaim, ActionConfigure, ActionDestroy, ActionEmergencyExit,
		ActionResetClaim, ActionSanity, ActionTransfer, ActionWithdraw,
	}, Actions())
	assert.True(t, IsReadOnly(ActionSanity))
	assert.False(t, IsReadOnly(ActionClaim))
	assert.False(t, HasAction("create"))
}

func TestNativeFlow(t *testing.T) {
	c := newTestCaller(t)
	priv, err := cry.GenerateKey()
	require.NoError(t, err)
	pk := cry.PublicKeyOf(priv)

	c.mustCall(self, ActionConfigure, params())
	c.mustCall(token, ActionTransfer, &TransferArgs{From: "alice", To: self, Quantity: atmos.NewAsset(100, symbol), Memo: staker.StakeMemo(pk, 120)})
	c.mustCall(token, ActionTransfer, &TransferArgs{From: "sponsor", To: self, Quantity: atmos.NewAsset(5000, symbol), Memo: staker.MethodAddSubsidy})

	c.now += 120
	out, transfers := c.mustCall("anyone", ActionClaim, &ClaimArgs{Symbol: symbol, Relay: "relayer", Memo: "fee"})
	require.Len(t, transfers, 1)
	assert.Equal(t, transfers[0], out)
	assert.Equal(t, atmos.NewAsset(10, symbol), transfers[0].Quantity)
	assert.Equal(t, token, transfers[0].Contract)

	reports, _ := c.mustCall("anyone", ActionSanity, nil)
	require.Len(t, reports, 1)
	assert.Equal(t, atmos.NewAsset(100+990, symbol), reports.([]*staker.Report)[0].Supply)

	sig := cry.Sign(staker.WithdrawHash(string(self), 0, "alice", "out"), priv)
	_, transfers = c.mustCall("anyone", ActionWithdraw, &WithdrawArgs{ID: 0, Symbol: symbol, To: "alice", Memo: "out", Signature: sig})
	require.Len(t, transfers, 1)
	assert.Equal(t, atmos.NewAsset(1090, symbol), transfers[0].Quantity)

	_, transfers = c.mustCall(self, ActionEmergencyExit, &EmergencyExitArgs{Symbol: symbol, StakesTo: "vault", SupplyTo: "treasury"})
	require.Len(t, transfers, 1)
	assert.Equal(t, atmos.NewAsset(4000, symbol), transfers[0].Quantity)

	c.mustCall(self, ActionResetClaim, &ResetClaimArgs{Symbol: symbol})
	c.mustCall(self, ActionDestroy, nil)
}

func TestNativeRejections(t *testing.T) {
	c := newTestCaller(t)

	kindOf := func(err error) reverts.Kind {
		require.Error(t, err)
		kind, ok := reverts.KindOf(err)
		require.True(t, ok, "not a revert: %v", err)
		return kind
	}

	_, _, err := c.call(self, "create", params())
	assert.Equal(t, reverts.Malformed, kindOf(err))

	_, _, err = c.call(self, ActionConfigure, nil)
	assert.Equal(t, reverts.Malformed, kindOf(err))

	_, _, err = c.call(self, ActionClaim, map[string]any{"symbol": "4,ATMOS", "relay": "relayer", "bogus": 1})
	assert.Equal(t, reverts.Malformed, kindOf(err))

	_, _, err = c.call(self, ActionClaim, map[string]any{"symbol": "ATMOS", "relay": "relayer"})
	assert.Equal(t, reverts.Malformed, kindOf(err))

	_, _, err = c.call("mallory", ActionConfigure, params())
	assert.Equal(t, reverts.Unauthorized, kindOf(err))

	_, _, err = c.call("mallory", ActionDestroy, nil)
	assert.Equal(t, reverts.Unauthorized, kindOf(err))

	_, _, err = c.call(self, ActionClaim, &ClaimArgs{Symbol: symbol, Relay: "relayer"})
	assert.Equal(t, reverts.NotFound, kindOf(err))
}
