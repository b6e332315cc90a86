// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/builtin/staker/reverts"
	"github.com/vechain/atmos/builtin/staker/stakes"
	"github.com/vechain/atmos/builtin/staker/tokens"
	"github.com/vechain/atmos/cry"
	"github.com/vechain/atmos/lvldb"
	"github.com/vechain/atmos/state"
)

const (
	self          = atmos.Name("atmosstake")
	tokenContract = atmos.Name("novusphereio")
	t0            = uint64(1_700_000_000)
	day           = uint64(86400)
)

var symbol = atmos.MustNewSymbol("ATMOS", 4)

func asset(n uint64) atmos.Asset {
	return atmos.NewAsset(n, symbol)
}

func newState(t *testing.T) *state.State {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return state.New(db)
}

func newTestStaker(t *testing.T, opts *Options) (*Staker, *state.State) {
	st := newState(t)
	return New(self, st, opts), st
}

func defaultParams() *tokens.Params {
	return &tokens.Params{
		Contract:     tokenContract,
		Symbol:       symbol,
		RoundSubsidy: asset(1000),
		MinClaimSecs: day,
		MinStakeSecs: 3600,
		MaxStakeSecs: 31536000,
		MinStake:     asset(100),
	}
}

type depositor struct {
	priv *secp256k1.PrivateKey
	pk   atmos.PublicKey
}

func newDepositor(t *testing.T) *depositor {
	priv, err := cry.GenerateKey()
	require.NoError(t, err)
	return &depositor{priv: priv, pk: cry.PublicKeyOf(priv)}
}

func (d *depositor) sign(s *Staker, id uint64, to atmos.Name, memo string) atmos.Signature {
	return cry.Sign(WithdrawHash(s.Namespace(), id, to, memo), d.priv)
}

func incoming(from atmos.Name, quantity atmos.Asset, memo string) *atmos.Transfer {
	return &atmos.Transfer{Contract: tokenContract, From: from, To: self, Quantity: quantity, Memo: memo}
}

func stake(t *testing.T, s *Staker, d *depositor, amount, secs, now uint64) {
	require.NoError(t, s.OnTransfer(tokenContract, incoming("alice", asset(amount), StakeMemo(d.pk, secs)), now))
}

func subsidize(t *testing.T, s *Staker, amount, now uint64) {
	require.NoError(t, s.OnTransfer(tokenContract, incoming("sponsor", asset(amount), MethodAddSubsidy), now))
}

func assertKind(t *testing.T, err error, kind reverts.Kind) {
	t.Helper()
	require.Error(t, err)
	got, ok := reverts.KindOf(err)
	require.True(t, ok, "not a revert: %v", err)
	assert.Equal(t, kind, got, err.Error())
}

func mustToken(t *testing.T, s *Staker) *tokens.Token {
	tok, err := s.GetToken(symbol)
	require.NoError(t, err)
	require.NotNil(t, tok)
	return tok
}

func mustSubWeight(t *testing.T, w atmos.Weight, x uint64) atmos.Weight {
	diff, err := w.Sub(atmos.NewWeight(x))
	require.NoError(t, err)
	return diff
}

func assertSane(t *testing.T, s *Staker) {
	t.Helper()
	_, err := s.Sanity()
	require.NoError(t, err)
}

func TestConfigure(t *testing.T) {
	s, _ := newTestStaker(t, nil)

	assertKind(t, s.Configure("mallory", defaultParams(), t0), reverts.Unauthorized)

	require.NoError(t, s.Configure(self, defaultParams(), t0))
	tok := mustToken(t, s)
	assert.Equal(t, tokenContract, tok.Contract)
	assert.Equal(t, t0, tok.LastClaim)
	assert.Equal(t, asset(0), tok.TotalSupply)
	assert.Equal(t, asset(0), tok.SubsidySupply)

	// update keeps aggregates and the claim timer
	p := defaultParams()
	p.RoundSubsidy = asset(2000)
	p.MinClaimSecs = 60
	require.NoError(t, s.Configure(self, p, t0+500))
	tok = mustToken(t, s)
	assert.Equal(t, asset(2000), tok.RoundSubsidy)
	assert.Equal(t, uint64(60), tok.MinClaimSecs)
	assert.Equal(t, t0, tok.LastClaim)

	p = defaultParams()
	p.Contract = "eosio.token"
	assertKind(t, s.Configure(self, p, t0), reverts.Unauthorized)

	invalid := []struct {
		name   string
		modify func(p *tokens.Params)
		kind   reverts.Kind
	}{
		{"zero subsidy", func(p *tokens.Params) { p.RoundSubsidy = asset(0) }, reverts.Policy},
		{"subsidy symbol", func(p *tokens.Params) { p.RoundSubsidy = atmos.MustParseAsset("1.000 ATMOS") }, reverts.Malformed},
		{"zero min stake", func(p *tokens.Params) { p.MinStake = asset(0) }, reverts.Policy},
		{"zero claim secs", func(p *tokens.Params) { p.MinClaimSecs = 0 }, reverts.Policy},
		{"zero stake secs", func(p *tokens.Params) { p.MinStakeSecs = 0 }, reverts.Policy},
		{"max below min", func(p *tokens.Params) { p.MaxStakeSecs = p.MinStakeSecs - 1 }, reverts.Policy},
		{"contract name", func(p *tokens.Params) { p.Contract = "Bad" }, reverts.Malformed},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			p := defaultParams()
			tt.modify(p)
			assertKind(t, s.Configure(self, p, t0), tt.kind)
		})
	}
}

// configure a token, stake 1000 for 7200s
func TestScenarioA(t *testing.T) {
	s, _ := newTestStaker(t, nil)
	require.NoError(t, s.Configure(self, defaultParams(), t0))

	d := newDepositor(t)
	stake(t, s, d, 1000, 7200, t0)

	p, err := s.GetPosition(symbol, 0)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, atmos.NewWeight(1000*7200), p.Weight)
	assert.Equal(t, asset(1000), p.Balance)
	assert.Equal(t, asset(1000), p.InitialBalance)
	assert.Equal(t, t0+7200, p.Expires)
	assert.Equal(t, d.pk, p.PublicKey)

	tok := mustToken(t, s)
	assert.Equal(t, asset(1000), tok.TotalSupply)
	assert.Equal(t, p.Weight, tok.TotalWeight)

	acc, err := s.GetAccount(symbol, d.pk)
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, asset(1000), acc.TotalBalance)
	assert.Equal(t, p.Weight, acc.TotalWeight)
	assertSane(t, s)
}

// two depositors share a round pro rata to their weight
func TestScenarioB(t *testing.T) {
	s, _ := newTestStaker(t, nil)
	require.NoError(t, s.Configure(self, defaultParams(), t0))

	d1, d2 := newDepositor(t), newDepositor(t)
	stake(t, s, d1, 1000, 7200, t0)
	stake(t, s, d2, 500, 7200, t0)
	subsidize(t, s, 5000, t0)

	const w1, w2 = 1000 * 7200, 500 * 7200
	transfer, err := s.Claim(symbol, "relayer", "thanks", t0+day)
	require.NoError(t, err)
	assert.Equal(t, &atmos.Transfer{
		Contract: tokenContract,
		From:     self,
		To:       "relayer",
		Quantity: asset(10),
		Memo:     "thanks",
	}, transfer)
	assert.Equal(t, 2, s.Visited())

	r1, r2 := uint64(990*w1/(w1+w2)), uint64(990*w2/(w1+w2))
	assert.Equal(t, uint64(660), r1)
	assert.Equal(t, uint64(330), r2)

	p1, err := s.GetPosition(symbol, 0)
	require.NoError(t, err)
	assert.Equal(t, asset(1000+r1), p1.Balance)
	p2, err := s.GetPosition(symbol, 1)
	require.NoError(t, err)
	assert.Equal(t, asset(500+r2), p2.Balance)

	a1, err := s.GetAccount(symbol, d1.pk)
	require.NoError(t, err)
	assert.Equal(t, asset(1000+r1), a1.TotalBalance)

	tok := mustToken(t, s)
	assert.Equal(t, asset(1500+r1+r2), tok.TotalSupply)
	assert.Equal(t, asset(4000), tok.SubsidySupply)
	assert.Equal(t, asset(0), tok.Retained)
	assert.Equal(t, t0+day, tok.LastClaim)
	assertSane(t, s)

	// an immediate second claim is rejected and changes nothing
	_, err = s.Claim(symbol, "relayer", "again", t0+day+1)
	assertKind(t, err, reverts.Policy)
	assert.Equal(t, tok, mustToken(t, s))
}

// a matured position is withdrawn with the depositor signature
func TestScenarioC(t *testing.T) {
	s, _ := newTestStaker(t, nil)
	require.NoError(t, s.Configure(self, defaultParams(), t0))

	d1, d2 := newDepositor(t), newDepositor(t)
	stake(t, s, d1, 1000, 7200, t0)
	stake(t, s, d2, 500, 7200, t0)
	stake(t, s, d2, 300, 3600, t0)
	before := mustToken(t, s)

	now := t0 + 7200
	transfer, err := s.Withdraw(0, symbol, "bob", "bye", d1.sign(s, 0, "bob", "bye"), now)
	require.NoError(t, err)
	assert.Equal(t, &atmos.Transfer{Contract: tokenContract, From: self, To: "bob", Quantity: asset(1000), Memo: "bye"}, transfer)

	p, err := s.GetPosition(symbol, 0)
	require.NoError(t, err)
	assert.Nil(t, p)
	acc, err := s.GetAccount(symbol, d1.pk)
	require.NoError(t, err)
	assert.Nil(t, acc, "only position removes the account")

	tok := mustToken(t, s)
	assert.Equal(t, before.TotalSupply.Amount-1000, tok.TotalSupply.Amount)
	assert.Equal(t, mustSubWeight(t, before.TotalWeight, 1000*7200), tok.TotalWeight)
	assertSane(t, s)

	// one of two positions keeps the account
	_, err = s.Withdraw(2, symbol, "carol", "", d2.sign(s, 2, "carol", ""), now)
	require.NoError(t, err)
	acc, err = s.GetAccount(symbol, d2.pk)
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, asset(500), acc.TotalBalance)
	assert.Equal(t, atmos.NewWeight(500*7200), acc.TotalWeight)
	assertSane(t, s)

	// withdrawn positions are gone for good
	_, err = s.Withdraw(0, symbol, "bob", "bye", d1.sign(s, 0, "bob", "bye"), now)
	assertKind(t, err, reverts.NotFound)
}

// emergency exit ejects every position and the subsidy pool
func TestScenarioD(t *testing.T) {
	s, _ := newTestStaker(t, nil)
	require.NoError(t, s.Configure(self, defaultParams(), t0))

	d1, d2 := newDepositor(t), newDepositor(t)
	stake(t, s, d1, 1000, 7200, t0)
	stake(t, s, d1, 200, 7200, t0)
	stake(t, s, d2, 500, 7200, t0)
	subsidize(t, s, 700, t0)

	_, err := s.EmergencyExit("mallory", symbol, "vault", "treasury")
	assertKind(t, err, reverts.Unauthorized)

	transfers, err := s.EmergencyExit(self, symbol, "vault", "treasury")
	require.NoError(t, err)
	require.Len(t, transfers, 4)
	expected := []struct {
		amount uint64
		memo   string
	}{
		{1000, d1.pk.String()},
		{200, d1.pk.String()},
		{500, d2.pk.String()},
	}
	for i, e := range expected {
		assert.Equal(t, atmos.Name("vault"), transfers[i].To)
		assert.Equal(t, asset(e.amount), transfers[i].Quantity)
		assert.Equal(t, e.memo, transfers[i].Memo)
		assert.Equal(t, tokenContract, transfers[i].Contract)
	}
	assert.Equal(t, &atmos.Transfer{Contract: tokenContract, From: self, To: "treasury", Quantity: asset(700), Memo: "fexitstakes"}, transfers[3])

	tok := mustToken(t, s)
	assert.Equal(t, asset(0), tok.TotalSupply)
	assert.Equal(t, asset(0), tok.SubsidySupply)
	assert.Zero(t, tok.TotalWeight)

	positions, err := s.Positions(symbol)
	require.NoError(t, err)
	assert.Empty(t, positions)
	accounts, err := s.Accounts(symbol)
	require.NoError(t, err)
	assert.Empty(t, accounts)
	assertSane(t, s)

	// ids are not reused
	stake(t, s, d2, 100, 3600, t0)
	p, err := s.GetPosition(symbol, 3)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, d2.pk, p.PublicKey)

	// subsidy kept when supplyTo is the contract
	subsidize(t, s, 300, t0)
	transfers, err = s.EmergencyExit(self, symbol, "vault", self)
	require.NoError(t, err)
	assert.Len(t, transfers, 1)
	assert.Equal(t, asset(0), mustToken(t, s).SubsidySupply)
}

func TestClaimDust(t *testing.T) {
	s, _ := newTestStaker(t, nil)
	require.NoError(t, s.Configure(self, defaultParams(), t0))

	for _, amount := range []uint64{100, 200, 400} {
		stake(t, s, newDepositor(t), amount, 3600, t0)
	}
	subsidize(t, s, 1000, t0)

	_, err := s.Claim(symbol, "relayer", "", t0+day)
	require.NoError(t, err)

	// 990*1/7, 990*2/7, 990*4/7
	var credited uint64
	all, err := s.Positions(symbol)
	require.NoError(t, err)
	for _, p := range all {
		credited += p.Balance.Amount - p.InitialBalance.Amount
	}
	assert.Equal(t, uint64(141+282+565), credited)
	assert.LessOrEqual(t, credited, uint64(990))

	tok := mustToken(t, s)
	assert.Equal(t, asset(700+credited), tok.TotalSupply)
	assert.Equal(t, asset(1000-10-credited), tok.Retained)
	assert.Equal(t, asset(0), tok.SubsidySupply)
	assertSane(t, s)
}

func TestClaimRejections(t *testing.T) {
	s, _ := newTestStaker(t, nil)
	require.NoError(t, s.Configure(self, defaultParams(), t0))

	_, err := s.Claim(symbol, self, "", t0+day)
	assertKind(t, err, reverts.Policy)

	_, err = s.Claim(atmos.MustNewSymbol("EOS", 4), "relayer", "", t0+day)
	assertKind(t, err, reverts.NotFound)

	_, err = s.Claim(symbol, "relayer", "", t0+day-1)
	assertKind(t, err, reverts.Policy)
	assert.Contains(t, err.Error(), "remaining secs: 1")

	_, err = s.Claim(symbol, "relayer", "", t0+day)
	assertKind(t, err, reverts.Policy)
	assert.Contains(t, err.Error(), "insufficient subsidy")

	// nothing staked keeps the pool
	subsidize(t, s, 1000, t0)
	_, err = s.Claim(symbol, "relayer", "", t0+day)
	assertKind(t, err, reverts.Policy)
	assert.Equal(t, asset(1000), mustToken(t, s).SubsidySupply)

	// relay fee rounds to zero
	p := defaultParams()
	p.RoundSubsidy = asset(99)
	require.NoError(t, s.Configure(self, p, t0))
	stake(t, s, newDepositor(t), 100, 3600, t0)
	_, err = s.Claim(symbol, "relayer", "", t0+day)
	assertKind(t, err, reverts.Policy)
	assert.Contains(t, err.Error(), "relay subsidy")
}

func TestStakeRejections(t *testing.T) {
	s, _ := newTestStaker(t, nil)
	require.NoError(t, s.Configure(self, defaultParams(), t0))
	d := newDepositor(t)

	tests := []struct {
		name string
		code atmos.Name
		tr   *atmos.Transfer
		kind reverts.Kind
	}{
		{"below min stake", tokenContract, incoming("alice", asset(99), StakeMemo(d.pk, 3600)), reverts.Policy},
		{"too short", tokenContract, incoming("alice", asset(100), StakeMemo(d.pk, 3599)), reverts.Policy},
		{"too long", tokenContract, incoming("alice", asset(100), StakeMemo(d.pk, 31536001)), reverts.Policy},
		{"missing duration", tokenContract, incoming("alice", asset(100), "stake "+d.pk.String()), reverts.Malformed},
		{"bad key", tokenContract, incoming("alice", asset(100), "stake EOS1111 3600"), reverts.Malformed},
		{"bad duration", tokenContract, incoming("alice", asset(100), "stake "+d.pk.String()+" -1"), reverts.Malformed},
		{"unknown method", tokenContract, incoming("alice", asset(100), "deposit"), reverts.Malformed},
		{"subsidy args", tokenContract, incoming("alice", asset(100), "addsubsidy now"), reverts.Malformed},
		{"zero quantity", tokenContract, incoming("alice", asset(0), MethodAddSubsidy), reverts.Malformed},
		{"wrong code", "fake.token", incoming("alice", asset(100), MethodAddSubsidy), reverts.Unauthorized},
		{"unknown token", tokenContract, incoming("alice", atmos.NewAsset(100, atmos.MustNewSymbol("EOS", 4)), MethodAddSubsidy), reverts.Unauthorized},
		{"not addressed to us", tokenContract, &atmos.Transfer{From: "alice", To: "bob", Quantity: asset(100), Memo: MethodAddSubsidy}, reverts.Unauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertKind(t, s.OnTransfer(tt.code, tt.tr, t0), tt.kind)
		})
	}

	// echoes of our own transfers are ignored
	assert.NoError(t, s.OnTransfer(tokenContract, &atmos.Transfer{From: self, To: "bob", Quantity: asset(1)}, t0))

	tok := mustToken(t, s)
	assert.Equal(t, asset(0), tok.TotalSupply)
	assert.Equal(t, asset(0), tok.SubsidySupply)
}

func TestScaledWeight(t *testing.T) {
	s, _ := newTestStaker(t, &Options{Weight: stakes.Scaled})
	require.NoError(t, s.Configure(self, defaultParams(), t0))
	d := newDepositor(t)

	err := s.OnTransfer(tokenContract, incoming("alice", asset(1000), StakeMemo(d.pk, 7200)), t0)
	assertKind(t, err, reverts.Policy)
	assert.Contains(t, err.Error(), "weight must be greater than zero")

	stake(t, s, d, 25000, 7200, t0)
	p, err := s.GetPosition(symbol, 0)
	require.NoError(t, err)
	assert.Equal(t, atmos.NewWeight(2*120), p.Weight)
}

// weights of large, long stakes exceed 64 bits
func TestLargeStakes(t *testing.T) {
	s, _ := newTestStaker(t, nil)
	require.NoError(t, s.Configure(self, defaultParams(), t0))

	const (
		amount = uint64(1_000_000_000_000) // 100M tokens
		secs   = uint64(31536000)
	)
	depositors := []*depositor{newDepositor(t), newDepositor(t), newDepositor(t)}
	for i := 0; i < 60; i++ {
		stake(t, s, depositors[i%len(depositors)], amount, secs, t0)
	}

	one, err := atmos.ParseWeight("31536000000000000000")
	require.NoError(t, err)
	p, err := s.GetPosition(symbol, 0)
	require.NoError(t, err)
	assert.Equal(t, one, p.Weight)

	total, err := atmos.ParseWeight("1892160000000000000000")
	require.NoError(t, err)
	tok := mustToken(t, s)
	assert.Equal(t, total, tok.TotalWeight)
	assert.Equal(t, asset(60*amount), tok.TotalSupply)

	acc, err := s.GetAccount(symbol, depositors[0].pk)
	require.NoError(t, err)
	want, err := one.MulUint64(20)
	require.NoError(t, err)
	assert.Equal(t, want, acc.TotalWeight)
	assertSane(t, s)

	// equal weights share 990 evenly, 16 each
	subsidize(t, s, 1000, t0)
	_, err = s.Claim(symbol, "relayer", "", t0+day)
	require.NoError(t, err)
	all, err := s.Positions(symbol)
	require.NoError(t, err)
	require.Len(t, all, 60)
	for _, p := range all {
		assert.Equal(t, asset(amount+16), p.Balance)
	}
	tok = mustToken(t, s)
	assert.Equal(t, asset(1000-10-960), tok.Retained)
	assertSane(t, s)

	now := t0 + secs
	_, err = s.Withdraw(0, symbol, "bob", "", depositors[0].sign(s, 0, "bob", ""), now)
	require.NoError(t, err)
	tok = mustToken(t, s)
	wantTotal, err := total.Sub(one)
	require.NoError(t, err)
	assert.Equal(t, wantTotal, tok.TotalWeight)
	assertSane(t, s)
}

func TestWeightOverflow(t *testing.T) {
	overflowing := func(amount, secs uint64) (atmos.Weight, error) {
		return atmos.Weight{}, atmos.ErrOverflow
	}
	s, _ := newTestStaker(t, &Options{Weight: overflowing})
	require.NoError(t, s.Configure(self, defaultParams(), t0))

	err := s.OnTransfer(tokenContract, incoming("alice", asset(1000), StakeMemo(newDepositor(t).pk, 7200)), t0)
	assertKind(t, err, reverts.Policy)
	assert.Contains(t, err.Error(), "weight overflows")
	assert.NotContains(t, err.Error(), "greater than zero")
	assert.Equal(t, asset(0), mustToken(t, s).TotalSupply)
}

func TestWithdrawGates(t *testing.T) {
	s, _ := newTestStaker(t, &Options{Namespace: "atmosstakev2"})
	require.NoError(t, s.Configure(self, defaultParams(), t0))
	d, other := newDepositor(t), newDepositor(t)
	stake(t, s, d, 1000, 7200, t0)

	assert.Equal(t, "atmosstakev2 unstake:0 bob bye", WithdrawMessage(s.Namespace(), 0, "bob", "bye"))

	// maturity
	_, err := s.Withdraw(0, symbol, "bob", "bye", d.sign(s, 0, "bob", "bye"), t0+7199)
	assertKind(t, err, reverts.Policy)

	now := t0 + 7200
	tests := []struct {
		name string
		to   atmos.Name
		memo string
		sig  atmos.Signature
		kind reverts.Kind
	}{
		{"self", self, "bye", d.sign(s, 0, self, "bye"), reverts.Policy},
		{"invalid to", "Bob", "bye", d.sign(s, 0, "Bob", "bye"), reverts.Malformed},
		{"other key", "bob", "bye", other.sign(s, 0, "bob", "bye"), reverts.Unauthorized},
		{"other memo", "bob", "hi", d.sign(s, 0, "bob", "bye"), reverts.Unauthorized},
		{"other recipient", "eve", "bye", d.sign(s, 0, "bob", "bye"), reverts.Unauthorized},
		{"other id", "bob", "bye", d.sign(s, 1, "bob", "bye"), reverts.Unauthorized},
		{"garbage", "bob", "bye", atmos.Signature{0xff}, reverts.Unauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Withdraw(0, symbol, tt.to, tt.memo, tt.sig, now)
			assertKind(t, err, tt.kind)
		})
	}

	_, err = s.Withdraw(7, symbol, "bob", "bye", d.sign(s, 7, "bob", "bye"), now)
	assertKind(t, err, reverts.NotFound)

	_, err = s.Withdraw(0, symbol, "bob", "bye", d.sign(s, 0, "bob", "bye"), now)
	assert.NoError(t, err)
}

func TestResetClaim(t *testing.T) {
	s, _ := newTestStaker(t, nil)
	require.NoError(t, s.Configure(self, defaultParams(), t0))

	assertKind(t, s.ResetClaim("mallory", symbol), reverts.Unauthorized)
	assertKind(t, s.ResetClaim(self, atmos.MustNewSymbol("EOS", 4)), reverts.NotFound)

	require.NoError(t, s.ResetClaim(self, symbol))
	assert.Equal(t, t0-day, mustToken(t, s).LastClaim)

	// a claim is immediately possible
	stake(t, s, newDepositor(t), 100, 3600, t0)
	subsidize(t, s, 1000, t0)
	_, err := s.Claim(symbol, "relayer", "", t0)
	assert.NoError(t, err)

	// saturates at zero
	p := defaultParams()
	p.Symbol = atmos.MustNewSymbol("EOS", 4)
	p.RoundSubsidy = atmos.NewAsset(1000, p.Symbol)
	p.MinStake = atmos.NewAsset(1, p.Symbol)
	require.NoError(t, s.Configure(self, p, 10))
	require.NoError(t, s.ResetClaim(self, p.Symbol))
	tok, err := s.GetToken(p.Symbol)
	require.NoError(t, err)
	assert.Zero(t, tok.LastClaim)
}

func TestDestroy(t *testing.T) {
	s, _ := newTestStaker(t, nil)
	require.NoError(t, s.Configure(self, defaultParams(), t0))
	d := newDepositor(t)
	stake(t, s, d, 100, 3600, t0)
	stake(t, s, d, 100, 3600, t0)

	assertKind(t, s.Destroy("mallory"), reverts.Unauthorized)
	require.NoError(t, s.Destroy(self))

	all, err := s.Tokens()
	require.NoError(t, err)
	assert.Empty(t, all)
	positions, err := s.Positions(symbol)
	require.NoError(t, err)
	assert.Empty(t, positions)
	acc, err := s.GetAccount(symbol, d.pk)
	require.NoError(t, err)
	assert.Nil(t, acc)

	require.NoError(t, s.Configure(self, defaultParams(), t0))
	stake(t, s, d, 100, 3600, t0)
	p, err := s.GetPosition(symbol, 2)
	require.NoError(t, err)
	assert.NotNil(t, p, "ids survive destroy")
	assertSane(t, s)
}

func TestSanityDetectsCorruption(t *testing.T) {
	s, _ := newTestStaker(t, nil)
	require.NoError(t, s.Configure(self, defaultParams(), t0))
	stake(t, s, newDepositor(t), 100, 3600, t0)

	reports, err := s.Sanity()
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, 1, reports[0].Positions)
	assert.Equal(t, 1, reports[0].Accounts)

	tok := mustToken(t, s)
	tok.TotalWeight, err = tok.TotalWeight.Add(atmos.NewWeight(1))
	require.NoError(t, err)
	require.NoError(t, s.tokenService.Set(tok))

	_, err = s.Sanity()
	assertKind(t, err, reverts.Corruption)
	assert.Contains(t, err.Error(), "total_weight")
}
