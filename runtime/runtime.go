// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/builtin"
	"github.com/vechain/atmos/builtin/staker"
	"github.com/vechain/atmos/builtin/staker/reverts"
	"github.com/vechain/atmos/co"
	"github.com/vechain/atmos/kv"
	"github.com/vechain/atmos/log"
	"github.com/vechain/atmos/state"
	"github.com/vechain/atmos/transferdb"
	"github.com/vechain/atmos/xenv"
)

var logger = log.WithContext("pkg", "runtime")

// state rows live under their own bucket, apart from the outbox.
var stateBucket = kv.Bucket("s")

// Output is the result of an executed action.
type Output struct {
	// Receipt is nil for read-only actions.
	Receipt   *transferdb.Receipt
	Transfers []*transferdb.Transfer
	Value     any
}

// Runtime executes actions one at a time against the store.
type Runtime struct {
	lock       sync.Mutex
	self       atmos.Name
	db         kv.Store
	contract   *builtin.Contract
	transferer Transferer
	clock      Clock
	transferDB *transferdb.TransferDB
	committed  co.Signal

	gaugeSymbols map[string]struct{}
}

// New create a Runtime object.
// A nil transferer defaults to Outbox, a nil clock to the system clock.
func New(
	db kv.Store,
	self atmos.Name,
	contract *builtin.Contract,
	transferer Transferer,
	clock Clock,
) *Runtime {
	if transferer == nil {
		transferer = Outbox{}
	}
	if clock == nil {
		clock = NewSystemClock()
	}
	return &Runtime{
		self:       self,
		db:         db,
		contract:   contract,
		transferer: transferer,
		clock:      clock,
		transferDB: transferdb.New(db),
	}
}

func (rt *Runtime) Self() atmos.Name                   { return rt.self }
func (rt *Runtime) Clock() Clock                       { return rt.clock }
func (rt *Runtime) TransferDB() *transferdb.TransferDB { return rt.transferDB }

// NewCommitWaiter returns a waiter signaled on every commit.
func (rt *Runtime) NewCommitWaiter() co.Waiter {
	return rt.committed.NewWaiter()
}

func (rt *Runtime) newState() *state.State {
	return state.New(stateBucket.NewStore(rt.db))
}

// View calls fn with a staker over the committed state. Changes made by fn are dropped.
func (rt *Runtime) View(fn func(s *staker.Staker) error) error {
	rt.lock.Lock()
	defer rt.lock.Unlock()

	return fn(rt.contract.Native(rt.self, rt.newState()))
}

// Execute runs the action and commits its effects, or nothing at all.
func (rt *Runtime) Execute(ctx context.Context, action *Action) (*Output, error) {
	resolved, err := ResolveAction(action)
	if err != nil {
		metricActionCount().AddWithLabel(1, map[string]string{"action": "invalid", "outcome": outcomeOf(err)})
		return nil, err
	}

	rt.lock.Lock()
	defer rt.lock.Unlock()

	start := time.Now()
	output, err := rt.execute(ctx, resolved)

	metricActionCount().AddWithLabel(1, map[string]string{"action": action.Name, "outcome": outcomeOf(err)})
	metricActionDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"action": action.Name})
	return output, err
}

func (rt *Runtime) execute(ctx context.Context, action *ResolvedAction) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := rt.clock.Now()
	st := rt.newState()
	checkpoint := st.NewCheckpoint()

	logger.Debug("executing action", "action", action.Name, "actor", action.Actor, "time", now)

	env := xenv.New(st, &xenv.ActionContext{Self: rt.self, Actor: action.Actor, Time: now}, action.Args)
	value, err := rt.contract.Call(env, action.Name)
	if err != nil {
		st.RevertTo(checkpoint)
		if reverts.IsCorruption(err) {
			logger.Error("action hit corrupted state", "action", action.Name, "error", err)
		}
		return nil, err
	}
	if action.ReadOnly {
		st.RevertTo(checkpoint)
		return &Output{Value: value}, nil
	}

	intents := env.Transfers()
	if err := rt.transferer.Transfer(ctx, intents); err != nil {
		st.RevertTo(checkpoint)
		logger.Warn("transfer hand-off failed", "action", action.Name, "intents", len(intents), "error", err)
		return nil, errors.WithMessage(err, "hand off transfers")
	}

	batch := rt.db.NewBatch()
	if err := st.Stage().Commit(stateBucket.NewPutter(batch)); err != nil {
		return nil, errors.Wrap(err, "stage state")
	}
	receipt := &transferdb.Receipt{
		Action: action.Name,
		Actor:  action.Actor,
		Time:   now,
		Args:   action.Args,
	}
	transfers, err := rt.transferDB.Record(batch, receipt, intents)
	if err != nil {
		return nil, errors.Wrap(err, "record receipt")
	}
	if err := batch.Write(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}

	metricTransferCount().Add(int64(len(transfers)))
	if all, err := rt.contract.Native(rt.self, st).Tokens(); err != nil {
		logger.Warn("failed to read tokens for metrics", "error", err)
	} else {
		rt.updateTokenGauges(all)
	}

	logger.Debug("action committed", "action", action.Name, "receipt", receipt.Seq, "transfers", len(transfers))
	rt.committed.Broadcast()

	return &Output{
		Receipt:   receipt,
		Transfers: transfers,
		Value:     value,
	}, nil
}
