// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/atmos/atmos"
)

// Transferer takes over the transfer intents of an action before it is committed.
// A returned error aborts the action.
type Transferer interface {
	Transfer(ctx context.Context, intents []*atmos.Transfer) error
}

// Clock supplies action time in unix seconds. It never goes back.
type Clock interface {
	Now() uint64
}

// Outbox is the default transferer. It only checks the intents, which are then
// persisted in the outbox with the commit and delivered from there.
type Outbox struct{}

func (Outbox) Transfer(ctx context.Context, intents []*atmos.Transfer) error {
	for _, t := range intents {
		if !t.Contract.IsValid() || !t.From.IsValid() || !t.To.IsValid() {
			return errors.Errorf("invalid transfer parties: %v", t)
		}
		if !t.Quantity.IsValid() || t.Quantity.IsZero() {
			return errors.Errorf("invalid transfer quantity: %v", t)
		}
	}
	return ctx.Err()
}

type systemClock struct {
	lock sync.Mutex
	last uint64
}

// NewSystemClock returns the wall clock, clamped to be monotonic.
func NewSystemClock() Clock {
	return &systemClock{}
}

func (c *systemClock) Now() uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	now := uint64(time.Now().Unix())
	if now < c.last {
		return c.last
	}
	c.last = now
	return now
}

// ManualClock is a clock moved by hand.
type ManualClock struct {
	now atomic.Uint64
}

func NewManualClock(now uint64) *ManualClock {
	c := &ManualClock{}
	c.now.Store(now)
	return c
}

func (c *ManualClock) Now() uint64 { return c.now.Load() }

// Advance moves the clock forward by secs.
func (c *ManualClock) Advance(secs uint64) uint64 { return c.now.Add(secs) }
