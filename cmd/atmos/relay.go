// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/atmos/co"
	"github.com/vechain/atmos/metrics"
	"github.com/vechain/atmos/transferdb"
)

var metricRelayedCount = metrics.LazyLoadCounterVec("relayed_transfer_count", []string{"outcome"})

// relay posts pending transfers of the outbox to the token service and
// acknowledges them once the service accepted the batch.
type relay struct {
	db       *transferdb.TransferDB
	url      string
	batch    uint64
	interval time.Duration
	client   *http.Client
}

func newRelay(db *transferdb.TransferDB, url string, batch uint64, interval time.Duration) *relay {
	if batch == 0 {
		batch = 100
	}
	return &relay{
		db:       db,
		url:      url,
		batch:    batch,
		interval: interval,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// run drains the outbox after every commit and on every tick until ctx is done.
func (r *relay) run(ctx context.Context, committed co.Waiter) {
	logger.Info("relay started", "url", r.url)
	defer logger.Info("relay stopped")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if err := r.drain(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("failed to relay transfers", "err", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-committed.C():
		case <-ticker.C:
		}
	}
}

// drain posts pending transfers batch by batch until none is left.
func (r *relay) drain(ctx context.Context) error {
	for {
		pending, err := r.db.Pending(r.batch)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}
		if err := r.post(ctx, pending); err != nil {
			metricRelayedCount().AddWithLabel(int64(len(pending)), map[string]string{"outcome": "failed"})
			return err
		}
		seqs := make([]uint64, 0, len(pending))
		for _, t := range pending {
			seqs = append(seqs, t.Seq)
		}
		if err := r.db.Ack(seqs...); err != nil {
			return err
		}
		metricRelayedCount().AddWithLabel(int64(len(pending)), map[string]string{"outcome": "acked"})
		logger.Debug("relayed transfers", "first", seqs[0], "count", len(seqs))

		if uint64(len(pending)) < r.batch {
			return nil
		}
	}
}

func (r *relay) post(ctx context.Context, transfers []*transferdb.Transfer) error {
	body, err := json.Marshal(transfers)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := r.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "post transfers")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return errors.Errorf("token service responded %d: %s", res.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
