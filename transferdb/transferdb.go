// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transferdb

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/kv"
)

var (
	receiptBucket  = kv.Bucket("xr")
	transferBucket = kv.Bucket("xt")
	pendingBucket  = kv.Bucket("xp")
	metaBucket     = kv.Bucket("xm")

	nextReceiptKey  = []byte("receipt")
	nextTransferKey = []byte("transfer")
)

// TransferDB is the outbox of transfer intents and the receipts of committed actions.
// Writes go into a caller supplied putter, so they land in the same batch as the state.
// Writers must be serialized by the caller.
type TransferDB struct {
	store kv.Store
}

// New creates a TransferDB on the given store.
func New(store kv.Store) *TransferDB {
	return &TransferDB{store: store}
}

func encodeSeq(seq uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], seq)
	return b[:]
}

func (db *TransferDB) getSeq(key []byte) (uint64, error) {
	val, err := metaBucket.NewGetter(db.store).Get(key)
	if err != nil {
		if db.store.IsNotFound(err) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "get seq")
	}
	if len(val) != 8 {
		return 0, errors.Errorf("invalid seq length %d", len(val))
	}
	return binary.BigEndian.Uint64(val), nil
}

// Counts returns the number of receipts and transfers ever recorded.
func (db *TransferDB) Counts() (receipts, transfers uint64, err error) {
	if receipts, err = db.getSeq(nextReceiptKey); err != nil {
		return
	}
	transfers, err = db.getSeq(nextTransferKey)
	return
}

// Record writes the receipt and its transfers into putter, all transfers being marked pending.
// Seqs of the receipt and the transfers are assigned here.
func (db *TransferDB) Record(putter kv.Putter, receipt *Receipt, intents []*atmos.Transfer) ([]*Transfer, error) {
	receiptSeq, transferSeq, err := db.Counts()
	if err != nil {
		return nil, err
	}

	receipt.Seq = receiptSeq
	receipt.FirstTransfer = transferSeq
	receipt.Transfers = uint64(len(intents))

	var (
		receiptPutter  = receiptBucket.NewPutter(putter)
		transferPutter = transferBucket.NewPutter(putter)
		pendingPutter  = pendingBucket.NewPutter(putter)
		metaPutter     = metaBucket.NewPutter(putter)
	)

	data, err := rlp.EncodeToBytes(receipt)
	if err != nil {
		return nil, errors.Wrap(err, "encode receipt")
	}
	if err := receiptPutter.Put(encodeSeq(receiptSeq), data); err != nil {
		return nil, errors.Wrap(err, "put receipt")
	}

	transfers := make([]*Transfer, 0, len(intents))
	for _, intent := range intents {
		t := newTransfer(transferSeq, receiptSeq, intent)
		data, err := rlp.EncodeToBytes(t)
		if err != nil {
			return nil, errors.Wrap(err, "encode transfer")
		}
		key := encodeSeq(transferSeq)
		if err := transferPutter.Put(key, data); err != nil {
			return nil, errors.Wrap(err, "put transfer")
		}
		if err := pendingPutter.Put(key, []byte{1}); err != nil {
			return nil, errors.Wrap(err, "put pending")
		}
		transfers = append(transfers, t)
		transferSeq++
	}

	if err := metaPutter.Put(nextReceiptKey, encodeSeq(receiptSeq+1)); err != nil {
		return nil, errors.Wrap(err, "put receipt seq")
	}
	if err := metaPutter.Put(nextTransferKey, encodeSeq(transferSeq)); err != nil {
		return nil, errors.Wrap(err, "put transfer seq")
	}
	return transfers, nil
}

// iterate visits rows of the bucket in seq order, starting at offset.
func (db *TransferDB) iterate(bucket kv.Bucket, offset, limit uint64, fn func(seq uint64, data []byte) error) error {
	if limit == 0 {
		return nil
	}
	iter := bucket.NewStore(db.store).Iterate(kv.Range{Start: encodeSeq(offset)})
	defer iter.Release()

	for n := uint64(0); n < limit && iter.Next(); n++ {
		if err := fn(binary.BigEndian.Uint64(iter.Key()), iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}

// Receipts returns at most limit receipts with seq >= offset.
func (db *TransferDB) Receipts(offset, limit uint64) ([]*Receipt, error) {
	receipts := make([]*Receipt, 0)
	err := db.iterate(receiptBucket, offset, limit, func(seq uint64, data []byte) error {
		var r Receipt
		if err := rlp.DecodeBytes(data, &r); err != nil {
			return errors.Wrapf(err, "decode receipt %d", seq)
		}
		receipts = append(receipts, &r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

// Receipt returns the receipt with the given seq, nil if absent.
func (db *TransferDB) Receipt(seq uint64) (*Receipt, error) {
	receipts, err := db.Receipts(seq, 1)
	if err != nil {
		return nil, err
	}
	if len(receipts) == 0 || receipts[0].Seq != seq {
		return nil, nil
	}
	return receipts[0], nil
}

// Transfers returns at most limit transfers with seq >= offset.
func (db *TransferDB) Transfers(offset, limit uint64) ([]*Transfer, error) {
	pending := pendingBucket.NewGetter(db.store)
	transfers := make([]*Transfer, 0)
	err := db.iterate(transferBucket, offset, limit, func(seq uint64, data []byte) error {
		var t Transfer
		if err := rlp.DecodeBytes(data, &t); err != nil {
			return errors.Wrapf(err, "decode transfer %d", seq)
		}
		isPending, err := pending.Has(encodeSeq(seq))
		if err != nil {
			return errors.Wrap(err, "has pending")
		}
		t.Acked = !isPending
		transfers = append(transfers, &t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transfers, nil
}

// Pending returns at most limit transfers not yet acked, in seq order.
func (db *TransferDB) Pending(limit uint64) ([]*Transfer, error) {
	getter := transferBucket.NewGetter(db.store)
	transfers := make([]*Transfer, 0)
	err := db.iterate(pendingBucket, 0, limit, func(seq uint64, _ []byte) error {
		data, err := getter.Get(encodeSeq(seq))
		if err != nil {
			return errors.Wrapf(err, "get transfer %d", seq)
		}
		var t Transfer
		if err := rlp.DecodeBytes(data, &t); err != nil {
			return errors.Wrapf(err, "decode transfer %d", seq)
		}
		transfers = append(transfers, &t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transfers, nil
}

// Ack marks the given transfers as delivered.
func (db *TransferDB) Ack(seqs ...uint64) error {
	if len(seqs) == 0 {
		return nil
	}
	batch := db.store.NewBatch()
	putter := pendingBucket.NewPutter(batch)
	for _, seq := range seqs {
		if err := putter.Delete(encodeSeq(seq)); err != nil {
			return errors.Wrap(err, "delete pending")
		}
	}
	return errors.Wrap(batch.Write(), "write ack")
}
