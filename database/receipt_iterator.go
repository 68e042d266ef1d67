// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package database

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/blinklabs-io/contrail/database/types"
)

const (
	// receiptIteratorBatchSize controls how many receipt keys are fetched per
	// batch from the journal iterator. This avoids loading the entire journal
	// into memory while keeping I/O efficient.
	receiptIteratorBatchSize = 1000
)

// receiptEntry holds a receipt key discovered during batch scanning.
type receiptEntry struct {
	key []byte
	seq uint64
}

// ReceiptIterator iterates receipts from the journal store in sequence order.
// The journal keys are formatted as "rc" + big-endian(seq), so forward
// iteration naturally yields receipts in ascending sequence order.
//
// The iterator fetches receipt keys in batches to avoid loading the entire
// journal index into memory, and retrieves receipt bodies on demand for each
// call to Next.
type ReceiptIterator struct {
	db        *Database
	startSeq  uint64
	endSeq    uint64
	hasEndSeq bool

	// internal state
	mu         sync.Mutex
	batch      []receiptEntry
	batchIdx   int
	currentSeq uint64
	exhausted  bool
	closed     bool

	// resumeKey is the journal key to seek past when fetching the next batch.
	// nil means start from the beginning (or from startSeq).
	resumeKey []byte
}

// ReceiptsFromSeq returns an iterator that yields receipts starting from
// startSeq, continuing through all subsequent receipts in the journal.
func (d *Database) ReceiptsFromSeq(startSeq uint64) *ReceiptIterator {
	return &ReceiptIterator{
		db:       d,
		startSeq: startSeq,
	}
}

// ReceiptsInRange returns an iterator for a specific sequence range
// [start, end]. Both endpoints are inclusive.
func (d *Database) ReceiptsInRange(
	startSeq, endSeq uint64,
) *ReceiptIterator {
	return &ReceiptIterator{
		db:        d,
		startSeq:  startSeq,
		endSeq:    endSeq,
		hasEndSeq: true,
	}
}

// Next returns the next receipt. When iteration is complete, it returns
// (nil, nil). Receipts whose body cannot be fetched from the journal are
// skipped with a warning log.
func (it *ReceiptIterator) Next() (*Receipt, error) {
	it.mu.Lock()
	defer it.mu.Unlock()

	if it.closed {
		return nil, nil
	}

	for {
		// Refill batch if needed
		if it.batchIdx >= len(it.batch) {
			if it.exhausted {
				return nil, nil
			}
			if err := it.fetchBatch(); err != nil {
				return nil, err
			}
			if len(it.batch) == 0 {
				it.exhausted = true
				return nil, nil
			}
		}

		entry := it.batch[it.batchIdx]
		it.batchIdx++
		it.currentSeq = entry.seq

		receipt, fetchErr := it.db.GetReceipt(entry.seq, nil)
		if fetchErr != nil {
			if errors.Is(fetchErr, ErrReceiptNotFound) {
				it.db.logger.Warn(
					"receipt iterator: skipping receipt with missing body",
					"seq", entry.seq,
					"error", fetchErr,
				)
				continue
			}
			return nil, fmt.Errorf(
				"fetching receipt at seq %d: %w",
				entry.seq, fetchErr,
			)
		}

		return receipt, nil
	}
}

// Progress returns the current sequence being iterated and the end sequence.
// If no end sequence was specified (iterate to head), end returns 0.
func (it *ReceiptIterator) Progress() (current, end uint64) {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.currentSeq, it.endSeq
}

// Close releases any resources held by the iterator. It is safe to call
// Close multiple times.
func (it *ReceiptIterator) Close() {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.closed = true
	it.batch = nil
	it.resumeKey = nil
}

// fetchBatch retrieves the next batch of receipt keys from the journal.
// Must be called with it.mu held.
func (it *ReceiptIterator) fetchBatch() error {
	journalStore := it.db.Journal()
	if journalStore == nil {
		return types.ErrNoStoreAvailable
	}

	txn := journalStore.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck

	iterOpts := types.JournalIteratorOptions{
		Prefix: []byte(types.ReceiptKeyPrefix),
	}
	journalIter := journalStore.NewIterator(txn, iterOpts)
	if journalIter == nil {
		return errors.New("journal iterator is nil")
	}
	defer journalIter.Close()

	// Determine seek position
	var seekKey []byte
	if it.resumeKey != nil {
		// Seek past the last key we processed
		seekKey = it.resumeKey
	} else {
		// Start from the configured start sequence
		seekKey = types.ReceiptKey(it.startSeq)
	}

	// Build end prefix for range limiting.
	// When endSeq is max uint64, all sequences are in range so we
	// skip the prefix check to avoid overflow on endSeq+1.
	var endPrefix []byte
	if it.hasEndSeq && it.endSeq < ^uint64(0) {
		endPrefix = types.ReceiptKey(it.endSeq + 1)
	}

	batch := make([]receiptEntry, 0, receiptIteratorBatchSize)
	prefix := []byte(types.ReceiptKeyPrefix)

	resuming := it.resumeKey != nil

	for journalIter.Seek(seekKey); journalIter.ValidForPrefix(prefix); journalIter.Next() {
		item := journalIter.Item()
		if item == nil {
			continue
		}
		key := item.Key()
		if key == nil {
			continue
		}

		// When resuming, skip the exact key we left off at.
		// If resumeKey was deleted (compaction), Seek lands on the
		// next key which should be included, so we only continue
		// when there is an exact match.
		if resuming {
			resuming = false
			if bytes.Equal(key, it.resumeKey) {
				continue
			}
		}

		// Check end range
		if endPrefix != nil && bytes.Compare(key, endPrefix) >= 0 {
			break
		}

		// Parse sequence from key
		seq, ok := types.ReceiptKeySeq(key)
		if !ok {
			it.db.logger.Warn(
				"receipt iterator: skipping unparseable key",
				"key", fmt.Sprintf("%x", key),
			)
			continue
		}

		entry := receiptEntry{
			key: make([]byte, len(key)),
			seq: seq,
		}
		copy(entry.key, key)

		batch = append(batch, entry)
		if len(batch) >= receiptIteratorBatchSize {
			break
		}
	}

	if err := journalIter.Err(); err != nil {
		return fmt.Errorf("scanning journal keys: %w", err)
	}

	it.batch = batch
	it.batchIdx = 0

	if len(batch) > 0 {
		it.resumeKey = batch[len(batch)-1].key
	}

	// If we got fewer than a full batch, we've exhausted the range
	if len(batch) < receiptIteratorBatchSize {
		it.exhausted = true
	}

	return nil
}
