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
	"encoding/json"
	"errors"
	"time"

	"github.com/blinklabs-io/contrail/database/models"
	"github.com/blinklabs-io/contrail/database/types"
)

const (
	ReceiptInitialSeq uint64 = 1
)

var ErrReceiptNotFound = errors.New("receipt not found")

// Receipt is an audit record for one applied ledger operation. Receipts are
// append-only and sequence numbers are dense, so the journal is a complete
// replayable history of state changes.
type Receipt struct {
	Seq       uint64            `json:"seq"`
	Op        string            `json:"op"`
	Actor     string            `json:"actor"`
	Details   map[string]string `json:"details,omitempty"`
	Timestamp int64             `json:"timestamp"`
}

// AppendReceipt writes an operation receipt to the journal and advances the
// sequence head in the ledger state. The receipt commits or rolls back with
// the rest of the transaction
func (d *Database) AppendReceipt(
	op string,
	actor string,
	details map[string]string,
	txn *Txn,
) (uint64, error) {
	owned := false
	if txn == nil {
		txn = d.Transaction(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	journalTxn := txn.Journal()
	if journalTxn == nil {
		return 0, types.ErrNilTxn
	}
	state, err := d.metadata.GetLedgerState(txn.Metadata())
	if err != nil {
		return 0, err
	}
	if state == nil {
		return 0, models.ErrLedgerStateNotFound
	}
	seq := state.ReceiptSeq + 1
	if state.ReceiptSeq == 0 {
		seq = ReceiptInitialSeq
	}
	receipt := Receipt{
		Seq:       seq,
		Op:        op,
		Actor:     actor,
		Details:   details,
		Timestamp: time.Now().UnixMilli(),
	}
	receiptBytes, err := json.Marshal(&receipt)
	if err != nil {
		return 0, err
	}
	if err := d.journal.Set(journalTxn, types.ReceiptKey(seq), receiptBytes); err != nil {
		return 0, err
	}
	state.ReceiptSeq = seq
	if err := d.metadata.SetLedgerState(state, txn.Metadata()); err != nil {
		return 0, err
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return 0, err
		}
	}
	return seq, nil
}

// GetReceipt retrieves a single receipt by sequence number
func (d *Database) GetReceipt(
	seq uint64,
	txn *Txn,
) (*Receipt, error) {
	if txn == nil {
		txn = d.JournalTxn(false)
		defer txn.Release()
	}
	journalTxn := txn.Journal()
	if journalTxn == nil {
		return nil, types.ErrNilTxn
	}
	val, err := d.journal.Get(journalTxn, types.ReceiptKey(seq))
	if err != nil {
		if errors.Is(err, types.ErrJournalKeyNotFound) {
			return nil, ErrReceiptNotFound
		}
		return nil, err
	}
	var receipt Receipt
	if err := json.Unmarshal(val, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}
