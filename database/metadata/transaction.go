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

package metadata

import (
	"github.com/blinklabs-io/contrail/database/types"
	"gorm.io/gorm"
)

// metadataTxn wraps a gorm transaction and implements types.Txn
type metadataTxn struct {
	store    *Store
	db       *gorm.DB
	beginErr error
	finished bool
}

func (t *metadataTxn) Commit() error {
	if t.finished {
		return nil
	}
	if t.beginErr != nil {
		t.finished = true
		return t.beginErr
	}
	t.finished = true
	return t.db.Commit().Error
}

func (t *metadataTxn) Rollback() error {
	if t.finished {
		return nil
	}
	t.finished = true
	if t.beginErr != nil {
		return nil
	}
	return t.db.Rollback().Error
}

// Transaction creates a new database transaction
func (d *Store) Transaction() types.Txn {
	tx := d.db.Begin()
	return &metadataTxn{
		store:    d,
		db:       tx,
		beginErr: tx.Error,
	}
}

// resolveDB returns the *gorm.DB for the given transaction, or the base
// handle if txn is nil. Returns ErrTxnWrongType when txn is non-nil but not
// one of ours.
func (d *Store) resolveDB(txn types.Txn) (*gorm.DB, error) {
	if txn == nil {
		return d.DB(), nil
	}
	stx, ok := txn.(*metadataTxn)
	if !ok {
		return nil, types.ErrTxnWrongType
	}
	if stx.beginErr != nil {
		return nil, stx.beginErr
	}
	return stx.db, nil
}
