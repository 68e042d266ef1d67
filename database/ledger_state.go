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
	"github.com/blinklabs-io/contrail/database/models"
)

// GetLedgerState returns the singleton ledger state row
func (d *Database) GetLedgerState(
	txn *Txn,
) (*models.LedgerState, error) {
	if txn == nil {
		txn = d.MetadataTxn(false)
		defer txn.Release()
	}
	ret, err := d.metadata.GetLedgerState(txn.Metadata())
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, models.ErrLedgerStateNotFound
	}
	return ret, nil
}

// SetLedgerState saves the singleton ledger state row, creating it if needed
func (d *Database) SetLedgerState(
	state *models.LedgerState,
	txn *Txn,
) error {
	owned := false
	if txn == nil {
		txn = d.MetadataTxn(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := d.metadata.SetLedgerState(state, txn.Metadata()); err != nil {
		return err
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// IsAuthorizedCaller reports whether the address may invoke privileged
// ledger mutators
func (d *Database) IsAuthorizedCaller(
	address string,
	txn *Txn,
) (bool, error) {
	if txn == nil {
		txn = d.MetadataTxn(false)
		defer txn.Release()
	}
	caller, err := d.metadata.GetAuthorizedCaller(address, txn.Metadata())
	if err != nil {
		return false, err
	}
	return caller != nil, nil
}

// SetAuthorizedCaller grants an address access to privileged ledger mutators
func (d *Database) SetAuthorizedCaller(
	address string,
	txn *Txn,
) error {
	owned := false
	if txn == nil {
		txn = d.MetadataTxn(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := d.metadata.SetAuthorizedCaller(address, txn.Metadata()); err != nil {
		return err
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// DeleteAuthorizedCaller revokes an address's access to privileged ledger
// mutators
func (d *Database) DeleteAuthorizedCaller(
	address string,
	txn *Txn,
) error {
	owned := false
	if txn == nil {
		txn = d.MetadataTxn(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := d.metadata.DeleteAuthorizedCaller(address, txn.Metadata()); err != nil {
		return err
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return err
		}
	}
	return nil
}
