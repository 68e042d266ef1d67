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
	"errors"
	"fmt"

	"github.com/blinklabs-io/contrail/database/models"
	"github.com/blinklabs-io/contrail/database/types"
	"gorm.io/gorm"
)

const (
	ledgerStateRowId = 1
)

// GetLedgerState gets the ledger state singleton. Returns nil without error
// when the database has not been seeded yet.
func (d *Store) GetLedgerState(
	txn types.Txn,
) (*models.LedgerState, error) {
	ret := &models.LedgerState{}
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	result := db.Where("id = ?", ledgerStateRowId).First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// SetLedgerState saves the ledger state singleton, creating it if needed
func (d *Store) SetLedgerState(
	state *models.LedgerState,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	state.ID = ledgerStateRowId
	existing := &models.LedgerState{}
	result := db.FirstOrCreate(
		existing,
		models.LedgerState{ID: ledgerStateRowId},
	)
	if result.Error != nil {
		return fmt.Errorf(
			"failed to find or create ledger state: %w",
			result.Error,
		)
	}
	updates := map[string]any{
		"owner":        state.Owner,
		"operational":  state.Operational,
		"pool_balance": state.PoolBalance,
		"receipt_seq":  state.ReceiptSeq,
	}
	if err := db.Model(existing).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update ledger state: %w", err)
	}
	return nil
}

// GetAuthorizedCaller gets an authorized caller entry by address. Returns
// nil without error when the address is not authorized.
func (d *Store) GetAuthorizedCaller(
	address string,
	txn types.Txn,
) (*models.AuthorizedCaller, error) {
	ret := &models.AuthorizedCaller{}
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	result := db.Where("address = ?", address).First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// SetAuthorizedCaller adds an address to the authorized caller set
func (d *Store) SetAuthorizedCaller(
	address string,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	entry := &models.AuthorizedCaller{}
	result := db.FirstOrCreate(
		entry,
		models.AuthorizedCaller{Address: address},
	)
	if result.Error != nil {
		return fmt.Errorf(
			"failed to create authorized caller: %w",
			result.Error,
		)
	}
	return nil
}

// DeleteAuthorizedCaller removes an address from the authorized caller set
func (d *Store) DeleteAuthorizedCaller(
	address string,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	result := db.Where("address = ?", address).
		Delete(&models.AuthorizedCaller{})
	if result.Error != nil {
		return result.Error
	}
	return nil
}
