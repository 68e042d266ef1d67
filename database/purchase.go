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
	"github.com/blinklabs-io/contrail/database/types"
)

// GetPurchase returns a passenger's insurance position on a flight
func (d *Database) GetPurchase(
	flightKey []byte,
	passenger string,
	txn *Txn,
) (*models.Purchase, error) {
	if txn == nil {
		txn = d.MetadataTxn(false)
		defer txn.Release()
	}
	ret, err := d.metadata.GetPurchase(flightKey, passenger, txn.Metadata())
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, models.ErrPurchaseNotFound
	}
	return ret, nil
}

// GetPurchasesByFlight returns all insurance positions on a flight in
// purchase order
func (d *Database) GetPurchasesByFlight(
	flightKey []byte,
	txn *Txn,
) ([]models.Purchase, error) {
	if txn == nil {
		txn = d.MetadataTxn(false)
		defer txn.Release()
	}
	return d.metadata.GetPurchasesByFlight(flightKey, txn.Metadata())
}

// SetPurchase saves an insurance position, creating it if needed
func (d *Database) SetPurchase(
	purchase *models.Purchase,
	txn *Txn,
) error {
	owned := false
	if txn == nil {
		txn = d.MetadataTxn(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := d.metadata.SetPurchase(purchase, txn.Metadata()); err != nil {
		return err
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// SetPurchaseCredit overwrites the credit owed on an insurance position
func (d *Database) SetPurchaseCredit(
	purchaseID uint,
	credit types.Uint64,
	txn *Txn,
) error {
	owned := false
	if txn == nil {
		txn = d.MetadataTxn(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := d.metadata.SetPurchaseCredit(purchaseID, credit, txn.Metadata()); err != nil {
		return err
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return err
		}
	}
	return nil
}
