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

// GetPurchase gets a passenger's purchase on a flight. Returns nil without
// error when the passenger holds no purchase on the flight.
func (d *Store) GetPurchase(
	flightKey []byte,
	passenger string,
	txn types.Txn,
) (*models.Purchase, error) {
	ret := &models.Purchase{}
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	result := db.Where("flight_key = ? AND passenger = ?", flightKey, passenger).
		First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetPurchasesByFlight returns all purchases on a flight in purchase order
func (d *Store) GetPurchasesByFlight(
	flightKey []byte,
	txn types.Txn,
) ([]models.Purchase, error) {
	var ret []models.Purchase
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	result := db.Where("flight_key = ?", flightKey).Order("id").Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// SetPurchase creates a purchase record
func (d *Store) SetPurchase(
	purchase *models.Purchase,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	if result := db.Create(purchase); result.Error != nil {
		return fmt.Errorf("failed to create purchase: %w", result.Error)
	}
	return nil
}

// SetPurchaseCredit updates the credited payout on a purchase
func (d *Store) SetPurchaseCredit(
	purchaseID uint,
	credit types.Uint64,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	result := db.Model(&models.Purchase{}).
		Where("id = ?", purchaseID).
		Update("credit", credit)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
