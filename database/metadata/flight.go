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

// GetFlight gets a flight by key. Returns nil without error when no flight
// exists for the key.
func (d *Store) GetFlight(
	key []byte,
	txn types.Txn,
) (*models.Flight, error) {
	ret := &models.Flight{}
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	result := db.Where("key = ?", key).First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// SetFlight creates a flight record
func (d *Store) SetFlight(
	flight *models.Flight,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	if result := db.Create(flight); result.Error != nil {
		return fmt.Errorf("failed to create flight: %w", result.Error)
	}
	return nil
}

// SetFlightStatus updates the resolved status for a flight
func (d *Store) SetFlightStatus(
	key []byte,
	status uint8,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	result := db.Model(&models.Flight{}).
		Where("key = ?", key).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetFlights returns all registered flights in registration order
func (d *Store) GetFlights(
	txn types.Txn,
) ([]models.Flight, error) {
	var ret []models.Flight
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	if result := db.Order("id").Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
