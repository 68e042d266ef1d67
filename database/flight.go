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
	"errors"

	"github.com/blinklabs-io/contrail/database/models"
	"gorm.io/gorm"
)

// GetFlight returns a registered flight by key
func (d *Database) GetFlight(
	key []byte,
	txn *Txn,
) (*models.Flight, error) {
	if txn == nil {
		txn = d.MetadataTxn(false)
		defer txn.Release()
	}
	ret, err := d.metadata.GetFlight(key, txn.Metadata())
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, models.ErrFlightNotFound
	}
	return ret, nil
}

// SetFlight saves a flight, creating it if needed
func (d *Database) SetFlight(
	flight *models.Flight,
	txn *Txn,
) error {
	owned := false
	if txn == nil {
		txn = d.MetadataTxn(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := d.metadata.SetFlight(flight, txn.Metadata()); err != nil {
		return err
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// SetFlightStatus updates the resolved status for a flight
func (d *Database) SetFlightStatus(
	key []byte,
	status uint8,
	txn *Txn,
) error {
	owned := false
	if txn == nil {
		txn = d.MetadataTxn(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := d.metadata.SetFlightStatus(key, status, txn.Metadata()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrFlightNotFound
		}
		return err
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// GetFlights returns all registered flights in registration order
func (d *Database) GetFlights(
	txn *Txn,
) ([]models.Flight, error) {
	if txn == nil {
		txn = d.MetadataTxn(false)
		defer txn.Release()
	}
	return d.metadata.GetFlights(txn.Metadata())
}
