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

// GetAirline gets an airline by address. Returns nil without error when no
// airline exists for the address.
func (d *Store) GetAirline(
	address string,
	txn types.Txn,
) (*models.Airline, error) {
	ret := &models.Airline{}
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

// SetAirline saves an airline, creating it if needed
func (d *Store) SetAirline(
	airline *models.Airline,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	existing := &models.Airline{}
	result := db.FirstOrCreate(existing, models.Airline{Address: airline.Address})
	if result.Error != nil {
		return fmt.Errorf("failed to find or create airline: %w", result.Error)
	}
	updates := map[string]any{
		"name":       airline.Name,
		"registered": airline.Registered,
		"funded":     airline.Funded,
		"fund":       airline.Fund,
	}
	if err := db.Model(existing).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update airline: %w", err)
	}
	airline.ID = existing.ID
	return nil
}

// GetAirlineCount returns the number of registered airlines, optionally
// counting only funded ones
func (d *Store) GetAirlineCount(
	onlyFunded bool,
	txn types.Txn,
) (uint64, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return 0, err
	}
	var count int64
	query := db.Model(&models.Airline{}).Where("registered = ?", true)
	if onlyFunded {
		query = query.Where("funded = ?", true)
	}
	if result := query.Count(&count); result.Error != nil {
		return 0, result.Error
	}
	return uint64(count), nil //nolint:gosec // count is never negative
}

// GetPendingAirline gets a pending admission candidate by address. Returns
// nil without error when no candidate exists for the address.
func (d *Store) GetPendingAirline(
	address string,
	txn types.Txn,
) (*models.PendingAirline, error) {
	ret := &models.PendingAirline{}
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

// SetPendingAirline creates a pending admission candidate
func (d *Store) SetPendingAirline(
	address string,
	name string,
	txn types.Txn,
) (*models.PendingAirline, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	pending := &models.PendingAirline{
		Address: address,
		Name:    name,
	}
	if result := db.Create(pending); result.Error != nil {
		return nil, fmt.Errorf(
			"failed to create pending airline: %w",
			result.Error,
		)
	}
	return pending, nil
}

// DeletePendingAirline removes a candidate and its votes
func (d *Store) DeletePendingAirline(
	pending *models.PendingAirline,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	if result := db.Where("pending_airline_id = ?", pending.ID).
		Delete(&models.AirlineVote{}); result.Error != nil {
		return result.Error
	}
	if result := db.Delete(pending); result.Error != nil {
		return result.Error
	}
	return nil
}

// GetAirlineVote gets an existing vote by a voter for a candidate. Returns
// nil without error when the voter has not voted for the candidate.
func (d *Store) GetAirlineVote(
	pendingID uint,
	voter string,
	txn types.Txn,
) (*models.AirlineVote, error) {
	ret := &models.AirlineVote{}
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	result := db.Where("pending_airline_id = ? AND voter = ?", pendingID, voter).
		First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// AddAirlineVote records a vote for a pending candidate
func (d *Store) AddAirlineVote(
	pendingID uint,
	voter string,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	vote := &models.AirlineVote{
		PendingAirlineID: pendingID,
		Voter:            voter,
	}
	if result := db.Create(vote); result.Error != nil {
		return fmt.Errorf("failed to create vote: %w", result.Error)
	}
	return nil
}

// GetAirlineVoteCount returns the number of votes for a pending candidate
func (d *Store) GetAirlineVoteCount(
	pendingID uint,
	txn types.Txn,
) (uint64, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return 0, err
	}
	var count int64
	result := db.Model(&models.AirlineVote{}).
		Where("pending_airline_id = ?", pendingID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return uint64(count), nil //nolint:gosec // count is never negative
}
