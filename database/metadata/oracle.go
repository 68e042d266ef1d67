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

// GetOracle gets an oracle by address. Returns nil without error when no
// oracle is registered at the address.
func (d *Store) GetOracle(
	address string,
	txn types.Txn,
) (*models.Oracle, error) {
	ret := &models.Oracle{}
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

// SetOracle creates an oracle record
func (d *Store) SetOracle(
	oracle *models.Oracle,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	if result := db.Create(oracle); result.Error != nil {
		return fmt.Errorf("failed to create oracle: %w", result.Error)
	}
	return nil
}

// GetOracleCount returns the number of registered oracles
func (d *Store) GetOracleCount(
	txn types.Txn,
) (uint64, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return 0, err
	}
	var count int64
	if result := db.Model(&models.Oracle{}).Count(&count); result.Error != nil {
		return 0, result.Error
	}
	return uint64(count), nil //nolint:gosec // count is never negative
}

// GetStatusRequest gets a status request by key. Returns nil without error
// when no request exists for the key.
func (d *Store) GetStatusRequest(
	key []byte,
	txn types.Txn,
) (*models.StatusRequest, error) {
	ret := &models.StatusRequest{}
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

// SetStatusRequest creates a status request record
func (d *Store) SetStatusRequest(
	request *models.StatusRequest,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	if result := db.Create(request); result.Error != nil {
		return fmt.Errorf(
			"failed to create status request: %w",
			result.Error,
		)
	}
	return nil
}

// CloseStatusRequest marks a status request closed
func (d *Store) CloseStatusRequest(
	requestID uint,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	result := db.Model(&models.StatusRequest{}).
		Where("id = ?", requestID).
		Update("open", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetOracleResponse gets an oracle's response for a request and status.
// Returns nil without error when the oracle has not reported that status.
func (d *Store) GetOracleResponse(
	requestID uint,
	status uint8,
	oracle string,
	txn types.Txn,
) (*models.OracleResponse, error) {
	ret := &models.OracleResponse{}
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	result := db.Where(
		"status_request_id = ? AND status = ? AND oracle = ?",
		requestID,
		status,
		oracle,
	).First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// AddOracleResponse records an oracle's response for a request and status
func (d *Store) AddOracleResponse(
	requestID uint,
	status uint8,
	oracle string,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	response := &models.OracleResponse{
		StatusRequestID: requestID,
		Status:          status,
		Oracle:          oracle,
	}
	if result := db.Create(response); result.Error != nil {
		return fmt.Errorf(
			"failed to create oracle response: %w",
			result.Error,
		)
	}
	return nil
}

// GetOracleResponseCount returns the number of responses for a request
// carrying a particular status code
func (d *Store) GetOracleResponseCount(
	requestID uint,
	status uint8,
	txn types.Txn,
) (uint64, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return 0, err
	}
	var count int64
	result := db.Model(&models.OracleResponse{}).
		Where("status_request_id = ? AND status = ?", requestID, status).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return uint64(count), nil //nolint:gosec // count is never negative
}
