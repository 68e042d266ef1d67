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

// GetOracle returns a registered oracle by address
func (d *Database) GetOracle(
	address string,
	txn *Txn,
) (*models.Oracle, error) {
	if txn == nil {
		txn = d.MetadataTxn(false)
		defer txn.Release()
	}
	ret, err := d.metadata.GetOracle(address, txn.Metadata())
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, models.ErrOracleNotFound
	}
	return ret, nil
}

// SetOracle saves an oracle, creating it if needed
func (d *Database) SetOracle(
	oracle *models.Oracle,
	txn *Txn,
) error {
	owned := false
	if txn == nil {
		txn = d.MetadataTxn(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := d.metadata.SetOracle(oracle, txn.Metadata()); err != nil {
		return err
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// GetOracleCount returns the number of registered oracles
func (d *Database) GetOracleCount(
	txn *Txn,
) (uint64, error) {
	if txn == nil {
		txn = d.MetadataTxn(false)
		defer txn.Release()
	}
	return d.metadata.GetOracleCount(txn.Metadata())
}

// GetStatusRequest returns a status request by key
func (d *Database) GetStatusRequest(
	key []byte,
	txn *Txn,
) (*models.StatusRequest, error) {
	if txn == nil {
		txn = d.MetadataTxn(false)
		defer txn.Release()
	}
	ret, err := d.metadata.GetStatusRequest(key, txn.Metadata())
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, models.ErrStatusRequestNotFound
	}
	return ret, nil
}

// SetStatusRequest saves a status request, creating it if needed
func (d *Database) SetStatusRequest(
	request *models.StatusRequest,
	txn *Txn,
) error {
	owned := false
	if txn == nil {
		txn = d.MetadataTxn(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := d.metadata.SetStatusRequest(request, txn.Metadata()); err != nil {
		return err
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// CloseStatusRequest marks a status request as no longer accepting responses
func (d *Database) CloseStatusRequest(
	requestID uint,
	txn *Txn,
) error {
	owned := false
	if txn == nil {
		txn = d.MetadataTxn(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := d.metadata.CloseStatusRequest(requestID, txn.Metadata()); err != nil {
		return err
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// HasOracleResponse reports whether the oracle has already reported the
// status code on the request
func (d *Database) HasOracleResponse(
	requestID uint,
	status uint8,
	oracle string,
	txn *Txn,
) (bool, error) {
	if txn == nil {
		txn = d.MetadataTxn(false)
		defer txn.Release()
	}
	response, err := d.metadata.GetOracleResponse(
		requestID,
		status,
		oracle,
		txn.Metadata(),
	)
	if err != nil {
		return false, err
	}
	return response != nil, nil
}

// AddOracleResponse records one oracle's report for one status code
func (d *Database) AddOracleResponse(
	requestID uint,
	status uint8,
	oracle string,
	txn *Txn,
) error {
	owned := false
	if txn == nil {
		txn = d.MetadataTxn(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := d.metadata.AddOracleResponse(requestID, status, oracle, txn.Metadata()); err != nil {
		return err
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// GetOracleResponseCount returns the number of distinct oracles that have
// reported the status code on the request
func (d *Database) GetOracleResponseCount(
	requestID uint,
	status uint8,
	txn *Txn,
) (uint64, error) {
	if txn == nil {
		txn = d.MetadataTxn(false)
		defer txn.Release()
	}
	return d.metadata.GetOracleResponseCount(requestID, status, txn.Metadata())
}
