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

// GetAirline returns an airline by address
func (d *Database) GetAirline(
	address string,
	txn *Txn,
) (*models.Airline, error) {
	if txn == nil {
		txn = d.MetadataTxn(false)
		defer txn.Release()
	}
	ret, err := d.metadata.GetAirline(address, txn.Metadata())
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, models.ErrAirlineNotFound
	}
	return ret, nil
}

// SetAirline saves an airline, creating it if needed
func (d *Database) SetAirline(
	airline *models.Airline,
	txn *Txn,
) error {
	owned := false
	if txn == nil {
		txn = d.MetadataTxn(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := d.metadata.SetAirline(airline, txn.Metadata()); err != nil {
		return err
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// GetAirlineCount returns the number of registered airlines, optionally
// counting only funded ones
func (d *Database) GetAirlineCount(
	onlyFunded bool,
	txn *Txn,
) (uint64, error) {
	if txn == nil {
		txn = d.MetadataTxn(false)
		defer txn.Release()
	}
	return d.metadata.GetAirlineCount(onlyFunded, txn.Metadata())
}

// GetPendingAirline returns an admission candidate by address
func (d *Database) GetPendingAirline(
	address string,
	txn *Txn,
) (*models.PendingAirline, error) {
	if txn == nil {
		txn = d.MetadataTxn(false)
		defer txn.Release()
	}
	ret, err := d.metadata.GetPendingAirline(address, txn.Metadata())
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, models.ErrPendingAirlineNotFound
	}
	return ret, nil
}

// SetPendingAirline creates an admission candidate
func (d *Database) SetPendingAirline(
	address string,
	name string,
	txn *Txn,
) (*models.PendingAirline, error) {
	owned := false
	if txn == nil {
		txn = d.MetadataTxn(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	ret, err := d.metadata.SetPendingAirline(address, name, txn.Metadata())
	if err != nil {
		return nil, err
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// DeletePendingAirline removes a candidate and its recorded votes
func (d *Database) DeletePendingAirline(
	pending *models.PendingAirline,
	txn *Txn,
) error {
	owned := false
	if txn == nil {
		txn = d.MetadataTxn(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := d.metadata.DeletePendingAirline(pending, txn.Metadata()); err != nil {
		return err
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// HasAirlineVote reports whether the voter has already voted for the candidate
func (d *Database) HasAirlineVote(
	pendingID uint,
	voter string,
	txn *Txn,
) (bool, error) {
	if txn == nil {
		txn = d.MetadataTxn(false)
		defer txn.Release()
	}
	vote, err := d.metadata.GetAirlineVote(pendingID, voter, txn.Metadata())
	if err != nil {
		return false, err
	}
	return vote != nil, nil
}

// AddAirlineVote records a vote for a pending candidate
func (d *Database) AddAirlineVote(
	pendingID uint,
	voter string,
	txn *Txn,
) error {
	owned := false
	if txn == nil {
		txn = d.MetadataTxn(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := d.metadata.AddAirlineVote(pendingID, voter, txn.Metadata()); err != nil {
		return err
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// GetAirlineVoteCount returns the number of votes for a pending candidate
func (d *Database) GetAirlineVoteCount(
	pendingID uint,
	txn *Txn,
) (uint64, error) {
	if txn == nil {
		txn = d.MetadataTxn(false)
		defer txn.Release()
	}
	return d.metadata.GetAirlineVoteCount(pendingID, txn.Metadata())
}
