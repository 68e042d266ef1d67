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

package models

import (
	"errors"

	"github.com/blinklabs-io/contrail/database/types"
)

var (
	ErrAirlineNotFound        = errors.New("airline not found")
	ErrPendingAirlineNotFound = errors.New("pending airline not found")
)

// Airline is a carrier admitted to the pool. Rows are created on admission
// and never deleted. Funded flips exactly once, when the accumulated fund
// first reaches the participation minimum.
type Airline struct {
	ID         uint   `gorm:"primarykey"`
	Address    string `gorm:"uniqueIndex;not null"`
	Name       string
	Registered bool
	Funded     bool `gorm:"index"`
	Fund       types.Uint64
}

func (Airline) TableName() string {
	return "airline"
}

// PendingAirline is a candidate past the bootstrap threshold awaiting a
// majority of votes. Deleted together with its votes on admission.
type PendingAirline struct {
	ID      uint   `gorm:"primarykey"`
	Address string `gorm:"uniqueIndex;not null"`
	Name    string
	Votes   []AirlineVote `gorm:"foreignKey:PendingAirlineID"`
}

func (PendingAirline) TableName() string {
	return "pending_airline"
}

// AirlineVote records one funded airline's vote for a pending candidate.
// The composite unique index makes the duplicate-vote check an index
// lookup rather than a scan.
type AirlineVote struct {
	ID               uint   `gorm:"primarykey"`
	PendingAirlineID uint   `gorm:"uniqueIndex:idx_airline_vote;not null"`
	Voter            string `gorm:"uniqueIndex:idx_airline_vote;not null"`
}

func (AirlineVote) TableName() string {
	return "airline_vote"
}
