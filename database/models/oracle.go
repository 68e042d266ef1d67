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
	ErrOracleNotFound        = errors.New("oracle not found")
	ErrStatusRequestNotFound = errors.New("status request not found")
)

// Oracle is a registered reporter with its three assigned indexes.
// Index assignments are immutable after registration.
type Oracle struct {
	ID      uint   `gorm:"primarykey"`
	Address string `gorm:"uniqueIndex;not null"`
	Index0  uint8
	Index1  uint8
	Index2  uint8
	Fee     types.Uint64
}

func (Oracle) TableName() string {
	return "oracle"
}

// StatusRequest is an open question about a flight's status, keyed by the
// hash of the drawn index and the flight identity. Closed when the first
// status code reaches quorum; responses arriving afterward are rejected.
type StatusRequest struct {
	ID          uint   `gorm:"primarykey"`
	Key         []byte `gorm:"uniqueIndex;not null"`
	OracleIndex uint8
	Airline     string
	Code        string
	Departure   uint64
	Requester   string
	Open        bool             `gorm:"index"`
	Responses   []OracleResponse `gorm:"foreignKey:StatusRequestID"`
}

func (StatusRequest) TableName() string {
	return "status_request"
}

// OracleResponse is one oracle's report for one status code on one request.
// The composite unique index makes the response sets true sets.
type OracleResponse struct {
	ID              uint   `gorm:"primarykey"`
	StatusRequestID uint   `gorm:"uniqueIndex:idx_oracle_response;not null"`
	Status          uint8  `gorm:"uniqueIndex:idx_oracle_response;not null"`
	Oracle          string `gorm:"uniqueIndex:idx_oracle_response;not null"`
}

func (OracleResponse) TableName() string {
	return "oracle_response"
}
