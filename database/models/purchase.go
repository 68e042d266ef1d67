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

var ErrPurchaseNotFound = errors.New("purchase not found")

// Purchase is a passenger's insurance position on a flight. Balance holds
// the premium paid and never changes; Credit holds the payout owed and is
// zeroed by withdrawal. At most one purchase per passenger per flight.
type Purchase struct {
	ID        uint   `gorm:"primarykey"`
	FlightKey []byte `gorm:"uniqueIndex:idx_purchase_flight_passenger;index;not null"`
	Passenger string `gorm:"uniqueIndex:idx_purchase_flight_passenger;not null"`
	Balance   types.Uint64
	Credit    types.Uint64
}

func (Purchase) TableName() string {
	return "purchase"
}
