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

package insurance

import (
	"github.com/blinklabs-io/contrail/event"
	"github.com/blinklabs-io/contrail/ledger"
)

const (
	FlightStatusEventType event.EventType = "insurance.flight_status"
	PurchasedEventType    event.EventType = "insurance.purchased"
	CreditedEventType     event.EventType = "insurance.credited"
)

// FlightStatusEvent is published when a flight's status is resolved
type FlightStatusEvent struct {
	Airline   string
	Code      string
	Departure uint64
	Status    ledger.StatusCode
}

// PurchasedEvent is published after an insurance purchase is recorded
type PurchasedEvent struct {
	Passenger string
	Airline   string
	Code      string
	Departure uint64
	Premium   uint64
}

// CreditedEvent is published per passenger when a qualifying delay credits
// their insurance position
type CreditedEvent struct {
	Passenger string
	FlightKey []byte
	Amount    uint64
}
