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

package ledger

import (
	"github.com/blinklabs-io/contrail/event"
)

const (
	AirlineFundedEventType event.EventType = "ledger.airline_funded"
	PayoutEventType        event.EventType = "ledger.payout"
)

// AirlineFundedEvent is published when an airline's cumulative contribution
// first reaches the participation minimum
type AirlineFundedEvent struct {
	Airline string
	Fund    uint64
}

// PayoutEvent is published after a withdrawal has been recorded. External
// transfer agents observe this to move value to the passenger.
type PayoutEvent struct {
	Passenger string
	FlightKey []byte
	Amount    uint64
}
