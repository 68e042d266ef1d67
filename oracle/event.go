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

package oracle

import (
	"github.com/blinklabs-io/contrail/event"
	"github.com/blinklabs-io/contrail/ledger"
)

const (
	RequestEventType event.EventType = "oracle.request"
	ReportEventType  event.EventType = "oracle.report"
)

// RequestEvent is published when a status request opens. Oracle workers
// whose assigned indexes include Index fetch the flight status and submit
// a response.
type RequestEvent struct {
	Index     uint8
	Airline   string
	Code      string
	Departure uint64
}

// ReportEvent is published for every accepted oracle response
type ReportEvent struct {
	Oracle    string
	Airline   string
	Code      string
	Departure uint64
	Status    ledger.StatusCode
	Responses uint64
	Resolved  bool
}
