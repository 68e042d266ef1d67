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

package admission

import (
	"github.com/blinklabs-io/contrail/event"
)

const (
	PendingEventType  event.EventType = "admission.pending"
	AdmittedEventType event.EventType = "admission.admitted"
)

// PendingEvent is published when a candidate enters the admission queue
type PendingEvent struct {
	Candidate string
	Name      string
	Proposer  string
}

// AdmittedEvent is published when a candidate becomes a registered
// airline, either directly below the voting threshold or by majority vote
type AdmittedEvent struct {
	Candidate string
	Name      string
	Votes     uint64
}
