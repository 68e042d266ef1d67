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

import "errors"

var (
	// ErrCallerNotFunded is returned when a proposal or vote comes from
	// an address that is not a registered, funded airline
	ErrCallerNotFunded = errors.New(
		"caller is not a registered and funded airline",
	)

	// ErrAlreadyRegistered is returned when the candidate is already a
	// registered airline
	ErrAlreadyRegistered = errors.New("candidate is already registered")

	// ErrAlreadyPending is returned when the candidate already has an
	// open admission vote
	ErrAlreadyPending = errors.New("candidate is already pending")

	// ErrCandidateNotFound is returned when voting for an address with no
	// open admission vote
	ErrCandidateNotFound = errors.New("no pending candidate for address")

	// ErrDuplicateVote is returned when an airline votes twice for the
	// same candidate
	ErrDuplicateVote = errors.New("duplicate vote for candidate")

	// ErrVotingNotOpen is returned when a vote arrives while the fleet is
	// still below the voting threshold. A pending candidate implies the
	// threshold was reached, so this is a defensive check.
	ErrVotingNotOpen = errors.New("fleet below voting threshold")

	// ErrBootstrapDone is returned when Bootstrap is called against a
	// non-empty airline table
	ErrBootstrapDone = errors.New("airline table is not empty")
)
