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

import "errors"

var (
	// ErrNotAuthorized is returned when a caller is not in the authorized
	// caller table and is not the owner
	ErrNotAuthorized = errors.New("caller not authorized")

	// ErrNotOwner is returned when an owner-only operation is invoked by
	// any other identity
	ErrNotOwner = errors.New("caller is not the owner")

	// ErrNotOperational is returned by all mutators while the operational
	// flag is off
	ErrNotOperational = errors.New("ledger is not operational")

	// ErrNoCredit is returned by Withdraw when no payout is owed
	ErrNoCredit = errors.New("no insurance credit to withdraw")

	// ErrInsufficientPool is returned when a payout would exceed the pool
	// balance. The fund accounting invariants make this unreachable; it
	// exists so a bug cannot silently underflow the pool.
	ErrInsufficientPool = errors.New("payout exceeds pool balance")

	ErrAirlineExists    = errors.New("airline already registered")
	ErrAirlineNotFound  = errors.New("airline not found")
	ErrCandidateExists  = errors.New("candidate already pending")
	ErrFlightExists     = errors.New("flight already registered")
	ErrFlightNotFound   = errors.New("flight not found")
	ErrPurchaseExists   = errors.New("insurance already purchased")
	ErrPurchaseNotFound = errors.New("insurance purchase not found")
	ErrOracleExists     = errors.New("oracle already registered")
	ErrOracleNotFound   = errors.New("oracle not found")
	ErrRequestExists    = errors.New("status request already exists")
	ErrRequestNotFound  = errors.New("status request not found")
)
