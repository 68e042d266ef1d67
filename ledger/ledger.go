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

// Package ledger implements the authoritative store for all insurance pool
// state. Every persistent entity is read and written through the Store,
// which enforces caller authorization and the fund accounting invariants.
package ledger

// Amounts are counted in indivisible sub-units, with one million sub-units
// per full unit of the pool currency
const (
	Unit uint64 = 1_000_000

	// MaxInsurancePremium is the most a passenger may pay for insurance
	// on a single flight
	MaxInsurancePremium = 1 * Unit

	// MinAirlineFund is the cumulative contribution an airline must make
	// before it may propose candidates, vote, or register flights
	MinAirlineFund = 10 * Unit

	// OracleRegistrationFee is the minimum fee to register as an oracle
	OracleRegistrationFee = 1 * Unit
)
