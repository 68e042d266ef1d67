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
	"errors"
	"fmt"
)

var (
	// ErrDuplicateFlight is returned when registering a flight whose key
	// already exists
	ErrDuplicateFlight = errors.New("flight already registered")

	// ErrNoPremium is returned when buying insurance with a zero premium
	ErrNoPremium = errors.New("no premium paid")

	// ErrAlreadyInsured is returned when a passenger already holds
	// insurance on the flight
	ErrAlreadyInsured = errors.New("passenger already insured on flight")

	// ErrStatusAlreadyFinal is returned when processing a status for a
	// flight that has already been resolved
	ErrStatusAlreadyFinal = errors.New("flight status already resolved")

	// ErrInvalidStatus is returned for a status code outside the known set
	ErrInvalidStatus = errors.New("invalid status code")
)

// PremiumTooHighError is returned when a purchase exceeds the premium cap
type PremiumTooHighError struct {
	Premium uint64
	Max     uint64
}

func NewPremiumTooHighError(premium uint64, max uint64) PremiumTooHighError {
	return PremiumTooHighError{
		Premium: premium,
		Max:     max,
	}
}

func (e PremiumTooHighError) Error() string {
	return fmt.Sprintf(
		"premium %d exceeds maximum %d",
		e.Premium,
		e.Max,
	)
}
