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
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	// ErrDuplicateResponse is returned when an oracle reports the same
	// status twice on one request
	ErrDuplicateResponse = errors.New("duplicate oracle response")
)

// FeeTooLowError is returned when a registration fee is below the minimum
type FeeTooLowError struct {
	Fee      uint64
	Required uint64
}

func NewFeeTooLowError(fee uint64, required uint64) FeeTooLowError {
	return FeeTooLowError{
		Fee:      fee,
		Required: required,
	}
}

func (e FeeTooLowError) Error() string {
	return fmt.Sprintf(
		"registration fee %d below required %d",
		e.Fee,
		e.Required,
	)
}

// IndexMismatchError is returned when an oracle responds with an index
// outside its assigned triple
type IndexMismatchError struct {
	Index    uint8
	Assigned [3]uint8
}

func NewIndexMismatchError(index uint8, assigned [3]uint8) IndexMismatchError {
	return IndexMismatchError{
		Index:    index,
		Assigned: assigned,
	}
}

func (e IndexMismatchError) Error() string {
	return fmt.Sprintf(
		"index %d not in assigned indexes %v",
		e.Index,
		e.Assigned,
	)
}

// RequestClosedError is returned when a response arrives for a request
// that has already reached quorum
type RequestClosedError struct {
	Key []byte
}

func NewRequestClosedError(key []byte) RequestClosedError {
	return RequestClosedError{Key: key}
}

func (e RequestClosedError) Error() string {
	return fmt.Sprintf(
		"status request %s is closed",
		hex.EncodeToString(e.Key),
	)
}
