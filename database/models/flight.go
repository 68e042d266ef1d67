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
	"time"
)

var ErrFlightNotFound = errors.New("flight not found")

// Flight is a registered flight, keyed by the hash of airline, code, and
// scheduled departure. Status starts unknown and is written at most once,
// when an oracle quorum resolves it.
type Flight struct {
	ID        uint   `gorm:"primarykey"`
	Key       []byte `gorm:"uniqueIndex;not null"`
	Airline   string `gorm:"index;not null"`
	Code      string
	Departure uint64
	Status    uint8
	UpdatedAt time.Time
}

func (Flight) TableName() string {
	return "flight"
}
