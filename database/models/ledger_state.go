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

	"github.com/blinklabs-io/contrail/database/types"
)

var ErrLedgerStateNotFound = errors.New("ledger state not found")

// LedgerState is the singleton row holding the deploying owner, the
// operational flag, the treasury pool balance, and the journal sequence
// head. PoolBalance equals airline funds plus premiums minus payouts.
type LedgerState struct {
	ID          uint   `gorm:"primarykey"`
	Owner       string `gorm:"not null"`
	Operational bool
	PoolBalance types.Uint64
	ReceiptSeq  uint64
}

func (LedgerState) TableName() string {
	return "ledger_state"
}

// AuthorizedCaller is a component identity permitted to invoke privileged
// ledger mutators. Only the owner mutates this table.
type AuthorizedCaller struct {
	ID      uint   `gorm:"primarykey"`
	Address string `gorm:"uniqueIndex;not null"`
}

func (AuthorizedCaller) TableName() string {
	return "authorized_caller"
}
