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

import "fmt"

// StatusCode is a resolved flight status. Codes are spaced by ten so
// airline-specific sub-codes can be added without renumbering.
type StatusCode uint8

const (
	StatusUnknown       StatusCode = 0
	StatusOnTime        StatusCode = 10
	StatusLateAirline   StatusCode = 20
	StatusLateWeather   StatusCode = 30
	StatusLateTechnical StatusCode = 40
	StatusLateOther     StatusCode = 50
)

func (s StatusCode) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusOnTime:
		return "on-time"
	case StatusLateAirline:
		return "late-airline"
	case StatusLateWeather:
		return "late-weather"
	case StatusLateTechnical:
		return "late-technical"
	case StatusLateOther:
		return "late-other"
	default:
		return fmt.Sprintf("invalid (%d)", uint8(s))
	}
}

// Valid returns true for the known status codes
func (s StatusCode) Valid() bool {
	switch s {
	case StatusUnknown, StatusOnTime, StatusLateAirline,
		StatusLateWeather, StatusLateTechnical, StatusLateOther:
		return true
	default:
		return false
	}
}
