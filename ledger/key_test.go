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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlightKeyDeterministic(t *testing.T) {
	key1 := FlightKey("airline-1", "AF-100", 1700000000)
	key2 := FlightKey("airline-1", "AF-100", 1700000000)
	require.Len(t, key1, 32)
	assert.Equal(t, key1, key2)
}

func TestFlightKeyDistinct(t *testing.T) {
	base := FlightKey("airline-1", "AF-100", 1700000000)
	assert.NotEqual(t, base, FlightKey("airline-2", "AF-100", 1700000000))
	assert.NotEqual(t, base, FlightKey("airline-1", "AF-101", 1700000000))
	assert.NotEqual(t, base, FlightKey("airline-1", "AF-100", 1700000001))
}

func TestFlightKeyNoFieldConfusion(t *testing.T) {
	// Length prefixing must keep adjacent fields from running together
	key1 := FlightKey("air", "lineAF-100", 1700000000)
	key2 := FlightKey("airline", "AF-100", 1700000000)
	assert.NotEqual(t, key1, key2)
}

func TestRequestKeyIncludesIndex(t *testing.T) {
	key1 := RequestKey(3, "airline-1", "AF-100", 1700000000)
	key2 := RequestKey(7, "airline-1", "AF-100", 1700000000)
	require.Len(t, key1, 32)
	assert.NotEqual(t, key1, key2)
	assert.Equal(t, key1, RequestKey(3, "airline-1", "AF-100", 1700000000))
}

func TestStatusCodeValid(t *testing.T) {
	for _, status := range []StatusCode{
		StatusUnknown,
		StatusOnTime,
		StatusLateAirline,
		StatusLateWeather,
		StatusLateTechnical,
		StatusLateOther,
	} {
		assert.True(t, status.Valid(), status.String())
	}
	assert.False(t, StatusCode(5).Valid())
	assert.False(t, StatusCode(60).Valid())
}
