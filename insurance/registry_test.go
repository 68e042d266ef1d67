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
	"testing"

	"github.com/blinklabs-io/contrail/database"
	"github.com/blinklabs-io/contrail/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOwner     = "owner"
	testAirline   = "airline-1"
	testCode      = "AF-100"
	testDeparture = uint64(1700000000)
)

func newTestRegistry(t *testing.T) (*Registry, *ledger.Store) {
	t.Helper()
	db, err := database.New(&database.Config{
		DataDir: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	store, err := ledger.NewStore(ledger.StoreConfig{
		Database: db,
		Owner:    testOwner,
	})
	require.NoError(t, err)
	require.NoError(t, store.AuthorizeCaller(testOwner, DefaultCallerID))
	registry := NewRegistry(RegistryConfig{
		Store: store,
	})
	return registry, store
}

func registerTestFlight(t *testing.T, registry *Registry) []byte {
	t.Helper()
	key, err := registry.RegisterFlight(testAirline, testCode, testDeparture)
	require.NoError(t, err)
	return key
}

func TestRegisterFlight(t *testing.T) {
	registry, _ := newTestRegistry(t)
	key := registerTestFlight(t, registry)
	assert.Len(t, key, 32)
	flight, err := registry.Flight(testAirline, testCode, testDeparture)
	require.NoError(t, err)
	assert.Equal(t, testAirline, flight.Airline)
	assert.Equal(t, testCode, flight.Code)
	assert.Equal(t, uint8(ledger.StatusUnknown), flight.Status)
	// Same identity tuple maps to the same key
	_, err = registry.RegisterFlight(testAirline, testCode, testDeparture)
	require.ErrorIs(t, err, ErrDuplicateFlight)
	// A different departure is a different flight
	_, err = registry.RegisterFlight(testAirline, testCode, testDeparture+1)
	require.NoError(t, err)
}

func TestBuyInsuranceBounds(t *testing.T) {
	registry, _ := newTestRegistry(t)
	registerTestFlight(t, registry)
	err := registry.BuyInsurance(
		"passenger-1",
		testAirline,
		testCode,
		testDeparture,
		0,
	)
	require.ErrorIs(t, err, ErrNoPremium)
	err = registry.BuyInsurance(
		"passenger-1",
		testAirline,
		testCode,
		testDeparture,
		ledger.MaxInsurancePremium+1,
	)
	var premiumErr PremiumTooHighError
	require.ErrorAs(t, err, &premiumErr)
	assert.Equal(t, uint64(ledger.MaxInsurancePremium+1), premiumErr.Premium)
	// The cap itself is allowed
	require.NoError(
		t,
		registry.BuyInsurance(
			"passenger-1",
			testAirline,
			testCode,
			testDeparture,
			ledger.MaxInsurancePremium,
		),
	)
}

func TestBuyInsuranceUnknownFlight(t *testing.T) {
	registry, _ := newTestRegistry(t)
	err := registry.BuyInsurance(
		"passenger-1",
		testAirline,
		testCode,
		testDeparture,
		ledger.Unit/2,
	)
	require.ErrorIs(t, err, ledger.ErrFlightNotFound)
}

func TestBuyInsuranceDuplicate(t *testing.T) {
	registry, _ := newTestRegistry(t)
	registerTestFlight(t, registry)
	require.NoError(
		t,
		registry.BuyInsurance(
			"passenger-1",
			testAirline,
			testCode,
			testDeparture,
			ledger.Unit/2,
		),
	)
	err := registry.BuyInsurance(
		"passenger-1",
		testAirline,
		testCode,
		testDeparture,
		ledger.Unit/2,
	)
	require.ErrorIs(t, err, ErrAlreadyInsured)
}

func TestProcessFlightStatusLateAirline(t *testing.T) {
	registry, store := newTestRegistry(t)
	key := registerTestFlight(t, registry)
	require.NoError(
		t,
		registry.BuyInsurance(
			"passenger-1",
			testAirline,
			testCode,
			testDeparture,
			ledger.Unit,
		),
	)
	require.NoError(
		t,
		registry.BuyInsurance(
			"passenger-2",
			testAirline,
			testCode,
			testDeparture,
			ledger.Unit/2,
		),
	)
	require.NoError(
		t,
		registry.ProcessFlightStatus(
			testAirline,
			testCode,
			testDeparture,
			ledger.StatusLateAirline,
		),
	)
	flight, err := registry.Flight(testAirline, testCode, testDeparture)
	require.NoError(t, err)
	assert.Equal(t, uint8(ledger.StatusLateAirline), flight.Status)
	// Each position is credited at half its paid premium
	purchase, err := store.GetPurchase(key, "passenger-1", nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(ledger.Unit/2), uint64(purchase.Credit))
	purchase, err = store.GetPurchase(key, "passenger-2", nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(ledger.Unit/4), uint64(purchase.Credit))
	// A final status never changes
	err = registry.ProcessFlightStatus(
		testAirline,
		testCode,
		testDeparture,
		ledger.StatusOnTime,
	)
	require.ErrorIs(t, err, ErrStatusAlreadyFinal)
}

func TestProcessFlightStatusOnTime(t *testing.T) {
	registry, store := newTestRegistry(t)
	key := registerTestFlight(t, registry)
	require.NoError(
		t,
		registry.BuyInsurance(
			"passenger-1",
			testAirline,
			testCode,
			testDeparture,
			ledger.Unit,
		),
	)
	require.NoError(
		t,
		registry.ProcessFlightStatus(
			testAirline,
			testCode,
			testDeparture,
			ledger.StatusOnTime,
		),
	)
	// No qualifying delay, no credit
	purchase, err := store.GetPurchase(key, "passenger-1", nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), uint64(purchase.Credit))
}

func TestProcessFlightStatusInvalid(t *testing.T) {
	registry, _ := newTestRegistry(t)
	registerTestFlight(t, registry)
	err := registry.ProcessFlightStatus(
		testAirline,
		testCode,
		testDeparture,
		ledger.StatusUnknown,
	)
	require.ErrorIs(t, err, ErrInvalidStatus)
	err = registry.ProcessFlightStatus(
		testAirline,
		testCode,
		testDeparture,
		ledger.StatusCode(99),
	)
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestWithdraw(t *testing.T) {
	registry, _ := newTestRegistry(t)
	registerTestFlight(t, registry)
	require.NoError(
		t,
		registry.BuyInsurance(
			"passenger-1",
			testAirline,
			testCode,
			testDeparture,
			ledger.Unit,
		),
	)
	require.NoError(
		t,
		registry.ProcessFlightStatus(
			testAirline,
			testCode,
			testDeparture,
			ledger.StatusLateAirline,
		),
	)
	amount, err := registry.Withdraw(
		"passenger-1",
		testAirline,
		testCode,
		testDeparture,
	)
	require.NoError(t, err)
	assert.Equal(t, uint64(ledger.Unit/2), amount)
	// A second withdrawal finds no credit
	_, err = registry.Withdraw(
		"passenger-1",
		testAirline,
		testCode,
		testDeparture,
	)
	require.ErrorIs(t, err, ledger.ErrNoCredit)
}
