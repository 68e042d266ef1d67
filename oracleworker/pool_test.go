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

package oracleworker

import (
	"testing"
	"time"

	"github.com/blinklabs-io/contrail/database"
	"github.com/blinklabs-io/contrail/event"
	"github.com/blinklabs-io/contrail/insurance"
	"github.com/blinklabs-io/contrail/ledger"
	"github.com/blinklabs-io/contrail/oracle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const (
	testOwner     = "owner"
	testAirline   = "airline-1"
	testCode      = "AF-100"
	testDeparture = uint64(1700000000)
)

// staticIndexSource routes every request to every worker so quorum does not
// depend on random index assignment
type staticIndexSource struct{}

func (s staticIndexSource) Index(_ string) (uint8, error) {
	return 4, nil
}

func (s staticIndexSource) IndexTriple(_ string) ([3]uint8, error) {
	return [3]uint8{1, 4, 7}, nil
}

func TestPoolResolvesRequest(t *testing.T) {
	// The event bus keeps its async worker pool alive across Stop so the
	// bus can be reused; those goroutines are not leaks
	defer goleak.VerifyNone(
		t,
		goleak.IgnoreTopFunction(
			"github.com/blinklabs-io/contrail/event.(*EventBus).asyncWorker",
		),
	)
	db, err := database.New(&database.Config{
		DataDir: t.TempDir(),
	})
	require.NoError(t, err)
	store, err := ledger.NewStore(ledger.StoreConfig{
		Database: db,
		Owner:    testOwner,
	})
	require.NoError(t, err)
	for _, id := range []string{
		insurance.DefaultCallerID,
		oracle.DefaultCallerID,
	} {
		require.NoError(t, store.AuthorizeCaller(testOwner, id))
	}
	bus := event.NewEventBus(nil, nil)
	registry := insurance.NewRegistry(insurance.RegistryConfig{
		EventBus: bus,
		Store:    store,
	})
	engine, err := oracle.NewEngine(oracle.EngineConfig{
		EventBus:  bus,
		Store:     store,
		Indexer:   staticIndexSource{},
		Processor: registry,
	})
	require.NoError(t, err)
	pool := NewPool(PoolConfig{
		EventBus: bus,
		Engine:   engine,
		Workers:  5,
		Status:   ledger.StatusLateAirline,
	})
	require.NoError(t, pool.Start())

	_, err = registry.RegisterFlight(testAirline, testCode, testDeparture)
	require.NoError(t, err)
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
	_, err = engine.FetchFlightStatus(
		"requester",
		testAirline,
		testCode,
		testDeparture,
	)
	require.NoError(t, err)

	// Workers respond asynchronously via the event bus
	require.Eventually(t, func() bool {
		flight, err := registry.Flight(testAirline, testCode, testDeparture)
		if err != nil {
			return false
		}
		return flight.Status == uint8(ledger.StatusLateAirline)
	}, 10*time.Second, 10*time.Millisecond)

	// Late-airline settlement credited the insurance position
	amount, err := registry.Withdraw(
		"passenger-1",
		testAirline,
		testCode,
		testDeparture,
	)
	require.NoError(t, err)
	assert.Equal(t, uint64(ledger.Unit/2), amount)

	pool.Stop()
	bus.Stop()
	require.NoError(t, db.Close())
}

func TestPoolStartIdempotent(t *testing.T) {
	// The event bus keeps its async worker pool alive across Stop so the
	// bus can be reused; those goroutines are not leaks
	defer goleak.VerifyNone(
		t,
		goleak.IgnoreTopFunction(
			"github.com/blinklabs-io/contrail/event.(*EventBus).asyncWorker",
		),
	)
	db, err := database.New(&database.Config{
		DataDir: t.TempDir(),
	})
	require.NoError(t, err)
	store, err := ledger.NewStore(ledger.StoreConfig{
		Database: db,
		Owner:    testOwner,
	})
	require.NoError(t, err)
	require.NoError(
		t,
		store.AuthorizeCaller(testOwner, oracle.DefaultCallerID),
	)
	bus := event.NewEventBus(nil, nil)
	engine, err := oracle.NewEngine(oracle.EngineConfig{
		EventBus: bus,
		Store:    store,
	})
	require.NoError(t, err)
	pool := NewPool(PoolConfig{
		EventBus: bus,
		Engine:   engine,
		Workers:  2,
	})
	require.NoError(t, pool.Start())
	// A second Start registers no additional workers
	require.NoError(t, pool.Start())
	assert.Len(t, pool.workers, 2)
	pool.Stop()
	// Stop after Stop is a no-op
	pool.Stop()
	bus.Stop()
	require.NoError(t, db.Close())
}
