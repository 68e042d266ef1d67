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

package contrail

import (
	"context"
	"testing"
	"time"

	"github.com/blinklabs-io/contrail/admission"
	"github.com/blinklabs-io/contrail/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticIndexSource routes every request to every oracle so the end-to-end
// flow does not depend on random index assignment
type staticIndexSource struct{}

func (s staticIndexSource) Index(_ string) (uint8, error) {
	return 4, nil
}

func (s staticIndexSource) IndexTriple(_ string) ([3]uint8, error) {
	return [3]uint8{1, 4, 7}, nil
}

func TestNewRejectsInvalidRunMode(t *testing.T) {
	_, err := New(NewConfig(
		WithRunMode("bogus"),
	))
	require.Error(t, err)
}

// startTestNode runs a dev-mode node and blocks until the bootstrap airline
// has been admitted, which orders all component assignments before any test
// access
func startTestNode(t *testing.T, opts ...ConfigOptionFunc) *Node {
	t.Helper()
	defaults := []ConfigOptionFunc{
		WithDatabasePath(t.TempDir()),
		WithBootstrapAirline("airline-1", "First Airline"),
		WithRunMode(runModeDev),
		WithOracleWorkers(5),
		WithOracleWorkerStatus(ledger.StatusLateAirline),
		WithRandomIndexSource(staticIndexSource{}),
	}
	n, err := New(NewConfig(append(defaults, opts...)...))
	require.NoError(t, err)
	subId, admittedCh := n.EventBus().Subscribe(admission.AdmittedEventType)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- n.Run(ctx)
	}()
	select {
	case <-admittedCh:
	case <-time.After(30 * time.Second):
		t.Fatal("timeout waiting for bootstrap airline admission")
	}
	n.EventBus().Unsubscribe(admission.AdmittedEventType, subId)
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-errCh)
		require.NoError(t, n.Stop())
	})
	return n
}

func TestNodeBootstrap(t *testing.T) {
	n := startTestNode(t)
	registered, err := n.Ledger().IsAirlineRegistered("airline-1", nil)
	require.NoError(t, err)
	assert.True(t, registered)
	assert.Equal(t, DefaultOwner, n.Ledger().Owner())
}

func TestNodeEndToEnd(t *testing.T) {
	n := startTestNode(t)
	store := n.Ledger()
	controller := n.Admission()
	registry := n.Insurance()
	engine := n.Oracle()

	// The dev-mode worker pool registered its oracles before Run
	// reached the wait loop; each fee joined the pool
	require.Eventually(t, func() bool {
		balance, err := store.PoolBalance()
		return err == nil && balance >= 5*ledger.OracleRegistrationFee
	}, 10*time.Second, 10*time.Millisecond)

	// Grow the fleet to the voting threshold through direct registration
	require.NoError(
		t,
		controller.FundAirline("airline-1", ledger.MinAirlineFund),
	)
	for _, airline := range []string{"airline-2", "airline-3", "airline-4"} {
		require.NoError(
			t,
			controller.RegisterAirline("airline-1", airline, airline),
		)
		require.NoError(
			t,
			controller.FundAirline(airline, ledger.MinAirlineFund),
		)
	}
	// The fifth candidate needs a majority of the funded fleet
	require.NoError(
		t,
		controller.RegisterAirline("airline-1", "airline-5", "Fifth"),
	)
	_, admitted, err := controller.VoteForAirline("airline-1", "airline-5")
	require.NoError(t, err)
	assert.False(t, admitted)
	_, admitted, err = controller.VoteForAirline("airline-2", "airline-5")
	require.NoError(t, err)
	assert.False(t, admitted)
	_, admitted, err = controller.VoteForAirline("airline-3", "airline-5")
	require.NoError(t, err)
	assert.True(t, admitted)

	// Passenger insures a flight
	departure := uint64(time.Now().Unix())
	_, err = registry.RegisterFlight("airline-1", "CT-100", departure)
	require.NoError(t, err)
	require.NoError(
		t,
		registry.BuyInsurance(
			"passenger-1",
			"airline-1",
			"CT-100",
			departure,
			ledger.Unit,
		),
	)

	// Request a status; the worker pool reports late-airline to quorum
	_, err = engine.FetchFlightStatus(
		"passenger-1",
		"airline-1",
		"CT-100",
		departure,
	)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		flight, err := registry.Flight("airline-1", "CT-100", departure)
		if err != nil {
			return false
		}
		return flight.Status == uint8(ledger.StatusLateAirline)
	}, 10*time.Second, 10*time.Millisecond)

	// Settlement credited half the premium; the passenger withdraws it
	amount, err := registry.Withdraw(
		"passenger-1",
		"airline-1",
		"CT-100",
		departure,
	)
	require.NoError(t, err)
	assert.Equal(t, uint64(ledger.Unit/2), amount)

	// Every applied operation left a receipt
	state, err := n.Database().GetLedgerState(nil)
	require.NoError(t, err)
	assert.Greater(t, state.ReceiptSeq, uint64(10))
}
