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

	"github.com/blinklabs-io/contrail/database"
	"github.com/blinklabs-io/contrail/database/models"
	"github.com/blinklabs-io/contrail/database/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOwner = "owner"

func testOracle(address string, i0, i1, i2 uint8) *models.Oracle {
	return &models.Oracle{
		Address: address,
		Index0:  i0,
		Index1:  i1,
		Index2:  i2,
		Fee:     types.Uint64(OracleRegistrationFee),
	}
}

func newTestStore(t *testing.T) (*Store, *database.Database) {
	t.Helper()
	db, err := database.New(&database.Config{
		DataDir: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	store, err := NewStore(StoreConfig{
		Database: db,
		Owner:    testOwner,
	})
	require.NoError(t, err)
	return store, db
}

func TestNewStoreSeedsState(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Equal(t, testOwner, store.Owner())
	operational, err := store.Operational()
	require.NoError(t, err)
	assert.True(t, operational)
	balance, err := store.PoolBalance()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), balance)
}

func TestNewStoreAdoptsExistingOwner(t *testing.T) {
	store, db := newTestStore(t)
	require.Equal(t, testOwner, store.Owner())
	// A second store over the same database keeps the recorded owner
	store2, err := NewStore(StoreConfig{
		Database: db,
		Owner:    "pretender",
	})
	require.NoError(t, err)
	assert.Equal(t, testOwner, store2.Owner())
}

func TestAuthorization(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.RegisterAirline("component-1", "airline-1", "First", nil)
	require.ErrorIs(t, err, ErrNotAuthorized)
	// Only the owner can grant authorization
	err = store.AuthorizeCaller("component-1", "component-1")
	require.ErrorIs(t, err, ErrNotOwner)
	require.NoError(t, store.AuthorizeCaller(testOwner, "component-1"))
	ok, err := store.IsAuthorizedCaller("component-1")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(
		t,
		store.RegisterAirline("component-1", "airline-1", "First", nil),
	)
	require.NoError(t, store.DeauthorizeCaller(testOwner, "component-1"))
	err = store.RegisterAirline("component-1", "airline-2", "Second", nil)
	require.ErrorIs(t, err, ErrNotAuthorized)
}

func TestOwnerAlwaysAuthorized(t *testing.T) {
	store, _ := newTestStore(t)
	ok, err := store.IsAuthorizedCaller(testOwner)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(
		t,
		store.RegisterAirline(testOwner, "airline-1", "First", nil),
	)
}

func TestSetOperational(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.SetOperational("airline-1", false)
	require.ErrorIs(t, err, ErrNotOwner)
	require.NoError(t, store.SetOperational(testOwner, false))
	// All privileged mutators halt while non-operational
	err = store.RegisterAirline(testOwner, "airline-1", "First", nil)
	require.ErrorIs(t, err, ErrNotOperational)
	require.NoError(t, store.SetOperational(testOwner, true))
	require.NoError(
		t,
		store.RegisterAirline(testOwner, "airline-1", "First", nil),
	)
}

func TestRegisterAirlineDuplicate(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(
		t,
		store.RegisterAirline(testOwner, "airline-1", "First", nil),
	)
	err := store.RegisterAirline(testOwner, "airline-1", "First", nil)
	require.ErrorIs(t, err, ErrAirlineExists)
	count, err := store.AirlineCount(nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestFundAirlineCrossesThresholdOnce(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(
		t,
		store.RegisterAirline(testOwner, "airline-1", "First", nil),
	)
	// Partial contribution accumulates without funding
	require.NoError(
		t,
		store.FundAirline(testOwner, "airline-1", 4*Unit, nil),
	)
	airline, err := store.GetAirline("airline-1", nil)
	require.NoError(t, err)
	assert.False(t, airline.Funded)
	assert.Equal(t, uint64(4*Unit), uint64(airline.Fund))
	funded, err := store.FundedAirlineCount(nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), funded)
	// Crossing the minimum flips the funded flag
	require.NoError(
		t,
		store.FundAirline(testOwner, "airline-1", 6*Unit, nil),
	)
	airline, err = store.GetAirline("airline-1", nil)
	require.NoError(t, err)
	assert.True(t, airline.Funded)
	funded, err = store.FundedAirlineCount(nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), funded)
	// Further contributions accumulate without re-flipping
	require.NoError(
		t,
		store.FundAirline(testOwner, "airline-1", 1*Unit, nil),
	)
	airline, err = store.GetAirline("airline-1", nil)
	require.NoError(t, err)
	assert.True(t, airline.Funded)
	assert.Equal(t, uint64(11*Unit), uint64(airline.Fund))
	funded, err = store.FundedAirlineCount(nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), funded)
	// All contributions joined the pool
	balance, err := store.PoolBalance()
	require.NoError(t, err)
	assert.Equal(t, uint64(11*Unit), balance)
}

func TestFundUnregisteredAirline(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.FundAirline(testOwner, "airline-1", 10*Unit, nil)
	require.ErrorIs(t, err, ErrAirlineNotFound)
}

func TestBuyCreditWithdraw(t *testing.T) {
	store, _ := newTestStore(t)
	flightKey := FlightKey("airline-1", "AF-100", 1700000000)
	require.NoError(
		t,
		store.Buy(testOwner, "passenger-1", flightKey, Unit, nil),
	)
	// One purchase per passenger per flight
	err := store.Buy(testOwner, "passenger-1", flightKey, Unit, nil)
	require.ErrorIs(t, err, ErrPurchaseExists)
	balance, err := store.PoolBalance()
	require.NoError(t, err)
	assert.Equal(t, uint64(Unit), balance)
	// No credit before settlement
	_, err = store.Withdraw(testOwner, "passenger-1", flightKey, nil)
	require.ErrorIs(t, err, ErrNoCredit)
	require.NoError(
		t,
		store.CreditInsuree(testOwner, "passenger-1", flightKey, Unit/2, nil),
	)
	amount, err := store.Withdraw(testOwner, "passenger-1", flightKey, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(Unit/2), amount)
	balance, err = store.PoolBalance()
	require.NoError(t, err)
	assert.Equal(t, uint64(Unit/2), balance)
	// Credit was zeroed by the first withdrawal
	_, err = store.Withdraw(testOwner, "passenger-1", flightKey, nil)
	require.ErrorIs(t, err, ErrNoCredit)
}

func TestWithdrawInsufficientPool(t *testing.T) {
	store, _ := newTestStore(t)
	flightKey := FlightKey("airline-1", "AF-100", 1700000000)
	require.NoError(
		t,
		store.Buy(testOwner, "passenger-1", flightKey, Unit/10, nil),
	)
	require.NoError(
		t,
		store.CreditInsuree(testOwner, "passenger-1", flightKey, Unit, nil),
	)
	_, err := store.Withdraw(testOwner, "passenger-1", flightKey, nil)
	require.ErrorIs(t, err, ErrInsufficientPool)
	// The failed withdrawal rolled back, so the credit is intact
	purchase, err := store.GetPurchase(flightKey, "passenger-1", nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(Unit), uint64(purchase.Credit))
}

func TestRegisterOracleFeeJoinsPool(t *testing.T) {
	store, _ := newTestStore(t)
	oracle := testOracle("oracle-1", 1, 2, 3)
	require.NoError(t, store.RegisterOracle(testOwner, oracle, nil))
	err := store.RegisterOracle(testOwner, testOracle("oracle-1", 4, 5, 6), nil)
	require.ErrorIs(t, err, ErrOracleExists)
	balance, err := store.PoolBalance()
	require.NoError(t, err)
	assert.Equal(t, uint64(OracleRegistrationFee), balance)
}

func TestReceiptsRecorded(t *testing.T) {
	store, db := newTestStore(t)
	require.NoError(
		t,
		store.RegisterAirline(testOwner, "airline-1", "First", nil),
	)
	require.NoError(
		t,
		store.FundAirline(testOwner, "airline-1", 10*Unit, nil),
	)
	iter := db.ReceiptsFromSeq(1)
	defer iter.Close()
	var ops []string
	for {
		receipt, err := iter.Next()
		require.NoError(t, err)
		if receipt == nil {
			break
		}
		assert.Equal(t, testOwner, receipt.Actor)
		ops = append(ops, receipt.Op)
	}
	assert.Equal(t, []string{"airline.register", "airline.fund"}, ops)
}

func TestCompositeTransactionRollback(t *testing.T) {
	store, _ := newTestStore(t)
	// A failing step aborts every mutation in the composed transaction
	txn := store.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		if err := store.RegisterAirline(
			testOwner,
			"airline-1",
			"First",
			txn,
		); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)
	_, err = store.GetAirline("airline-1", nil)
	require.ErrorIs(t, err, ErrAirlineNotFound)
}

func TestMetricsTrackCommittedState(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(
		t,
		store.RegisterAirline(testOwner, "airline-1", "First", nil),
	)
	assert.Equal(
		t,
		float64(1),
		testutil.ToFloat64(store.metrics.airlinesRegistered),
	)
	// A rolled-back composed mutation leaves the gauges untouched
	txn := store.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		if err := store.RegisterAirline(
			testOwner,
			"airline-2",
			"Second",
			txn,
		); err != nil {
			return err
		}
		if err := store.FundAirline(
			testOwner,
			"airline-2",
			MinAirlineFund,
			txn,
		); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(
		t,
		float64(1),
		testutil.ToFloat64(store.metrics.airlinesRegistered),
	)
	assert.Equal(
		t,
		float64(0),
		testutil.ToFloat64(store.metrics.airlinesFunded),
	)
	assert.Equal(
		t,
		float64(0),
		testutil.ToFloat64(store.metrics.poolBalance),
	)
	// Committed mutations show up on the next sample
	require.NoError(
		t,
		store.FundAirline(testOwner, "airline-1", MinAirlineFund, nil),
	)
	assert.Equal(
		t,
		float64(1),
		testutil.ToFloat64(store.metrics.airlinesFunded),
	)
	assert.Equal(
		t,
		float64(MinAirlineFund),
		testutil.ToFloat64(store.metrics.poolBalance),
	)
}
