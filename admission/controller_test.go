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

package admission

import (
	"fmt"
	"testing"

	"github.com/blinklabs-io/contrail/database"
	"github.com/blinklabs-io/contrail/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOwner = "owner"

func newTestController(t *testing.T) (*Controller, *ledger.Store) {
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
	controller := NewController(ControllerConfig{
		Store: store,
	})
	return controller, store
}

// registerFundedFleet bootstraps and fully funds the requested number of
// airlines, named airline-1 through airline-N
func registerFundedFleet(
	t *testing.T,
	controller *Controller,
	count int,
) []string {
	t.Helper()
	airlines := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		address := fmt.Sprintf("airline-%d", i)
		name := fmt.Sprintf("Airline %d", i)
		if i == 1 {
			require.NoError(t, controller.Bootstrap(address, name))
		} else {
			require.NoError(
				t,
				controller.RegisterAirline(airlines[0], address, name),
			)
		}
		require.NoError(
			t,
			controller.FundAirline(address, ledger.MinAirlineFund),
		)
		airlines = append(airlines, address)
	}
	return airlines
}

func TestBootstrap(t *testing.T) {
	controller, store := newTestController(t)
	require.NoError(t, controller.Bootstrap("airline-1", "First"))
	registered, err := store.IsAirlineRegistered("airline-1", nil)
	require.NoError(t, err)
	assert.True(t, registered)
	// Only valid against an empty airline table
	err = controller.Bootstrap("airline-2", "Second")
	require.ErrorIs(t, err, ErrBootstrapDone)
}

func TestRegisterRequiresFundedProposer(t *testing.T) {
	controller, _ := newTestController(t)
	require.NoError(t, controller.Bootstrap("airline-1", "First"))
	// Registered but not yet funded
	err := controller.RegisterAirline("airline-1", "airline-2", "Second")
	require.ErrorIs(t, err, ErrCallerNotFunded)
	// Unknown proposer
	err = controller.RegisterAirline("stranger", "airline-2", "Second")
	require.ErrorIs(t, err, ErrCallerNotFunded)
	require.NoError(
		t,
		controller.FundAirline("airline-1", ledger.MinAirlineFund),
	)
	require.NoError(
		t,
		controller.RegisterAirline("airline-1", "airline-2", "Second"),
	)
}

func TestDirectRegistrationBelowThreshold(t *testing.T) {
	controller, store := newTestController(t)
	airlines := registerFundedFleet(t, controller, VotingThreshold)
	count, err := store.AirlineCount(nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(VotingThreshold), count)
	// All admitted without any queued candidates
	for _, address := range airlines {
		registered, err := store.IsAirlineRegistered(address, nil)
		require.NoError(t, err)
		assert.True(t, registered, address)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	controller, _ := newTestController(t)
	registerFundedFleet(t, controller, 2)
	err := controller.RegisterAirline("airline-1", "airline-2", "Second")
	require.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestVotingAtThreshold(t *testing.T) {
	controller, store := newTestController(t)
	airlines := registerFundedFleet(t, controller, VotingThreshold)
	// Fleet is at the threshold, so the candidate queues instead
	require.NoError(
		t,
		controller.RegisterAirline(airlines[0], "airline-5", "Fifth"),
	)
	registered, err := store.IsAirlineRegistered("airline-5", nil)
	require.NoError(t, err)
	assert.False(t, registered)
	// Proposing the same candidate again is rejected
	err = controller.RegisterAirline(airlines[1], "airline-5", "Fifth")
	require.ErrorIs(t, err, ErrAlreadyPending)
	// Four funded airlines, so admission needs three votes
	votes, admitted, err := controller.VoteForAirline(airlines[0], "airline-5")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), votes)
	assert.False(t, admitted)
	// One vote per funded airline per candidate
	_, _, err = controller.VoteForAirline(airlines[0], "airline-5")
	require.ErrorIs(t, err, ErrDuplicateVote)
	votes, admitted, err = controller.VoteForAirline(airlines[1], "airline-5")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), votes)
	assert.False(t, admitted)
	votes, admitted, err = controller.VoteForAirline(airlines[2], "airline-5")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), votes)
	assert.True(t, admitted)
	registered, err = store.IsAirlineRegistered("airline-5", nil)
	require.NoError(t, err)
	assert.True(t, registered)
	// Admission clears the pending entry
	_, _, err = controller.VoteForAirline(airlines[3], "airline-5")
	require.ErrorIs(t, err, ErrCandidateNotFound)
}

func TestVoteUnknownCandidate(t *testing.T) {
	controller, _ := newTestController(t)
	registerFundedFleet(t, controller, 1)
	_, _, err := controller.VoteForAirline("airline-1", "airline-9")
	require.ErrorIs(t, err, ErrCandidateNotFound)
}

func TestVoteRequiresFundedVoter(t *testing.T) {
	controller, _ := newTestController(t)
	airlines := registerFundedFleet(t, controller, VotingThreshold)
	require.NoError(
		t,
		controller.RegisterAirline(airlines[0], "airline-5", "Fifth"),
	)
	_, _, err := controller.VoteForAirline("stranger", "airline-5")
	require.ErrorIs(t, err, ErrCallerNotFunded)
}
