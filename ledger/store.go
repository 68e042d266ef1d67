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
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/blinklabs-io/contrail/database"
	"github.com/blinklabs-io/contrail/database/models"
	"github.com/blinklabs-io/contrail/database/types"
	"github.com/blinklabs-io/contrail/event"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type StoreConfig struct {
	Logger       *slog.Logger
	EventBus     *event.EventBus
	PromRegistry prometheus.Registerer
	Database     *database.Database
	Owner        string
}

// Store mediates all access to persisted pool state. Privileged mutators
// take the calling component's identity and require membership in the
// authorized caller table; the owner identity is always authorized.
// Mutators accept an optional transaction handle so callers can compose
// several mutations into one all-or-nothing operation. Events are only
// published on the store-owned transaction path; composing callers publish
// their own events after commit.
type Store struct {
	config   StoreConfig
	logger   *slog.Logger
	eventBus *event.EventBus
	db       *database.Database
	owner    string
	metrics  struct {
		airlinesRegistered prometheus.GaugeFunc
		airlinesFunded     prometheus.GaugeFunc
		poolBalance        prometheus.GaugeFunc
		payoutsTotal       prometheus.Counter
	}
}

// NewStore creates a ledger store, seeding the singleton ledger state row
// with the owner identity when the database is empty
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Database == nil {
		return nil, errors.New("no database provided")
	}
	if cfg.Owner == "" {
		return nil, errors.New("no owner identity provided")
	}
	s := &Store{
		config:   cfg,
		eventBus: cfg.EventBus,
		db:       cfg.Database,
		owner:    cfg.Owner,
	}
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	} else {
		s.logger = cfg.Logger.With("component", "ledger")
	}
	// Gauges sample committed state at scrape time, so a rolled-back
	// composed transaction cannot drift them
	promautoFactory := promauto.With(cfg.PromRegistry)
	s.metrics.airlinesRegistered = promautoFactory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "contrail_ledger_airlines_registered",
			Help: "Number of registered airlines",
		},
		func() float64 {
			count, err := s.db.GetAirlineCount(false, nil)
			if err != nil {
				return 0
			}
			return float64(count)
		},
	)
	s.metrics.airlinesFunded = promautoFactory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "contrail_ledger_airlines_funded",
			Help: "Number of funded airlines",
		},
		func() float64 {
			count, err := s.db.GetAirlineCount(true, nil)
			if err != nil {
				return 0
			}
			return float64(count)
		},
	)
	s.metrics.poolBalance = promautoFactory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "contrail_ledger_pool_balance",
			Help: "Insurance pool balance in sub-units",
		},
		func() float64 {
			state, err := s.db.GetLedgerState(nil)
			if err != nil {
				return 0
			}
			return float64(state.PoolBalance)
		},
	)
	s.metrics.payoutsTotal = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "contrail_ledger_payouts_total",
			Help: "Total number of insurance payouts withdrawn",
		},
	)
	txn := s.db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		state, err := s.db.GetLedgerState(txn)
		if err != nil {
			if !errors.Is(err, models.ErrLedgerStateNotFound) {
				return err
			}
			state = &models.LedgerState{
				Owner:       cfg.Owner,
				Operational: true,
			}
			if err := s.db.SetLedgerState(state, txn); err != nil {
				return err
			}
			s.logger.Info(
				"seeded ledger state",
				"owner", cfg.Owner,
			)
		} else {
			s.owner = state.Owner
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger state: %w", err)
	}
	return s, nil
}

// Transaction starts a database transaction for composing multiple store
// mutations into one all-or-nothing operation
func (s *Store) Transaction(readWrite bool) *database.Txn {
	return s.db.Transaction(readWrite)
}

// Owner returns the owner identity recorded in the ledger state
func (s *Store) Owner() string {
	return s.owner
}

// Operational returns the current operational flag
func (s *Store) Operational() (bool, error) {
	state, err := s.db.GetLedgerState(nil)
	if err != nil {
		return false, err
	}
	return state.Operational, nil
}

// PoolBalance returns the current pool balance in sub-units
func (s *Store) PoolBalance() (uint64, error) {
	state, err := s.db.GetLedgerState(nil)
	if err != nil {
		return 0, err
	}
	return uint64(state.PoolBalance), nil
}

func (s *Store) requireOwner(caller string) error {
	if caller != s.owner {
		return fmt.Errorf("%w: %s", ErrNotOwner, caller)
	}
	return nil
}

func (s *Store) requireAuthorized(caller string, txn *database.Txn) error {
	if caller == s.owner {
		return nil
	}
	ok, err := s.db.IsAuthorizedCaller(caller, txn)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotAuthorized, caller)
	}
	return nil
}

func (s *Store) requireOperational(txn *database.Txn) error {
	state, err := s.db.GetLedgerState(txn)
	if err != nil {
		return err
	}
	if !state.Operational {
		return ErrNotOperational
	}
	return nil
}

// checkMutator bundles the precondition checks shared by all privileged
// mutators
func (s *Store) checkMutator(caller string, txn *database.Txn) error {
	if err := s.requireOperational(txn); err != nil {
		return err
	}
	return s.requireAuthorized(caller, txn)
}

func (s *Store) addPool(amount uint64, txn *database.Txn) error {
	state, err := s.db.GetLedgerState(txn)
	if err != nil {
		return err
	}
	state.PoolBalance += types.Uint64(amount)
	if err := s.db.SetLedgerState(state, txn); err != nil {
		return err
	}
	return nil
}

func (s *Store) subPool(amount uint64, txn *database.Txn) error {
	state, err := s.db.GetLedgerState(txn)
	if err != nil {
		return err
	}
	if uint64(state.PoolBalance) < amount {
		return ErrInsufficientPool
	}
	state.PoolBalance -= types.Uint64(amount)
	if err := s.db.SetLedgerState(state, txn); err != nil {
		return err
	}
	return nil
}

// SetOperational toggles the operational flag. Owner only.
func (s *Store) SetOperational(caller string, operational bool) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	txn := s.db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		state, err := s.db.GetLedgerState(txn)
		if err != nil {
			return err
		}
		state.Operational = operational
		if err := s.db.SetLedgerState(state, txn); err != nil {
			return err
		}
		_, err = s.db.AppendReceipt(
			"ledger.operational",
			caller,
			map[string]string{
				"operational": strconv.FormatBool(operational),
			},
			txn,
		)
		return err
	})
	if err != nil {
		return err
	}
	s.logger.Info("operational flag updated", "operational", operational)
	return nil
}

// AuthorizeCaller grants a component identity access to privileged
// mutators. Owner only.
func (s *Store) AuthorizeCaller(caller string, address string) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	txn := s.db.Transaction(true)
	return txn.Do(func(txn *database.Txn) error {
		if err := s.db.SetAuthorizedCaller(address, txn); err != nil {
			return err
		}
		_, err := s.db.AppendReceipt(
			"ledger.authorize",
			caller,
			map[string]string{"address": address},
			txn,
		)
		return err
	})
}

// DeauthorizeCaller revokes a component identity's access to privileged
// mutators. Owner only.
func (s *Store) DeauthorizeCaller(caller string, address string) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	txn := s.db.Transaction(true)
	return txn.Do(func(txn *database.Txn) error {
		if err := s.db.DeleteAuthorizedCaller(address, txn); err != nil {
			return err
		}
		_, err := s.db.AppendReceipt(
			"ledger.deauthorize",
			caller,
			map[string]string{"address": address},
			txn,
		)
		return err
	})
}

// IsAuthorizedCaller reports whether an identity may invoke privileged
// mutators
func (s *Store) IsAuthorizedCaller(address string) (bool, error) {
	if address == s.owner {
		return true, nil
	}
	return s.db.IsAuthorizedCaller(address, nil)
}

// GetAirline returns an airline by address
func (s *Store) GetAirline(
	address string,
	txn *database.Txn,
) (*models.Airline, error) {
	ret, err := s.db.GetAirline(address, txn)
	if err != nil {
		if errors.Is(err, models.ErrAirlineNotFound) {
			return nil, ErrAirlineNotFound
		}
		return nil, err
	}
	return ret, nil
}

// IsAirlineRegistered reports whether an address is a registered airline
func (s *Store) IsAirlineRegistered(
	address string,
	txn *database.Txn,
) (bool, error) {
	airline, err := s.GetAirline(address, txn)
	if err != nil {
		if errors.Is(err, ErrAirlineNotFound) {
			return false, nil
		}
		return false, err
	}
	return airline.Registered, nil
}

// AirlineCount returns the number of registered airlines
func (s *Store) AirlineCount(txn *database.Txn) (uint64, error) {
	return s.db.GetAirlineCount(false, txn)
}

// FundedAirlineCount returns the number of funded airlines
func (s *Store) FundedAirlineCount(txn *database.Txn) (uint64, error) {
	return s.db.GetAirlineCount(true, txn)
}

// RegisterAirline admits an airline into the pool
func (s *Store) RegisterAirline(
	caller string,
	address string,
	name string,
	txn *database.Txn,
) error {
	owned := false
	if txn == nil {
		txn = s.db.Transaction(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := s.checkMutator(caller, txn); err != nil {
		return err
	}
	existing, err := s.db.GetAirline(address, txn)
	if err != nil && !errors.Is(err, models.ErrAirlineNotFound) {
		return err
	}
	if existing != nil && existing.Registered {
		return fmt.Errorf("%w: %s", ErrAirlineExists, address)
	}
	airline := &models.Airline{
		Address:    address,
		Name:       name,
		Registered: true,
	}
	if existing != nil {
		airline = existing
		airline.Name = name
		airline.Registered = true
	}
	if err := s.db.SetAirline(airline, txn); err != nil {
		return err
	}
	if _, err := s.db.AppendReceipt(
		"airline.register",
		caller,
		map[string]string{"airline": address, "name": name},
		txn,
	); err != nil {
		return err
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return err
		}
		s.logger.Info(
			"airline registered",
			"airline", address,
			"name", name,
		)
	}
	return nil
}

// FundAirline accumulates an airline's contribution to the pool. Crossing
// the participation minimum flips the funded flag exactly once; further
// contributions accumulate without re-flipping.
func (s *Store) FundAirline(
	caller string,
	address string,
	amount uint64,
	txn *database.Txn,
) error {
	owned := false
	if txn == nil {
		txn = s.db.Transaction(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := s.checkMutator(caller, txn); err != nil {
		return err
	}
	airline, err := s.GetAirline(address, txn)
	if err != nil {
		return err
	}
	if !airline.Registered {
		return fmt.Errorf(
			"%w: airline %s is not registered",
			ErrNotAuthorized,
			address,
		)
	}
	airline.Fund += types.Uint64(amount)
	crossed := false
	if !airline.Funded && uint64(airline.Fund) >= MinAirlineFund {
		airline.Funded = true
		crossed = true
	}
	if err := s.db.SetAirline(airline, txn); err != nil {
		return err
	}
	if err := s.addPool(amount, txn); err != nil {
		return err
	}
	if _, err := s.db.AppendReceipt(
		"airline.fund",
		caller,
		map[string]string{
			"airline": address,
			"amount":  strconv.FormatUint(amount, 10),
			"fund":    strconv.FormatUint(uint64(airline.Fund), 10),
		},
		txn,
	); err != nil {
		return err
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return err
		}
		s.logger.Info(
			"airline funded",
			"airline", address,
			"amount", amount,
			"fund", uint64(airline.Fund),
			"funded", airline.Funded,
		)
		if crossed && s.eventBus != nil {
			s.eventBus.Publish(
				AirlineFundedEventType,
				event.NewEvent(
					AirlineFundedEventType,
					AirlineFundedEvent{
						Airline: address,
						Fund:    uint64(airline.Fund),
					},
				),
			)
		}
	}
	return nil
}

// GetPendingAirline returns an admission candidate by address
func (s *Store) GetPendingAirline(
	address string,
	txn *database.Txn,
) (*models.PendingAirline, error) {
	ret, err := s.db.GetPendingAirline(address, txn)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// AddPendingAirline records an admission candidate awaiting votes
func (s *Store) AddPendingAirline(
	caller string,
	address string,
	name string,
	txn *database.Txn,
) (*models.PendingAirline, error) {
	owned := false
	if txn == nil {
		txn = s.db.Transaction(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := s.checkMutator(caller, txn); err != nil {
		return nil, err
	}
	existing, err := s.db.GetPendingAirline(address, txn)
	if err != nil && !errors.Is(err, models.ErrPendingAirlineNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrCandidateExists, address)
	}
	pending, err := s.db.SetPendingAirline(address, name, txn)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.AppendReceipt(
		"admission.pending",
		caller,
		map[string]string{"candidate": address, "name": name},
		txn,
	); err != nil {
		return nil, err
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return nil, err
		}
	}
	return pending, nil
}

// RemovePendingAirline clears a candidate and its vote set
func (s *Store) RemovePendingAirline(
	caller string,
	pending *models.PendingAirline,
	txn *database.Txn,
) error {
	owned := false
	if txn == nil {
		txn = s.db.Transaction(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := s.checkMutator(caller, txn); err != nil {
		return err
	}
	if err := s.db.DeletePendingAirline(pending, txn); err != nil {
		return err
	}
	if owned {
		return txn.Commit()
	}
	return nil
}

// HasVote reports whether the voter has already voted for the candidate
func (s *Store) HasVote(
	pendingID uint,
	voter string,
	txn *database.Txn,
) (bool, error) {
	return s.db.HasAirlineVote(pendingID, voter, txn)
}

// RecordVote records one funded airline's vote for a pending candidate
func (s *Store) RecordVote(
	caller string,
	pendingID uint,
	voter string,
	txn *database.Txn,
) error {
	owned := false
	if txn == nil {
		txn = s.db.Transaction(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := s.checkMutator(caller, txn); err != nil {
		return err
	}
	if err := s.db.AddAirlineVote(pendingID, voter, txn); err != nil {
		return err
	}
	if _, err := s.db.AppendReceipt(
		"admission.vote",
		caller,
		map[string]string{
			"candidate": strconv.FormatUint(uint64(pendingID), 10),
			"voter":     voter,
		},
		txn,
	); err != nil {
		return err
	}
	if owned {
		return txn.Commit()
	}
	return nil
}

// VoteCount returns the number of votes recorded for a pending candidate
func (s *Store) VoteCount(
	pendingID uint,
	txn *database.Txn,
) (uint64, error) {
	return s.db.GetAirlineVoteCount(pendingID, txn)
}

// GetFlight returns a registered flight by key
func (s *Store) GetFlight(
	key []byte,
	txn *database.Txn,
) (*models.Flight, error) {
	ret, err := s.db.GetFlight(key, txn)
	if err != nil {
		if errors.Is(err, models.ErrFlightNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	return ret, nil
}

// RegisterFlight records a new flight
func (s *Store) RegisterFlight(
	caller string,
	flight *models.Flight,
	txn *database.Txn,
) error {
	owned := false
	if txn == nil {
		txn = s.db.Transaction(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := s.checkMutator(caller, txn); err != nil {
		return err
	}
	existing, err := s.db.GetFlight(flight.Key, txn)
	if err != nil && !errors.Is(err, models.ErrFlightNotFound) {
		return err
	}
	if existing != nil {
		return fmt.Errorf(
			"%w: %s",
			ErrFlightExists,
			hex.EncodeToString(flight.Key),
		)
	}
	if err := s.db.SetFlight(flight, txn); err != nil {
		return err
	}
	if _, err := s.db.AppendReceipt(
		"flight.register",
		caller,
		map[string]string{
			"flight":    hex.EncodeToString(flight.Key),
			"airline":   flight.Airline,
			"code":      flight.Code,
			"departure": strconv.FormatUint(flight.Departure, 10),
		},
		txn,
	); err != nil {
		return err
	}
	if owned {
		return txn.Commit()
	}
	return nil
}

// SetFlightStatus writes a flight's resolved status
func (s *Store) SetFlightStatus(
	caller string,
	key []byte,
	status StatusCode,
	txn *database.Txn,
) error {
	owned := false
	if txn == nil {
		txn = s.db.Transaction(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := s.checkMutator(caller, txn); err != nil {
		return err
	}
	if err := s.db.SetFlightStatus(key, uint8(status), txn); err != nil {
		if errors.Is(err, models.ErrFlightNotFound) {
			return ErrFlightNotFound
		}
		return err
	}
	if _, err := s.db.AppendReceipt(
		"flight.status",
		caller,
		map[string]string{
			"flight": hex.EncodeToString(key),
			"status": status.String(),
		},
		txn,
	); err != nil {
		return err
	}
	if owned {
		return txn.Commit()
	}
	return nil
}

// GetPurchase returns a passenger's insurance position on a flight
func (s *Store) GetPurchase(
	flightKey []byte,
	passenger string,
	txn *database.Txn,
) (*models.Purchase, error) {
	ret, err := s.db.GetPurchase(flightKey, passenger, txn)
	if err != nil {
		if errors.Is(err, models.ErrPurchaseNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}
	return ret, nil
}

// GetPurchasesByFlight returns all insurance positions on a flight
func (s *Store) GetPurchasesByFlight(
	flightKey []byte,
	txn *database.Txn,
) ([]models.Purchase, error) {
	return s.db.GetPurchasesByFlight(flightKey, txn)
}

// Buy records an insurance purchase and adds the premium to the pool
func (s *Store) Buy(
	caller string,
	passenger string,
	flightKey []byte,
	amount uint64,
	txn *database.Txn,
) error {
	owned := false
	if txn == nil {
		txn = s.db.Transaction(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := s.checkMutator(caller, txn); err != nil {
		return err
	}
	existing, err := s.db.GetPurchase(flightKey, passenger, txn)
	if err != nil && !errors.Is(err, models.ErrPurchaseNotFound) {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: %s", ErrPurchaseExists, passenger)
	}
	purchase := &models.Purchase{
		FlightKey: flightKey,
		Passenger: passenger,
		Balance:   types.Uint64(amount),
	}
	if err := s.db.SetPurchase(purchase, txn); err != nil {
		return err
	}
	if err := s.addPool(amount, txn); err != nil {
		return err
	}
	if _, err := s.db.AppendReceipt(
		"insurance.buy",
		caller,
		map[string]string{
			"flight":    hex.EncodeToString(flightKey),
			"passenger": passenger,
			"amount":    strconv.FormatUint(amount, 10),
		},
		txn,
	); err != nil {
		return err
	}
	if owned {
		return txn.Commit()
	}
	return nil
}

// CreditInsuree sets the payout owed on an insurance position
func (s *Store) CreditInsuree(
	caller string,
	passenger string,
	flightKey []byte,
	amount uint64,
	txn *database.Txn,
) error {
	owned := false
	if txn == nil {
		txn = s.db.Transaction(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := s.checkMutator(caller, txn); err != nil {
		return err
	}
	purchase, err := s.GetPurchase(flightKey, passenger, txn)
	if err != nil {
		return err
	}
	if err := s.db.SetPurchaseCredit(
		purchase.ID,
		types.Uint64(amount),
		txn,
	); err != nil {
		return err
	}
	if _, err := s.db.AppendReceipt(
		"insurance.credit",
		caller,
		map[string]string{
			"flight":    hex.EncodeToString(flightKey),
			"passenger": passenger,
			"amount":    strconv.FormatUint(amount, 10),
		},
		txn,
	); err != nil {
		return err
	}
	if owned {
		return txn.Commit()
	}
	return nil
}

// Withdraw pays out a passenger's insurance credit. The credit is zeroed
// before the outward transfer is recorded, so a reentrant call cannot
// observe a stale balance. Returns the amount paid out.
func (s *Store) Withdraw(
	caller string,
	passenger string,
	flightKey []byte,
	txn *database.Txn,
) (uint64, error) {
	owned := false
	if txn == nil {
		txn = s.db.Transaction(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := s.checkMutator(caller, txn); err != nil {
		return 0, err
	}
	purchase, err := s.GetPurchase(flightKey, passenger, txn)
	if err != nil {
		return 0, err
	}
	amount := uint64(purchase.Credit)
	if amount == 0 {
		return 0, ErrNoCredit
	}
	// Zero the credit before recording the outward transfer
	if err := s.db.SetPurchaseCredit(purchase.ID, 0, txn); err != nil {
		return 0, err
	}
	if err := s.subPool(amount, txn); err != nil {
		return 0, err
	}
	if _, err := s.db.AppendReceipt(
		"insurance.withdraw",
		caller,
		map[string]string{
			"flight":    hex.EncodeToString(flightKey),
			"passenger": passenger,
			"amount":    strconv.FormatUint(amount, 10),
		},
		txn,
	); err != nil {
		return 0, err
	}
	if owned {
		if err := txn.Commit(); err != nil {
			return 0, err
		}
		s.metrics.payoutsTotal.Inc()
		s.logger.Info(
			"insurance payout withdrawn",
			"passenger", passenger,
			"amount", amount,
		)
		if s.eventBus != nil {
			s.eventBus.Publish(
				PayoutEventType,
				event.NewEvent(
					PayoutEventType,
					PayoutEvent{
						Passenger: passenger,
						FlightKey: flightKey,
						Amount:    amount,
					},
				),
			)
		}
	}
	return amount, nil
}

// GetOracle returns a registered oracle by address
func (s *Store) GetOracle(
	address string,
	txn *database.Txn,
) (*models.Oracle, error) {
	ret, err := s.db.GetOracle(address, txn)
	if err != nil {
		if errors.Is(err, models.ErrOracleNotFound) {
			return nil, ErrOracleNotFound
		}
		return nil, err
	}
	return ret, nil
}

// RegisterOracle records a new oracle and adds its registration fee to
// the pool
func (s *Store) RegisterOracle(
	caller string,
	oracle *models.Oracle,
	txn *database.Txn,
) error {
	owned := false
	if txn == nil {
		txn = s.db.Transaction(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := s.checkMutator(caller, txn); err != nil {
		return err
	}
	existing, err := s.db.GetOracle(oracle.Address, txn)
	if err != nil && !errors.Is(err, models.ErrOracleNotFound) {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: %s", ErrOracleExists, oracle.Address)
	}
	if err := s.db.SetOracle(oracle, txn); err != nil {
		return err
	}
	if err := s.addPool(uint64(oracle.Fee), txn); err != nil {
		return err
	}
	if _, err := s.db.AppendReceipt(
		"oracle.register",
		caller,
		map[string]string{
			"oracle": oracle.Address,
			"indexes": fmt.Sprintf(
				"%d,%d,%d",
				oracle.Index0,
				oracle.Index1,
				oracle.Index2,
			),
		},
		txn,
	); err != nil {
		return err
	}
	if owned {
		return txn.Commit()
	}
	return nil
}

// GetStatusRequest returns a status request by key
func (s *Store) GetStatusRequest(
	key []byte,
	txn *database.Txn,
) (*models.StatusRequest, error) {
	ret, err := s.db.GetStatusRequest(key, txn)
	if err != nil {
		if errors.Is(err, models.ErrStatusRequestNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return ret, nil
}

// OpenStatusRequest records a new open status request
func (s *Store) OpenStatusRequest(
	caller string,
	request *models.StatusRequest,
	txn *database.Txn,
) error {
	owned := false
	if txn == nil {
		txn = s.db.Transaction(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := s.checkMutator(caller, txn); err != nil {
		return err
	}
	existing, err := s.db.GetStatusRequest(request.Key, txn)
	if err != nil && !errors.Is(err, models.ErrStatusRequestNotFound) {
		return err
	}
	if existing != nil {
		return fmt.Errorf(
			"%w: %s",
			ErrRequestExists,
			hex.EncodeToString(request.Key),
		)
	}
	if err := s.db.SetStatusRequest(request, txn); err != nil {
		return err
	}
	if _, err := s.db.AppendReceipt(
		"oracle.request",
		caller,
		map[string]string{
			"request":   hex.EncodeToString(request.Key),
			"index":     strconv.FormatUint(uint64(request.OracleIndex), 10),
			"airline":   request.Airline,
			"code":      request.Code,
			"departure": strconv.FormatUint(request.Departure, 10),
		},
		txn,
	); err != nil {
		return err
	}
	if owned {
		return txn.Commit()
	}
	return nil
}

// CloseStatusRequest marks a request as no longer accepting responses
func (s *Store) CloseStatusRequest(
	caller string,
	requestID uint,
	txn *database.Txn,
) error {
	owned := false
	if txn == nil {
		txn = s.db.Transaction(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := s.checkMutator(caller, txn); err != nil {
		return err
	}
	if err := s.db.CloseStatusRequest(requestID, txn); err != nil {
		return err
	}
	if owned {
		return txn.Commit()
	}
	return nil
}

// HasOracleResponse reports whether the oracle has already reported the
// status code on the request
func (s *Store) HasOracleResponse(
	requestID uint,
	status StatusCode,
	oracle string,
	txn *database.Txn,
) (bool, error) {
	return s.db.HasOracleResponse(requestID, uint8(status), oracle, txn)
}

// AddOracleResponse records one oracle's report for one status code
func (s *Store) AddOracleResponse(
	caller string,
	requestID uint,
	status StatusCode,
	oracle string,
	txn *database.Txn,
) error {
	owned := false
	if txn == nil {
		txn = s.db.Transaction(true)
		owned = true
		defer txn.Rollback() //nolint:errcheck
	}
	if err := s.checkMutator(caller, txn); err != nil {
		return err
	}
	if err := s.db.AddOracleResponse(
		requestID,
		uint8(status),
		oracle,
		txn,
	); err != nil {
		return err
	}
	if _, err := s.db.AppendReceipt(
		"oracle.response",
		caller,
		map[string]string{
			"request": strconv.FormatUint(uint64(requestID), 10),
			"oracle":  oracle,
			"status":  status.String(),
		},
		txn,
	); err != nil {
		return err
	}
	if owned {
		return txn.Commit()
	}
	return nil
}

// OracleResponseCount returns the number of distinct oracles that have
// reported the status code on the request
func (s *Store) OracleResponseCount(
	requestID uint,
	status StatusCode,
	txn *database.Txn,
) (uint64, error) {
	return s.db.GetOracleResponseCount(requestID, uint8(status), txn)
}
