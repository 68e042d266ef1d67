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

// Package insurance implements flight registration, bounded insurance
// purchases, and payout settlement on qualifying delay status.
package insurance

import (
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/blinklabs-io/contrail/database"
	"github.com/blinklabs-io/contrail/database/models"
	"github.com/blinklabs-io/contrail/event"
	"github.com/blinklabs-io/contrail/ledger"
)

const DefaultCallerID = "insurance-registry"

type RegistryConfig struct {
	Logger   *slog.Logger
	EventBus *event.EventBus
	Store    *ledger.Store
	// ID is the identity the registry presents to the ledger store. It
	// must be in the store's authorized caller table.
	ID string
}

type Registry struct {
	config   RegistryConfig
	logger   *slog.Logger
	eventBus *event.EventBus
	store    *ledger.Store
	id       string
	mutex    sync.Mutex
}

func NewRegistry(cfg RegistryConfig) *Registry {
	r := &Registry{
		config:   cfg,
		eventBus: cfg.EventBus,
		store:    cfg.Store,
		id:       cfg.ID,
	}
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		r.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	} else {
		r.logger = cfg.Logger.With("component", "insurance")
	}
	if r.id == "" {
		r.id = DefaultCallerID
	}
	return r
}

// RegisterFlight records a flight under the caller's identity and returns
// its key. The caller is not required to be a registered airline; any
// address can register a flight under its own identity.
func (r *Registry) RegisterFlight(
	caller string,
	code string,
	departure uint64,
) ([]byte, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	key := ledger.FlightKey(caller, code, departure)
	existing, err := r.store.GetFlight(key, nil)
	if err != nil && !errors.Is(err, ledger.ErrFlightNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateFlight
	}
	flight := &models.Flight{
		Key:       key,
		Airline:   caller,
		Code:      code,
		Departure: departure,
		Status:    uint8(ledger.StatusUnknown),
	}
	if err := r.store.RegisterFlight(r.id, flight, nil); err != nil {
		return nil, err
	}
	r.logger.Info(
		"flight registered",
		"airline", caller,
		"code", code,
		"departure", departure,
	)
	return key, nil
}

// Flight returns a registered flight
func (r *Registry) Flight(
	airline string,
	code string,
	departure uint64,
) (*models.Flight, error) {
	return r.store.GetFlight(ledger.FlightKey(airline, code, departure), nil)
}

// BuyInsurance records a passenger's insurance purchase on a registered
// flight. The premium must be positive and within the cap; one purchase
// per passenger per flight.
func (r *Registry) BuyInsurance(
	passenger string,
	airline string,
	code string,
	departure uint64,
	premium uint64,
) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if premium == 0 {
		return ErrNoPremium
	}
	if premium > ledger.MaxInsurancePremium {
		return NewPremiumTooHighError(premium, ledger.MaxInsurancePremium)
	}
	key := ledger.FlightKey(airline, code, departure)
	if _, err := r.store.GetFlight(key, nil); err != nil {
		return err
	}
	if err := r.store.Buy(r.id, passenger, key, premium, nil); err != nil {
		if errors.Is(err, ledger.ErrPurchaseExists) {
			return ErrAlreadyInsured
		}
		return err
	}
	r.logger.Info(
		"insurance purchased",
		"passenger", passenger,
		"airline", airline,
		"code", code,
		"premium", premium,
	)
	if r.eventBus != nil {
		r.eventBus.Publish(
			PurchasedEventType,
			event.NewEvent(
				PurchasedEventType,
				PurchasedEvent{
					Passenger: passenger,
					Airline:   airline,
					Code:      code,
					Departure: departure,
					Premium:   premium,
				},
			),
		)
	}
	return nil
}

// ProcessFlightStatus finalizes a flight's status. Invoked by the oracle
// engine after quorum. A late-airline status credits every insurance
// position on the flight at half its paid premium, all within the same
// transaction as the status write.
func (r *Registry) ProcessFlightStatus(
	airline string,
	code string,
	departure uint64,
	status ledger.StatusCode,
) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if !status.Valid() || status == ledger.StatusUnknown {
		return ErrInvalidStatus
	}
	key := ledger.FlightKey(airline, code, departure)
	flight, err := r.store.GetFlight(key, nil)
	if err != nil {
		return err
	}
	if ledger.StatusCode(flight.Status) != ledger.StatusUnknown {
		return ErrStatusAlreadyFinal
	}
	var credited []CreditedEvent
	txn := r.store.Transaction(true)
	err = txn.Do(func(txn *database.Txn) error {
		if err := r.store.SetFlightStatus(r.id, key, status, txn); err != nil {
			return err
		}
		if status != ledger.StatusLateAirline {
			return nil
		}
		purchases, err := r.store.GetPurchasesByFlight(key, txn)
		if err != nil {
			return err
		}
		for _, purchase := range purchases {
			amount := uint64(purchase.Balance) / 2
			if amount == 0 {
				continue
			}
			if err := r.store.CreditInsuree(
				r.id,
				purchase.Passenger,
				key,
				amount,
				txn,
			); err != nil {
				return err
			}
			credited = append(credited, CreditedEvent{
				Passenger: purchase.Passenger,
				FlightKey: key,
				Amount:    amount,
			})
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.logger.Info(
		"flight status resolved",
		"airline", airline,
		"code", code,
		"departure", departure,
		"status", status.String(),
		"credited", len(credited),
	)
	if r.eventBus != nil {
		r.eventBus.Publish(
			FlightStatusEventType,
			event.NewEvent(
				FlightStatusEventType,
				FlightStatusEvent{
					Airline:   airline,
					Code:      code,
					Departure: departure,
					Status:    status,
				},
			),
		)
		for _, evt := range credited {
			r.eventBus.Publish(
				CreditedEventType,
				event.NewEvent(CreditedEventType, evt),
			)
		}
	}
	return nil
}

// Withdraw pays out the caller's insurance credit on a flight and returns
// the amount transferred
func (r *Registry) Withdraw(
	passenger string,
	airline string,
	code string,
	departure uint64,
) (uint64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	key := ledger.FlightKey(airline, code, departure)
	return r.store.Withdraw(r.id, passenger, key, nil)
}
