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

// Package admission implements the airline admission state machine. A
// candidate moves Unregistered to Registered directly while the fleet is
// below the voting threshold, and through a Pending majority vote once at
// or above it.
package admission

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

// VotingThreshold is the fleet size at which direct registration stops and
// majority voting begins
const VotingThreshold = 4

const DefaultCallerID = "admission-controller"

type ControllerConfig struct {
	Logger   *slog.Logger
	EventBus *event.EventBus
	Store    *ledger.Store
	// ID is the identity the controller presents to the ledger store. It
	// must be in the store's authorized caller table.
	ID string
}

type Controller struct {
	config   ControllerConfig
	logger   *slog.Logger
	eventBus *event.EventBus
	store    *ledger.Store
	id       string
	mutex    sync.Mutex
}

func NewController(cfg ControllerConfig) *Controller {
	c := &Controller{
		config:   cfg,
		eventBus: cfg.EventBus,
		store:    cfg.Store,
		id:       cfg.ID,
	}
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		c.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	} else {
		c.logger = cfg.Logger.With("component", "admission")
	}
	if c.id == "" {
		c.id = DefaultCallerID
	}
	return c
}

// Bootstrap registers the first airline unconditionally. It only succeeds
// against an empty airline table.
func (c *Controller) Bootstrap(candidate string, name string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	count, err := c.store.AirlineCount(nil)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrBootstrapDone
	}
	if err := c.store.RegisterAirline(c.id, candidate, name, nil); err != nil {
		return err
	}
	c.logger.Info(
		"bootstrap airline registered",
		"airline", candidate,
		"name", name,
	)
	c.publishAdmitted(candidate, name, 0)
	return nil
}

// RegisterAirline proposes a candidate airline. The caller must be a
// registered, funded airline. Below the voting threshold the candidate is
// admitted immediately; otherwise it enters the admission queue with an
// empty vote set.
func (c *Controller) RegisterAirline(
	caller string,
	candidate string,
	name string,
) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if err := c.requireFundedAirline(caller); err != nil {
		return err
	}
	registered, err := c.store.IsAirlineRegistered(candidate, nil)
	if err != nil {
		return err
	}
	if registered {
		return ErrAlreadyRegistered
	}
	pending, err := c.store.GetPendingAirline(candidate, nil)
	if err != nil && !errors.Is(err, models.ErrPendingAirlineNotFound) {
		return err
	}
	if pending != nil {
		return ErrAlreadyPending
	}
	count, err := c.store.AirlineCount(nil)
	if err != nil {
		return err
	}
	if count < VotingThreshold {
		if err := c.store.RegisterAirline(c.id, candidate, name, nil); err != nil {
			return err
		}
		c.logger.Info(
			"airline admitted directly",
			"airline", candidate,
			"proposer", caller,
		)
		c.publishAdmitted(candidate, name, 0)
		return nil
	}
	if _, err := c.store.AddPendingAirline(c.id, candidate, name, nil); err != nil {
		return err
	}
	c.logger.Info(
		"airline admission pending",
		"candidate", candidate,
		"proposer", caller,
	)
	if c.eventBus != nil {
		c.eventBus.Publish(
			PendingEventType,
			event.NewEvent(
				PendingEventType,
				PendingEvent{
					Candidate: candidate,
					Name:      name,
					Proposer:  caller,
				},
			),
		)
	}
	return nil
}

// VoteForAirline records a vote for a pending candidate and admits it when
// the vote count strictly exceeds half the funded airline count. Returns
// the vote count and whether the candidate was admitted.
func (c *Controller) VoteForAirline(
	caller string,
	candidate string,
) (uint64, bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if err := c.requireFundedAirline(caller); err != nil {
		return 0, false, err
	}
	pending, err := c.store.GetPendingAirline(candidate, nil)
	if err != nil {
		if errors.Is(err, models.ErrPendingAirlineNotFound) {
			return 0, false, ErrCandidateNotFound
		}
		return 0, false, err
	}
	count, err := c.store.AirlineCount(nil)
	if err != nil {
		return 0, false, err
	}
	if count < VotingThreshold {
		return 0, false, ErrVotingNotOpen
	}
	var votes uint64
	var admitted bool
	txn := c.store.Transaction(true)
	err = txn.Do(func(txn *database.Txn) error {
		voted, err := c.store.HasVote(pending.ID, caller, txn)
		if err != nil {
			return err
		}
		if voted {
			return ErrDuplicateVote
		}
		if err := c.store.RecordVote(c.id, pending.ID, caller, txn); err != nil {
			return err
		}
		votes, err = c.store.VoteCount(pending.ID, txn)
		if err != nil {
			return err
		}
		funded, err := c.store.FundedAirlineCount(txn)
		if err != nil {
			return err
		}
		// Admission requires strictly more than half the funded fleet
		if votes > funded/2 {
			if err := c.store.RegisterAirline(
				c.id,
				candidate,
				pending.Name,
				txn,
			); err != nil {
				return err
			}
			if err := c.store.RemovePendingAirline(c.id, pending, txn); err != nil {
				return err
			}
			admitted = true
		}
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	c.logger.Info(
		"admission vote recorded",
		"candidate", candidate,
		"voter", caller,
		"votes", votes,
		"admitted", admitted,
	)
	if admitted {
		c.publishAdmitted(candidate, pending.Name, votes)
	}
	return votes, admitted, nil
}

// FundAirline contributes to the caller's own participation fund
func (c *Controller) FundAirline(caller string, amount uint64) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.store.FundAirline(c.id, caller, amount, nil)
}

func (c *Controller) requireFundedAirline(caller string) error {
	airline, err := c.store.GetAirline(caller, nil)
	if err != nil {
		if errors.Is(err, ledger.ErrAirlineNotFound) {
			return ErrCallerNotFunded
		}
		return err
	}
	if !airline.Registered || !airline.Funded {
		return ErrCallerNotFunded
	}
	return nil
}

func (c *Controller) publishAdmitted(
	candidate string,
	name string,
	votes uint64,
) {
	if c.eventBus == nil {
		return
	}
	c.eventBus.Publish(
		AdmittedEventType,
		event.NewEvent(
			AdmittedEventType,
			AdmittedEvent{
				Candidate: candidate,
				Name:      name,
				Votes:     votes,
			},
		),
	)
}
