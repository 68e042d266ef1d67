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

// Package oracleworker runs an in-process pool of oracle identities that
// watch for status requests and submit responses, standing in for the
// off-process oracle daemons of a production deployment. Used in dev mode
// and end-to-end tests.
package oracleworker

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	mrand "math/rand/v2"
	"sync"

	"github.com/blinklabs-io/contrail/event"
	"github.com/blinklabs-io/contrail/ledger"
	"github.com/blinklabs-io/contrail/oracle"
)

const DefaultWorkers = 20

// reportableStatuses are the codes a worker may draw when no fixed status
// is configured
var reportableStatuses = []ledger.StatusCode{
	ledger.StatusOnTime,
	ledger.StatusLateAirline,
	ledger.StatusLateWeather,
	ledger.StatusLateTechnical,
	ledger.StatusLateOther,
}

type PoolConfig struct {
	Logger   *slog.Logger
	EventBus *event.EventBus
	Engine   *oracle.Engine
	// Workers is the number of oracle identities to register. Zero means
	// the default.
	Workers int
	// Status fixes the status every worker reports. Zero (unknown) means
	// each response draws a random reportable status.
	Status ledger.StatusCode
}

type worker struct {
	address string
	indexes [3]uint8
}

type Pool struct {
	config   PoolConfig
	logger   *slog.Logger
	eventBus *event.EventBus
	engine   *oracle.Engine
	workers  []worker
	subId    event.EventSubscriberId
	mutex    sync.Mutex
	started  bool
}

func NewPool(cfg PoolConfig) *Pool {
	p := &Pool{
		config:   cfg,
		eventBus: cfg.EventBus,
		engine:   cfg.Engine,
	}
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		p.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	} else {
		p.logger = cfg.Logger.With("component", "oracleworker")
	}
	return p
}

// Start registers the worker oracles and subscribes to request events
func (p *Pool) Start() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.started {
		return nil
	}
	workers := p.config.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	for i := range workers {
		var suffix [4]byte
		if _, err := rand.Read(suffix[:]); err != nil {
			return err
		}
		address := fmt.Sprintf(
			"oracle-%d-%s",
			i,
			hex.EncodeToString(suffix[:]),
		)
		indexes, err := p.engine.Register(
			address,
			ledger.OracleRegistrationFee,
		)
		if err != nil {
			return fmt.Errorf("failed to register worker oracle: %w", err)
		}
		p.workers = append(p.workers, worker{
			address: address,
			indexes: indexes,
		})
	}
	p.subId = p.eventBus.SubscribeFunc(
		oracle.RequestEventType,
		p.handleRequestEvent,
	)
	p.started = true
	p.logger.Info(
		"oracle worker pool started",
		"workers", len(p.workers),
	)
	return nil
}

// Stop unsubscribes from request events. Worker oracle registrations
// persist; they are inert without the subscription.
func (p *Pool) Stop() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if !p.started {
		return
	}
	p.eventBus.Unsubscribe(oracle.RequestEventType, p.subId)
	p.started = false
	p.logger.Info("oracle worker pool stopped")
}

func (p *Pool) handleRequestEvent(evt event.Event) {
	data, ok := evt.Data.(oracle.RequestEvent)
	if !ok {
		return
	}
	p.mutex.Lock()
	workers := p.workers
	p.mutex.Unlock()
	for _, w := range workers {
		if data.Index != w.indexes[0] &&
			data.Index != w.indexes[1] &&
			data.Index != w.indexes[2] {
			continue
		}
		status := p.drawStatus()
		err := p.engine.SubmitResponse(
			w.address,
			data.Index,
			data.Airline,
			data.Code,
			data.Departure,
			status,
		)
		if err != nil {
			// Late responses against a resolved request are expected
			var closedErr oracle.RequestClosedError
			if errors.As(err, &closedErr) ||
				errors.Is(err, oracle.ErrDuplicateResponse) {
				p.logger.Debug(
					"response not accepted",
					"oracle", w.address,
					"error", err,
				)
				continue
			}
			p.logger.Error(
				"failed to submit oracle response",
				"oracle", w.address,
				"error", err,
			)
		}
	}
}

func (p *Pool) drawStatus() ledger.StatusCode {
	if p.config.Status != ledger.StatusUnknown {
		return p.config.Status
	}
	return reportableStatuses[mrand.IntN(len(reportableStatuses))]
}
