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

// Package oracle implements the consensus engine that resolves real-world
// flight status from mutually distrusting reporters. Each registered
// oracle holds three assigned indexes; a request only accepts responses
// from oracles assigned its drawn index, and resolves when one status code
// reaches quorum.
package oracle

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/blinklabs-io/contrail/database"
	"github.com/blinklabs-io/contrail/database/models"
	"github.com/blinklabs-io/contrail/database/types"
	"github.com/blinklabs-io/contrail/event"
	"github.com/blinklabs-io/contrail/ledger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	DefaultCallerID = "oracle-engine"

	// DefaultMinResponses is the quorum size for resolving a status
	DefaultMinResponses = 3
)

// ErrInvalidStatus is returned for a response with an unknown status code
var ErrInvalidStatus = errors.New("invalid status code")

// StatusProcessor settles insurance positions once a flight status
// resolves. Implemented by the insurance registry.
type StatusProcessor interface {
	ProcessFlightStatus(
		airline string,
		code string,
		departure uint64,
		status ledger.StatusCode,
	) error
}

type EngineConfig struct {
	Logger       *slog.Logger
	EventBus     *event.EventBus
	PromRegistry prometheus.Registerer
	Store        *ledger.Store
	Indexer      RandomIndexSource
	Processor    StatusProcessor
	// ID is the identity the engine presents to the ledger store. It
	// must be in the store's authorized caller table.
	ID string
	// MinResponses overrides the quorum size. Zero means the default.
	MinResponses uint64
}

type Engine struct {
	config       EngineConfig
	logger       *slog.Logger
	eventBus     *event.EventBus
	store        *ledger.Store
	indexer      RandomIndexSource
	processor    StatusProcessor
	id           string
	minResponses uint64
	mutex        sync.Mutex
	metrics      struct {
		oraclesRegistered prometheus.Gauge
		requestsOpen      prometheus.Gauge
		responsesTotal    prometheus.Counter
		resolutionsTotal  prometheus.Counter
	}
}

func NewEngine(cfg EngineConfig) (*Engine, error) {
	e := &Engine{
		config:       cfg,
		eventBus:     cfg.EventBus,
		store:        cfg.Store,
		indexer:      cfg.Indexer,
		processor:    cfg.Processor,
		id:           cfg.ID,
		minResponses: cfg.MinResponses,
	}
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		e.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	} else {
		e.logger = cfg.Logger.With("component", "oracle")
	}
	if e.id == "" {
		e.id = DefaultCallerID
	}
	if e.minResponses == 0 {
		e.minResponses = DefaultMinResponses
	}
	if e.indexer == nil {
		indexer, err := NewHashIndexSource()
		if err != nil {
			return nil, err
		}
		e.indexer = indexer
	}
	promautoFactory := promauto.With(cfg.PromRegistry)
	e.metrics.oraclesRegistered = promautoFactory.NewGauge(
		prometheus.GaugeOpts{
			Name: "contrail_oracle_registered",
			Help: "Number of registered oracles",
		},
	)
	e.metrics.requestsOpen = promautoFactory.NewGauge(prometheus.GaugeOpts{
		Name: "contrail_oracle_requests_open",
		Help: "Number of open status requests",
	})
	e.metrics.responsesTotal = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "contrail_oracle_responses_total",
			Help: "Total number of accepted oracle responses",
		},
	)
	e.metrics.resolutionsTotal = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "contrail_oracle_resolutions_total",
			Help: "Total number of status requests resolved by quorum",
		},
	)
	return e, nil
}

// Register admits a new oracle and assigns its index triple. The fee joins
// the insurance pool; assignments are immutable afterward.
func (e *Engine) Register(caller string, fee uint64) ([3]uint8, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	var ret [3]uint8
	if fee < ledger.OracleRegistrationFee {
		return ret, NewFeeTooLowError(fee, ledger.OracleRegistrationFee)
	}
	indexes, err := e.indexer.IndexTriple(caller)
	if err != nil {
		return ret, err
	}
	oracle := &models.Oracle{
		Address: caller,
		Index0:  indexes[0],
		Index1:  indexes[1],
		Index2:  indexes[2],
		Fee:     types.Uint64(fee),
	}
	if err := e.store.RegisterOracle(e.id, oracle, nil); err != nil {
		return ret, err
	}
	e.metrics.oraclesRegistered.Inc()
	e.logger.Info(
		"oracle registered",
		"oracle", caller,
		"indexes", fmt.Sprintf("%v", indexes),
	)
	return indexes, nil
}

// Indexes returns an oracle's assigned index triple
func (e *Engine) Indexes(caller string) ([3]uint8, error) {
	var ret [3]uint8
	oracle, err := e.store.GetOracle(caller, nil)
	if err != nil {
		return ret, err
	}
	ret = [3]uint8{oracle.Index0, oracle.Index1, oracle.Index2}
	return ret, nil
}

// FetchFlightStatus opens a status request for a registered flight and
// publishes the request event observed by oracle workers. Returns the
// drawn index that selects which oracles may respond.
func (e *Engine) FetchFlightStatus(
	caller string,
	airline string,
	code string,
	departure uint64,
) (uint8, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	// Requests for unknown flights could never settle, so fail fast
	if _, err := e.store.GetFlight(
		ledger.FlightKey(airline, code, departure),
		nil,
	); err != nil {
		return 0, err
	}
	index, err := e.indexer.Index(caller)
	if err != nil {
		return 0, err
	}
	request := &models.StatusRequest{
		Key:         ledger.RequestKey(index, airline, code, departure),
		OracleIndex: index,
		Airline:     airline,
		Code:        code,
		Departure:   departure,
		Requester:   caller,
		Open:        true,
	}
	if err := e.store.OpenStatusRequest(e.id, request, nil); err != nil {
		return 0, err
	}
	e.metrics.requestsOpen.Inc()
	e.logger.Info(
		"status request opened",
		"index", index,
		"airline", airline,
		"code", code,
		"departure", departure,
	)
	if e.eventBus != nil {
		e.eventBus.Publish(
			RequestEventType,
			event.NewEvent(
				RequestEventType,
				RequestEvent{
					Index:     index,
					Airline:   airline,
					Code:      code,
					Departure: departure,
				},
			),
		)
	}
	return index, nil
}

// SubmitResponse records an oracle's report for an open request. The
// response set for the reported status reaching quorum closes the request
// and triggers settlement exactly once; responses arriving after the close
// are rejected. Quorum is per status code, so split reports never resolve.
// A quorum on a flight that a parallel request already settled closes the
// request without settling again.
func (e *Engine) SubmitResponse(
	caller string,
	index uint8,
	airline string,
	code string,
	departure uint64,
	status ledger.StatusCode,
) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if !status.Valid() || status == ledger.StatusUnknown {
		return ErrInvalidStatus
	}
	oracle, err := e.store.GetOracle(caller, nil)
	if err != nil {
		return err
	}
	assigned := [3]uint8{oracle.Index0, oracle.Index1, oracle.Index2}
	if index != assigned[0] && index != assigned[1] && index != assigned[2] {
		return NewIndexMismatchError(index, assigned)
	}
	key := ledger.RequestKey(index, airline, code, departure)
	request, err := e.store.GetStatusRequest(key, nil)
	if err != nil {
		return err
	}
	if !request.Open {
		return NewRequestClosedError(key)
	}
	duplicate, err := e.store.HasOracleResponse(
		request.ID,
		status,
		caller,
		nil,
	)
	if err != nil {
		return err
	}
	if duplicate {
		return ErrDuplicateResponse
	}
	var responses uint64
	var resolved, alreadyFinal bool
	txn := e.store.Transaction(true)
	err = txn.Do(func(txn *database.Txn) error {
		if err := e.store.AddOracleResponse(
			e.id,
			request.ID,
			status,
			caller,
			txn,
		); err != nil {
			return err
		}
		responses, err = e.store.OracleResponseCount(request.ID, status, txn)
		if err != nil {
			return err
		}
		if responses >= e.minResponses {
			if err := e.store.CloseStatusRequest(
				e.id,
				request.ID,
				txn,
			); err != nil {
				return err
			}
			resolved = true
			// A parallel request on the same flight may have settled it
			// already under a different drawn index. The close stands
			// but settlement must not run twice.
			flight, err := e.store.GetFlight(
				ledger.FlightKey(airline, code, departure),
				txn,
			)
			if err != nil {
				return err
			}
			alreadyFinal = ledger.StatusCode(flight.Status) != ledger.StatusUnknown
		}
		return nil
	})
	if err != nil {
		return err
	}
	if resolved && !alreadyFinal && e.processor != nil {
		if err := e.processor.ProcessFlightStatus(
			airline,
			code,
			departure,
			status,
		); err != nil {
			return fmt.Errorf("failed to process flight status: %w", err)
		}
	}
	e.metrics.responsesTotal.Inc()
	if resolved {
		e.metrics.requestsOpen.Dec()
		e.metrics.resolutionsTotal.Inc()
	}
	e.logger.Info(
		"oracle response accepted",
		"oracle", caller,
		"index", index,
		"status", status.String(),
		"responses", responses,
		"resolved", resolved,
	)
	if resolved && alreadyFinal {
		e.logger.Info(
			"flight already settled by an earlier request",
			"airline", airline,
			"code", code,
			"departure", departure,
		)
	}
	if e.eventBus != nil {
		e.eventBus.Publish(
			ReportEventType,
			event.NewEvent(
				ReportEventType,
				ReportEvent{
					Oracle:    caller,
					Airline:   airline,
					Code:      code,
					Departure: departure,
					Status:    status,
					Responses: responses,
					Resolved:  resolved,
				},
			),
		)
	}
	return nil
}
