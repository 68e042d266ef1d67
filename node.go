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

// Package contrail assembles the flight delay insurance components: the
// ledger store, the admission controller, the insurance registry, and the
// oracle consensus engine, wired together over an in-process event bus.
package contrail

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blinklabs-io/contrail/admission"
	"github.com/blinklabs-io/contrail/database"
	"github.com/blinklabs-io/contrail/event"
	"github.com/blinklabs-io/contrail/insurance"
	"github.com/blinklabs-io/contrail/ledger"
	"github.com/blinklabs-io/contrail/oracle"
	"github.com/blinklabs-io/contrail/oracleworker"
)

type Node struct {
	config        Config
	eventBus      *event.EventBus
	db            *database.Database
	store         *ledger.Store
	admission     *admission.Controller
	insurance     *insurance.Registry
	oracle        *oracle.Engine
	workerPool    *oracleworker.Pool
	shutdownFuncs []func(context.Context) error
	done          chan struct{}
	shutdownOnce  sync.Once
}

func New(cfg Config) (*Node, error) {
	eventBus := event.NewEventBus(cfg.promRegistry, cfg.logger)
	n := &Node{
		config:   cfg,
		eventBus: eventBus,
		done:     make(chan struct{}),
	}
	if err := n.configValidate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return n, nil
}

// Run assembles and starts the node, then blocks until the context is
// canceled or Stop is called
func (n *Node) Run(ctx context.Context) error {
	// Configure tracing
	if n.config.tracing {
		if err := n.setupTracing(); err != nil {
			return err
		}
	}
	// Load database
	db, err := database.New(&database.Config{
		DataDir:      n.config.dataDir,
		Logger:       n.config.logger,
		PromRegistry: n.config.promRegistry,
	})
	if db == nil {
		return errors.New("empty database returned")
	}
	n.db = db
	if err != nil {
		var dbErr database.CommitTimestampError
		if errors.As(err, &dbErr) {
			return fmt.Errorf(
				"database needs recovery from partial commit: %w",
				err,
			)
		}
		return fmt.Errorf("failed to open database: %w", err)
	}
	// Load ledger store
	store, err := ledger.NewStore(ledger.StoreConfig{
		Logger:       n.config.logger,
		EventBus:     n.eventBus,
		PromRegistry: n.config.promRegistry,
		Database:     n.db,
		Owner:        n.config.owner,
	})
	if err != nil {
		return fmt.Errorf("failed to load ledger store: %w", err)
	}
	n.store = store
	// Authorize component identities for privileged store mutators
	for _, id := range []string{
		admission.DefaultCallerID,
		insurance.DefaultCallerID,
		oracle.DefaultCallerID,
	} {
		if err := n.store.AuthorizeCaller(n.store.Owner(), id); err != nil {
			return fmt.Errorf("failed to authorize caller: %w", err)
		}
	}
	// Initialize admission controller
	n.admission = admission.NewController(admission.ControllerConfig{
		Logger:   n.config.logger,
		EventBus: n.eventBus,
		Store:    n.store,
		ID:       admission.DefaultCallerID,
	})
	// Initialize insurance registry
	n.insurance = insurance.NewRegistry(insurance.RegistryConfig{
		Logger:   n.config.logger,
		EventBus: n.eventBus,
		Store:    n.store,
		ID:       insurance.DefaultCallerID,
	})
	// Initialize oracle engine with the insurance registry as its
	// settlement processor
	engine, err := oracle.NewEngine(oracle.EngineConfig{
		Logger:       n.config.logger,
		EventBus:     n.eventBus,
		PromRegistry: n.config.promRegistry,
		Store:        n.store,
		Indexer:      n.config.indexSource,
		Processor:    n.insurance,
		ID:           oracle.DefaultCallerID,
		MinResponses: n.config.minResponses,
	})
	if err != nil {
		return fmt.Errorf("failed to load oracle engine: %w", err)
	}
	n.oracle = engine
	// Register bootstrap airline
	if n.config.bootstrapAirline != "" {
		err := n.admission.Bootstrap(
			n.config.bootstrapAirline,
			n.config.bootstrapAirlineName,
		)
		if err != nil && !errors.Is(err, admission.ErrBootstrapDone) {
			return fmt.Errorf("failed to bootstrap airline: %w", err)
		}
	}
	// Start oracle worker pool in dev mode
	if n.config.isDevMode() {
		n.workerPool = oracleworker.NewPool(oracleworker.PoolConfig{
			Logger:   n.config.logger,
			EventBus: n.eventBus,
			Engine:   n.oracle,
			Workers:  n.config.oracleWorkers,
			Status:   n.config.oracleWorkerStatus,
		})
		if err := n.workerPool.Start(); err != nil {
			return fmt.Errorf("failed to start oracle worker pool: %w", err)
		}
	}

	// Wait for shutdown
	select {
	case <-ctx.Done():
		return nil
	case <-n.done:
		return nil
	}
}

func (n *Node) Stop() error {
	var err error
	n.shutdownOnce.Do(func() {
		err = n.shutdown()
	})
	return err
}

func (n *Node) shutdown() error {
	// Create shutdown context with timeout (default 30s if not configured)
	shutdownTimeout := 30 * time.Second
	if n.config.shutdownTimeout > 0 {
		shutdownTimeout = n.config.shutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var err error

	n.config.logger.Debug("starting graceful shutdown")

	// Stop accepting new oracle work
	if n.workerPool != nil {
		n.workerPool.Stop()
	}

	// Call registered shutdown functions
	for _, fn := range n.shutdownFuncs {
		if fnErr := fn(ctx); fnErr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown function: %w", fnErr))
		}
	}
	n.shutdownFuncs = nil

	// Stop event delivery
	if n.eventBus != nil {
		n.eventBus.Stop()
	}

	// Close database last so in-flight operations flush
	if n.db != nil {
		if closeErr := n.db.Close(); closeErr != nil {
			err = errors.Join(
				err,
				fmt.Errorf("database close: %w", closeErr),
			)
		}
	}

	n.config.logger.Debug("graceful shutdown complete")
	close(n.done)
	return err
}

// EventBus returns the node's event bus
func (n *Node) EventBus() *event.EventBus {
	return n.eventBus
}

// Database returns the underlying database
func (n *Node) Database() *database.Database {
	return n.db
}

// Ledger returns the ledger store
func (n *Node) Ledger() *ledger.Store {
	return n.store
}

// Admission returns the admission controller
func (n *Node) Admission() *admission.Controller {
	return n.admission
}

// Insurance returns the insurance registry
func (n *Node) Insurance() *insurance.Registry {
	return n.insurance
}

// Oracle returns the oracle consensus engine
func (n *Node) Oracle() *oracle.Engine {
	return n.oracle
}
