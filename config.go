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
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/blinklabs-io/contrail/ledger"
	"github.com/blinklabs-io/contrail/oracle"
	"github.com/prometheus/client_golang/prometheus"
)

// runMode constants for operational mode configuration
const (
	runModeServe = "serve"
	runModeDev   = "dev"
)

const DefaultOwner = "owner"

type Config struct {
	promRegistry         prometheus.Registerer
	logger               *slog.Logger
	indexSource          oracle.RandomIndexSource
	dataDir              string
	owner                string
	bootstrapAirline     string
	bootstrapAirlineName string
	runMode              string
	minResponses         uint64
	oracleWorkers        int
	oracleWorkerStatus   ledger.StatusCode
	tracing              bool
	tracingStdout        bool
	shutdownTimeout      time.Duration
}

// isDevMode returns true if running in development mode
func (c *Config) isDevMode() bool {
	return c.runMode == runModeDev
}

func (n *Node) configValidate() error {
	switch n.config.runMode {
	case "", runModeServe, runModeDev:
	default:
		return fmt.Errorf("unknown run mode: %s", n.config.runMode)
	}
	if n.config.minResponses == 1 {
		// A quorum of one is allowed for development use
		n.config.logger.Warn("oracle quorum of 1 configured")
	}
	return nil
}

// ConfigOptionFunc is a type that represents functions that modify the node config
type ConfigOptionFunc func(*Config)

// NewConfig creates a new contrail config with the specified options
func NewConfig(opts ...ConfigOptionFunc) Config {
	c := Config{
		// Default logger will throw away logs
		// We do this so we don't have to add guards around every log operation
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
		owner:  DefaultOwner,
	}
	// Apply options
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithLogger specifies the logger to use. The default is to discard log output.
func WithLogger(logger *slog.Logger) ConfigOptionFunc {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithDatabasePath specifies the persistent data directory to use. The default is to store everything in memory
func WithDatabasePath(dataDir string) ConfigOptionFunc {
	return func(c *Config) {
		c.dataDir = dataDir
	}
}

// WithPrometheusRegistry specifies a prometheus registerer for metrics
func WithPrometheusRegistry(registry prometheus.Registerer) ConfigOptionFunc {
	return func(c *Config) {
		c.promRegistry = registry
	}
}

// WithOwner specifies the owner identity for the ledger store. Only the
// owner can toggle the operational flag and manage caller authorization.
func WithOwner(owner string) ConfigOptionFunc {
	return func(c *Config) {
		c.owner = owner
	}
}

// WithBootstrapAirline specifies the first airline, registered at startup
// against an empty ledger
func WithBootstrapAirline(address string, name string) ConfigOptionFunc {
	return func(c *Config) {
		c.bootstrapAirline = address
		c.bootstrapAirlineName = name
	}
}

// WithRandomIndexSource specifies the oracle index randomness source. The
// default derives indexes from a crypto/rand seeded hash.
func WithRandomIndexSource(source oracle.RandomIndexSource) ConfigOptionFunc {
	return func(c *Config) {
		c.indexSource = source
	}
}

// WithMinResponses specifies the oracle quorum size
func WithMinResponses(minResponses uint64) ConfigOptionFunc {
	return func(c *Config) {
		c.minResponses = minResponses
	}
}

// WithOracleWorkers specifies the size of the in-process oracle worker
// pool started in dev mode
func WithOracleWorkers(workers int) ConfigOptionFunc {
	return func(c *Config) {
		c.oracleWorkers = workers
	}
}

// WithOracleWorkerStatus fixes the status reported by the dev-mode oracle
// workers. The default is a random reportable status per response.
func WithOracleWorkerStatus(status ledger.StatusCode) ConfigOptionFunc {
	return func(c *Config) {
		c.oracleWorkerStatus = status
	}
}

// WithRunMode specifies the run mode ("serve" or "dev")
func WithRunMode(runMode string) ConfigOptionFunc {
	return func(c *Config) {
		c.runMode = runMode
	}
}

// WithTracing enables OpenTelemetry tracing via OTLP HTTP export
func WithTracing(tracing bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracing = tracing
	}
}

// WithTracingStdout exports traces to stdout instead of OTLP
func WithTracingStdout(stdout bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracingStdout = stdout
	}
}

// WithShutdownTimeout specifies the timeout for graceful shutdown
func WithShutdownTimeout(timeout time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.shutdownTimeout = timeout
	}
}
