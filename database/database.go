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

package database

import (
	"errors"
	"io"
	"log/slog"

	"github.com/blinklabs-io/contrail/database/journal"
	"github.com/blinklabs-io/contrail/database/metadata"
	"github.com/prometheus/client_golang/prometheus"
)

// Config contains the configuration for the database
type Config struct {
	Logger           *slog.Logger
	PromRegistry     prometheus.Registerer
	DataDir          string
	JournalCacheSize int64
}

// Database combines the sqlite metadata store with the badger journal store.
// Ledger entities live in metadata; operation receipts live in the journal.
type Database struct {
	logger   *slog.Logger
	journal  *journal.Store
	metadata *metadata.Store
	dataDir  string
}

// Journal returns the underlying journal store instance
func (d *Database) Journal() *journal.Store {
	return d.journal
}

// DataDir returns the path to the data directory used for storage
func (d *Database) DataDir() string {
	return d.dataDir
}

// Logger returns the logger instance
func (d *Database) Logger() *slog.Logger {
	return d.logger
}

// Metadata returns the underlying metadata store instance
func (d *Database) Metadata() *metadata.Store {
	return d.metadata
}

// Transaction starts a new database transaction and returns a handle to it
func (d *Database) Transaction(readWrite bool) *Txn {
	return NewTxn(d, readWrite)
}

// JournalTxn starts a transaction scoped to the journal store only
func (d *Database) JournalTxn(readWrite bool) *Txn {
	return NewJournalOnlyTxn(d, readWrite)
}

// MetadataTxn starts a transaction scoped to the metadata store only
func (d *Database) MetadataTxn(readWrite bool) *Txn {
	return NewMetadataOnlyTxn(d, readWrite)
}

// Close cleans up the database connections
func (d *Database) Close() error {
	var err error
	// Close metadata
	metadataErr := d.Metadata().Close()
	err = errors.Join(err, metadataErr)
	// Close journal
	journalErr := d.Journal().Close()
	err = errors.Join(err, journalErr)
	return err
}

func (d *Database) init() error {
	if d.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		d.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	// Check commit timestamp
	if err := d.checkCommitTimestamp(); err != nil {
		return err
	}
	return nil
}

// New creates a new database instance with optional persistence using the provided data directory
func New(cfg *Config) (*Database, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	metadataDb, err := metadata.New(cfg.DataDir, cfg.Logger)
	if err != nil {
		return nil, err
	}
	journalOpts := []journal.StoreOptionFunc{
		journal.WithLogger(cfg.Logger),
		journal.WithDataDir(cfg.DataDir),
		// Value log GC only applies to disk-backed stores
		journal.WithGc(cfg.DataDir != ""),
	}
	if cfg.PromRegistry != nil {
		journalOpts = append(
			journalOpts,
			journal.WithPromRegistry(cfg.PromRegistry),
		)
	}
	if cfg.JournalCacheSize > 0 {
		journalOpts = append(
			journalOpts,
			journal.WithBlockCacheSize(uint64(cfg.JournalCacheSize)),
		)
	}
	journalDb, err := journal.New(journalOpts...)
	if err != nil {
		return nil, err
	}
	db := &Database{
		logger:   cfg.Logger,
		journal:  journalDb,
		metadata: metadataDb,
		dataDir:  cfg.DataDir,
	}
	if err := db.init(); err != nil {
		// Database is available for recovery, so return it with error
		return db, err
	}
	return db, nil
}
