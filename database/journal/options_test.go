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

package journal

import (
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestWithDataDir(t *testing.T) {
	s := &Store{}
	option := WithDataDir("/tmp/test")

	option(s)

	if s.dataDir != "/tmp/test" {
		t.Errorf("Expected dataDir to be '/tmp/test', got '%s'", s.dataDir)
	}
}

func TestWithBlockCacheSize(t *testing.T) {
	s := &Store{}
	option := WithBlockCacheSize(123456789)

	option(s)

	if s.blockCacheSize != 123456789 {
		t.Errorf(
			"Expected blockCacheSize to be 123456789, got %d",
			s.blockCacheSize,
		)
	}
}

func TestWithIndexCacheSize(t *testing.T) {
	s := &Store{}
	option := WithIndexCacheSize(987654321)

	option(s)

	if s.indexCacheSize != 987654321 {
		t.Errorf(
			"Expected indexCacheSize to be 987654321, got %d",
			s.indexCacheSize,
		)
	}
}

func TestWithLogger(t *testing.T) {
	s := &Store{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	option := WithLogger(logger)

	option(s)

	if s.logger != logger {
		t.Errorf("Expected logger to be set correctly")
	}
}

func TestWithPromRegistry(t *testing.T) {
	s := &Store{}
	registry := prometheus.NewRegistry()
	option := WithPromRegistry(registry)

	option(s)

	if s.promRegistry != registry {
		t.Errorf("Expected promRegistry to be set correctly")
	}
}

func TestWithGc(t *testing.T) {
	s := &Store{}
	option := WithGc(true)

	option(s)

	if !s.gcEnabled {
		t.Errorf("Expected gcEnabled to be true, got %v", s.gcEnabled)
	}

	// Test disabling GC
	option2 := WithGc(false)
	option2(s)

	if s.gcEnabled {
		t.Errorf("Expected gcEnabled to be false, got %v", s.gcEnabled)
	}
}

func TestOptionsCombination(t *testing.T) {
	s := &Store{}

	// Apply multiple options
	WithDataDir("/tmp/combined")(s)
	WithBlockCacheSize(1000000)(s)
	WithIndexCacheSize(2000000)(s)

	if s.dataDir != "/tmp/combined" {
		t.Errorf("Expected dataDir to be '/tmp/combined', got '%s'", s.dataDir)
	}

	if s.blockCacheSize != 1000000 {
		t.Errorf(
			"Expected blockCacheSize to be 1000000, got %d",
			s.blockCacheSize,
		)
	}

	if s.indexCacheSize != 2000000 {
		t.Errorf(
			"Expected indexCacheSize to be 2000000, got %d",
			s.indexCacheSize,
		)
	}
}

func TestJournalSetGet(t *testing.T) {
	s, err := New(
		WithGc(false),
	)
	if err != nil {
		t.Fatalf("unexpected error creating store: %s", err)
	}
	defer s.Close()

	txn := s.NewTransaction(true)
	if err := s.Set(txn, []byte("test_key"), []byte("test_value")); err != nil {
		t.Fatalf("unexpected error setting key: %s", err)
	}
	if err := txn.Commit(); err != nil {
		t.Fatalf("unexpected error committing: %s", err)
	}

	readTxn := s.NewTransaction(false)
	defer readTxn.Rollback() //nolint:errcheck
	val, err := s.Get(readTxn, []byte("test_key"))
	if err != nil {
		t.Fatalf("unexpected error getting key: %s", err)
	}
	if string(val) != "test_value" {
		t.Errorf("Expected value 'test_value', got '%s'", string(val))
	}
}
