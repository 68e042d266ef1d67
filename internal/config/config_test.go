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

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func resetGlobalConfig() {
	globalConfig = &Config{
		DatabasePath:    ".contrail",
		BindAddr:        "0.0.0.0",
		Owner:           "owner",
		MetricsPort:     12798,
		RunMode:         RunModeServe,
		ShutdownTimeout: DefaultShutdownTimeout,
		OracleWorkers:   DefaultOracleWorkers,
		MinResponses:    DefaultMinResponses,
	}
}

func TestLoad_CompareFullStruct(t *testing.T) {
	resetGlobalConfig()
	yamlContent := `
databasePath: ".contrail-test"
bindAddr: "127.0.0.1"
owner: "pool-owner"
bootstrapAirline: "airline-1"
bootstrapAirlineName: "First Airline"
shutdownTimeout: "10s"
runMode: "dev"
metricsPort: 8088
oracleWorkers: 8
minResponses: 2
tracing: true
tracingStdout: true
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-contrail.yaml")

	err := os.WriteFile(tmpFile, []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	defer os.Remove(tmpFile)

	expected := &Config{
		DatabasePath:         ".contrail-test",
		BindAddr:             "127.0.0.1",
		Owner:                "pool-owner",
		BootstrapAirline:     "airline-1",
		BootstrapAirlineName: "First Airline",
		ShutdownTimeout:      "10s",
		RunMode:              RunModeDev,
		MetricsPort:          8088,
		OracleWorkers:        8,
		MinResponses:         2,
		Tracing:              true,
		TracingStdout:        true,
	}

	actual, err := LoadConfig(tmpFile)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !reflect.DeepEqual(actual, expected) {
		t.Errorf(
			"Loaded config does not match expected.\nActual: %+v\nExpected: %+v",
			actual,
			expected,
		)
	}
}

func TestLoad_WithoutConfigFile_UsesDefaults(t *testing.T) {
	resetGlobalConfig()

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	expected := &Config{
		DatabasePath:    ".contrail",
		BindAddr:        "0.0.0.0",
		Owner:           "owner",
		MetricsPort:     12798,
		RunMode:         RunModeServe,
		ShutdownTimeout: DefaultShutdownTimeout,
		OracleWorkers:   DefaultOracleWorkers,
		MinResponses:    DefaultMinResponses,
	}

	if !reflect.DeepEqual(cfg, expected) {
		t.Errorf(
			"Loaded config does not match expected.\nActual: %+v\nExpected: %+v",
			cfg,
			expected,
		)
	}
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	resetGlobalConfig()
	t.Setenv("CONTRAIL_RUN_MODE", "dev")
	t.Setenv("DUMMY_OWNER", "env-owner")
	t.Setenv("DUMMY_METRICS_PORT", "9999")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.RunMode != RunModeDev {
		t.Errorf("expected run mode dev, got: %s", cfg.RunMode)
	}
	if cfg.Owner != "env-owner" {
		t.Errorf("expected owner env-owner, got: %s", cfg.Owner)
	}
	if cfg.MetricsPort != 9999 {
		t.Errorf("expected metrics port 9999, got: %d", cfg.MetricsPort)
	}
}

func TestLoad_InvalidRunMode(t *testing.T) {
	resetGlobalConfig()
	t.Setenv("CONTRAIL_RUN_MODE", "bogus")

	if _, err := LoadConfig(""); err == nil {
		t.Fatal("expected error for invalid run mode")
	}
}

func TestLoad_EmptyOwner(t *testing.T) {
	resetGlobalConfig()
	t.Setenv("DUMMY_OWNER", "")

	if _, err := LoadConfig(""); err == nil {
		t.Fatal("expected error for empty owner")
	}
}

func TestRunModeHelpers(t *testing.T) {
	if !RunModeServe.Valid() || !RunModeDev.Valid() {
		t.Error("expected known run modes to be valid")
	}
	if RunMode("bogus").Valid() {
		t.Error("expected unknown run mode to be invalid")
	}
	if RunModeServe.IsDevMode() {
		t.Error("serve mode should not be dev mode")
	}
	if !RunModeDev.IsDevMode() {
		t.Error("dev mode should be dev mode")
	}
}
