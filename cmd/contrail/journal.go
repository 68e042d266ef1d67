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

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/blinklabs-io/contrail/database"
	"github.com/blinklabs-io/contrail/database/models"
	"github.com/blinklabs-io/contrail/internal/config"
	"github.com/spf13/cobra"
)

var journalFlags = struct {
	limit uint64
}{}

func journalRun(_ *cobra.Command, _ []string, cfg *config.Config) {
	logger := commonRun()

	db, err := database.New(&database.Config{
		DataDir: cfg.DatabasePath,
		Logger:  logger,
	})
	if err != nil {
		slog.Error(fmt.Sprintf("failed to open database: %s", err))
		os.Exit(1)
	}
	defer db.Close()

	ledgerState, err := db.GetLedgerState(nil)
	if err != nil {
		if errors.Is(err, models.ErrLedgerStateNotFound) {
			slog.Info("ledger is empty, no receipts to display")
			return
		}
		slog.Error(fmt.Sprintf("failed to read ledger state: %s", err))
		os.Exit(1)
	}
	if ledgerState.ReceiptSeq == 0 {
		slog.Info("no receipts recorded yet")
		return
	}

	// Display the most recent receipts up to the requested limit
	head := ledgerState.ReceiptSeq
	start := uint64(1)
	if journalFlags.limit > 0 && head > journalFlags.limit {
		start = head - journalFlags.limit + 1
	}
	iter := db.ReceiptsInRange(start, head)
	defer iter.Close()
	for {
		receipt, err := iter.Next()
		if err != nil {
			slog.Error(fmt.Sprintf("failed to read receipt: %s", err))
			os.Exit(1)
		}
		if receipt == nil {
			break
		}
		out, err := json.Marshal(receipt)
		if err != nil {
			slog.Error(fmt.Sprintf("failed to encode receipt: %s", err))
			os.Exit(1)
		}
		fmt.Println(string(out))
	}
}

func journalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Display recent ledger receipts",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				slog.Error("no config found in context")
				os.Exit(1)
			}
			journalRun(cmd, args, cfg)
		},
	}
	cmd.Flags().
		Uint64Var(&journalFlags.limit, "limit", 50, "maximum number of receipts to display (0 for all)")
	return cmd
}
