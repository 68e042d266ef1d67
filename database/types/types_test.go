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

package types_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/blinklabs-io/contrail/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint64ScanValue(t *testing.T) {
	testDefs := []struct {
		origValue     types.Uint64
		expectedValue string
	}{
		{
			origValue:     types.Uint64(123),
			expectedValue: "123",
		},
		{
			origValue:     types.Uint64(0),
			expectedValue: "0",
		},
		{
			// Larger than max signed int64, which sqlite integers truncate to
			origValue:     types.Uint64(math.MaxUint64),
			expectedValue: "18446744073709551615",
		},
	}
	for _, testDef := range testDefs {
		valueOut, err := testDef.origValue.Value()
		require.NoError(t, err)
		assert.Equal(t, testDef.expectedValue, valueOut)
		var scanned types.Uint64
		require.NoError(t, scanned.Scan(testDef.expectedValue))
		assert.Equal(t, testDef.origValue, scanned)
	}
}

func TestUint64ScanWrongType(t *testing.T) {
	var scanned types.Uint64
	err := scanned.Scan(123)
	require.Error(t, err)
}

func TestReceiptKeyRoundTrip(t *testing.T) {
	testSeqs := []uint64{0, 1, 250, math.MaxUint64}
	for _, seq := range testSeqs {
		key := types.ReceiptKey(seq)
		gotSeq, ok := types.ReceiptKeySeq(key)
		require.True(t, ok)
		assert.Equal(t, seq, gotSeq)
	}
	_, ok := types.ReceiptKeySeq([]byte("bogus"))
	assert.False(t, ok)
}

func TestReceiptKeyOrdering(t *testing.T) {
	// Forward iteration over receipt keys must yield ascending sequences
	prev := types.ReceiptKey(0)
	for seq := uint64(1); seq < 300; seq++ {
		cur := types.ReceiptKey(seq)
		require.Equal(t, -1, bytes.Compare(prev, cur))
		prev = cur
	}
}
