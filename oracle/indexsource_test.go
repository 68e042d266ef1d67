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

package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashIndexSourceRange(t *testing.T) {
	source, err := NewHashIndexSource()
	require.NoError(t, err)
	for range 1000 {
		idx, err := source.Index("account-1")
		require.NoError(t, err)
		assert.Less(t, idx, uint8(IndexRange))
	}
}

func TestHashIndexSourceTripleDistinct(t *testing.T) {
	source, err := NewHashIndexSource()
	require.NoError(t, err)
	for range 100 {
		triple, err := source.IndexTriple("account-1")
		require.NoError(t, err)
		assert.NotEqual(t, triple[0], triple[1])
		assert.NotEqual(t, triple[0], triple[2])
		assert.NotEqual(t, triple[1], triple[2])
	}
}

func TestHashIndexSourceNonceWrap(t *testing.T) {
	source, err := NewHashIndexSource()
	require.NoError(t, err)
	// Draw well past the wrap point to exercise the reseed path
	for range nonceWrap * 3 {
		_, err := source.Index("account-1")
		require.NoError(t, err)
	}
}
