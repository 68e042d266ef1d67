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
	"crypto/rand"
	"encoding/binary"
	"sync"

	"golang.org/x/crypto/blake2b"
)

const (
	// IndexRange is the exclusive upper bound for oracle indexes
	IndexRange = 10

	// nonceWrap bounds the nonce so the seed is rotated periodically
	nonceWrap = 250
)

// RandomIndexSource supplies the pseudo-random indexes used to partition
// oracles across requests. The default hash-based source is not verifiable
// randomness; deployments that need an unbiasable assignment should inject
// a source backed by a randomness beacon.
type RandomIndexSource interface {
	// Index draws one index in [0, IndexRange) for an account
	Index(account string) (uint8, error)
	// IndexTriple draws three pairwise-distinct indexes for an account
	IndexTriple(account string) ([3]uint8, error)
}

// HashIndexSource derives indexes from a hash over a random seed, an
// incrementing nonce, and the account. The seed is re-drawn from
// crypto/rand each time the nonce wraps.
type HashIndexSource struct {
	mutex sync.Mutex
	seed  [32]byte
	nonce uint64
}

func NewHashIndexSource() (*HashIndexSource, error) {
	s := &HashIndexSource{}
	if err := s.reseed(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *HashIndexSource) reseed() error {
	_, err := rand.Read(s.seed[:])
	return err
}

func (s *HashIndexSource) draw(account string) (uint8, error) {
	if s.nonce >= nonceWrap {
		s.nonce = 0
		if err := s.reseed(); err != nil {
			return 0, err
		}
	}
	h, err := blake2b.New256(nil)
	if err != nil {
		return 0, err
	}
	h.Write(s.seed[:])
	tmpNonce := make([]byte, 8)
	binary.BigEndian.PutUint64(tmpNonce, s.nonce)
	h.Write(tmpNonce)
	h.Write([]byte(account))
	s.nonce++
	sum := h.Sum(nil)
	return uint8(binary.BigEndian.Uint64(sum[:8]) % IndexRange), nil
}

func (s *HashIndexSource) Index(account string) (uint8, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.draw(account)
}

func (s *HashIndexSource) IndexTriple(account string) ([3]uint8, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	var ret [3]uint8
	seen := make(map[uint8]bool)
	for i := range ret {
		for {
			idx, err := s.draw(account)
			if err != nil {
				return ret, err
			}
			if !seen[idx] {
				seen[idx] = true
				ret[i] = idx
				break
			}
		}
	}
	return ret, nil
}
