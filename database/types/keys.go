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

package types

import (
	"encoding/binary"
)

const (
	ReceiptKeyPrefix = "rc"
)

// Uint64ToBytes encodes a sequence number big-endian so byte order matches
// numeric order under forward iteration
func Uint64ToBytes(input uint64) []byte {
	ret := make([]byte, 8)
	binary.BigEndian.PutUint64(ret, input)
	return ret
}

func ReceiptKey(seq uint64) []byte {
	key := []byte(ReceiptKeyPrefix)
	key = append(key, Uint64ToBytes(seq)...)
	return key
}

// ReceiptKeySeq extracts the sequence number from a receipt key. Returns
// false when the key does not have the receipt prefix and length.
func ReceiptKeySeq(key []byte) (uint64, bool) {
	if len(key) != len(ReceiptKeyPrefix)+8 {
		return 0, false
	}
	if string(key[:len(ReceiptKeyPrefix)]) != ReceiptKeyPrefix {
		return 0, false
	}
	return binary.BigEndian.Uint64(key[len(ReceiptKeyPrefix):]), true
}
