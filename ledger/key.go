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

package ledger

import (
	"encoding/binary"
	"io"

	"golang.org/x/crypto/blake2b"
)

// FlightKey derives the deterministic identifier for a flight from the
// airline identity, flight code, and scheduled departure. Fields are
// length-prefixed so distinct inputs cannot collide by concatenation.
func FlightKey(airline string, code string, departure uint64) []byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	writeLenPrefixed(h, []byte(airline))
	writeLenPrefixed(h, []byte(code))
	tmpDeparture := make([]byte, 8)
	binary.BigEndian.PutUint64(tmpDeparture, departure)
	h.Write(tmpDeparture)
	return h.Sum(nil)
}

// RequestKey derives the identifier for a status request from the drawn
// oracle index and the flight identity
func RequestKey(
	index uint8,
	airline string,
	code string,
	departure uint64,
) []byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	h.Write([]byte{index})
	h.Write(FlightKey(airline, code, departure))
	return h.Sum(nil)
}

func writeLenPrefixed(w io.Writer, b []byte) {
	tmpLen := make([]byte, 4)
	if len(b) > int(^uint32(0)>>1) {
		panic("field too long")
	}
	binary.BigEndian.PutUint32(tmpLen, uint32(len(b)))
	w.Write(tmpLen) //nolint:errcheck
	w.Write(b)      //nolint:errcheck
}
