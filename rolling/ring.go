// Copyright 2026 Michael J. Fromberger. All Rights Reserved.
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

package rolling

import (
	"fmt"

	"github.com/creachadair/rkhash/internal/modmath"
)

// A Ring computes the same fingerprint as a Hasher, but over the most recent
// bytes of a stream rather than a window of a slice. Bytes are written one at
// a time with Update, and the ring remembers the last Size of them.
//
// Until Size bytes have been written, the window is padded on the left with
// zero bytes, which do not contribute to the fingerprint.
type Ring struct {
	q  uint64 // modulus
	rm uint64 // Radix^(size-1) mod q

	hash uint64 // current fingerprint
	next int    // next offset in buf
	buf  []byte // window buffer
}

// NewRing constructs a Ring with a window of n bytes and modulus q.
// It panics if n ≤ 0 or q ≤ 0.
func NewRing(n int, q int64) *Ring {
	mod := checkModulus(q)
	if n <= 0 {
		panic(fmt.Sprintf("rolling: invalid window size %d", n))
	}
	return &Ring{
		q:   mod,
		rm:  modmath.Pow(Radix, uint64(n-1), mod),
		buf: make([]byte, n),
	}
}

// Update shifts b into the window and returns the updated fingerprint.
func (r *Ring) Update(b byte) uint64 {
	old := uint64(r.buf[r.next]) // the displaced oldest byte
	r.buf[r.next] = b
	r.next = (r.next + 1) % len(r.buf)

	v := modmath.Sub(r.hash, modmath.Mul(r.rm, old, r.q), r.q)
	v = modmath.Mul(v, Radix, r.q)
	r.hash = modmath.Add(v, uint64(b)%r.q, r.q)
	return r.hash
}

// Reset restores r to its initial state, as if no bytes had been written.
func (r *Ring) Reset() {
	clear(r.buf)
	r.hash = 0
	r.next = 0
}

// Size returns the size of the window in bytes.
func (r *Ring) Size() int { return len(r.buf) }
