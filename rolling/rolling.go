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

// Package rolling implements a Rabin-Karp rolling fingerprint over windows of
// a byte slice.
//
// A Hasher computes the polynomial hash
//
//	H(b[0] ... b[n-1]) = (b[0]*r^(n-1) + b[1]*r^(n-2) + ... + b[n-1]) mod q
//
// for radix r = 256 and a caller-chosen modulus q, over a window of fixed
// length n. Advancing the window by one byte takes constant time regardless
// of the window length.
//
// The modulus should be prime, and large relative to the number of windows
// compared, to keep the likelihood of accidental collisions low. See package
// prime for a source of suitable moduli. The fingerprint is not a
// cryptographic hash: callers who need to know that two windows are equal
// must compare their contents once the fingerprints agree.
package rolling

import (
	"fmt"

	"github.com/creachadair/rkhash/internal/modmath"
)

// Radix is the base of the positional polynomial, one digit per byte value.
const Radix = 256

// A Hasher maintains the rolling fingerprint of a window over a byte slice.
// A Hasher is not safe for concurrent use by multiple goroutines, but
// distinct hashers share no state.
type Hasher struct {
	data []byte // borrowed, not modified

	q  uint64 // modulus, > 0
	rm uint64 // Radix^(n-1) mod q, or 0 if n == 0

	lo    int    // offset of the first byte of the window
	n     int    // window length, fixed at construction
	value uint64 // fingerprint of data[lo:lo+n], in [0, q)
}

// New constructs a Hasher over data positioned at the window data[lo:hi].
// The window may be empty. The hasher retains data, which the caller must
// not modify while the hasher is in use.
//
// New panics if q ≤ 0, or if lo and hi do not denote a valid range of data.
func New(data []byte, lo, hi int, q int64) *Hasher {
	mod := checkModulus(q)
	if lo < 0 || hi < lo || hi > len(data) {
		panic(fmt.Sprintf("rolling: window [%d:%d] out of range for %d bytes", lo, hi, len(data)))
	}
	h := &Hasher{data: data, q: mod, lo: lo, n: hi - lo}
	if h.n > 0 {
		h.rm = modmath.Pow(Radix, uint64(h.n-1), mod)
	}
	h.value = horner(0, data[lo:hi], mod)
	return h
}

// Advance slides the window forward by one byte and reports whether it did
// so. If the window is empty, or already ends at the end of the data, Advance
// does nothing and returns false.
func (h *Hasher) Advance() bool {
	hi := h.lo + h.n
	if h.n == 0 || hi >= len(h.data) {
		return false
	}

	// Remove the weighted contribution of the outgoing byte, then shift the
	// remaining digits up one place and add the incoming byte.
	out := modmath.Mul(h.rm, uint64(h.data[h.lo]), h.q)
	v := modmath.Sub(h.value, out, h.q)
	v = modmath.Mul(v, Radix, h.q)
	h.value = modmath.Add(v, uint64(h.data[hi])%h.q, h.q)
	h.lo++
	return true
}

// Value returns the fingerprint of the current window.
func (h *Hasher) Value() uint64 { return h.value }

// Window returns the bounds of the current window, data[lo:hi].
func (h *Hasher) Window() (lo, hi int) { return h.lo, h.lo + h.n }

// Len returns the length of the window. It does not change as the window
// advances.
func (h *Hasher) Len() int { return h.n }

// Modulus returns the modulus of h.
func (h *Hasher) Modulus() uint64 { return h.q }

// Factor returns the remainder factor Radix^(n-1) mod q for a window of
// length n > 0, or 0 if the window is empty.
func (h *Hasher) Factor() uint64 { return h.rm }

// Bytes returns the contents of the current window. The slice shares
// storage with the data passed to New.
func (h *Hasher) Bytes() []byte { return h.data[h.lo : h.lo+h.n : h.lo+h.n] }

// Comparable reports whether the fingerprints of a and b may be meaningfully
// compared: They must have the same modulus and window length. Comparable
// does not look at the fingerprint values.
func Comparable(a, b *Hasher) bool {
	return a.q == b.q && a.rm == b.rm && a.n == b.n
}

// Same reports whether a and b are comparable and have equal fingerprints.
// A true result means the windows are probably equal; the caller must check
// their contents to be sure.
func Same(a, b *Hasher) bool {
	return Comparable(a, b) && a.value == b.value
}

// Sum returns the fingerprint of data with modulus q, computed directly from
// the bytes without rolling. It panics if q ≤ 0.
func Sum(data []byte, q int64) uint64 { return horner(0, data, checkModulus(q)) }

// horner extends the fingerprint v by the bytes of data, most significant
// byte first.
func horner(v uint64, data []byte, q uint64) uint64 {
	for _, b := range data {
		v = modmath.Add(modmath.Mul(v, Radix, q), uint64(b)%q, q)
	}
	return v
}

func checkModulus(q int64) uint64 {
	if q <= 0 {
		panic(fmt.Sprintf("rolling: invalid modulus %d", q))
	}
	return uint64(q)
}
