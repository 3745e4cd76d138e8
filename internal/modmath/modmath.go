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

// Package modmath implements the modular arithmetic shared by the rolling
// hash implementations. All operands must be reduced modulo m before use, and
// m must be positive.
package modmath

import "math/bits"

// Add returns (a + b) mod m, for a, b < m.
func Add(a, b, m uint64) uint64 {
	s, carry := bits.Add64(a, b, 0)
	if carry != 0 || s >= m {
		s -= m
	}
	return s
}

// Sub returns (a - b) mod m, for a, b < m.
func Sub(a, b, m uint64) uint64 {
	if a >= b {
		return a - b
	}
	return a + (m - b)
}

// Mul returns (a * b) mod m. The product is formed in 128 bits, so it does
// not overflow for any m.
func Mul(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return bits.Rem64(hi, lo, m)
}

// Pow returns b**e modulo m, by repeated squaring.
func Pow(b, e, m uint64) uint64 {
	s := 1 % m
	b %= m
	for e != 0 {
		if e&1 == 1 {
			s = Mul(s, b, m)
		}
		b = Mul(b, b, m)
		e >>= 1
	}
	return s
}
