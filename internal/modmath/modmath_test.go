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

package modmath_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/creachadair/rkhash/internal/modmath"
)

func TestPow(t *testing.T) {
	tests := []struct {
		b, e, m, want uint64
	}{
		{256, 0, 7, 1},
		{256, 0, 1, 0},
		{256, 1, 7, 4},
		{256, 5, 1 << 32, 0},
		{2, 10, 1000, 24},
		{7, 3, 257, 86},
		{256, 47, 2147483659, bigPow(256, 47, 2147483659)},
		{math.MaxUint64, 3, math.MaxInt64, bigPow(math.MaxUint64, 3, math.MaxInt64)},
	}
	for _, tc := range tests {
		if got := modmath.Pow(tc.b, tc.e, tc.m); got != tc.want {
			t.Errorf("Pow(%d, %d, %d): got %d, want %d", tc.b, tc.e, tc.m, got, tc.want)
		}
	}
}

func TestArith(t *testing.T) {
	const m = math.MaxInt64 - 24 // a large prime, 2^63-25
	vals := []uint64{0, 1, 2, 255, 256, 1 << 40, m / 2, m - 2, m - 1}
	bm := new(big.Int).SetUint64(m)
	for _, a := range vals {
		for _, b := range vals {
			ba, bb := new(big.Int).SetUint64(a), new(big.Int).SetUint64(b)

			want := new(big.Int).Add(ba, bb)
			if got := modmath.Add(a, b, m); got != want.Mod(want, bm).Uint64() {
				t.Errorf("Add(%d, %d): got %d, want %d", a, b, got, want)
			}
			want = new(big.Int).Sub(ba, bb)
			if got := modmath.Sub(a, b, m); got != want.Mod(want, bm).Uint64() {
				t.Errorf("Sub(%d, %d): got %d, want %d", a, b, got, want)
			}
			want = new(big.Int).Mul(ba, bb)
			if got := modmath.Mul(a, b, m); got != want.Mod(want, bm).Uint64() {
				t.Errorf("Mul(%d, %d): got %d, want %d", a, b, got, want)
			}
		}
	}
}

func bigPow(b, e, m uint64) uint64 {
	z := new(big.Int).Exp(
		new(big.Int).SetUint64(b),
		new(big.Int).SetUint64(e),
		new(big.Int).SetUint64(m),
	)
	return z.Uint64()
}
