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

package prime_test

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/creachadair/rkhash/prime"
	"github.com/golang/snappy"
	"github.com/google/go-cmp/cmp"
)

func newSupply(seed int64) *prime.Supply {
	return prime.New(&prime.Options{Rand: rand.New(rand.NewSource(seed))})
}

// sieve returns a table of primality for the values 0..n-1.
func sieve(n int) []bool {
	out := make([]bool, n)
	for i := 2; i < n; i++ {
		out[i] = true
	}
	for i := 2; i*i < n; i++ {
		if out[i] {
			for j := i * i; j < n; j += i {
				out[j] = false
			}
		}
	}
	return out
}

func TestIsPrimeKnown(t *testing.T) {
	s := prime.New(nil)
	tests := []struct {
		n    int64
		want bool
	}{
		{-1 << 40, false},
		{-7, false},
		{-1, false},
		{0, false},
		{1, false},
		{2, true},
		{3, true},
		{4, false},
		{9, false},
		{17, true},
		{25, false},
		{65537, true},
		{2147483659, true},
		{2147483661, false},
		{9999999967, true},
		{9999999969, false},
		{1000000007 * 3, false},
	}
	for _, tc := range tests {
		if got := s.IsPrime(tc.n); got != tc.want {
			t.Errorf("IsPrime(%d): got %v, want %v", tc.n, got, tc.want)
		}
	}
}

func TestIsPrimeSieve(t *testing.T) {
	const limit = 5000
	s := prime.New(nil)
	want := sieve(limit)
	for n := range want {
		if got := s.IsPrime(int64(n)); got != want[n] {
			t.Errorf("IsPrime(%d): got %v, want %v", n, got, want[n])
		}
	}

	// Values below 2 are never cached.
	if got := s.Len(); got != limit-2 {
		t.Errorf("Len: got %d, want %d", got, limit-2)
	}
}

func TestCache(t *testing.T) {
	s := prime.New(nil)
	if _, ok := s.Cached(17); ok {
		t.Error("Cached(17) before query: got ok, want not ok")
	}
	s.IsPrime(17)
	s.IsPrime(18)
	s.IsPrime(1)

	if p, ok := s.Cached(17); !ok || !p {
		t.Errorf("Cached(17): got (%v, %v), want (true, true)", p, ok)
	}
	if p, ok := s.Cached(18); !ok || p {
		t.Errorf("Cached(18): got (%v, %v), want (false, true)", p, ok)
	}
	if s.Len() != 2 {
		t.Errorf("Len: got %d, want 2", s.Len())
	}

	// Separate supplies do not share verdicts.
	if _, ok := prime.New(nil).Cached(17); ok {
		t.Error("Cached(17) in a fresh supply: got ok, want not ok")
	}
}

func TestRandomLargePrime(t *testing.T) {
	s := newSupply(20261018)
	check := prime.New(nil)
	for i := 0; i < 25; i++ {
		v := s.RandomLargePrime()
		if v < prime.MinCandidate || v >= prime.MaxCandidate {
			t.Errorf("RandomLargePrime: got %d, out of range", v)
		}
		if !check.IsPrime(v) {
			t.Errorf("RandomLargePrime: got %d, which is not prime", v)
		}
		if p, ok := s.Cached(v); !ok || !p {
			t.Errorf("Cached(%d): got (%v, %v), want (true, true)", v, p, ok)
		}
	}
	t.Logf("Cache holds %d verdicts after 25 draws", s.Len())
}

func TestRandomLargePrimeRepeatable(t *testing.T) {
	a, b := newSupply(1031), newSupply(1031)
	var as, bs []int64
	for i := 0; i < 5; i++ {
		as = append(as, a.RandomLargePrime())
		bs = append(bs, b.RandomLargePrime())
	}
	if diff := cmp.Diff(as, bs); diff != "" {
		t.Errorf("Same seed, different primes (-a, +b):\n%s", diff)
	}
}

func TestDefault(t *testing.T) {
	if !prime.IsPrime(17) || prime.IsPrime(9) {
		t.Error("Package IsPrime gave wrong answers for 17 and 9")
	}
	v := prime.RandomLargePrime()
	if v < prime.MinCandidate || v >= prime.MaxCandidate || !prime.IsPrime(v) {
		t.Errorf("Package RandomLargePrime: got %d", v)
	}
	if p, ok := prime.Default.Cached(v); !ok || !p {
		t.Errorf("Default.Cached(%d): got (%v, %v), want (true, true)", v, p, ok)
	}
}

func TestConcurrent(t *testing.T) {
	s := newSupply(99)
	want := sieve(2000)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range want {
				if got := s.IsPrime(int64(n)); got != want[n] {
					t.Errorf("IsPrime(%d): got %v, want %v", n, got, want[n])
				}
			}
			s.RandomLargePrime()
		}()
	}
	wg.Wait()
}

func TestSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "primes.snap")

	s := newSupply(5)
	var drawn []int64
	for i := 0; i < 10; i++ {
		drawn = append(drawn, s.RandomLargePrime())
	}
	for n := int64(0); n < 100; n++ {
		s.IsPrime(n)
	}
	if err := s.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: unexpected error: %v", err)
	}

	r := prime.New(nil)
	r.IsPrime(101)
	if err := r.ReadFile(path); err != nil {
		t.Fatalf("ReadFile: unexpected error: %v", err)
	}
	if got, want := r.Len(), s.Len()+1; got != want {
		t.Errorf("Len after ReadFile: got %d, want %d", got, want)
	}
	for _, v := range drawn {
		if p, ok := r.Cached(v); !ok || !p {
			t.Errorf("Cached(%d): got (%v, %v), want (true, true)", v, p, ok)
		}
	}
	for n := int64(2); n < 100; n++ {
		p, ok := r.Cached(n)
		if !ok || p != s.IsPrime(n) {
			t.Errorf("Cached(%d): got (%v, %v), want (%v, true)", n, p, ok, s.IsPrime(n))
		}
	}
	if p, ok := r.Cached(101); !ok || !p {
		t.Errorf("Cached(101): got (%v, %v), want (true, true)", p, ok)
	}

	// Rewriting replaces the file in place.
	if err := r.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: unexpected error: %v", err)
	}
	q := prime.New(nil)
	if err := q.ReadFile(path); err != nil {
		t.Fatalf("ReadFile: unexpected error: %v", err)
	}
	if q.Len() != r.Len() {
		t.Errorf("Len: got %d, want %d", q.Len(), r.Len())
	}
}

func TestSnapshotErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0600); err != nil {
			t.Fatalf("Write %s: %v", name, err)
		}
		return path
	}
	tests := []struct {
		name string
		data []byte
	}{
		{"NotSnappy", []byte("this is not compressed")},
		{"BadMagic", snappy.Encode(nil, []byte("xyz\x01\x00\x00"))},
		{"Truncated", snappy.Encode(nil, []byte("rkp\x01\x02\x05"))},
		{"TooSmall", snappy.Encode(nil, []byte("rkp\x01\x01\x01\x00"))},
		{"Duplicate", snappy.Encode(nil, []byte("rkp\x01\x02\x05\x00\x00"))},
		{"Conflict", snappy.Encode(nil, []byte("rkp\x01\x01\x05\x01\x05"))},
		{"Trailing", snappy.Encode(nil, []byte("rkp\x01\x00\x00\x09"))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := prime.New(nil)
			s.IsPrime(7)
			err := s.ReadFile(write(tc.name, tc.data))
			if !errors.Is(err, prime.ErrBadSnapshot) {
				t.Errorf("ReadFile: got %v, want %v", err, prime.ErrBadSnapshot)
			}
			if s.Len() != 1 {
				t.Errorf("Len after failed ReadFile: got %d, want 1", s.Len())
			}
		})
	}

	t.Run("Missing", func(t *testing.T) {
		err := prime.New(nil).ReadFile(filepath.Join(dir, "nonesuch"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("ReadFile: got %v, want %v", err, os.ErrNotExist)
		}
	})

	t.Run("WrongVerdicts", func(t *testing.T) {
		tests := []struct {
			name string
			data []byte
		}{
			{"NineIsPrime", []byte("rkp\x01\x01\x09\x00")},
			{"SevenIsComposite", []byte("rkp\x01\x00\x01\x07")},
			{"OneGoodOneBad", []byte("rkp\x01\x01\x05\x01\x07")},
		}
		for _, tc := range tests {
			s := prime.New(nil)
			err := s.ReadFile(write(tc.name, snappy.Encode(nil, tc.data)))
			if !errors.Is(err, prime.ErrBadSnapshot) {
				t.Errorf("ReadFile %s: got %v, want %v", tc.name, err, prime.ErrBadSnapshot)
			}
			if n := s.Len(); n != 0 {
				t.Errorf("ReadFile %s: cache has %d verdicts, want 0", tc.name, n)
			}
			if s.IsPrime(9) || !s.IsPrime(7) || !s.IsPrime(5) {
				t.Errorf("ReadFile %s: cache answers changed after a rejected snapshot", tc.name)
			}
		}
	})
}
