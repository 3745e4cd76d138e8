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

// Package prime supplies large prime moduli for rolling fingerprints, and
// answers primality queries with memoized results.
//
// A Supply holds a cache of primality verdicts. Verdicts are never evicted;
// because candidates are drawn from a bounded range, the cache is bounded
// too. A Supply is safe for concurrent use by multiple goroutines.
//
// The Default supply is shared by the package-level IsPrime and
// RandomLargePrime functions. Programs that want an isolated cache, or a
// reproducible sequence of moduli, should construct their own with New.
package prime

import (
	"math/rand"
	"sync"
	"time"

	"github.com/creachadair/mds/mapset"
)

// Candidates for RandomLargePrime are drawn from [MinCandidate, MaxCandidate).
const (
	MinCandidate int64 = 1_000_000_000
	MaxCandidate int64 = 10_000_000_000
)

// Default is the supply used by the package-level functions.
var Default = New(nil)

// IsPrime reports whether n is prime, using the Default supply.
func IsPrime(n int64) bool { return Default.IsPrime(n) }

// RandomLargePrime returns a random prime in [MinCandidate, MaxCandidate),
// using the Default supply.
func RandomLargePrime() int64 { return Default.RandomLargePrime() }

// Options are optional settings for a Supply. A nil *Options is ready for
// use and provides default values as described.
type Options struct {
	// The source of candidates for RandomLargePrime. If nil, a generator
	// seeded from the clock is used. The Supply takes ownership of the
	// generator, which must not be used elsewhere.
	Rand *rand.Rand
}

func (o *Options) rand() *rand.Rand {
	if o == nil || o.Rand == nil {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o.Rand
}

// A Supply answers primality queries and generates prime moduli, memoizing
// the verdict for each value it tests.
type Supply struct {
	μ          sync.Mutex // protects the fields below
	rng        *rand.Rand
	primes     mapset.Set[int64]
	composites mapset.Set[int64]
}

// New constructs a new Supply with an empty cache. A nil opts value is ready
// for use and provides default values as described on Options.
func New(opts *Options) *Supply {
	return &Supply{
		rng:        opts.rand(),
		primes:     mapset.New[int64](),
		composites: mapset.New[int64](),
	}
}

// IsPrime reports whether n is prime. Values less than 2 are not prime.
// The verdict for n is cached in s.
func (s *Supply) IsPrime(n int64) bool {
	if n < 2 {
		return false
	}
	if ok, cached := s.Cached(n); cached {
		return ok
	}

	// Test outside the lock, so that concurrent queries for other values are
	// not held up. If two callers race on the same n, both record the same
	// verdict.
	ok := trialDivision(n)
	s.record(n, ok)
	return ok
}

// RandomLargePrime returns a prime chosen uniformly at random from among the
// primes in [MinCandidate, MaxCandidate). Candidates are drawn until one is
// prime; primes of this size are dense enough that few draws are needed on
// average, but the number of draws is not bounded.
func (s *Supply) RandomLargePrime() int64 {
	for {
		n := s.candidate()
		if ok, cached := s.Cached(n); cached {
			if ok {
				return n
			}
			continue
		}
		ok := trialDivision(n)
		s.record(n, ok)
		if ok {
			return n
		}
	}
}

// Cached reports whether a verdict for n is cached in s, and if so whether n
// is prime. It does not test n.
func (s *Supply) Cached(n int64) (isPrime, ok bool) {
	s.μ.Lock()
	defer s.μ.Unlock()
	if s.primes.Has(n) {
		return true, true
	}
	return false, s.composites.Has(n)
}

// Len reports the number of verdicts cached in s.
func (s *Supply) Len() int {
	s.μ.Lock()
	defer s.μ.Unlock()
	return s.primes.Len() + s.composites.Len()
}

func (s *Supply) candidate() int64 {
	s.μ.Lock()
	defer s.μ.Unlock()
	return MinCandidate + s.rng.Int63n(MaxCandidate-MinCandidate)
}

func (s *Supply) record(n int64, isPrime bool) {
	s.μ.Lock()
	defer s.μ.Unlock()
	if isPrime {
		s.primes.Add(n)
	} else {
		s.composites.Add(n)
	}
}

// trialDivision reports whether n ≥ 2 is prime, by checking every possible
// divisor up to its square root.
func trialDivision(n int64) bool {
	if n%2 == 0 {
		return n == 2
	}
	for d := int64(3); d <= n/d; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}
