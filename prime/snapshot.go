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

package prime

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/creachadair/atomicfile"
	"github.com/creachadair/mds/mapset"
	"github.com/golang/snappy"
)

// ErrBadSnapshot is reported by ReadFile when the contents of a snapshot
// file are not valid.
var ErrBadSnapshot = errors.New("invalid prime cache snapshot")

const snapshotMagic = "rkp\x01"

// WriteFile writes a snapshot of the verdicts cached in s to the file at
// path, replacing any previous contents. The file is replaced atomically, so
// a concurrent reader sees either the old or the new snapshot.
func (s *Supply) WriteFile(path string) error {
	s.μ.Lock()
	data := encodeSnapshot(s.primes, s.composites)
	s.μ.Unlock()

	if err := atomicfile.WriteData(path, snappy.Encode(nil, data), 0600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// ReadFile adds the verdicts stored in the snapshot file at path to the
// cache of s. Verdicts already cached in s are kept. Each verdict in the
// snapshot is checked before it is added, so loading is proportional to the
// cost of testing its values afresh, but saves the random draws. If the file
// is not a valid snapshot, or any verdict in it is wrong, ReadFile reports an
// error wrapping ErrBadSnapshot and s is not modified.
func (s *Supply) ReadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	data, err := snappy.Decode(nil, raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	primes, composites, err := decodeSnapshot(data)
	if err != nil {
		return err
	}
	for n := range primes {
		if !trialDivision(n) {
			return fmt.Errorf("%w: %d is not prime", ErrBadSnapshot, n)
		}
	}
	for n := range composites {
		if trialDivision(n) {
			return fmt.Errorf("%w: %d is not composite", ErrBadSnapshot, n)
		}
	}

	s.μ.Lock()
	defer s.μ.Unlock()
	for n := range primes {
		s.primes.Add(n)
	}
	for n := range composites {
		s.composites.Add(n)
	}
	return nil
}

// encodeSnapshot renders the given sets in snapshot format. Each set is
// written as a count followed by the sorted members as ascending deltas.
func encodeSnapshot(primes, composites mapset.Set[int64]) []byte {
	buf := []byte(snapshotMagic)
	for _, set := range []mapset.Set[int64]{primes, composites} {
		vals := make([]int64, 0, len(set))
		for n := range set {
			vals = append(vals, n)
		}
		slices.Sort(vals)

		buf = binary.AppendUvarint(buf, uint64(len(vals)))
		var prev int64
		for _, n := range vals {
			buf = binary.AppendUvarint(buf, uint64(n-prev))
			prev = n
		}
	}
	return buf
}

func decodeSnapshot(data []byte) (primes, composites mapset.Set[int64], _ error) {
	rest, ok := bytes.CutPrefix(data, []byte(snapshotMagic))
	if !ok {
		return nil, nil, fmt.Errorf("%w: bad format marker", ErrBadSnapshot)
	}
	var sets [2]mapset.Set[int64]
	for i := range sets {
		count, n := binary.Uvarint(rest)
		if n <= 0 || count > uint64(len(rest)) {
			return nil, nil, fmt.Errorf("%w: bad count", ErrBadSnapshot)
		}
		rest = rest[n:]

		set := mapset.New[int64]()
		var prev int64
		for j := uint64(0); j < count; j++ {
			delta, n := binary.Uvarint(rest)
			if n <= 0 || delta == 0 && j > 0 {
				return nil, nil, fmt.Errorf("%w: bad entry %d", ErrBadSnapshot, j)
			}
			rest = rest[n:]
			next := prev + int64(delta)
			if next < 2 || next < prev {
				return nil, nil, fmt.Errorf("%w: value %d out of range", ErrBadSnapshot, next)
			}
			set.Add(next)
			prev = next
		}
		sets[i] = set
	}
	if len(rest) != 0 {
		return nil, nil, fmt.Errorf("%w: %d bytes of trailing data", ErrBadSnapshot, len(rest))
	}
	for n := range sets[0] {
		if sets[1].Has(n) {
			return nil, nil, fmt.Errorf("%w: %d is both prime and composite", ErrBadSnapshot, n)
		}
	}
	return sets[0], sets[1], nil
}
