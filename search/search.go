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

// Package search implements substring search and duplicate detection over
// byte slices using rolling fingerprints.
//
// Windows whose fingerprints match are always compared byte for byte before
// they are reported, so results are exact even when fingerprints collide.
package search

import (
	"bytes"
	"context"
	"runtime"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/creachadair/rkhash/rolling"
	"github.com/creachadair/taskgroup"
)

// DefaultModulus is the fingerprint modulus used if none is set in Options.
const DefaultModulus = 2147483659

// Options are optional settings for searches. A nil *Options is ready for
// use and provides default values as described.
type Options struct {
	// The modulus for rolling fingerprints. If ≤ 0, uses DefaultModulus.
	// Any positive value gives correct results; a large prime makes
	// collisions, and hence literal comparisons, rare.
	Modulus int64

	// The maximum number of documents FindAll searches concurrently.
	// If ≤ 0, uses runtime.NumCPU().
	Workers int
}

func (o *Options) modulus() int64 {
	if o == nil || o.Modulus <= 0 {
		return DefaultModulus
	}
	return o.Modulus
}

func (o *Options) workers() int {
	if o == nil || o.Workers <= 0 {
		return runtime.NumCPU()
	}
	return o.Workers
}

// Index returns the offset of the first occurrence of pattern in text, or -1
// if pattern does not occur. An empty pattern occurs at offset 0.
func Index(text, pattern []byte, opts *Options) int {
	pos := -1
	scan(text, pattern, opts.modulus(), func(i int) bool {
		pos = i
		return false
	})
	return pos
}

// IndexAll returns the offsets of all occurrences of pattern in text, in
// increasing order. Occurrences may overlap. An empty pattern occurs at every
// offset from 0 to len(text) inclusive.
func IndexAll(text, pattern []byte, opts *Options) []int {
	var out []int
	scan(text, pattern, opts.modulus(), func(i int) bool {
		out = append(out, i)
		return true
	})
	return out
}

// FindAll reports the result of IndexAll for pattern in each of docs. The
// documents are searched concurrently, at most opts.Workers at a time. If ctx
// ends before every document has been searched, FindAll reports the error
// from ctx; a document already in progress is searched to completion.
func FindAll(ctx context.Context, docs [][]byte, pattern []byte, opts *Options) ([][]int, error) {
	out := make([][]int, len(docs))
	g, run := taskgroup.New(nil).Limit(opts.workers())
	for i, doc := range docs {
		run(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = IndexAll(doc, pattern, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// scan calls f with the offset of each occurrence of pattern in text, in
// order, until f returns false or no further matches remain.
func scan(text, pattern []byte, q int64, f func(int) bool) {
	n := len(pattern)
	if n == 0 {
		for i := 0; i <= len(text); i++ {
			if !f(i) {
				return
			}
		}
		return
	} else if n > len(text) {
		return
	}

	want := rolling.New(pattern, 0, n, q)
	h := rolling.New(text, 0, n, q)
	for {
		if rolling.Same(h, want) && bytes.Equal(h.Bytes(), pattern) {
			if lo, _ := h.Window(); !f(lo) {
				return
			}
		}
		if !h.Advance() {
			return
		}
	}
}

// Duplicates reports the offsets of the length-n windows of data that occur
// more than once. Each group lists the offsets, in increasing order, of a set
// of identical windows. Groups are ordered by their first offset. Duplicates
// returns nil if n ≤ 0 or n > len(data).
func Duplicates(data []byte, n int, opts *Options) [][]int {
	if n <= 0 || n > len(data) {
		return nil
	}

	// Bucket window offsets by fingerprint. Only buckets with more than one
	// member can hold duplicates.
	buckets := make(map[uint64][]int)
	h := rolling.New(data, 0, n, opts.modulus())
	for {
		lo, _ := h.Window()
		buckets[h.Value()] = append(buckets[h.Value()], lo)
		if !h.Advance() {
			break
		}
	}

	var out [][]int
	for _, offsets := range buckets {
		if len(offsets) < 2 {
			continue
		}
		for _, g := range splitBucket(data, n, offsets) {
			if len(g) > 1 {
				out = append(out, g)
			}
		}
	}
	slices.SortFunc(out, func(a, b []int) int { return a[0] - b[0] })
	return out
}

// splitBucket partitions offsets, whose windows share a fingerprint, into
// groups whose windows are byte-for-byte identical. A fingerprint collision
// between distinct windows yields more than one group.
func splitBucket(data []byte, n int, offsets []int) [][]int {
	var groups [][]int
	byKey := make(map[uint64][]int) // content hash → indexes into groups
	for _, off := range offsets {
		w := data[off : off+n]
		key := xxhash.Sum64(w)

		found := false
		for _, gi := range byKey[key] {
			if first := groups[gi][0]; bytes.Equal(data[first:first+n], w) {
				groups[gi] = append(groups[gi], off)
				found = true
				break
			}
		}
		if !found {
			byKey[key] = append(byKey[key], len(groups))
			groups = append(groups, []int{off})
		}
	}
	return groups
}
