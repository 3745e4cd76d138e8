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

// Package chunk implements content-defined partitioning of a stream of bytes
// into chunks, using a rolling fingerprint to choose the cut points.
//
// A cut is placed after any byte where the fingerprint of the window ending
// at that byte is 1 modulo the desired chunk size, subject to minimum and
// maximum chunk lengths. Because cut points depend only on nearby content,
// an edit to the stream disturbs the chunks around the edit, and the
// chunking resynchronizes after it. This is the scheme used by LBFS:
//
//	https://pdos.csail.mit.edu/papers/lbfs:sosp01/lbfs.pdf
package chunk

import (
	"bufio"
	"io"

	"github.com/creachadair/rkhash/rolling"
)

// These values are the defaults used if none are specified in the config.
const (
	// DefaultWindow is the default fingerprint window, in bytes.
	DefaultWindow = 48

	// DefaultModulus is the default fingerprint modulus.
	DefaultModulus = 2147483659

	// DefaultMin is the default minimum chunk size, in bytes.
	DefaultMin = 2048

	// DefaultSize is the default target chunk size, in bytes.
	DefaultSize = 16384

	// DefaultMax is the default maximum chunk size, in bytes.
	DefaultMax = 65536
)

// A Hash is a rolling hash over a stream of bytes.
// A *rolling.Ring satisfies this interface.
type Hash interface {
	// Update shifts b into the window and returns the updated hash value.
	Update(b byte) uint64
}

// A Config contains the settings to construct a Splitter. A nil *Config is
// ready for use and provides default values as described.
type Config struct {
	// Construct the rolling hash used to find cut points. If nil, the
	// splitter uses a rolling.Ring with the Window and Modulus settings.
	NewHash func() Hash

	// Fingerprint window size in bytes. If ≤ 0, uses DefaultWindow.
	Window int

	// Fingerprint modulus. If ≤ 0, uses DefaultModulus.
	Modulus int64

	// Minimum chunk size, in bytes. The splitter will not cut a chunk until
	// it is at least this size.
	Min int

	// Desired chunk size, in bytes. The splitter will attempt to generate
	// chunks of approximately this average size.
	Size int

	// Maximum chunk size, in bytes. The splitter will cut any chunk that
	// reaches this size, even if the fingerprint does not call for a cut.
	Max int
}

func (c *Config) newHash() Hash {
	if c == nil || c.NewHash == nil {
		return rolling.NewRing(c.window(), c.modulus())
	}
	return c.NewHash()
}

func (c *Config) window() int {
	if c == nil || c.Window <= 0 {
		return DefaultWindow
	}
	return c.Window
}

func (c *Config) modulus() int64 {
	if c == nil || c.Modulus <= 0 {
		return DefaultModulus
	}
	return c.Modulus
}

func (c *Config) min() int {
	if c == nil || c.Min <= 0 {
		return DefaultMin
	}
	return c.Min
}

func (c *Config) size() int {
	if c == nil || c.Size <= 0 {
		return DefaultSize
	}
	return c.Size
}

func (c *Config) max() int {
	if c == nil || c.Max <= 0 {
		return DefaultMax
	}
	return c.Max
}

// A Splitter reads data from an io.Reader and partitions it into chunks.
type Splitter struct {
	reader *bufio.Reader
	hash   Hash
	min    int    // minimum chunk size
	size   int    // desired chunk size
	next   int    // next unused offset in buf
	end    int    // end of the previous chunk
	buf    []byte // incoming data, holds at most one maximal chunk
}

// NewSplitter constructs a Splitter that reads its data from r and partitions
// it into chunks using the settings from c.
func NewSplitter(r io.Reader, c *Config) *Splitter {
	buf, ok := r.(*bufio.Reader)
	if !ok {
		buf = bufio.NewReaderSize(r, c.max())
	}
	return &Splitter{
		reader: buf,
		hash:   c.newHash(),
		min:    c.min(),
		size:   c.size(),
		buf:    make([]byte, c.max()),
	}
}

// Next returns the next available chunk, or an error. The slice returned is
// only valid until a subsequent call of Next. Next returns nil, io.EOF when
// no further chunks are available.
func (s *Splitter) Next() ([]byte, error) {
	// Discard the previous chunk, if any. The data move, so this invalidates
	// the slice returned by the previous call.
	if s.end > 0 {
		copy(s.buf, s.buf[s.end:s.next])
		s.next -= s.end
		s.end = 0
	}

	i := 0 // the position of the next candidate cut
	for {
		// An EOF here is not final; data may remain in the buffer.
		nr, err := s.reader.Read(s.buf[s.next:])
		if err != nil && err != io.EOF {
			return nil, err
		}
		s.next += nr

		// Each byte is hashed exactly once: i is kept across reads, and bytes
		// after a cut stay in the buffer for the next call.
		cut := false
		for i < s.next {
			u := s.hash.Update(s.buf[i])
			i++
			if u%uint64(s.size) == 1 && i >= s.min {
				cut = true
				break
			}
		}

		// Emit a chunk at a cut, when the buffer is full, or at the end of
		// the input if anything is left.
		if cut || i >= len(s.buf) || (i > 0 && err == io.EOF) {
			s.end = i
			return s.buf[:i], nil
		} else if err == io.EOF {
			return nil, io.EOF
		}
	}
}

// Split calls f with each chunk of s in sequence, until there are no further
// chunks or until f returns an error. An error from f stops the scan and is
// returned to the caller of Split.
//
// The slice passed to f is only valid while f is active; if f wishes to keep
// a chunk after it returns, it must be copied.
func (s *Splitter) Split(f func(data []byte) error) error {
	for {
		chunk, err := s.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		} else if err := f(chunk); err != nil {
			return err
		}
	}
}
