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

package chunk

import (
	"encoding/hex"

	"github.com/creachadair/mds/mapset"
	"golang.org/x/crypto/blake2b"
)

// Key returns the content address of data, the hex-encoded BLAKE2b-256
// digest of its contents.
func Key(data []byte) string {
	h := blake2b.Sum256(data)
	return hex.EncodeToString(h[:])
}

// A Catalog records the content addresses of chunks, to measure how much of
// a chunked stream is duplicated. The zero value is ready for use. A Catalog
// is not safe for concurrent use without external synchronization.
type Catalog struct {
	keys  mapset.Set[string]
	stats Stats
}

// Stats record totals for the chunks added to a Catalog.
type Stats struct {
	Chunks      int   // the number of chunks added
	Unique      int   // the number of distinct chunks added
	Bytes       int64 // the total size of all chunks added
	UniqueBytes int64 // the total size of distinct chunks added
}

// Add records a chunk in the catalog. It returns the content address of the
// chunk, and reports whether this is the first time that content was added.
func (c *Catalog) Add(data []byte) (key string, isNew bool) {
	key = Key(data)
	return key, c.AddKey(key, len(data))
}

// AddKey records a chunk of the given size by its content address, and
// reports whether the key is new to the catalog.
func (c *Catalog) AddKey(key string, size int) bool {
	if c.keys == nil {
		c.keys = mapset.New[string]()
	}
	c.stats.Chunks++
	c.stats.Bytes += int64(size)
	if c.keys.Has(key) {
		return false
	}
	c.keys.Add(key)
	c.stats.Unique++
	c.stats.UniqueBytes += int64(size)
	return true
}

// Has reports whether a chunk with the given content address has been added.
func (c *Catalog) Has(key string) bool { return c.keys.Has(key) }

// Stats returns the totals for the chunks added to c.
func (c *Catalog) Stats() Stats { return c.stats }
