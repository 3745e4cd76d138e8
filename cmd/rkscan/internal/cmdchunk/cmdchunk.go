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

// Package cmdchunk implements the "chunk" subcommand.
package cmdchunk

import (
	"errors"
	"fmt"
	"os"

	"github.com/creachadair/command"
	"github.com/creachadair/rkhash/chunk"
	"github.com/creachadair/rkhash/cmd/rkscan/config"
	"github.com/creachadair/taskgroup"
)

type piece struct {
	key  string
	size int
}

var Command = &command.C{
	Name:  "chunk",
	Usage: "<file>...",
	Help: `Split files into content-defined chunks.

Prints the content address and size of each chunk, and a summary of how many
chunks are shared within and across the files.`,

	Run: func(env *command.Env, args []string) error {
		if len(args) == 0 {
			return errors.New("at least one file is required")
		}
		cfg := env.Config.(*config.Settings)
		ccfg := cfg.ChunkConfig()

		// Split the files concurrently, then catalog the results in order.
		pieces := make([][]piece, len(args))
		g, run := taskgroup.New(nil).Limit(cfg.NumWorkers())
		for i, path := range args {
			run(func() error {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()
				return chunk.NewSplitter(f, ccfg).Split(func(data []byte) error {
					pieces[i] = append(pieces[i], piece{key: chunk.Key(data), size: len(data)})
					return nil
				})
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		var cat chunk.Catalog
		for i, ps := range pieces {
			fmt.Fprintf(env, "# %s\n", args[i])
			for _, p := range ps {
				mark := " "
				if !cat.AddKey(p.key, p.size) {
					mark = "*"
				}
				fmt.Fprintf(env, "%s %s %d\n", mark, p.key, p.size)
			}
		}
		st := cat.Stats()
		fmt.Fprintf(env, "chunks: %d (%d unique); bytes: %d (%d unique)\n",
			st.Chunks, st.Unique, st.Bytes, st.UniqueBytes)
		return nil
	},
}
