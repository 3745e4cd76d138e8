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

// Package cmddups implements the "dups" subcommand.
package cmddups

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/creachadair/command"
	"github.com/creachadair/rkhash/cmd/rkscan/config"
	"github.com/creachadair/rkhash/search"
)

var windowSize int

var Command = &command.C{
	Name:  "dups",
	Usage: "[-n length] <file>",
	Help: `Report repeated windows of the specified length in a file.

Each output line gives the number of occurrences, their offsets, and a quoted
prefix of the repeated content. Overlapping repeats are reported separately.`,

	SetFlags: func(_ *command.Env, fs *flag.FlagSet) {
		fs.IntVar(&windowSize, "n", 0, "Window length in bytes (default from config, or 32)")
	},

	Run: func(env *command.Env, args []string) error {
		if len(args) != 1 {
			return errors.New("exactly one file is required")
		}
		cfg := env.Config.(*config.Settings)
		n := windowSize
		if n <= 0 {
			n = cfg.Window
		}
		if n <= 0 {
			n = 32
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		groups := search.Duplicates(data, n, cfg.SearchOptions())
		cfg.Debugf("found %d repeated windows of length %d in %d bytes", len(groups), n, len(data))
		for _, g := range groups {
			sample := data[g[0] : g[0]+min(n, 24)]
			fmt.Fprintf(env, "%d\t%v\t%q\n", len(g), g, sample)
		}
		return nil
	},
}
