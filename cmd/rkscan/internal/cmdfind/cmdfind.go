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

// Package cmdfind implements the "find" subcommand.
package cmdfind

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/creachadair/command"
	"github.com/creachadair/rkhash/cmd/rkscan/config"
	"github.com/creachadair/rkhash/search"
)

var Command = &command.C{
	Name:  "find",
	Usage: "<pattern> <file>...",
	Help:  "Print the offsets of each occurrence of pattern in the specified files.",

	Run: func(env *command.Env, args []string) error {
		if len(args) < 2 {
			return errors.New("a pattern and at least one file are required")
		}
		cfg := env.Config.(*config.Settings)
		pattern, paths := []byte(args[0]), args[1:]

		docs := make([][]byte, len(paths))
		for i, path := range paths {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			docs[i] = data
		}
		cfg.Debugf("searching %d files for %q", len(docs), pattern)

		found, err := search.FindAll(cfg.Context, docs, pattern, cfg.SearchOptions())
		if err != nil {
			return err
		}
		for i, offsets := range found {
			strs := make([]string, len(offsets))
			for j, off := range offsets {
				strs[j] = fmt.Sprint(off)
			}
			fmt.Fprintf(env, "%s\t%d\t%s\n", paths[i], len(offsets), strings.Join(strs, ","))
		}
		return nil
	},
}
