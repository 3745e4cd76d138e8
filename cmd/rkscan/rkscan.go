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

// Program rkscan searches, deduplicates, and chunks files using rolling
// Rabin-Karp fingerprints.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/creachadair/command"
	"github.com/creachadair/rkhash/cmd/rkscan/config"

	// Subcommands.
	"github.com/creachadair/rkhash/cmd/rkscan/internal/cmdchunk"
	"github.com/creachadair/rkhash/cmd/rkscan/internal/cmddups"
	"github.com/creachadair/rkhash/cmd/rkscan/internal/cmdfind"
	"github.com/creachadair/rkhash/cmd/rkscan/internal/cmdprime"
)

var (
	configPath = "$HOME/.config/rkscan/config.yml"
	modulus    int64
	debug      bool
)

func main() {
	root := &command.C{
		Name: filepath.Base(os.Args[0]),
		Usage: `[options] <command> [arguments]
help [<command>]`,
		Help: `A command-line tool for rolling-fingerprint scans of files.

The RKSCAN_CONFIG environment variable, if set, names the configuration file.`,

		SetFlags: func(env *command.Env, fs *flag.FlagSet) {
			if cf, ok := os.LookupEnv("RKSCAN_CONFIG"); ok && cf != "" {
				configPath = cf
			}
			fs.StringVar(&configPath, "config", configPath, "Configuration file path")
			fs.Int64Var(&modulus, "modulus", 0, "Fingerprint modulus (overrides config)")
			fs.BoolVar(&debug, "debug", false, "Enable debug logging")
		},

		Init: func(env *command.Env) error {
			cfg, err := config.Load(os.ExpandEnv(configPath))
			if err != nil {
				return err
			}
			if modulus != 0 {
				cfg.Modulus = modulus
			}
			if cfg.Modulus < 0 {
				return errors.New("modulus must be positive")
			}
			cfg.Context = context.Background()
			cfg.Debug = debug
			config.ExpandString(&cfg.PrimeCache)
			env.Config = cfg
			return nil
		},

		Commands: []*command.C{
			cmdprime.Command,
			cmdfind.Command,
			cmddups.Command,
			cmdchunk.Command,
			command.HelpCommand(nil),
		},
	}
	if err := command.Execute(root.NewEnv(nil), os.Args[1:]); err != nil {
		if errors.Is(err, command.ErrUsage) {
			os.Exit(2)
		}
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}
