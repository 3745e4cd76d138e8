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

// Package config defines the configuration settings shared by the
// subcommands of the rkscan command-line tool.
package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/creachadair/rkhash/chunk"
	"github.com/creachadair/rkhash/prime"
	"github.com/creachadair/rkhash/search"
	yaml "gopkg.in/yaml.v3"
)

// Settings represents the stored configuration settings for the rkscan tool.
type Settings struct {
	// Context value governing the execution of the tool.
	Context context.Context `yaml:"-"`

	// Enable debug logging.
	Debug bool `yaml:"-"`

	// Fingerprint modulus. If zero, a default is chosen by each package.
	Modulus int64 `yaml:"modulus"`

	// Default window length for duplicate detection and chunk fingerprints.
	Window int `yaml:"window"`

	// Chunk size limits, in bytes. Zero values take package defaults.
	Chunk struct {
		Min  int `yaml:"min"`
		Size int `yaml:"size"`
		Max  int `yaml:"max"`
	} `yaml:"chunk"`

	// If set, the path of a snapshot file for the prime cache. The snapshot
	// is loaded before and saved after commands that generate primes.
	PrimeCache string `yaml:"prime-cache"`

	// Maximum number of files to process concurrently (0 means 4).
	Workers int `yaml:"workers"`
}

// SearchOptions returns search options reflecting the settings.
func (s *Settings) SearchOptions() *search.Options {
	return &search.Options{Modulus: s.Modulus, Workers: s.NumWorkers()}
}

// ChunkConfig returns a splitter configuration reflecting the settings.
func (s *Settings) ChunkConfig() *chunk.Config {
	return &chunk.Config{
		Window:  s.Window,
		Modulus: s.Modulus,
		Min:     s.Chunk.Min,
		Size:    s.Chunk.Size,
		Max:     s.Chunk.Max,
	}
}

// NumWorkers returns the number of concurrent workers to use.
func (s *Settings) NumWorkers() int {
	if s.Workers <= 0 {
		return 4
	}
	return s.Workers
}

// Supply returns a prime supply, warmed from the snapshot file if one is
// configured and exists.
func (s *Settings) Supply() (*prime.Supply, error) {
	ps := prime.New(nil)
	if s.PrimeCache == "" {
		return ps, nil
	}
	if err := ps.ReadFile(s.PrimeCache); errors.Is(err, os.ErrNotExist) {
		s.Debugf("no prime cache at %q", s.PrimeCache)
	} else if err != nil {
		return nil, fmt.Errorf("loading prime cache: %w", err)
	} else {
		s.Debugf("loaded %d cached verdicts from %q", ps.Len(), s.PrimeCache)
	}
	return ps, nil
}

// SaveSupply writes the cache of ps to the snapshot file, if one is
// configured.
func (s *Settings) SaveSupply(ps *prime.Supply) error {
	if s.PrimeCache == "" {
		return nil
	}
	if err := ps.WriteFile(s.PrimeCache); err != nil {
		return fmt.Errorf("saving prime cache: %w", err)
	}
	s.Debugf("saved %d cached verdicts to %q", ps.Len(), s.PrimeCache)
	return nil
}

// Debugf logs a debug message if debugging is enabled.
func (s *Settings) Debugf(msg string, args ...any) {
	if s.Debug {
		log.Printf("DEBUG :: "+msg, args...)
	}
}

// ExpandString calls os.ExpandEnv to expand environment variables in *s.
// The value of *s is replaced.
func ExpandString(s *string) { *s = os.ExpandEnv(*s) }

// Load reads and parses the contents of a config file from path.  If the
// specified path does not exist, an empty config is returned without error.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return new(Settings), nil
	} else if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg := new(Settings)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}
