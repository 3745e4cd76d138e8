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

// Package cmdprime implements the "prime" subcommand.
package cmdprime

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/creachadair/command"
	"github.com/creachadair/rkhash/cmd/rkscan/config"
)

var primeFlags struct {
	Count int
	Check bool
}

var Command = &command.C{
	Name:  "prime",
	Usage: "[-n count]\n-check <n>...",
	Help: `Generate random large primes, or check primality of the arguments.

Generated primes are drawn from [10^9, 10^10) and are suitable as fingerprint
moduli. If a prime cache is configured, it is loaded before and saved after.`,

	SetFlags: func(_ *command.Env, fs *flag.FlagSet) {
		fs.IntVar(&primeFlags.Count, "n", 1, "Number of primes to generate")
		fs.BoolVar(&primeFlags.Check, "check", false, "Check the primality of the arguments")
	},

	Run: func(env *command.Env, args []string) error {
		return runPrime(env.Config.(*config.Settings), env, primeFlags.Check, primeFlags.Count, args)
	},
}

// runPrime checks each of args for primality if check is set, or otherwise
// writes count random large primes to w. The prime cache named by cfg is
// loaded before and saved after.
func runPrime(cfg *config.Settings, w io.Writer, check bool, count int, args []string) error {
	if check && len(args) == 0 {
		return errors.New("nothing to check")
	} else if !check && len(args) != 0 {
		return errors.New("extra arguments after prime")
	}

	ps, err := cfg.Supply()
	if err != nil {
		return err
	}
	if check {
		for _, arg := range args {
			n, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid number %q: %w", arg, err)
			}
			verdict := "composite"
			if ps.IsPrime(n) {
				verdict = "prime"
			}
			fmt.Fprintf(w, "%d\t%s\n", n, verdict)
		}
	} else {
		for i := 0; i < count; i++ {
			fmt.Fprintln(w, ps.RandomLargePrime())
		}
	}
	return cfg.SaveSupply(ps)
}
