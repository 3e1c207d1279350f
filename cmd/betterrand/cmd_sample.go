// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	cmdutil "gitlab.com/accumulatenetwork/betterrand/internal/util/cmd"
	"gitlab.com/accumulatenetwork/betterrand/pkg/prng"
)

var cmdSample = &cobra.Command{
	Use:   "sample <algorithm>",
	Short: "Print values from a generator",
	Long:  "Print values from a generator. Algorithms: " + strings.Join(algorithmNames(), ", "),
	Args:  cobra.ExactArgs(1),
	Run:   sample,
}

var flagSample = struct {
	Seed    HexFlag
	Count   int
	Bound   int64
	Kind    EnumFlag
	Entropy bool
}{
	Kind: EnumFlag{Value: "int", Allowed: []string{"int", "long", "float", "double", "gaussian", "bool", "bytes"}},
}

func init() {
	cmdMain.AddCommand(cmdSample)
	cmdSample.Flags().Var(&flagSample.Seed, "seed", "Seed in hex (default: draw from the configured sources)")
	cmdSample.Flags().IntVarP(&flagSample.Count, "count", "n", 10, "Number of values")
	cmdSample.Flags().Int64Var(&flagSample.Bound, "bound", 0, "Exclusive upper bound for int and long (0 means unbounded)")
	cmdSample.Flags().Var(&flagSample.Kind, "kind", "Kind of value")
	cmdSample.Flags().BoolVar(&flagSample.Entropy, "entropy", false, "Print the remaining entropy when done")
}

func sample(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	r, err := newRandom(cfg, args[0], flagSample.Seed)
	cmdutil.Check(err)

	for i := 0; i < flagSample.Count; i++ {
		fmt.Println(sampleValue(r, flagSample.Kind.Value, flagSample.Bound))
	}

	if flagSample.Entropy {
		fmt.Printf("Entropy: %d bits\n", r.EntropyBits())
	}
}

func sampleValue(r prng.Generator, kind string, bound int64) string {
	switch kind {
	case "long":
		if bound > 0 {
			return fmt.Sprint(r.Int64n(bound))
		}
		return fmt.Sprint(r.Int64())
	case "float":
		return fmt.Sprint(r.Float32())
	case "double":
		return fmt.Sprint(r.Float64())
	case "gaussian":
		return fmt.Sprint(r.NormFloat64())
	case "bool":
		return fmt.Sprint(r.Bool())
	case "bytes":
		b := make([]byte, 16)
		_, _ = r.Read(b)
		return hex.EncodeToString(b)
	default:
		if bound > 0 {
			if bound > 1<<31-1 {
				cmdutil.Fatalf("bound %d is too large for int", bound)
			}
			return fmt.Sprint(r.Int32n(int32(bound)))
		}
		return fmt.Sprint(r.Int32())
	}
}
