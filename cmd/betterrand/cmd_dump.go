// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	cmdutil "gitlab.com/accumulatenetwork/betterrand/internal/util/cmd"
	"gopkg.in/yaml.v3"
)

var cmdDump = &cobra.Command{
	Use:   "dump <algorithm>",
	Short: "Describe the state of a generator",
	Args:  cobra.ExactArgs(1),
	Run:   dump,
}

var flagDump = struct {
	Seed   HexFlag
	Skip   int
	Format EnumFlag
}{
	Format: EnumFlag{Value: "text", Allowed: []string{"text", "json", "yaml"}},
}

func init() {
	cmdMain.AddCommand(cmdDump)
	cmdDump.Flags().Var(&flagDump.Seed, "seed", "Seed in hex (default: draw from the configured sources)")
	cmdDump.Flags().IntVar(&flagDump.Skip, "skip", 0, "Number of outputs to draw before describing")
	cmdDump.Flags().Var(&flagDump.Format, "format", "Output format")
}

func dump(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	r, err := newRandom(cfg, args[0], flagDump.Seed)
	cmdutil.Check(err)
	for i := 0; i < flagDump.Skip; i++ {
		r.Uint32()
	}

	desc := r.Describe()
	switch flagDump.Format.Value {
	case "json":
		b, err := json.MarshalIndent(desc, "", "  ")
		cmdutil.Check(err)
		fmt.Println(string(b))
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		cmdutil.Check(enc.Encode(desc))
		cmdutil.Check(enc.Close())
	default:
		sc := spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}
		sc.Fdump(os.Stdout, desc)
	}
}
