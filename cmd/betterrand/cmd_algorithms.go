// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gitlab.com/accumulatenetwork/betterrand/pkg/prng"
)

var cmdAlgorithms = &cobra.Command{
	Use:   "algorithms",
	Short: "List the available algorithms",
	Args:  cobra.NoArgs,
	Run:   listAlgorithms,
}

func init() {
	cmdMain.AddCommand(cmdAlgorithms)
}

func listAlgorithms(*cobra.Command, []string) {
	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader([]string{"Algorithm", "Seed length", "Accepts", "Seekable"})
	for _, info := range prng.Algorithms() {
		accepts := strconv.Itoa(info.MinSeed)
		if info.MaxSeed != info.MinSeed {
			accepts += "-" + strconv.Itoa(info.MaxSeed)
		}
		tw.Append([]string{
			info.Name,
			strconv.Itoa(info.SeedLength),
			accepts,
			strconv.FormatBool(info.Seekable),
		})
	}
	tw.Render()
}
