// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gitlab.com/accumulatenetwork/betterrand/config"
	cmdutil "gitlab.com/accumulatenetwork/betterrand/internal/util/cmd"
	"gitlab.com/accumulatenetwork/betterrand/pkg/prng"
	"gitlab.com/accumulatenetwork/betterrand/pkg/prng/concurrent"
	"gitlab.com/accumulatenetwork/betterrand/pkg/reseed"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var cmdBench = &cobra.Command{
	Use:   "bench [algorithm...]",
	Short: "Measure throughput of the algorithms and adapters",
	Run:   bench,
}

var title = cases.Title(language.English)

var flagBench struct {
	Duration   time.Duration
	Goroutines int
	Adapters   []string
}

func init() {
	cmdMain.AddCommand(cmdBench)
	cmdBench.Flags().DurationVarP(&flagBench.Duration, "duration", "d", time.Second, "How long to run each benchmark")
	cmdBench.Flags().IntVarP(&flagBench.Goroutines, "goroutines", "g", 4, "Number of concurrent callers")
	cmdBench.Flags().StringSliceVarP(&flagBench.Adapters, "adapter", "a", []string{"locked", "pooled"}, "Adapters to measure (locked, pooled, split, reseeding-split)")
}

func bench(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	registry := reseed.NewRegistry(cfg.RegistryOptions(newLogger(cfg)))
	defer registry.Close()

	if len(args) == 0 {
		args = algorithmNames()
	}

	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader([]string{"Algorithm", "Adapter", "Calls", "Calls/s"})
	for _, adapter := range flagBench.Adapters {
		for _, name := range benchAlgorithms(adapter, args) {
			g, err := newAdapter(cfg, registry, adapter, name)
			cmdutil.Checkf(err, "%s %s", name, adapter)

			calls, err := measure(g, flagBench.Goroutines, flagBench.Duration)
			cmdutil.Check(err)
			rate := float64(calls) / flagBench.Duration.Seconds()
			tw.Append([]string{name, title.String(adapter), humanize.Comma(calls), humanize.Comma(int64(rate))})
		}
	}
	tw.Render()
}

// benchAlgorithms returns the algorithms an adapter is measured with. The
// split adapters always use SplitMix.
func benchAlgorithms(adapter string, names []string) []string {
	switch adapter {
	case "split", "reseeding-split":
		return []string{"SplitMix"}
	}
	return names
}

func newAdapter(cfg *config.Config, registry *reseed.Registry, adapter, name string) (prng.Generator, error) {
	factory := func() (*prng.Random, error) { return newRandom(cfg, name, nil) }
	switch adapter {
	case "locked":
		return factory()
	case "pooled":
		return concurrent.NewPooled(factory)
	case "split":
		seed, err := cfg.SeedSource().GenerateSeed(8)
		if err != nil {
			return nil, err
		}
		return concurrent.NewSplit(seed)
	case "reseeding-split":
		return concurrent.Intern(registry, cfg.SeedSource())
	default:
		return nil, fmt.Errorf("unknown adapter %q", adapter)
	}
}

// measure calls Uint64 from n goroutines for d and returns the total number
// of calls.
func measure(g prng.Generator, n int, d time.Duration) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	var calls atomic.Int64
	errg, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		errg.Go(func() error {
			var local int64
			for ctx.Err() == nil {
				for j := 0; j < 1000; j++ {
					g.Uint64()
				}
				local += 1000
			}
			calls.Add(local)
			return nil
		})
	}
	err := errg.Wait()
	return calls.Load(), err
}
