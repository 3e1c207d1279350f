// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	cmdutil "gitlab.com/accumulatenetwork/betterrand/internal/util/cmd"
	"gitlab.com/accumulatenetwork/betterrand/pkg/reseed"
)

var cmdReseed = &cobra.Command{
	Use:   "reseed <algorithm>",
	Short: "Watch a coordinator keep a generator supplied with entropy",
	Long: "Registers a generator with a coordinator for the configured seed " +
		"sources, then repeatedly drains it and prints its entropy. On Unix, " +
		"SIGHUP forces a reseed.",
	Args: cobra.ExactArgs(1),
	Run:  runReseed,
}

var flagReseed struct {
	Duration      time.Duration
	Interval      time.Duration
	Drain         int
	MetricsListen string
	PrintMetrics  bool
}

func init() {
	cmdMain.AddCommand(cmdReseed)
	cmdReseed.Flags().DurationVarP(&flagReseed.Duration, "duration", "d", 10*time.Second, "How long to run (0 runs until interrupted)")
	cmdReseed.Flags().DurationVar(&flagReseed.Interval, "interval", 500*time.Millisecond, "Time between reports")
	cmdReseed.Flags().IntVar(&flagReseed.Drain, "drain", 64, "Number of bytes to read between reports")
	cmdReseed.Flags().StringVar(&flagReseed.MetricsListen, "metrics-listen", "", "Serve Prometheus metrics on this address")
	cmdReseed.Flags().BoolVar(&flagReseed.PrintMetrics, "print-metrics", false, "Print the reseed metrics on exit")
}

func runReseed(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if flagReseed.Duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, flagReseed.Duration)
		defer cancel()
	}

	if flagReseed.MetricsListen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: flagReseed.MetricsListen, Handler: mux, ReadHeaderTimeout: time.Minute}
		go func() {
			err := srv.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				cmdutil.Warnf("Metrics server stopped: %v", err)
			}
		}()
		defer func() { _ = srv.Shutdown(context.Background()) }()
	}

	source := cfg.SeedSource()
	registry := reseed.NewRegistry(cfg.RegistryOptions(logger))
	defer registry.Close()

	r, err := newRandom(cfg, args[0], nil)
	cmdutil.Check(err)
	registry.Register(source, r)
	onHUP(ctx, func() {
		if registry.RequestReseedNow(source, r) {
			fmt.Println("Reseed requested")
		}
	})
	if flagReseed.PrintMetrics {
		defer printMetrics()
	}

	buf := make([]byte, flagReseed.Drain)
	tick := time.NewTicker(flagReseed.Interval)
	defer tick.Stop()
	for {
		fmt.Printf("%s  entropy=%d bits\n", time.Now().Format(time.TimeOnly), r.EntropyBits())
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			_, _ = r.Read(buf)
		}
	}
}

func printMetrics() {
	families, err := prometheus.DefaultGatherer.Gather()
	cmdutil.Checkf(err, "gather metrics")

	enc := expfmt.NewEncoder(os.Stdout, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "betterrand_") {
			continue
		}
		cmdutil.Check(enc.Encode(mf))
	}
}
