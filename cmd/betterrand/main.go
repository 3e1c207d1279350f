// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/accumulatenetwork/betterrand/config"
	cmdutil "gitlab.com/accumulatenetwork/betterrand/internal/util/cmd"
	"gitlab.com/accumulatenetwork/betterrand/pkg/errors"
	"gitlab.com/accumulatenetwork/betterrand/pkg/prng"
)

var cmdMain = &cobra.Command{
	Use:   "betterrand",
	Short: "Pseudo-random number generators with background reseeding",
	Run:   printUsageAndExit1,
}

var flagMain struct {
	Config    string
	LogFormat string
	LogRules  string
	Debug     bool
}

func init() {
	cmdMain.PersistentFlags().StringVarP(&flagMain.Config, "config", "c", "", "Configuration file (TOML, YAML, or JSON)")
	cmdMain.PersistentFlags().StringVar(&flagMain.LogFormat, "log-format", "", "Override the log format (plain, json)")
	cmdMain.PersistentFlags().StringVar(&flagMain.LogRules, "log-rules", "", "Override the log rules, e.g. info;reseed=debug")
	cmdMain.PersistentFlags().BoolVar(&flagMain.Debug, "debug", false, "Print errors with their call sites")
	cmdMain.PersistentPreRun = func(*cobra.Command, []string) {
		if flagMain.Debug {
			errors.EnableLocationTracking()
		}
	}
}

func main() {
	_ = cmdMain.Execute()
}

func printUsageAndExit1(cmd *cobra.Command, args []string) {
	_ = cmd.Usage()
	os.Exit(1)
}

// loadConfig loads the configuration file, if there is one, and applies the
// overrides.
func loadConfig() *config.Config {
	cfg := config.Default()
	if flagMain.Config != "" {
		var err error
		cfg, err = config.Load(flagMain.Config)
		cmdutil.Checkf(err, "load %s", flagMain.Config)
	}
	if flagMain.LogFormat != "" {
		cfg.Logging.Format = flagMain.LogFormat
	}
	if flagMain.LogRules != "" {
		cfg.Logging.Rules = flagMain.LogRules
	}
	cmdutil.Check(cfg.Validate())
	return cfg
}

func newLogger(cfg *config.Config) *slog.Logger {
	logger, err := cfg.NewLogger(os.Stderr)
	cmdutil.Checkf(err, "create logger")
	return logger
}

// newRandom returns a generator for the named algorithm, seeded with seed or,
// if seed is empty, from the configured sources.
func newRandom(cfg *config.Config, name string, seed []byte) (*prng.Random, error) {
	info, err := prng.Lookup(name)
	if err != nil {
		return nil, err
	}

	alg := info.New()
	if strings.EqualFold(info.Name, "AESCounter") {
		alg, err = cfg.NewAESCounter()
		if err != nil {
			return nil, err
		}
	}

	if len(seed) > 0 {
		return prng.New(alg, seed)
	}
	return prng.NewFromSource(alg, cfg.SeedSource())
}

func algorithmNames() []string {
	var names []string
	for _, info := range prng.Algorithms() {
		names = append(names, info.Name)
	}
	return names
}
