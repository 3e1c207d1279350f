// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml"
	"github.com/spf13/viper"
	"gitlab.com/accumulatenetwork/betterrand/internal/logging"
	"gitlab.com/accumulatenetwork/betterrand/pkg/prng"
	"gitlab.com/accumulatenetwork/betterrand/pkg/reseed"
	"gitlab.com/accumulatenetwork/betterrand/pkg/seed"
)

type SourceType string

const (
	DevRandomSource SourceType = "devrandom"
	CryptoSource    SourceType = "crypto"
	WebSource       SourceType = "web"
)

const DefaultLogRules = "info"

type Config struct {
	Reseed  Reseed  `toml:"reseed" mapstructure:"reseed"`
	Seed    Seed    `toml:"seed" mapstructure:"seed"`
	AES     AES     `toml:"aes" mapstructure:"aes"`
	Logging Logging `toml:"logging" mapstructure:"logging"`
}

type Reseed struct {
	PollInterval      time.Duration `toml:"poll-interval" mapstructure:"poll-interval" validate:"gt=0"`
	FirstPollInterval time.Duration `toml:"first-poll-interval" mapstructure:"first-poll-interval" validate:"gt=0,ltefield=PollInterval"`
	IdleTimeout       time.Duration `toml:"idle-timeout" mapstructure:"idle-timeout" validate:"gt=0"`
}

type Seed struct {
	// Sources are tried in order.
	Sources       []SourceType  `toml:"sources" mapstructure:"sources" validate:"min=1,dive,oneof=devrandom crypto web"`
	BufferSize    int           `toml:"buffer-size" mapstructure:"buffer-size" validate:"gte=0"`
	DevRandomPath string        `toml:"dev-random-path" mapstructure:"dev-random-path"`
	WebURL        string        `toml:"web-url" mapstructure:"web-url" validate:"omitempty,url"`
	WebFormat     string        `toml:"web-format" mapstructure:"web-format" validate:"omitempty,oneof=json plain"`
	WebRetryDelay time.Duration `toml:"web-retry-delay" mapstructure:"web-retry-delay" validate:"gte=0"`
}

type AES struct {
	MaxKeyLength int `toml:"max-key-length" mapstructure:"max-key-length" validate:"oneof=16 24 32"`
}

type Logging struct {
	Format string `toml:"format" mapstructure:"format" validate:"oneof=plain text json"`
	Rules  string `toml:"rules" mapstructure:"rules"`
}

func Default() *Config {
	c := new(Config)
	c.Reseed.PollInterval = reseed.DefaultPollInterval
	c.Reseed.FirstPollInterval = reseed.DefaultFirstPollInterval
	c.Reseed.IdleTimeout = reseed.DefaultIdleTimeout
	c.Seed.Sources = []SourceType{DevRandomSource, CryptoSource}
	c.Seed.BufferSize = 128
	c.Seed.DevRandomPath = seed.DefaultDevRandomPath
	c.Seed.WebURL = "https://qrng.anu.edu.au/API/jsonI.php"
	c.Seed.WebFormat = "json"
	c.Seed.WebRetryDelay = seed.DefaultWebRetryDelay
	c.AES.MaxKeyLength = 32
	c.Logging.Format = "plain"
	c.Logging.Rules = DefaultLogRules
	return c
}

var validate = validator.New()

// Validate checks every field and that the rules parse.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	_, err = logging.ParseRules(c.Logging.Rules)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	for _, s := range c.Seed.Sources {
		if s == WebSource && c.Seed.WebURL == "" {
			return fmt.Errorf("validate: the web source requires a URL")
		}
	}
	return nil
}

// Load reads a TOML, YAML or JSON file, on top of the defaults. Values can
// be overridden by BETTERRAND_* environment variables, for example
// BETTERRAND_RESEED_POLL_INTERVAL.
func Load(file string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(file)
	v.SetEnvPrefix("betterrand")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	err := v.ReadInConfig()
	if err != nil {
		return nil, fmt.Errorf("read: %v", err)
	}

	c := Default()
	if v.IsSet("seed.sources") {
		// Decoding into a non-empty slice would keep trailing defaults
		c.Seed.Sources = nil
	}
	err = v.Unmarshal(c)
	if err != nil {
		return nil, fmt.Errorf("unmarshal: %v", err)
	}

	err = c.Validate()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Save writes the configuration as TOML.
func (c *Config) Save(file string) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}

// SeedSource builds the chain of configured sources.
func (c *Config) SeedSource() seed.Source {
	var sources []seed.Source
	for _, s := range c.Seed.Sources {
		switch s {
		case DevRandomSource:
			var src seed.Source = seed.NewDevRandom(c.Seed.DevRandomPath)
			if c.Seed.BufferSize > 0 {
				src = seed.NewBuffered(src, c.Seed.BufferSize)
			}
			sources = append(sources, src)

		case CryptoSource:
			sources = append(sources, seed.Crypto)

		case WebSource:
			format := seed.WebJSON
			if c.Seed.WebFormat == "plain" {
				format = seed.WebPlain
			}
			sources = append(sources, seed.NewWeb(c.Seed.WebURL, format, c.Seed.WebRetryDelay))
		}
	}
	return seed.NewChain(true, sources...)
}

// RegistryOptions returns coordinator options.
func (c *Config) RegistryOptions(logger *slog.Logger) reseed.Options {
	return reseed.Options{
		PollInterval:      c.Reseed.PollInterval,
		FirstPollInterval: c.Reseed.FirstPollInterval,
		IdleTimeout:       c.Reseed.IdleTimeout,
		Logger:            logger,
	}
}

// NewAESCounter returns an AES counter algorithm with the configured key
// length limit.
func (c *Config) NewAESCounter() (*prng.AESCounter, error) {
	return prng.NewAESCounterWithMaxKey(c.AES.MaxKeyLength)
}

// NewLogger returns a logger that writes to w.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	rules, err := logging.ParseRules(c.Logging.Rules)
	if err != nil {
		return nil, err
	}
	return logging.NewSlogLogger(c.Logging.Format, logging.SlogConfig{
		DefaultLevel: slog.LevelInfo,
		Rules:        rules,
	}, w)
}
