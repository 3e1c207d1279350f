// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package reseed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reseed coordinator metrics
var (
	mReseeds = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "betterrand",
		Subsystem: "reseed",
		Name:      "reseeds_total",
		Help:      "Number of times a generator has been reseeded",
	})
	mFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "betterrand",
		Subsystem: "reseed",
		Name:      "failures_total",
		Help:      "Number of coordinators that stopped because reseeding failed",
	})
	mCoordinators = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "betterrand",
		Subsystem: "reseed",
		Name:      "coordinators_running",
		Help:      "Number of running coordinators",
	})
	mGenerators = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "betterrand",
		Subsystem: "reseed",
		Name:      "generators_registered",
		Help:      "Number of generators registered with a coordinator",
	})
)
