// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

//go:build unix

package main

import (
	"context"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// onHUP calls fn for every SIGHUP until ctx is done.
func onHUP(ctx context.Context, fn func()) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGHUP)

	go func() {
		defer signal.Stop(sigs)
		for {
			select {
			case <-sigs:
				fn()
			case <-ctx.Done():
				return
			}
		}
	}()
}
