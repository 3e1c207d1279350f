// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package prng

import (
	"encoding/binary"

	"gitlab.com/accumulatenetwork/betterrand/pkg/errors"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20"
)

const chachaSeedLength = chacha20.KeySize + cipherCounterSize

// ChaCha20Counter is a generator that outputs the ChaCha20 keystream for a
// 128-bit counter. The first 12 bytes of the counter are the nonce and the
// last 4 are the block counter, so the stream moves to the next nonce when
// the block counter wraps. The seed is a 32-byte key, optionally followed by
// up to 16 bytes that initialize the counter. ChaCha20Counter supports
// seeking.
type ChaCha20Counter struct {
	key    []byte
	seed   []byte
	seeded bool
	stream cipherCounter

	// Keystream state is reused while blocks are consecutive
	cipher  *chacha20.Cipher
	nonce   [chacha20.NonceSize]byte
	nextCtr uint32
}

var zeroChaChaBlock [64]byte

// NewChaCha20Counter returns a ChaCha20 counter generator.
func NewChaCha20Counter(seed []byte) (*Random, error) {
	return New(new(ChaCha20Counter), seed)
}

func (*ChaCha20Counter) Name() string    { return "ChaCha20Counter" }
func (*ChaCha20Counter) SeedLength() int { return chachaSeedLength }

func (g *ChaCha20Counter) Seed() []byte { return append([]byte(nil), g.seed...) }

// Reseed reinitializes the key and counter. Once seeded, a seed shorter than
// a key is hashed together with the current seed to make the new key.
func (g *ChaCha20Counter) Reseed(seed []byte) error {
	if seed == nil {
		return errors.MissingSeed.WithFormat("%s: seed must not be nil", g.Name())
	}
	if g.seeded && len(seed) < chacha20.KeySize {
		digest := blake2b.Sum256(append(append([]byte(nil), g.seed...), seed...))
		seed = digest[:]
	}
	err := checkSeed(g.Name(), seed, chacha20.KeySize, chachaSeedLength)
	if err != nil {
		return err
	}

	g.seed = append(g.seed[:0], seed...)
	g.key = append(g.key[:0], seed[:chacha20.KeySize]...)
	g.cipher = nil
	if g.stream.block == nil {
		g.stream.init(len(zeroChaChaBlock), g.keystreamBlock)
	}
	g.stream.reset(seed[chacha20.KeySize:])
	g.seeded = true
	return nil
}

func (g *ChaCha20Counter) keystreamBlock(dst []byte, ctr *counter128) {
	n := binary.BigEndian.Uint32(ctr[chacha20.NonceSize:])
	if g.cipher == nil || n != g.nextCtr || n == 0 || [chacha20.NonceSize]byte(ctr[:chacha20.NonceSize]) != g.nonce {
		g.nonce = [chacha20.NonceSize]byte(ctr[:chacha20.NonceSize])
		c, err := chacha20.NewUnauthenticatedCipher(g.key, g.nonce[:])
		if err != nil {
			// The key and nonce sizes are fixed
			panic(err)
		}
		c.SetCounter(n)
		g.cipher = c
	}
	g.cipher.XORKeyStream(dst, zeroChaChaBlock[:])
	g.nextCtr = n + 1
}

func (g *ChaCha20Counter) Next() uint32 { return g.stream.next() }

func (g *ChaCha20Counter) Advance(delta int64) { g.stream.advance(delta) }

func (g *ChaCha20Counter) DescribeFields() map[string]any {
	return g.stream.describe(map[string]any{})
}
