// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package prng

import (
	"crypto/aes"
	"crypto/cipher"

	"gitlab.com/accumulatenetwork/betterrand/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

const (
	aesMinSeedLength = 16
	aesDefaultMaxKey = 32
)

// AESCounter is a generator that encrypts a 128-bit counter with AES. The
// seed is 16 bytes to the maximum key length plus 16 bytes; the key takes as
// much of it as allowed and the rest initializes the counter. AESCounter
// supports seeking.
type AESCounter struct {
	maxKey int
	seed   []byte
	seeded bool
	cipher cipher.Block
	stream cipherCounter
}

// NewAESCounter returns an AES counter generator with the default maximum key
// length of 32 bytes.
func NewAESCounter(seed []byte) (*Random, error) {
	return New(new(AESCounter), seed)
}

// NewAESCounterWithMaxKey returns an AES counter algorithm whose keys are at
// most maxKey bytes. maxKey must be 16, 24, or 32.
func NewAESCounterWithMaxKey(maxKey int) (*AESCounter, error) {
	switch maxKey {
	case 16, 24, 32:
		return &AESCounter{maxKey: maxKey}, nil
	default:
		return nil, errors.UnsupportedKeyLength.WithFormat("AES key length %d is not supported", maxKey)
	}
}

func (*AESCounter) Name() string { return "AESCounter" }

// MaxKeyLength returns the longest key the algorithm will use.
func (g *AESCounter) MaxKeyLength() int {
	if g.maxKey == 0 {
		return aesDefaultMaxKey
	}
	return g.maxKey
}

// SeedLength returns the maximum key length plus the counter size.
func (g *AESCounter) SeedLength() int { return g.MaxKeyLength() + cipherCounterSize }

func (g *AESCounter) Seed() []byte { return append([]byte(nil), g.seed...) }

func (g *AESCounter) keyLength(n int) int {
	switch {
	case n > g.MaxKeyLength():
		return g.MaxKeyLength()
	case n >= 24:
		return 24
	default:
		return 16
	}
}

// Reseed reinitializes the key and counter. Once seeded, a seed shorter than
// the maximum key length is combined with the current seed rather than
// replacing it, so that a short seed never weakens the key.
func (g *AESCounter) Reseed(seed []byte) error {
	if seed == nil {
		return errors.MissingSeed.WithFormat("%s: seed must not be nil", g.Name())
	}
	if g.seeded && len(seed) < g.MaxKeyLength() {
		seed = g.extendKey(seed)
	}
	err := checkSeed(g.Name(), seed, aesMinSeedLength, g.SeedLength())
	if err != nil {
		return err
	}

	keyLen := g.keyLength(len(seed))
	block, err := aes.NewCipher(seed[:keyLen])
	if err != nil {
		return errors.UnsupportedKeyLength.WithCauseAndFormat(err, "%s: key length %d", g.Name(), keyLen)
	}

	g.seed = append(g.seed[:0], seed...)
	g.cipher = block
	if g.stream.block == nil {
		g.stream.init(aes.BlockSize, g.encryptBlock)
	}
	g.stream.reset(seed[keyLen:])
	g.seeded = true
	return nil
}

func (g *AESCounter) extendKey(seed []byte) []byte {
	combined := make([]byte, 0, len(g.seed)+len(seed))
	combined = append(combined, g.seed...)
	combined = append(combined, seed...)
	keyLen := g.keyLength(len(combined))
	if len(combined) <= keyLen {
		return combined
	}
	digest := blake2b.Sum256(combined)
	return digest[:keyLen]
}

func (g *AESCounter) encryptBlock(dst []byte, ctr *counter128) {
	g.cipher.Encrypt(dst, ctr[:])
}

func (g *AESCounter) Next() uint32 { return g.stream.next() }

// Advance moves the counter by whole blocks and then sets the position
// within the block.
func (g *AESCounter) Advance(delta int64) { g.stream.advance(delta) }

func (g *AESCounter) DescribeFields() map[string]any {
	return g.stream.describe(map[string]any{
		"maxKeyLen": g.MaxKeyLength(),
	})
}
