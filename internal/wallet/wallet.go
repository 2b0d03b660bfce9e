// Package wallet generates synthetic Solana-style addresses for tokens and trader agents.
//
// An address is the base58 encoding of an ed25519 public key derived from a 32-byte seed.
package wallet

import (
	"crypto/rand"
	"crypto/sha512"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// SeedSize is the size of a key seed in bytes.
const SeedSize = 32

var (
	// ErrInvalidSeed is returned when a seed is not SeedSize bytes.
	ErrInvalidSeed = errors.New("seed must be 32 bytes")

	// ErrInvalidAddress is returned when an address does not decode to a curve point.
	ErrInvalidAddress = errors.New("invalid address")
)

// FromSeed derives the base58 address for seed.
func FromSeed(seed []byte) (string, error) {
	if len(seed) != SeedSize {
		return "", ErrInvalidSeed
	}
	h := sha512.Sum512(seed)
	s, err := edwards25519.NewScalar().SetBytesWithClamping(h[:32])
	if err != nil {
		return "", fmt.Errorf("clamp scalar: %w", err)
	}
	pub := new(edwards25519.Point).ScalarBaseMult(s)
	return base58.Encode(pub.Bytes()), nil
}

// Generate returns a fresh random address.
func Generate() string {
	seed := make([]byte, SeedSize)
	_, _ = rand.Read(seed)
	addr, _ := FromSeed(seed)
	return addr
}

// Validate checks that addr decodes to a 32-byte point on the curve.
func Validate(addr string) error {
	raw, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(raw) != 32 {
		return fmt.Errorf("%w: length %d", ErrInvalidAddress, len(raw))
	}
	if _, err := new(edwards25519.Point).SetBytes(raw); err != nil {
		return fmt.Errorf("%w: not on curve", ErrInvalidAddress)
	}
	return nil
}
