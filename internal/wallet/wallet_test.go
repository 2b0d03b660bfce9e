package wallet

import (
	"crypto/ed25519"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSeed_MatchesEd25519(t *testing.T) {
	seed := make([]byte, SeedSize)
	for i := range seed {
		seed[i] = byte(i * 7)
	}

	addr, err := FromSeed(seed)
	require.NoError(t, err)

	pub := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
	assert.Equal(t, base58.Encode(pub), addr)
}

func TestFromSeed_InvalidSeed(t *testing.T) {
	_, err := FromSeed([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidSeed)
}

func TestGenerate_ProducesValidUniqueAddresses(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		addr := Generate()
		require.NoError(t, Validate(addr))
		assert.False(t, seen[addr])
		seen[addr] = true
	}
}

func TestValidate_Rejects(t *testing.T) {
	assert.ErrorIs(t, Validate("not-base58-0OIl"), ErrInvalidAddress)
	assert.ErrorIs(t, Validate(base58.Encode([]byte{1, 2, 3})), ErrInvalidAddress)
}
