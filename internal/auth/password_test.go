package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashIsSaltedAndVerifies(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	first, err := hasher.Hash("secret123")
	require.NoError(t, err)
	second, err := hasher.Hash("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, "secret123", first)
	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("secret123", first))
	assert.True(t, hasher.Verify("secret123", second))
}

func TestBcryptHasher_Verify(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("secret123")
	require.NoError(t, err)

	assert.False(t, hasher.Verify("wrong", hash))
	assert.False(t, hasher.Verify("", hash))
	assert.False(t, hasher.Verify("secret123", "invalid_hash"))
	assert.False(t, hasher.Verify("secret123", ""))
}

func TestBcryptHasher_Cost(t *testing.T) {
	hash, err := NewBcryptHasher(5).Hash("secret123")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 5, cost)

	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)
}
