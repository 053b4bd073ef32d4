package credential

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionSecretIsGeneratedOnce(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)

	first, err := SessionSecret(ring)
	require.NoError(t, err)
	assert.Len(t, first, secretBytes*2)

	second, err := SessionSecret(ring)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSessionSecretUsesStoredValue(t *testing.T) {
	ring := keyring.NewArrayKeyring([]keyring.Item{
		{Key: SessionSecretKey, Data: []byte("stored")},
	})

	secret, err := SessionSecret(ring)
	require.NoError(t, err)
	assert.Equal(t, []byte("stored"), secret)
}

func TestRotateSessionSecret(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)

	before, err := SessionSecret(ring)
	require.NoError(t, err)
	after, err := RotateSessionSecret(ring)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)

	current, err := SessionSecret(ring)
	require.NoError(t, err)
	assert.Equal(t, after, current)
}
