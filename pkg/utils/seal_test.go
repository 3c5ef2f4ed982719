package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealer(t *testing.T) {
	s, err := NewSealer("0123456789abcdef-secret")
	require.NoError(t, err)

	sealed, err := s.Seal("access-token")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "access-token")

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "access-token", plain)

	other, err := NewSealer("another-secret-value")
	require.NoError(t, err)
	_, err = other.Open(sealed)
	assert.Error(t, err)

	empty, err := s.Seal("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = NewSealer("short")
	assert.Error(t, err)
}
