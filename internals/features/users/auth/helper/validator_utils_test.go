package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("a1"))
	assert.Error(t, ValidatePassword("abcdefgh"))
	assert.Error(t, ValidatePassword("12345678"))
	assert.NoError(t, ValidatePassword("yoga2025"))
}

func TestHashAndCheck(t *testing.T) {
	hash, err := HashPassword("namaste1")
	require.NoError(t, err)
	assert.NotEqual(t, "namaste1", hash)
	assert.NoError(t, CheckPasswordHash(hash, "namaste1"))
	assert.Error(t, CheckPasswordHash(hash, "namaste2"))
}

func TestEmailHelpers(t *testing.T) {
	assert.True(t, IsValidEmail("ana@yoga.test"))
	assert.False(t, IsValidEmail("ana@yoga"))
	assert.Equal(t, "ana@yoga.test", NormalizeEmail("  Ana@Yoga.Test "))
}
