package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate("admin-1", "admin@pixelcraft.dev", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.AdminID)
	assert.Equal(t, "admin@pixelcraft.dev", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "admin-1", claims.Subject)
}

func TestJWTManager_Validate_WrongSecret(t *testing.T) {
	m := NewJWTManager("secret-a", time.Hour)
	other := NewJWTManager("secret-b", time.Hour)

	token, err := m.Generate("admin-1", "admin@pixelcraft.dev", "admin")
	require.NoError(t, err)

	claims, err := other.Validate(token)
	assert.Nil(t, claims)
	assert.Error(t, err)
}

func TestJWTManager_Validate_Expired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)

	token, err := m.Generate("admin-1", "admin@pixelcraft.dev", "admin")
	require.NoError(t, err)

	claims, err := m.Validate(token)
	assert.Nil(t, claims)
	assert.Error(t, err)
}

func TestJWTManager_Validate_Garbage(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	claims, err := m.Validate("not.a.token")
	assert.Nil(t, claims)
	assert.Error(t, err)
}
