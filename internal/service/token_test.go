package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func TestTokenManager_ParseAccess_Valid(t *testing.T) {
	secret := "test-secret-key-for-access-tokens"
	manager := NewTokenManager(secret)
	userID := uuid.New()

	signed := signToken(t, secret, jwt.MapClaims{
		"sub":  userID.String(),
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	parsedID, role, err := manager.ParseAccess(signed)

	assert.NoError(t, err)
	assert.Equal(t, userID, parsedID)
	assert.Equal(t, "admin", role)
}

func TestTokenManager_ParseAccess_WrongSecret(t *testing.T) {
	manager := NewTokenManager("correct-secret")
	signed := signToken(t, "other-secret", jwt.MapClaims{
		"sub": uuid.New().String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, _, err := manager.ParseAccess(signed)

	assert.Error(t, err)
}

func TestTokenManager_ParseAccess_Expired(t *testing.T) {
	secret := "test-secret-key-for-access-tokens"
	manager := NewTokenManager(secret)
	signed := signToken(t, secret, jwt.MapClaims{
		"sub": uuid.New().String(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, _, err := manager.ParseAccess(signed)

	assert.Error(t, err)
}

func TestTokenManager_ParseAccess_BadSubject(t *testing.T) {
	secret := "test-secret-key-for-access-tokens"
	manager := NewTokenManager(secret)
	signed := signToken(t, secret, jwt.MapClaims{
		"sub": "not-a-uuid",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, _, err := manager.ParseAccess(signed)

	assert.ErrorIs(t, err, jwt.ErrTokenInvalidClaims)
}

func TestTokenManager_ParseAccess_NoRoleClaim(t *testing.T) {
	secret := "test-secret-key-for-access-tokens"
	manager := NewTokenManager(secret)
	userID := uuid.New()
	signed := signToken(t, secret, jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	parsedID, role, err := manager.ParseAccess(signed)

	// Роль опциональна: без claim токен валиден, роль пустая
	assert.NoError(t, err)
	assert.Equal(t, userID, parsedID)
	assert.Equal(t, "", role)
}
