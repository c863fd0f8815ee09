package service

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenManager проверяет access токены, выпущенные внешним сервисом
// авторизации. Выпуск и refresh живут там же, здесь только верификация
// с общим секретом.
type TokenManager struct {
	accessSecret []byte
}

// NewTokenManager создаёт менеджер токенов.
func NewTokenManager(accessSecret string) *TokenManager {
	return &TokenManager{accessSecret: []byte(accessSecret)}
}

// ParseAccess извлекает userID и роль из access токена.
func (m *TokenManager) ParseAccess(token string) (uuid.UUID, string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", t.Header["alg"])
		}
		return m.accessSecret, nil
	})
	if err != nil {
		return uuid.Nil, "", err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return uuid.Nil, "", jwt.ErrTokenInvalidClaims
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, "", jwt.ErrTokenInvalidClaims
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, "", jwt.ErrTokenInvalidClaims
	}

	role, _ := claims["role"].(string)
	return userID, role, nil
}
