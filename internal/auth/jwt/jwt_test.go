package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testSecret = "a-sufficiently-long-secret-key-for-tests"

func TestNewServiceValidation(t *testing.T) {
	_, err := NewService(Config{SecretKey: "", Duration: time.Hour})
	assert.ErrorIs(t, err, ErrEmptySecretKey)

	_, err = NewService(Config{SecretKey: "short", Duration: time.Hour})
	assert.ErrorIs(t, err, ErrWeakSecretKey)

	_, err = NewService(Config{SecretKey: testSecret, Duration: 0})
	assert.ErrorIs(t, err, ErrInvalidDuration)

	svc, err := NewService(Config{SecretKey: testSecret, Duration: time.Hour})
	assert.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc, _ := NewService(Config{SecretKey: testSecret, Duration: time.Hour})

	token, err := svc.GenerateToken(42, "editor@lumina.dev", "contributor")
	assert.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "editor@lumina.dev", claims.Email)
	assert.Equal(t, "contributor", claims.Role)
}

func TestValidateTokenFailures(t *testing.T) {
	svc, _ := NewService(Config{SecretKey: testSecret, Duration: time.Hour})

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, _ := NewService(Config{SecretKey: "another-sufficiently-long-secret-key!!", Duration: time.Hour})
	token, _ := other.GenerateToken(1, "x@lumina.dev", "user")
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpiredToken(t *testing.T) {
	svc, _ := NewService(Config{SecretKey: testSecret, Duration: time.Millisecond})

	token, _ := svc.GenerateToken(1, "x@lumina.dev", "user")
	time.Sleep(5 * time.Millisecond)

	_, err := svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
