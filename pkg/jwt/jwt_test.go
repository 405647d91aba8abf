package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", 60, 10080)

	token, err := m.GenerateAccessToken(42, "alice", "USER")
	assert.NoError(t, err)

	claims, err := m.VerifyToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "USER", claims.Role)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	m := NewManager("secret", 60, 10080)
	other := NewManager("different", 60, 10080)

	token, _ := m.GenerateAccessToken(1, "alice", "USER")
	_, err := other.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Expired(t *testing.T) {
	m := NewManager("secret", -1, 10080)

	token, _ := m.GenerateAccessToken(1, "alice", "USER")
	_, err := m.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyToken_Garbage(t *testing.T) {
	m := NewManager("secret", 60, 10080)
	_, err := m.VerifyToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", 60, 10080)

	token, err := m.GenerateRefreshToken(42)
	assert.NoError(t, err)

	userID, err := m.VerifyRefreshToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestTokenKindsNotInterchangeable(t *testing.T) {
	m := NewManager("secret", 60, 10080)

	access, _ := m.GenerateAccessToken(42, "alice", "USER")
	_, err := m.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	refresh, _ := m.GenerateRefreshToken(42)
	_, err = m.VerifyToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
